// Package gesture implements the rule table and the debounced
// dispatcher that turn finger-state observations into actions.
package gesture

import (
	"fmt"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Action identifies what a rule fires. Built-in actions are listed
// below; anything with the "plugin:" prefix is routed to a subprocess
// action plugin.
type Action string

const (
	ActionVolumeUp   Action = "volume-up"
	ActionVolumeDown Action = "volume-down"
	ActionScreenshot Action = "screenshot"
	ActionSpacePress Action = "space-press"
)

// pluginPrefix marks plugin-routed actions: "plugin:<name>/<action>".
const pluginPrefix = "plugin:"

// PluginRef splits a plugin action into plugin name and plugin action.
// ok is false for built-in actions and malformed references.
func (a Action) PluginRef() (name, action string, ok bool) {
	s, found := strings.CutPrefix(string(a), pluginPrefix)
	if !found {
		return "", "", false
	}
	name, action, found = strings.Cut(s, "/")
	if !found || name == "" || action == "" {
		return "", "", false
	}
	return name, action, true
}

// IsBuiltin reports whether the action is one of the built-in sinks.
func (a Action) IsBuiltin() bool {
	switch a {
	case ActionVolumeUp, ActionVolumeDown, ActionScreenshot, ActionSpacePress:
		return true
	}
	return false
}

// Valid reports whether the action is built-in or a well-formed plugin
// reference.
func (a Action) Valid() bool {
	if a.IsBuiltin() {
		return true
	}
	_, _, ok := a.PluginRef()
	return ok
}

// FingerPattern is a 5-element finger-extension vector, one entry per
// digit from thumb to little finger; true means extended.
type FingerPattern [detector.NumFingers]bool

// String renders the pattern as five '0'/'1' characters, thumb first.
func (p FingerPattern) String() string {
	var b strings.Builder
	for _, up := range p {
		if up {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParseFingerPattern parses a five-character '0'/'1' string.
func ParseFingerPattern(s string) (FingerPattern, error) {
	var p FingerPattern
	if len(s) != detector.NumFingers {
		return p, fmt.Errorf("pattern %q: want %d characters", s, detector.NumFingers)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			p[i] = true
		case '0':
		default:
			return p, fmt.Errorf("pattern %q: invalid character %q", s, s[i])
		}
	}
	return p, nil
}

// Rule binds one (handedness, finger pattern) pair to an action with a
// re-trigger cooldown. Rules are static configuration: defined at
// startup and immutable afterwards.
type Rule struct {
	ID         string
	Name       string
	Handedness detector.Handedness
	Pattern    FingerPattern
	Action     Action
	Cooldown   time.Duration
}

// Default cooldowns for the built-in rules.
const (
	VolumeCooldown     = 200 * time.Millisecond
	ScreenshotCooldown = 5 * time.Second
	SpaceCooldown      = time.Second
)

// VolumeStep is the scalar volume change per volume rule firing.
const VolumeStep = 0.01

// DefaultRules returns the built-in rule table: thumb-only and
// pinky-only on the right hand nudge the volume, a right-hand victory
// pose takes a screenshot, and an open left palm presses space.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:       "volume-up",
			Handedness: detector.HandRight,
			Pattern:    FingerPattern{true, false, false, false, false},
			Action:     ActionVolumeUp,
			Cooldown:   VolumeCooldown,
		},
		{
			Name:       "volume-down",
			Handedness: detector.HandRight,
			Pattern:    FingerPattern{false, false, false, false, true},
			Action:     ActionVolumeDown,
			Cooldown:   VolumeCooldown,
		},
		{
			Name:       "screenshot",
			Handedness: detector.HandRight,
			Pattern:    FingerPattern{false, true, true, false, false},
			Action:     ActionScreenshot,
			Cooldown:   ScreenshotCooldown,
		},
		{
			Name:       "space",
			Handedness: detector.HandLeft,
			Pattern:    FingerPattern{true, true, true, true, true},
			Action:     ActionSpacePress,
			Cooldown:   SpaceCooldown,
		},
	}
}

// ValidateRules rejects rule sets where two rules claim the same
// (handedness, pattern) pair. Overlap is a configuration error, never
// resolved by priority.
func ValidateRules(rules []Rule) error {
	type key struct {
		handedness detector.Handedness
		pattern    FingerPattern
	}

	seen := make(map[key]string, len(rules))
	for _, r := range rules {
		if r.Handedness != detector.HandLeft && r.Handedness != detector.HandRight {
			return fmt.Errorf("rule %q: invalid handedness %q", r.Name, r.Handedness)
		}
		if !r.Action.Valid() {
			return fmt.Errorf("rule %q: invalid action %q", r.Name, r.Action)
		}
		if r.Cooldown <= 0 {
			return fmt.Errorf("rule %q: cooldown must be positive", r.Name)
		}

		k := key{r.Handedness, r.Pattern}
		if other, dup := seen[k]; dup {
			return fmt.Errorf("rules %q and %q overlap on %s hand pattern %s",
				other, r.Name, r.Handedness, r.Pattern)
		}
		seen[k] = r.Name
	}
	return nil
}
