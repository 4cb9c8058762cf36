package gesture

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

// VolumeSink controls the system audio endpoint.
type VolumeSink interface {
	Volume() (float64, error)
	SetVolume(scalar float64) error
}

// KeySink emits single keystrokes.
type KeySink interface {
	Press(key string) error
}

// ScreenshotSink persists the current frame to durable storage.
type ScreenshotSink interface {
	Save(frame *gocv.Mat) (string, error)
}

// PluginSink executes subprocess action plugins.
type PluginSink interface {
	Run(name, action, rule string) error
}

// Sinks bundles the side-effect collaborators the dispatcher fires into.
// Plugins may be nil when no plugin-routed rules exist.
type Sinks struct {
	Volume      VolumeSink
	Keys        KeySink
	Screenshots ScreenshotSink
	Plugins     PluginSink
}

// Annotation is an overlay directive returned from a fired dispatch:
// text to render, a suggested origin and a color.
type Annotation struct {
	Text  string
	Org   image.Point
	Color color.RGBA
}

// Result reports the outcome of dispatching one hand observation.
// The zero value means no rule matched.
type Result struct {
	Rule       *Rule
	Fired      bool
	Suppressed bool
	Annotation *Annotation
}

// ruleKey addresses a rule by what the detector observes.
type ruleKey struct {
	handedness detector.Handedness
	pattern    FingerPattern
}

// Dispatcher matches finger-state observations against the rule table
// and fires actions, gated by per-action cooldown timers. Cooldown
// state lives for the dispatcher's lifetime and resets only with the
// process.
type Dispatcher struct {
	rules     []Rule
	byKey     map[ruleKey]*Rule
	sinks     Sinks
	lastFired map[Action]time.Time
	volume    float64
	mu        sync.Mutex

	// OnFire, when set, is called after every successful firing.
	OnFire func(Rule)
}

// NewDispatcher validates the rule table and creates a Dispatcher.
// initialVolume seeds the cached volume scalar used for relative
// adjustments; it is clamped to [0.0, 1.0].
func NewDispatcher(rules []Rule, sinks Sinks, initialVolume float64) (*Dispatcher, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	d := &Dispatcher{
		rules:     rules,
		byKey:     make(map[ruleKey]*Rule, len(rules)),
		sinks:     sinks,
		lastFired: make(map[Action]time.Time, len(rules)),
		volume:    clamp(initialVolume),
	}
	for i := range d.rules {
		r := &d.rules[i]
		d.byKey[ruleKey{r.Handedness, r.Pattern}] = r
	}
	return d, nil
}

// Rules returns a copy of the rule table.
func (d *Dispatcher) Rules() []Rule {
	out := make([]Rule, len(d.rules))
	copy(out, d.rules)
	return out
}

// Volume returns the cached volume scalar.
func (d *Dispatcher) Volume() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.volume
}

// Dispatch decides at most one action for the observation and executes
// the cooldown-gated side effect. frame is the current video frame,
// consumed only by the screenshot sink. now must be monotonically
// non-decreasing across calls within one session.
//
// Hands in the same frame are dispatched independently; there is no
// cross-hand exclusion. Sink failures are logged and do not propagate:
// one failed volume change must not stop the stream. The cooldown stamp
// advances even on a failed sink call so a broken sink is not retried
// every frame.
func (d *Dispatcher) Dispatch(frame *gocv.Mat, obs detector.Observation, now time.Time) Result {
	d.mu.Lock()

	rule, ok := d.byKey[ruleKey{obs.Handedness, obs.Fingers}]
	if !ok {
		d.mu.Unlock()
		return Result{}
	}

	if last, fired := d.lastFired[rule.Action]; fired && now.Sub(last) <= rule.Cooldown {
		d.mu.Unlock()
		return Result{Rule: rule, Suppressed: true}
	}

	annotation := d.execute(rule, frame)
	d.lastFired[rule.Action] = now

	onFire := d.OnFire
	d.mu.Unlock()

	if onFire != nil {
		onFire(*rule)
	}

	return Result{Rule: rule, Fired: true, Annotation: annotation}
}

// execute performs the rule's side effect and builds its overlay
// directive. Called with the dispatcher lock held.
func (d *Dispatcher) execute(rule *Rule, frame *gocv.Mat) *Annotation {
	org := image.Pt(10, 60)
	green := color.RGBA{G: 255, A: 255}

	switch rule.Action {
	case ActionVolumeUp, ActionVolumeDown:
		step := VolumeStep
		if rule.Action == ActionVolumeDown {
			step = -VolumeStep
		}
		d.volume = clamp(d.volume + step)
		if err := d.sinks.Volume.SetVolume(d.volume); err != nil {
			log.Printf("Set volume failed: %v", err)
		}
		return &Annotation{
			Text:  fmt.Sprintf("Volume: %d%%", int(math.Round(d.volume*100))),
			Org:   org,
			Color: green,
		}

	case ActionScreenshot:
		path, err := d.sinks.Screenshots.Save(frame)
		if err != nil {
			log.Printf("Screenshot failed: %v", err)
		} else {
			log.Printf("Screenshot taken: %s", path)
		}
		return &Annotation{Text: "Screenshot Taken!", Org: org, Color: green}

	case ActionSpacePress:
		if err := d.sinks.Keys.Press("space"); err != nil {
			log.Printf("Key press failed: %v", err)
		}
		return &Annotation{
			Text:  "Space Pressed!",
			Org:   org,
			Color: color.RGBA{R: 255, A: 255},
		}

	default:
		name, pluginAction, ok := rule.Action.PluginRef()
		if !ok || d.sinks.Plugins == nil {
			log.Printf("Rule %q: no sink for action %q", rule.Name, rule.Action)
			return nil
		}
		if err := d.sinks.Plugins.Run(name, pluginAction, rule.Name); err != nil {
			log.Printf("Plugin action failed: %v", err)
		}
		return &Annotation{
			Text:  rule.Name + "!",
			Org:   org,
			Color: color.RGBA{R: 255, B: 255, A: 255},
		}
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
