package gesture

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

func TestDefaultRules_Disjoint(t *testing.T) {
	if err := ValidateRules(DefaultRules()); err != nil {
		t.Errorf("default rules should validate, got %v", err)
	}
}

func TestValidateRules_Overlap(t *testing.T) {
	rules := []Rule{
		{
			Name:       "first",
			Handedness: detector.HandRight,
			Pattern:    FingerPattern{true, false, false, false, false},
			Action:     ActionVolumeUp,
			Cooldown:   time.Second,
		},
		{
			Name:       "second",
			Handedness: detector.HandRight,
			Pattern:    FingerPattern{true, false, false, false, false},
			Action:     ActionScreenshot,
			Cooldown:   time.Second,
		},
	}

	if err := ValidateRules(rules); err == nil {
		t.Error("expected overlap error for duplicate (handedness, pattern)")
	}
}

func TestValidateRules_SamePatternDifferentHands(t *testing.T) {
	rules := []Rule{
		{
			Name:       "right-palm",
			Handedness: detector.HandRight,
			Pattern:    FingerPattern{true, true, true, true, true},
			Action:     ActionScreenshot,
			Cooldown:   time.Second,
		},
		{
			Name:       "left-palm",
			Handedness: detector.HandLeft,
			Pattern:    FingerPattern{true, true, true, true, true},
			Action:     ActionSpacePress,
			Cooldown:   time.Second,
		},
	}

	if err := ValidateRules(rules); err != nil {
		t.Errorf("same pattern on different hands should validate, got %v", err)
	}
}

func TestValidateRules_Invalid(t *testing.T) {
	t.Run("bad handedness", func(t *testing.T) {
		rules := []Rule{{Name: "r", Handedness: "Ambidextrous", Action: ActionVolumeUp, Cooldown: time.Second}}
		if err := ValidateRules(rules); err == nil {
			t.Error("expected error for invalid handedness")
		}
	})

	t.Run("bad action", func(t *testing.T) {
		rules := []Rule{{Name: "r", Handedness: detector.HandLeft, Action: "explode", Cooldown: time.Second}}
		if err := ValidateRules(rules); err == nil {
			t.Error("expected error for unknown action")
		}
	})

	t.Run("zero cooldown", func(t *testing.T) {
		rules := []Rule{{Name: "r", Handedness: detector.HandLeft, Action: ActionVolumeUp}}
		if err := ValidateRules(rules); err == nil {
			t.Error("expected error for zero cooldown")
		}
	})
}

func TestFingerPattern_RoundTrip(t *testing.T) {
	p := FingerPattern{true, false, true, false, true}
	if p.String() != "10101" {
		t.Errorf("String() = %q, want 10101", p.String())
	}

	parsed, err := ParseFingerPattern("10101")
	if err != nil {
		t.Fatalf("ParseFingerPattern error = %v", err)
	}
	if parsed != p {
		t.Errorf("parsed = %v, want %v", parsed, p)
	}
}

func TestParseFingerPattern_Invalid(t *testing.T) {
	for _, s := range []string{"", "1010", "101010", "1x101"} {
		if _, err := ParseFingerPattern(s); err == nil {
			t.Errorf("ParseFingerPattern(%q) should fail", s)
		}
	}
}

func TestAction_PluginRef(t *testing.T) {
	name, action, ok := Action("plugin:media-control/play-pause").PluginRef()
	if !ok || name != "media-control" || action != "play-pause" {
		t.Errorf("PluginRef = %q %q %v, want media-control play-pause true", name, action, ok)
	}

	for _, a := range []Action{ActionVolumeUp, "plugin:", "plugin:name", "plugin:/action"} {
		if _, _, ok := a.PluginRef(); ok {
			t.Errorf("PluginRef(%q) should not parse", a)
		}
	}
}
