package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
)

func testRule(name string) *Rule {
	return &Rule{
		ID:         uuid.New().String(),
		Name:       name,
		Handedness: "Right",
		Pattern:    "01010",
		Action:     string(gesture.ActionScreenshot),
		CooldownMS: 5000,
	}
}

func TestRuleRepository_CRUD(t *testing.T) {
	s := newTestStore(t)
	repo := s.Rules()

	t.Run("create and get by id", func(t *testing.T) {
		rule := testRule("test-rule")
		if err := repo.Create(rule); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := repo.GetByID(rule.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}

		if got.Name != rule.Name || got.Handedness != rule.Handedness ||
			got.Pattern != rule.Pattern || got.Action != rule.Action ||
			got.CooldownMS != rule.CooldownMS {
			t.Errorf("GetByID() = %+v, want %+v", got, rule)
		}
	})

	t.Run("get missing id returns ErrNotFound", func(t *testing.T) {
		if _, err := repo.GetByID("missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		dup := testRule("test-rule")
		if err := repo.Create(dup); err == nil {
			t.Error("expected unique constraint violation for duplicate name")
		}
	})

	t.Run("delete", func(t *testing.T) {
		rule := testRule("to-delete")
		if err := repo.Create(rule); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if err := repo.Delete(rule.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := repo.Delete(rule.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("invalid handedness rejected by schema", func(t *testing.T) {
		rule := testRule("bad-hand")
		rule.Handedness = "Upside"
		if err := repo.Create(rule); err == nil {
			t.Error("expected CHECK constraint violation for handedness")
		}
	})
}

func TestRuleRepository_EnsureDefaults(t *testing.T) {
	s := newTestStore(t)
	repo := s.Rules()

	if err := repo.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults() error = %v", err)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if want := len(gesture.DefaultRules()); count != want {
		t.Errorf("seeded %d rules, want %d", count, want)
	}

	// A second call must not duplicate the seed.
	if err := repo.EnsureDefaults(); err != nil {
		t.Fatalf("second EnsureDefaults() error = %v", err)
	}
	count, _ = repo.Count()
	if want := len(gesture.DefaultRules()); count != want {
		t.Errorf("after reseed: %d rules, want %d", count, want)
	}
}

func TestRuleRepository_ListGestures(t *testing.T) {
	s := newTestStore(t)
	repo := s.Rules()

	if err := repo.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults() error = %v", err)
	}

	rules, err := repo.ListGestures()
	if err != nil {
		t.Fatalf("ListGestures() error = %v", err)
	}

	// The loaded set must be dispatchable as-is.
	if err := gesture.ValidateRules(rules); err != nil {
		t.Errorf("seeded rules invalid: %v", err)
	}

	byName := make(map[string]gesture.Rule, len(rules))
	for _, r := range rules {
		byName[r.Name] = r
	}

	vu, ok := byName["volume-up"]
	if !ok {
		t.Fatal("volume-up rule missing from seed")
	}
	if vu.Handedness != "Right" || vu.Pattern.String() != "10000" {
		t.Errorf("volume-up = %s/%s, want Right/10000", vu.Handedness, vu.Pattern)
	}
	if vu.Cooldown != 200*time.Millisecond {
		t.Errorf("volume-up cooldown = %v, want 200ms", vu.Cooldown)
	}
}

func TestRule_GestureRoundTrip(t *testing.T) {
	g := gesture.Rule{
		ID:         "abc",
		Name:       "play-pause",
		Handedness: "Left",
		Pattern:    gesture.FingerPattern{false, true, false, false, false},
		Action:     "plugin:media-control/play-pause",
		Cooldown:   1500 * time.Millisecond,
	}

	back, err := FromGesture(g).ToGesture()
	if err != nil {
		t.Fatalf("ToGesture() error = %v", err)
	}
	if back != g {
		t.Errorf("round trip = %+v, want %+v", back, g)
	}
}

func TestRule_ToGestureInvalidPattern(t *testing.T) {
	rule := testRule("bad-pattern")
	rule.Pattern = "10x00"

	if _, err := rule.ToGesture(); err == nil {
		t.Error("expected error for malformed pattern string")
	}
}
