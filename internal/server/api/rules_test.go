package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/store"
)

func newTestHandler(t *testing.T) (*RuleHandler, *store.Store) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if err := st.Rules().EnsureDefaults(); err != nil {
		t.Fatalf("failed to seed rules: %v", err)
	}

	return NewRuleHandler(st), st
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRuleHandler_List(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/api/rules", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listRulesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Rules) != 4 {
		t.Fatalf("expected 4 seeded rules, got %d", len(response.Rules))
	}

	for _, rule := range response.Rules {
		if len(rule.Pattern) != 5 {
			t.Errorf("rule %s: pattern %q is not five characters", rule.Name, rule.Pattern)
		}
		if rule.ID == "" {
			t.Errorf("rule %s: missing id", rule.Name)
		}
	}
}

func TestRuleHandler_Create(t *testing.T) {
	h, st := newTestHandler(t)

	t.Run("creates a valid rule", func(t *testing.T) {
		body := `{"name":"play-pause","handedness":"Left","pattern":"01000","action":"plugin:media-control/play-pause","cooldown_ms":1500}`
		rec := doJSON(t, h, http.MethodPost, "/api/rules", body)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
		}

		var created ruleResponse
		if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if created.ID == "" {
			t.Error("expected generated rule id")
		}

		stored, err := st.Rules().GetByID(created.ID)
		if err != nil {
			t.Fatalf("created rule not in store: %v", err)
		}
		if stored.Pattern != "01000" || stored.CooldownMS != 1500 {
			t.Errorf("stored rule = %+v", stored)
		}
	})

	t.Run("rejects overlapping pattern", func(t *testing.T) {
		// Right 10000 is already bound to volume-up by the seed.
		body := `{"name":"clash","handedness":"Right","pattern":"10000","action":"screenshot","cooldown_ms":5000}`
		rec := doJSON(t, h, http.MethodPost, "/api/rules", body)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("rejects malformed pattern", func(t *testing.T) {
		body := `{"name":"bad","handedness":"Right","pattern":"10","action":"screenshot","cooldown_ms":5000}`
		rec := doJSON(t, h, http.MethodPost, "/api/rules", body)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		body := `{"name":"bad-action","handedness":"Right","pattern":"00110","action":"launch-missiles","cooldown_ms":1000}`
		rec := doJSON(t, h, http.MethodPost, "/api/rules", body)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("rejects missing name", func(t *testing.T) {
		body := `{"handedness":"Right","pattern":"00110","action":"screenshot","cooldown_ms":1000}`
		rec := doJSON(t, h, http.MethodPost, "/api/rules", body)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/rules", "{not json")

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestRuleHandler_GetAndDelete(t *testing.T) {
	h, st := newTestHandler(t)

	rules, err := st.Rules().List()
	if err != nil || len(rules) == 0 {
		t.Fatalf("failed to list seeded rules: %v", err)
	}
	id := rules[0].ID

	t.Run("get by id", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/rules/"+id, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var rule ruleResponse
		if err := json.NewDecoder(rec.Body).Decode(&rule); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if rule.ID != id {
			t.Errorf("expected id %s, got %s", id, rule.ID)
		}
	})

	t.Run("delete removes the rule", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodDelete, "/api/rules/"+id, "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
		}

		rec = doJSON(t, h, http.MethodGet, "/api/rules/"+id, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d after delete, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("delete missing rule returns 404", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodDelete, "/api/rules/missing", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("unsupported method on item", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPut, "/api/rules/"+id, "{}")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}
