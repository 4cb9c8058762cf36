// Package api provides the HTTP handlers for the rule table.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// RuleHandler handles HTTP requests for gesture rule resources.
// Changes take effect after a restart; the running dispatcher keeps
// the rule set it was built with.
type RuleHandler struct {
	store *store.Store
}

// NewRuleHandler creates a new RuleHandler with the given store.
func NewRuleHandler(s *store.Store) *RuleHandler {
	return &RuleHandler{store: s}
}

// ServeHTTP routes collection and item requests.
// Expected paths: /api/rules or /api/rules/{id}
func (h *RuleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/rules")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createRuleRequest struct {
	Name       string `json:"name"`
	Handedness string `json:"handedness"`
	Pattern    string `json:"pattern"`
	Action     string `json:"action"`
	CooldownMS int64  `json:"cooldown_ms"`
}

type ruleResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Handedness string `json:"handedness"`
	Pattern    string `json:"pattern"`
	Action     string `json:"action"`
	CooldownMS int64  `json:"cooldown_ms"`
	CreatedAt  string `json:"created_at"`
}

type listRulesResponse struct {
	Rules []ruleResponse `json:"rules"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Rule to a ruleResponse.
func toResponse(r *store.Rule) ruleResponse {
	return ruleResponse{
		ID:         r.ID,
		Name:       r.Name,
		Handedness: r.Handedness,
		Pattern:    r.Pattern,
		Action:     r.Action,
		CooldownMS: r.CooldownMS,
		CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/rules and returns all rules.
func (h *RuleHandler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.store.Rules().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules")
		return
	}

	response := listRulesResponse{
		Rules: make([]ruleResponse, 0, len(rules)),
	}
	for _, rule := range rules {
		response.Rules = append(response.Rules, toResponse(rule))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/rules/{id} and returns a single rule.
func (h *RuleHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	rule, err := h.store.Rules().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Rule not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get rule")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(rule))
}

// create handles POST /api/rules and creates a new rule.
//
// The candidate is validated together with the existing rule set, so a
// (handedness, pattern) pair already bound by another rule is rejected
// before it reaches the database.
func (h *RuleHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	pattern, err := gesture.ParseFingerPattern(req.Pattern)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pattern: want five characters of 0 or 1")
		return
	}

	candidate := gesture.Rule{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Handedness: detector.Handedness(req.Handedness),
		Pattern:    pattern,
		Action:     gesture.Action(req.Action),
		Cooldown:   time.Duration(req.CooldownMS) * time.Millisecond,
	}

	existing, err := h.store.Rules().ListGestures()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rules")
		return
	}

	if err := gesture.ValidateRules(append(existing, candidate)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rule := store.FromGesture(candidate)
	if err := h.store.Rules().Create(rule); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create rule")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(rule))
}

// delete handles DELETE /api/rules/{id} and removes a rule.
func (h *RuleHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Rules().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Rule not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete rule")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
