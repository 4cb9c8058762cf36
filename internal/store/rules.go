package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Rule represents a gesture rule row. Pattern is the five-character
// finger vector string, thumb first ("10000").
type Rule struct {
	ID         string
	Name       string
	Handedness string
	Pattern    string
	Action     string
	CooldownMS int64
	CreatedAt  time.Time
}

// ToGesture converts a stored row into a dispatchable rule.
func (r *Rule) ToGesture() (gesture.Rule, error) {
	pattern, err := gesture.ParseFingerPattern(r.Pattern)
	if err != nil {
		return gesture.Rule{}, err
	}

	return gesture.Rule{
		ID:         r.ID,
		Name:       r.Name,
		Handedness: detector.Handedness(r.Handedness),
		Pattern:    pattern,
		Action:     gesture.Action(r.Action),
		Cooldown:   time.Duration(r.CooldownMS) * time.Millisecond,
	}, nil
}

// FromGesture converts a dispatchable rule into its stored form.
func FromGesture(g gesture.Rule) *Rule {
	return &Rule{
		ID:         g.ID,
		Name:       g.Name,
		Handedness: string(g.Handedness),
		Pattern:    g.Pattern.String(),
		Action:     string(g.Action),
		CooldownMS: g.Cooldown.Milliseconds(),
	}
}

// RuleRepository provides CRUD operations for rules.
type RuleRepository struct {
	db *sql.DB
}

// Rules returns the rule repository for this store.
func (s *Store) Rules() *RuleRepository {
	return &RuleRepository{db: s.db}
}

// Create inserts a new rule into the database.
func (r *RuleRepository) Create(rule *Rule) error {
	rule.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO rules (id, name, handedness, pattern, action, cooldown_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rule.ID, rule.Name, rule.Handedness, rule.Pattern, rule.Action, rule.CooldownMS, rule.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a rule by its ID.
func (r *RuleRepository) GetByID(id string) (*Rule, error) {
	rule := &Rule{}

	err := r.db.QueryRow(
		`SELECT id, name, handedness, pattern, action, cooldown_ms, created_at
		 FROM rules WHERE id = ?`,
		id,
	).Scan(&rule.ID, &rule.Name, &rule.Handedness, &rule.Pattern, &rule.Action, &rule.CooldownMS, &rule.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return rule, nil
}

// List retrieves all rules ordered by creation time.
func (r *RuleRepository) List() ([]*Rule, error) {
	rows, err := r.db.Query(
		`SELECT id, name, handedness, pattern, action, cooldown_ms, created_at
		 FROM rules ORDER BY created_at, name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*Rule
	for rows.Next() {
		rule := &Rule{}
		err := rows.Scan(&rule.ID, &rule.Name, &rule.Handedness, &rule.Pattern, &rule.Action, &rule.CooldownMS, &rule.CreatedAt)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

// Delete removes a rule from the database by its ID.
func (r *RuleRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of stored rules.
func (r *RuleRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM rules`).Scan(&count)
	return count, err
}

// EnsureDefaults seeds the built-in rule set when the table is empty,
// so a fresh installation starts with a working binding table.
func (r *RuleRepository) EnsureDefaults() error {
	count, err := r.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, g := range gesture.DefaultRules() {
		rule := FromGesture(g)
		rule.ID = uuid.New().String()
		if err := r.Create(rule); err != nil {
			return err
		}
	}

	return nil
}

// ListGestures loads every stored rule as a dispatchable rule set.
func (r *RuleRepository) ListGestures() ([]gesture.Rule, error) {
	rows, err := r.List()
	if err != nil {
		return nil, err
	}

	rules := make([]gesture.Rule, 0, len(rows))
	for _, row := range rows {
		g, err := row.ToGesture()
		if err != nil {
			return nil, err
		}
		rules = append(rules, g)
	}

	return rules, nil
}
