package rule

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrNoCriteria is returned when a rule has no criteria.
	ErrNoCriteria = errors.New("rule has no criteria")
	// ErrEmptyAction is returned when a rule has an empty action.
	ErrEmptyAction = errors.New("action is empty")
)

// Rule maps a set of criteria to a label and a list of actions.
// A Rule is immutable once created.
type Rule struct {
	label    string
	criteria []Criterion
	actions  []string
}

// New creates a new [Rule].
func New(criteria []Criterion, label string, actions ...string) (*Rule, error) {
	if len(criteria) == 0 {
		return nil, ErrNoCriteria
	}

	for i, c := range criteria {
		if c.re == nil {
			return nil, fmt.Errorf("criterion %d: %s: pattern not compiled", i, c)
		}
	}

	for i, a := range actions {
		if a == "" {
			return nil, fmt.Errorf("action %d: %w", i, ErrEmptyAction)
		}
	}

	return &Rule{
		criteria: slices.Clone(criteria),
		label:    label,
		actions:  slices.Clone(actions),
	}, nil
}

// MustNew creates a new [Rule] and panics if there's an error.
func MustNew(criteria []Criterion, label string, actions ...string) *Rule {
	r, err := New(criteria, label, actions...)
	if err != nil {
		panic(err)
	}

	return r
}

// Label returns the exclusive mark given to a matching window. It is empty
// when the rule does not label windows.
func (r *Rule) Label() string {
	return r.label
}

// HasLabel reports whether the rule labels matching windows.
func (r *Rule) HasLabel() bool {
	return r.label != ""
}

// Criteria returns a copy of the criteria, all of which must match.
func (r *Rule) Criteria() []Criterion {
	return slices.Clone(r.criteria)
}

// Actions returns a copy of the commands sent, in order, for every matching
// window.
func (r *Rule) Actions() []string {
	return slices.Clone(r.actions)
}

// Match reports whether every criterion matches the snapshot.
func (r *Rule) Match(s Snapshot) bool {
	for _, c := range r.criteria {
		if !c.Match(s) {
			return false
		}
	}

	return len(r.criteria) > 0
}

func (r *Rule) String() string {
	parts := make([]string, 0, len(r.criteria))
	for _, c := range r.criteria {
		parts = append(parts, c.String())
	}

	s := strings.Join(parts, " ")
	if r.HasLabel() {
		s += fmt.Sprintf(" mark=%q", r.label)
	}

	return s
}
