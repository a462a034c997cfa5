package config

import (
	"errors"

	goccyyaml "github.com/goccy/go-yaml"

	"github.com/macropower/i3-event-handler/pkg/rule"
	"github.com/macropower/i3-event-handler/pkg/yaml"
)

// ErrConfig wraps every error returned by [LoadFile].
var ErrConfig = errors.New("configuration error")

var (
	ErrNotArray          = errors.New("top-level value is not an array")
	ErrRuleNotObject     = errors.New("rule is not an object")
	ErrMatchesMissing    = errors.New("_matches not found")
	ErrMatchesNotArray   = errors.New("_matches is not an array")
	ErrMatchesEmpty      = errors.New("_matches is empty")
	ErrCriterionNotArray = errors.New("criterion is not an array")
	ErrCriterionLength   = errors.New("criterion must contain two items")
	ErrPatternNotString  = errors.New("pattern is not a string")
	ErrMarkNotString     = errors.New("mark is not a string")
	ErrMarkEmpty         = errors.New("mark is empty")
	ErrActionsNotArray   = errors.New("on_new is not an array")
	ErrActionNotString   = errors.New("action is not a string")

	// Shared with package rule, so either can be used with [errors.Is].
	ErrUnknownKind    = rule.ErrUnknownKind
	ErrPatternEmpty   = rule.ErrEmptyPattern
	ErrPatternInvalid = rule.ErrInvalidPattern
	ErrActionEmpty    = rule.ErrEmptyAction
)

// ValidationError describes the first violation found in a configuration
// document.
type ValidationError struct {
	Err  error
	Path *goccyyaml.Path
	// Source is the raw document, used to annotate the error location.
	Source []byte
	// Rule is the index of the offending rule, or -1.
	Rule int
	// Criterion is the index of the offending criterion within the rule, or -1.
	Criterion int
}

func (e *ValidationError) Error() string {
	return yaml.Error{
		Err:    e.Err,
		Path:   e.Path,
		Source: e.Source,
	}.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Location returns the jq-style location of the violation, e.g.
// "$[0]._matches[1][0]".
func (e *ValidationError) Location() string {
	if e.Path == nil {
		return "$"
	}

	return e.Path.String()
}

// location builds a path from integer indexes and string keys.
func location(segments ...any) *goccyyaml.Path {
	b := yaml.NewPathBuilder().Root()
	for _, s := range segments {
		switch v := s.(type) {
		case int:
			b = b.Index(uint(v)) //nolint:gosec // G115: indexes are never negative.
		case string:
			b = b.Child(v)
		}
	}

	return b.Build()
}
