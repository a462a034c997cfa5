package rule

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrEmptyPattern is returned when a criterion has an empty pattern.
	ErrEmptyPattern = errors.New("pattern is empty")
	// ErrInvalidPattern is returned when a pattern fails to compile.
	ErrInvalidPattern = errors.New("invalid regular expression")
)

// Criterion pairs a window attribute with a compiled pattern.
type Criterion struct {
	re *regexp.Regexp // Anchored at the start of the input.

	Pattern string
	Kind    Kind
}

// NewCriterion compiles pattern and returns a [Criterion] for the given kind.
func NewCriterion(kind Kind, pattern string) (Criterion, error) {
	if !kind.valid() {
		return Criterion{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if pattern == "" {
		return Criterion{}, ErrEmptyPattern
	}

	// Compile the pattern on its own first, so that the error reflects the
	// user's input and unbalanced groups cannot pair up with the anchor group.
	_, err := regexp.Compile(pattern)
	if err != nil {
		return Criterion{}, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	re, err := regexp.Compile(`\A(?:` + pattern + `)`)
	if err != nil {
		return Criterion{}, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	return Criterion{
		Kind:    kind,
		Pattern: pattern,
		re:      re,
	}, nil
}

// MustNewCriterion is like [NewCriterion] but panics on error.
func MustNewCriterion(kind Kind, pattern string) Criterion {
	c, err := NewCriterion(kind, pattern)
	if err != nil {
		panic(err)
	}

	return c
}

// Match reports whether the criterion's pattern matches the start of the
// snapshot field selected by its kind.
func (c Criterion) Match(s Snapshot) bool {
	if c.re == nil {
		panic(errors.New("criterion pattern not compiled"))
	}

	return c.re.MatchString(c.Kind.Value(s))
}

func (c Criterion) String() string {
	return fmt.Sprintf("%s=%q", c.Kind, c.Pattern)
}
