package config

import (
	"fmt"

	"github.com/macropower/i3-event-handler/pkg/rule"
)

const (
	keyMatches = "_matches"
	keyMark    = "mark"
	keyOnNew   = "on_new"
)

// FromValue validates a decoded configuration document and converts it into
// a [rule.RuleSet]. Validation stops at the first violation, which is
// returned as a [*ValidationError].
func FromValue(v any) (*rule.RuleSet, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, &ValidationError{Err: ErrNotArray, Path: location(), Rule: -1, Criterion: -1}
	}

	rules := make([]*rule.Rule, 0, len(items))
	for i, item := range items {
		r, err := ruleFromValue(i, item)
		if err != nil {
			return nil, err
		}

		rules = append(rules, r)
	}

	return rule.NewRuleSet(rules...), nil
}

func ruleFromValue(n int, v any) (*rule.Rule, error) {
	fail := func(err error, segments ...any) error {
		return &ValidationError{
			Err:       err,
			Path:      location(append([]any{n}, segments...)...),
			Rule:      n,
			Criterion: -1,
		}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fail(ErrRuleNotObject)
	}

	rawMatches, ok := obj[keyMatches]
	if !ok {
		return nil, fail(ErrMatchesMissing)
	}

	matches, ok := rawMatches.([]any)
	if !ok {
		return nil, fail(ErrMatchesNotArray, keyMatches)
	}
	if len(matches) == 0 {
		return nil, fail(ErrMatchesEmpty, keyMatches)
	}

	criteria := make([]rule.Criterion, 0, len(matches))
	for i, m := range matches {
		c, item, err := criterionFromValue(m)
		if err != nil {
			path := location(n, keyMatches, i)
			if item >= 0 {
				path = location(n, keyMatches, i, item)
			}

			return nil, &ValidationError{
				Err:       err,
				Path:      path,
				Rule:      n,
				Criterion: i,
			}
		}

		criteria = append(criteria, c)
	}

	var label string
	if rawMark, ok := obj[keyMark]; ok {
		mark, ok := rawMark.(string)
		if !ok {
			return nil, fail(ErrMarkNotString, keyMark)
		}
		if mark == "" {
			return nil, fail(ErrMarkEmpty, keyMark)
		}

		label = mark
	}

	actions := []string{}
	if rawOnNew, ok := obj[keyOnNew]; ok {
		onNew, ok := rawOnNew.([]any)
		if !ok {
			return nil, fail(ErrActionsNotArray, keyOnNew)
		}

		for i, a := range onNew {
			action, ok := a.(string)
			if !ok {
				return nil, fail(ErrActionNotString, keyOnNew, i)
			}
			if action == "" {
				return nil, fail(ErrActionEmpty, keyOnNew, i)
			}

			actions = append(actions, action)
		}
	}

	r, err := rule.New(criteria, label, actions...)
	if err != nil {
		return nil, fail(err)
	}

	return r, nil
}

// criterionFromValue converts a [kind, pattern] pair. On failure it also
// returns the index of the offending item within the pair, or -1 when the
// pair itself is malformed.
func criterionFromValue(v any) (rule.Criterion, int, error) {
	pair, ok := v.([]any)
	if !ok {
		return rule.Criterion{}, -1, ErrCriterionNotArray
	}
	if len(pair) != 2 {
		return rule.Criterion{}, -1, ErrCriterionLength
	}

	kindName, ok := pair[0].(string)
	if !ok {
		return rule.Criterion{}, 0, fmt.Errorf("%w (%v): must be one of %q", ErrUnknownKind, pair[0], rule.AllKinds)
	}

	kind, err := rule.ParseKind(kindName)
	if err != nil {
		return rule.Criterion{}, 0, fmt.Errorf("%w: must be one of %q", err, rule.AllKinds)
	}

	pattern, ok := pair[1].(string)
	if !ok {
		return rule.Criterion{}, 1, ErrPatternNotString
	}

	c, err := rule.NewCriterion(kind, pattern)
	if err != nil {
		return rule.Criterion{}, 1, err
	}

	return c, -1, nil
}
