package rule

import "slices"

// RuleSet is an immutable, ordered collection of rules.
// The zero value and nil are valid empty rule sets that never match.
type RuleSet struct {
	rules []*Rule
}

// NewRuleSet creates a [RuleSet] with the given rules, in order.
func NewRuleSet(rules ...*Rule) *RuleSet {
	return &RuleSet{rules: slices.Clone(rules)}
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}

	return len(rs.rules)
}

// Rules returns a copy of the rule list.
func (rs *RuleSet) Rules() []*Rule {
	if rs == nil {
		return nil
	}

	return slices.Clone(rs.rules)
}

// Match returns the first rule whose criteria all match the snapshot, along
// with its index. Rules after the first match are not evaluated.
func (rs *RuleSet) Match(s Snapshot) (*Rule, int, bool) {
	if rs == nil {
		return nil, -1, false
	}

	for i, r := range rs.rules {
		if r.Match(s) {
			return r, i, true
		}
	}

	return nil, -1, false
}
