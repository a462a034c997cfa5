// Package rule implements the window rule model and the matcher that selects
// which rule applies to a newly created window.
//
// A [RuleSet] is an ordered list of [Rule]s. Each rule holds one or more
// [Criterion] values, pairing a window attribute ([Kind]) with a regular
// expression. A rule matches when all of its criteria match, and the first
// matching rule in declaration order wins.
//
// Patterns use prefix-anchored partial matching: a pattern must match at the
// start of the attribute value, but does not need to consume all of it. So
// "foo" matches "foobar", and "^Firefox$" matches only "Firefox".
package rule
