package acl

import "regexp"

// RuleSet is a set of host-matching regular expressions.
//
// Grounded on original_source/src/acl/rule_set.rs. The regex engine
// choice is open per spec ("any engine with reasonable POSIX ERE
// semantics suffices"); regexp/syntax's anchored-alternation idioms are
// the same shape the original exercises ((^|\.)example\.com$), so the
// standard library's RE2-based regexp serves without pulling in a
// third-party regex engine.
type RuleSet struct {
	rules []*regexp.Regexp
}

// NewRuleSet returns an empty rule set.
func NewRuleSet() *RuleSet {
	return &RuleSet{}
}

// Insert adds a compiled rule to the set.
func (s *RuleSet) Insert(r *regexp.Regexp) {
	s.rules = append(s.rules, r)
}

// Contains reports whether any rule in the set matches data.
func (s *RuleSet) Contains(data string) bool {
	for _, r := range s.rules {
		if r.MatchString(data) {
			return true
		}
	}
	return false
}
