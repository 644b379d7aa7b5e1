package simulator

import (
	"fmt"
	"strings"
)

// Predicate decides whether a match total counts as a success.
type Predicate string

const (
	PredicateEqual  Predicate = "eq" // total == target
	PredicateAtMost Predicate = "le" // total <= target
)

// ParsePredicate accepts "eq", "==", "le" or "<=".
func ParsePredicate(s string) (Predicate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eq", "==", "=", "":
		return PredicateEqual, nil
	case "le", "<=", "lte":
		return PredicateAtMost, nil
	default:
		return "", fmt.Errorf("unknown predicate %q (want eq or le)", s)
	}
}

// Match reports whether total satisfies the predicate against target.
func (p Predicate) Match(total, target int) bool {
	if p == PredicateAtMost {
		return total <= target
	}
	return total == target
}

// Describe explains the predicate in words, e.g. "equals 6".
func (p Predicate) Describe(target int) string {
	if p == PredicateAtMost {
		return fmt.Sprintf("is at most %d", target)
	}
	return fmt.Sprintf("equals %d", target)
}
