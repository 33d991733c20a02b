package util

import (
	"sort"

	"golang.org/x/text/cases"
)

// FoldedSet is a set of strings where membership ignores case.
type FoldedSet map[string]bool

// NewFoldedSet creates a FoldedSet holding the given values.
func NewFoldedSet(values ...string) FoldedSet {
	s := FoldedSet{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s FoldedSet) key(value string) string {
	return cases.Fold().String(value)
}

// Has returns whether value, or any value differing from it only in case, has
// been added.
func (s FoldedSet) Has(value string) bool {
	return s[s.key(value)]
}

// Add adds value to the set.
func (s FoldedSet) Add(value string) {
	s[s.key(value)] = true
}

// Len returns the number of values in the set.
func (s FoldedSet) Len() int {
	return len(s)
}

// Elements returns the case-folded values in the set in sorted order.
func (s FoldedSet) Elements() []string {
	elems := make([]string, 0, len(s))
	for k := range s {
		elems = append(elems, k)
	}
	sort.Strings(elems)
	return elems
}
