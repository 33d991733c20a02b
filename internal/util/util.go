// Package util has small helpers for building text shown to players.
package util

import (
	"sort"
	"strings"
	"unicode"
)

// OrList joins items into a list like "a, b, or c". It returns "" if there are
// no items.
func OrList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		// more than two gets an oxford comma
		return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
	}
}

// ArticleFor returns "a" or "an" for the given string, capitalized the same as
// the string. Whether "an" is used is only decided by whether s starts with a
// vowel.
func ArticleFor(s string) string {
	sRunes := []rune(s)
	if len(sRunes) < 1 {
		return ""
	}

	leadingUpper := unicode.IsUpper(sRunes[0])
	allCaps := leadingUpper
	if leadingUpper && len(sRunes) > 1 {
		allCaps = unicode.IsUpper(sRunes[1])
	}

	art := "a"
	if leadingUpper {
		art = "A"
	}

	switch unicode.ToUpper(sRunes[0]) {
	case 'A', 'E', 'I', 'O', 'U':
		if allCaps {
			art += "N"
		} else {
			art += "n"
		}
	}

	return art
}

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
