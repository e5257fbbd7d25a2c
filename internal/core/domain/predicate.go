package domain

import "strings"

// PathPredicate reports whether a path belongs to some fixed class of locations.
type PathPredicate func(path string) bool

// PrefixPredicate matches paths starting with any of prefixes.
// Empty prefixes are ignored; with no prefixes left it matches nothing.
func PrefixPredicate(prefixes ...string) PathPredicate {
	kept := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return func(path string) bool {
		for _, p := range kept {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}
}
