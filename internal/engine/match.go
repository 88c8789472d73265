package engine

import "strings"

// FindMatches returns every mapping whose name contains query, ignoring case.
// Results keep the order of mappings. No match yields an empty, non-nil slice.
func FindMatches(query string, mappings []Mapping) []Mapping {
	needle := strings.ToLower(query)
	matches := make([]Mapping, 0)
	for _, m := range mappings {
		if strings.Contains(strings.ToLower(m.Name), needle) {
			matches = append(matches, m)
		}
	}
	return matches
}
