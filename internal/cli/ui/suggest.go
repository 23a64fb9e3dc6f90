package ui

import (
	"sort"
	"strings"
)

const (
	// DefaultMaxDistance is the largest edit distance still suggested
	DefaultMaxDistance = 2
	// DefaultMaxSuggestions is the default maximum number of suggestions to return
	DefaultMaxSuggestions = 3
)

// Suggest returns up to DefaultMaxSuggestions candidates close to target,
// closest first. Matching ignores case.
//
// Example:
//
//	Suggest("evnt", []string{"event", "article", "product"})
//	// Returns: ["event"]
func Suggest(target string, candidates []string) []string {
	type scored struct {
		value    string
		distance int
	}

	lower := strings.ToLower(target)
	var matches []scored
	for _, candidate := range candidates {
		if candidate == target {
			continue
		}
		if dist := LevenshteinDistance(lower, strings.ToLower(candidate)); dist <= DefaultMaxDistance {
			matches = append(matches, scored{value: candidate, distance: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	result := make([]string, 0, DefaultMaxSuggestions)
	for i := 0; i < len(matches) && i < DefaultMaxSuggestions; i++ {
		result = append(result, matches[i].value)
	}
	return result
}

// LevenshteinDistance returns the number of single byte edits needed to
// turn s1 into s2.
func LevenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
