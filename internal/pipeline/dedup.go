package pipeline

import (
	"strings"

	"github.com/sells-group/agri-advisor/internal/model"
)

// DeduplicateSolutions drops solutions whose core mechanism shares at
// least maxOverlap words with a previously seen one. Survivors keep
// their original order; the output is never longer than the input.
// The check is lexical, not semantic.
func DeduplicateSolutions(solutions []model.Solution, maxOverlap int) []model.Solution {
	var unique []model.Solution
	var seen []map[string]bool

	for _, sol := range solutions {
		words := wordSet(sol.CoreMechanism)

		duplicate := false
		for _, existing := range seen {
			if sharedWords(words, existing) >= maxOverlap {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		seen = append(seen, words)
		unique = append(unique, sol)
	}
	return unique
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

func sharedWords(a, b map[string]bool) int {
	count := 0
	for w := range a {
		if b[w] {
			count++
		}
	}
	return count
}
