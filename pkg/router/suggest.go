package router

import (
	"github.com/agnivade/levenshtein"
)

// minSimilarity is the similarity a candidate needs to be suggested.
const minSimilarity = 0.5

func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// closest returns the candidate most similar to s, or "" when none is close
// enough. Ties keep the earlier candidate.
func closest(s string, candidates []string) string {
	best, bestScore := "", minSimilarity
	for _, c := range candidates {
		if score := similarity(s, c); score >= bestScore && (best == "" || score > bestScore) {
			best, bestScore = c, score
		}
	}
	return best
}
