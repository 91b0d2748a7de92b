package engine

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// SimilarCategory returns the existing category name closest to name, if
// any is within a few edits of it. Case-insensitive exact matches win
// outright. It guards against creating "Transprot" next to "Transport".
func SimilarCategory(name string, existing []string) (string, bool) {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return "", false
	}

	best := ""
	bestDistance := -1
	for _, candidate := range existing {
		c := strings.ToLower(strings.TrimSpace(candidate))
		if c == target {
			return candidate, true
		}

		d := levenshtein.ComputeDistance(target, c)
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = candidate, d
		}
	}

	if bestDistance < 0 || bestDistance > maxEdits(target) {
		return "", false
	}
	return best, true
}

func maxEdits(s string) int {
	n := len([]rune(s)) / 4
	if n < 1 {
		return 1
	}
	if n > 3 {
		return 3
	}
	return n
}
