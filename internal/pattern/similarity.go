package pattern

import (
	"strings"
)

// Similarity tier multipliers.
const (
	SubstringFactor   = 0.7
	FuzzyFactor       = 0.5
	FuzzyThreshold    = 0.8
	minFuzzyRuneCount = 3
)

// Score rates how well a transaction keyword matches a learned pattern
// keyword of the given weight. The first satisfied tier wins: exact match,
// substring in either direction, then bigram similarity above FuzzyThreshold.
func Score(keyword, patternKeyword string, weight float64) float64 {
	a := normalize(keyword)
	b := normalize(patternKeyword)
	if a == "" || b == "" {
		return 0
	}

	if a == b {
		return weight
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return weight * SubstringFactor
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) < minFuzzyRuneCount || len(rb) < minFuzzyRuneCount {
		return 0
	}

	if sim := bigramJaccard(ra, rb); sim > FuzzyThreshold {
		return weight * sim * FuzzyFactor
	}

	return 0
}

// MatchScore is the best Score of any transaction keyword against the pattern.
func MatchScore(keywords []string, patternKeyword string, weight float64) float64 {
	var best float64
	for _, kw := range keywords {
		if s := Score(kw, patternKeyword, weight); s > best {
			best = s
		}
	}
	return best
}

// BigramSimilarity returns the Jaccard index of the two strings' sets of
// adjacent rune pairs.
func BigramSimilarity(a, b string) float64 {
	return bigramJaccard([]rune(normalize(a)), []rune(normalize(b)))
}

func bigramJaccard(a, b []rune) float64 {
	if string(a) == string(b) {
		return 1
	}

	setA := bigrams(a)
	setB := bigrams(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for bg := range setA {
		if _, ok := setB[bg]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

func bigrams(r []rune) map[[2]rune]struct{} {
	set := make(map[[2]rune]struct{}, len(r))
	for i := 0; i+1 < len(r); i++ {
		set[[2]rune{r[i], r[i+1]}] = struct{}{}
	}
	return set
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
