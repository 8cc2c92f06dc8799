package engine

import "strings"

// Similarity thresholds for fuzzy matching. Changing these changes
// mastery outcomes, so they are fixed.
const (
	correctThreshold = 0.9
	partialThreshold = 0.7
)

// Verdict is the outcome of comparing a submitted answer to the
// reference answer. Partial counts as incorrect for accuracy purposes
// but is flagged separately in the response record.
type Verdict struct {
	Correct    bool
	Partial    bool
	Similarity float64
}

// Evaluate compares a submitted answer against a reference answer.
// Exact match after normalization is correct; otherwise the Jaccard
// index of the whitespace-tokenized word sets decides. This is a plain
// bag-of-words measure with no synonym or semantic matching.
func Evaluate(submitted, reference string) Verdict {
	sub := normalize(submitted)
	ref := normalize(reference)

	if sub == ref {
		return Verdict{Correct: true, Similarity: 1}
	}

	sim := Similarity(sub, ref)
	switch {
	case sim > correctThreshold:
		return Verdict{Correct: true, Similarity: sim}
	case sim > partialThreshold:
		return Verdict{Partial: true, Similarity: sim}
	default:
		return Verdict{Similarity: sim}
	}
}

// Similarity is the Jaccard index of the two strings' word sets,
// symmetric in its arguments. Empty-set comparisons score 0.
func Similarity(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)

	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection

	return float64(intersection) / float64(union)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
