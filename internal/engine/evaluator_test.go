package engine

import (
	"math"
	"testing"
)

func TestEvaluateExactAndCaseInsensitive(t *testing.T) {
	tests := []struct {
		name      string
		submitted string
		reference string
		correct   bool
		partial   bool
	}{
		{"exact match", "photosynthesis", "photosynthesis", true, false},
		{"case variant", "PhotoSynthesis", "photosynthesis", true, false},
		{"surrounding whitespace", "  photosynthesis  ", "photosynthesis", true, false},
		{"completely wrong", "mitosis", "photosynthesis", false, false},
		{"empty submission", "", "photosynthesis", false, false},
		{"both empty", "", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(tt.submitted, tt.reference)
			if v.Correct != tt.correct {
				t.Errorf("Correct = %v, want %v", v.Correct, tt.correct)
			}
			if v.Partial != tt.partial {
				t.Errorf("Partial = %v, want %v", v.Partial, tt.partial)
			}
		})
	}
}

func TestEvaluatePartialOverlap(t *testing.T) {
	// 4 words shared of 5 total: similarity 0.8, partial but not correct.
	v := Evaluate("energy from the sun", "energy comes from the sun")
	if v.Correct {
		t.Error("expected overlap answer not to be fully correct")
	}

	v = Evaluate("the cell converts light to energy", "the cell converts light into energy")
	if v.Similarity <= 0.6 {
		t.Errorf("Similarity = %v, want > 0.6", v.Similarity)
	}

	// High overlap should land in partial territory.
	v = Evaluate("plants convert light energy into chemical energy stored", "plants convert light energy into chemical energy")
	if !v.Partial && !v.Correct {
		t.Errorf("expected partial credit, got %+v", v)
	}
}

func TestEvaluateWordOrderInsensitive(t *testing.T) {
	// Same word set in a different order is a perfect overlap.
	v := Evaluate("the capital of France is Paris", "Paris is the capital of France")
	if !v.Correct {
		t.Errorf("reordered sentence not graded correct: %+v", v)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := "the powerhouse of the cell"
	b := "mitochondria powerhouse cell"
	if d := math.Abs(Similarity(a, b) - Similarity(b, a)); d > 1e-9 {
		t.Errorf("similarity not symmetric, diff %v", d)
	}
}

func TestSimilarityEmpty(t *testing.T) {
	if s := Similarity("", "anything"); s != 0 {
		t.Errorf("Similarity with empty input = %v, want 0", s)
	}
	if s := Similarity("", ""); s != 0 {
		t.Errorf("Similarity of two empties = %v, want 0", s)
	}
}
