package content

import (
	"strings"
	"testing"
)

func TestExtractSinglePage(t *testing.T) {
	e := NewTextExtractor()
	text := strings.Repeat("Photosynthesis converts light into chemical energy. ", 3)

	ex, err := e.Extract([]byte(text), "notes.txt")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ex.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", ex.TotalPages)
	}
	if ex.Quality != QualityGood {
		t.Errorf("Quality = %s, want %s", ex.Quality, QualityGood)
	}
	if ex.EstimatedTimeMinutes != 2 {
		t.Errorf("EstimatedTimeMinutes = %d, want 2", ex.EstimatedTimeMinutes)
	}
	if ex.Method != "plain_text" {
		t.Errorf("Method = %s", ex.Method)
	}
}

func TestExtractMultiPageQuality(t *testing.T) {
	e := NewTextExtractor()
	long := strings.Repeat("Plenty of real content on this page to pass the bar. ", 2)

	tests := []struct {
		name    string
		pages   []string
		quality string
	}{
		{"all substantial", []string{long, long, long}, QualityGood},
		{"half substantial", []string{long, "tiny", long, "x"}, QualityFair},
		{"mostly empty", []string{"a", "b", long, "c", "d"}, QualityPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := e.Extract([]byte(strings.Join(tt.pages, "\f")), "doc.txt")
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if ex.TotalPages != len(tt.pages) {
				t.Errorf("TotalPages = %d, want %d", ex.TotalPages, len(tt.pages))
			}
			if ex.Quality != tt.quality {
				t.Errorf("Quality = %s, want %s", ex.Quality, tt.quality)
			}
		})
	}
}

func TestExtractEmptyInput(t *testing.T) {
	e := NewTextExtractor()
	if _, err := e.Extract([]byte("   \n  "), "empty.txt"); err == nil {
		t.Error("expected error for blank input")
	}
}
