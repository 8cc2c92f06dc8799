package content

import (
	"strings"
	"testing"

	"mastery-service/internal/engine"
)

func TestExtractConceptsFromParagraphs(t *testing.T) {
	g := NewTemplateGenerator()
	text := "Osmosis is the movement of water across a semipermeable membrane.\n\n" +
		"Diffusion is the net movement of particles from high to low concentration.\n\n" +
		"Active transport moves particles against their concentration gradient."

	concepts := g.ExtractConcepts(text, "mat-1")
	if len(concepts) != 3 {
		t.Fatalf("got %d concepts, want 3", len(concepts))
	}
	for i, c := range concepts {
		if c.MaterialID != "mat-1" {
			t.Errorf("concept %d MaterialID = %s", i, c.MaterialID)
		}
		if c.ID == "" {
			t.Errorf("concept %d has empty ID", i)
		}
		if c.Complexity != i+1 {
			t.Errorf("concept %d Complexity = %d, want %d", i, c.Complexity, i+1)
		}
		if c.Definition == "" {
			t.Errorf("concept %d has empty definition", i)
		}
	}
}

func TestExtractConceptsFallsBackToSentences(t *testing.T) {
	g := NewTemplateGenerator()
	text := "Osmosis is the movement of water across a membrane. " +
		"Diffusion spreads particles from high to low concentration without energy input."

	concepts := g.ExtractConcepts(text, "mat-1")
	if len(concepts) != 2 {
		t.Fatalf("got %d concepts, want 2 from sentence split", len(concepts))
	}
}

func TestExtractConceptsCapped(t *testing.T) {
	g := NewTemplateGenerator()
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("This paragraph carries enough words to clear the minimum length bar.\n\n")
	}

	concepts := g.ExtractConcepts(sb.String(), "mat-1")
	if len(concepts) != 20 {
		t.Errorf("got %d concepts, want 20 (cap)", len(concepts))
	}
	for _, c := range concepts {
		if c.Complexity > 10 {
			t.Errorf("Complexity = %d, exceeds cap", c.Complexity)
		}
	}
}

func TestGenerateQuestionsCoversEveryMode(t *testing.T) {
	g := NewTemplateGenerator()
	concepts := g.ExtractConcepts(
		"Osmosis is the movement of water across a semipermeable membrane toward higher solute concentration.",
		"mat-1")
	if len(concepts) == 0 {
		t.Fatal("no concepts extracted")
	}

	questions := g.GenerateQuestions(concepts)
	want := len(concepts) * len(engine.AllModes())
	if len(questions) != want {
		t.Fatalf("got %d questions, want %d", len(questions), want)
	}

	seen := make(map[string]bool)
	for _, q := range questions {
		if q.ConceptID == "" || q.QuestionText == "" || q.AnswerText == "" {
			t.Errorf("incomplete question: %+v", q)
		}
		seen[q.Mode] = true
	}
	for _, mode := range engine.AllModes() {
		if !seen[string(mode)] {
			t.Errorf("no question generated for mode %s", mode)
		}
	}
}
