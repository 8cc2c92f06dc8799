package content

import (
	"fmt"
	"strings"
	"time"

	"mastery-service/internal/engine"
	"mastery-service/internal/models"

	"github.com/google/uuid"
)

// Generator produces concepts from extracted text and questions from
// concepts.
type Generator interface {
	ExtractConcepts(text, materialID string) []models.Concept
	GenerateQuestions(concepts []models.Concept) []models.Question
}

const (
	maxConcepts     = 20
	minParagraphLen = 30
	conceptNameLen  = 40
	definitionLen   = 500
	chunkWords      = 20
	maxComplexity   = 10
)

// TemplateGenerator slices the source text into concept-sized units and
// fills fixed question templates for every presentation mode. It is the
// fallback path when no richer generator is configured.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// ExtractConcepts splits the text into candidate definitions: paragraphs
// first, then sentences, then fixed word chunks for wall-of-text input.
func (g *TemplateGenerator) ExtractConcepts(text, materialID string) []models.Concept {
	units := paragraphs(text)
	if len(units) < 2 {
		units = sentences(text)
	}
	if len(units) < 2 {
		units = wordChunks(text, chunkWords)
	}
	if len(units) > maxConcepts {
		units = units[:maxConcepts]
	}

	now := time.Now()
	concepts := make([]models.Concept, 0, len(units))
	for i, unit := range units {
		complexity := i + 1
		if complexity > maxComplexity {
			complexity = maxComplexity
		}
		concepts = append(concepts, models.Concept{
			ID:         uuid.NewString(),
			MaterialID: materialID,
			Name:       fmt.Sprintf("Concept %d: %s", i+1, truncate(unit, conceptNameLen)),
			FullName:   truncate(unit, conceptNameLen),
			Definition: truncate(unit, definitionLen),
			Complexity: complexity,
			Domain:     "general",
			CreatedAt:  now,
		})
	}
	return concepts
}

// GenerateQuestions emits one templated question per mode per concept,
// so every concept can be presented regardless of its current state.
func (g *TemplateGenerator) GenerateQuestions(concepts []models.Concept) []models.Question {
	now := time.Now()
	var questions []models.Question
	for _, c := range concepts {
		for _, mode := range engine.AllModes() {
			questions = append(questions, models.Question{
				ID:           uuid.NewString(),
				ConceptID:    c.ID,
				Mode:         string(mode),
				QuestionText: questionText(mode, c),
				AnswerText:   c.Definition,
				Difficulty:   c.Complexity,
				CreatedAt:    now,
			})
		}
	}
	return questions
}

func questionText(mode engine.Mode, c models.Concept) string {
	switch mode {
	case engine.ModeGuidedSolve:
		return fmt.Sprintf("Let's work through this together. In your own words, what does this mean: %q?", c.FullName)
	case engine.ModeCollaborative:
		return fmt.Sprintf("Here's a start: %s... Can you complete the explanation of %q?", truncate(c.Definition, 60), c.FullName)
	case engine.ModeRapidFire:
		return fmt.Sprintf("Quick! Define: %s", c.FullName)
	case engine.ModeFillStory:
		return fmt.Sprintf("Fill in the key idea: the material explains that ___ (%s)", c.FullName)
	case engine.ModeNumberSwap:
		return fmt.Sprintf("If the details of %q changed, what would stay the same? Explain the core idea.", c.FullName)
	case engine.ModeExplainBack:
		return fmt.Sprintf("Teach it back: explain %q as if to someone new.", c.FullName)
	case engine.ModeSpotError:
		return fmt.Sprintf("Something is wrong with this claim about %q. What is the correct version?", c.FullName)
	case engine.ModeBuildMap:
		return fmt.Sprintf("How does %q connect to the other ideas in this material?", c.FullName)
	case engine.ModeMasteryValidation:
		return fmt.Sprintf("Final check: give a complete definition of %q.", c.FullName)
	case engine.ModeMicroWins:
		return fmt.Sprintf("Easy one: what topic is %q about?", c.FullName)
	default:
		return fmt.Sprintf("What is %q?", c.FullName)
	}
}

func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if len(p) > minParagraphLen {
			out = append(out, p)
		}
	}
	return out
}

func sentences(text string) []string {
	var out []string
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		s = strings.TrimSpace(s)
		if len(s) > minParagraphLen {
			out = append(out, s)
		}
	}
	return out
}

func wordChunks(text string, size int) []string {
	words := strings.Fields(text)
	var out []string
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[start:end], " ")
		if len(chunk) > minParagraphLen {
			out = append(out, chunk)
		}
	}
	return out
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "…"
}
