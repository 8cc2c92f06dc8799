package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mastery-service/internal/content"
	"mastery-service/internal/models"
	"mastery-service/internal/repository"

	"github.com/google/uuid"
)

// ErrEmptyConceptSet reports a material whose text yielded no usable
// concepts. The material is marked failed, never ready.
var ErrEmptyConceptSet = errors.New("empty concept set")

type MaterialService struct {
	materials *repository.MaterialRepository
	concepts  *repository.ConceptRepository
	questions *repository.QuestionRepository
	extractor content.Extractor
	generator content.Generator
}

func NewMaterialService(
	materials *repository.MaterialRepository,
	concepts *repository.ConceptRepository,
	questions *repository.QuestionRepository,
	extractor content.Extractor,
	generator content.Generator,
) *MaterialService {
	return &MaterialService{
		materials: materials,
		concepts:  concepts,
		questions: questions,
		extractor: extractor,
		generator: generator,
	}
}

// Ingest runs the full pipeline for an uploaded document: extract text,
// derive concepts, pre-generate questions. The material's status is
// updated at every stage so clients can poll progress.
func (s *MaterialService) Ingest(ctx context.Context, userID, filename string, data []byte) (*models.Material, error) {
	material := &models.Material{
		ID:         uuid.NewString(),
		UserID:     userID,
		Filename:   filename,
		Status:     models.MaterialUploaded,
		UploadedAt: time.Now(),
	}
	if err := s.materials.Create(ctx, material); err != nil {
		return nil, err
	}

	if err := s.materials.UpdateStatus(ctx, material.ID, models.MaterialExtracting); err != nil {
		return nil, err
	}
	extraction, err := s.extractor.Extract(data, filename)
	if err != nil {
		return s.fail(ctx, material, fmt.Sprintf("text extraction failed: %v", err))
	}
	if extraction.Quality == content.QualityPoor {
		return s.fail(ctx, material, "document quality too poor to extract usable text")
	}
	material.TotalPages = extraction.TotalPages
	material.EstimatedTimeMinutes = extraction.EstimatedTimeMinutes
	if err := s.materials.Update(ctx, material.ID, map[string]interface{}{
		"total_pages":            extraction.TotalPages,
		"estimated_time_minutes": extraction.EstimatedTimeMinutes,
	}); err != nil {
		return nil, err
	}

	if err := s.materials.UpdateStatus(ctx, material.ID, models.MaterialExtractingConcepts); err != nil {
		return nil, err
	}
	concepts := s.generator.ExtractConcepts(extraction.Text, material.ID)
	if len(concepts) == 0 {
		_, ferr := s.fail(ctx, material, ErrEmptyConceptSet.Error())
		if ferr != nil {
			return nil, ferr
		}
		return material, ErrEmptyConceptSet
	}
	if err := s.concepts.CreateMany(ctx, concepts); err != nil {
		return nil, err
	}

	if err := s.materials.UpdateStatus(ctx, material.ID, models.MaterialGeneratingQuestions); err != nil {
		return nil, err
	}
	questions := s.generator.GenerateQuestions(concepts)
	if err := s.questions.CreateMany(ctx, questions); err != nil {
		return nil, err
	}

	if err := s.materials.UpdateStatus(ctx, material.ID, models.MaterialReady); err != nil {
		return nil, err
	}
	material.Status = models.MaterialReady
	log.Printf("Material %s ready: %d concepts, %d questions", material.ID, len(concepts), len(questions))
	return material, nil
}

func (s *MaterialService) fail(ctx context.Context, material *models.Material, message string) (*models.Material, error) {
	if err := s.materials.MarkError(ctx, material.ID, message); err != nil {
		log.Printf("WARNING: failed to mark material %s as errored: %v", material.ID, err)
	}
	material.Status = models.MaterialError
	material.ErrorMessage = message
	return material, nil
}

// MaterialStatus is the polling view of an ingest in progress.
type MaterialStatus struct {
	Material     *models.Material `json:"material"`
	ConceptCount int64            `json:"concept_count"`
}

func (s *MaterialService) Status(ctx context.Context, id string) (*MaterialStatus, error) {
	material, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}
	count, err := s.concepts.CountByMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MaterialStatus{Material: material, ConceptCount: count}, nil
}

func (s *MaterialService) ListForUser(ctx context.Context, userID string) ([]models.Material, error) {
	return s.materials.FindByUser(ctx, userID)
}

func (s *MaterialService) ConceptsFor(ctx context.Context, materialID string) ([]models.Concept, error) {
	return s.concepts.FindByMaterial(ctx, materialID)
}
