package repository

import (
	"context"

	"mastery-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) CreateMany(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	docs := make([]interface{}, len(questions))
	for i := range questions {
		docs[i] = questions[i]
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

func (r *QuestionRepository) FindByConcept(ctx context.Context, conceptID string) ([]models.Question, error) {
	return r.find(ctx, bson.M{"concept_id": conceptID})
}

func (r *QuestionRepository) FindByConceptMode(ctx context.Context, conceptID, mode string) ([]models.Question, error) {
	return r.find(ctx, bson.M{"concept_id": conceptID, "mode": mode})
}

func (r *QuestionRepository) find(ctx context.Context, filter bson.M) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}
