package repository

import (
	"context"

	"mastery-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConceptRepository struct {
	Col *mongo.Collection
}

func NewConceptRepository(db *mongo.Database) *ConceptRepository {
	return &ConceptRepository{Col: db.Collection("concepts")}
}

func (r *ConceptRepository) Create(ctx context.Context, concept *models.Concept) error {
	_, err := r.Col.InsertOne(ctx, concept)
	return err
}

func (r *ConceptRepository) CreateMany(ctx context.Context, concepts []models.Concept) error {
	if len(concepts) == 0 {
		return nil
	}
	docs := make([]interface{}, len(concepts))
	for i := range concepts {
		docs[i] = concepts[i]
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

func (r *ConceptRepository) FindByID(ctx context.Context, id string) (*models.Concept, error) {
	var concept models.Concept
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&concept)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &concept, nil
}

func (r *ConceptRepository) FindByMaterial(ctx context.Context, materialID string) ([]models.Concept, error) {
	cur, err := r.Col.Find(ctx, bson.M{"material_id": materialID},
		options.Find().SetSort(bson.M{"complexity": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var concepts []models.Concept
	for cur.Next(ctx) {
		var c models.Concept
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		concepts = append(concepts, c)
	}
	return concepts, nil
}

func (r *ConceptRepository) CountByMaterial(ctx context.Context, materialID string) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{"material_id": materialID})
}
