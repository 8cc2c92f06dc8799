package repository

import (
	"context"

	"mastery-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MaterialRepository struct {
	Col *mongo.Collection
}

func NewMaterialRepository(db *mongo.Database) *MaterialRepository {
	return &MaterialRepository{Col: db.Collection("materials")}
}

func (r *MaterialRepository) Create(ctx context.Context, material *models.Material) error {
	_, err := r.Col.InsertOne(ctx, material)
	return err
}

func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*models.Material, error) {
	var material models.Material
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&material)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	return err
}

func (r *MaterialRepository) MarkError(ctx context.Context, id, message string) error {
	update := bson.M{"status": models.MaterialError, "error_message": message}
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *MaterialRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *MaterialRepository) FindByUser(ctx context.Context, userID string) ([]models.Material, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var materials []models.Material
	for cur.Next(ctx) {
		var m models.Material
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, nil
}
