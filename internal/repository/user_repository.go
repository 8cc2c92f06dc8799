package repository

import (
	"context"
	"time"

	"mastery-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	Col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Col: db.Collection("users")}
}

// FindOrCreateByEmail returns the user with the given email, creating
// the record on first sight.
func (r *UserRepository) FindOrCreateByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == nil {
		return &user, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	user = models.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	if _, err := r.Col.InsertOne(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) IncrementMastered(ctx context.Context, id string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$inc": bson.M{"total_concepts_mastered": 1}})
	return err
}

func (r *UserRepository) AddSessionMinutes(ctx context.Context, id string, minutes int) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$inc": bson.M{"total_session_time_minutes": minutes}})
	return err
}
