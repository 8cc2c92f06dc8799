package repository

import (
	"context"
	"time"

	"mastery-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResponseRepository struct {
	Col *mongo.Collection
}

func NewResponseRepository(db *mongo.Database) *ResponseRepository {
	return &ResponseRepository{Col: db.Collection("responses")}
}

func (r *ResponseRepository) Create(ctx context.Context, event *models.ResponseEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	_, err := r.Col.InsertOne(ctx, event)
	return err
}

// FindSessionSince returns a session's events created at or after the
// cutoff, oldest first.
func (r *ResponseRepository) FindSessionSince(ctx context.Context, sessionID string, since time.Time) ([]models.ResponseEvent, error) {
	filter := bson.M{"session_id": sessionID, "created_at": bson.M{"$gte": since}}
	cur, err := r.Col.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.ResponseEvent
	for cur.Next(ctx) {
		var ev models.ResponseEvent
		if err := cur.Decode(&ev); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// CorrectTimes returns the timestamps of a user's correct answers for a
// concept, oldest first. The recall model consumes these.
func (r *ResponseRepository) CorrectTimes(ctx context.Context, userID, conceptID string) ([]time.Time, error) {
	filter := bson.M{"user_id": userID, "concept_id": conceptID, "is_correct": true}
	cur, err := r.Col.Find(ctx, filter, options.Find().
		SetSort(bson.M{"created_at": 1}).
		SetProjection(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var times []time.Time
	for cur.Next(ctx) {
		var doc struct {
			CreatedAt time.Time `bson:"created_at"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		times = append(times, doc.CreatedAt)
	}
	return times, nil
}

func (r *ResponseRepository) CountForSession(ctx context.Context, sessionID string) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{"session_id": sessionID})
}
