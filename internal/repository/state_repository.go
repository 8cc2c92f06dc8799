package repository

import (
	"context"

	"mastery-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StateRepository struct {
	Col *mongo.Collection
}

func NewStateRepository(db *mongo.Database) *StateRepository {
	return &StateRepository{Col: db.Collection("concept_states")}
}

func (r *StateRepository) FindByUserConcept(ctx context.Context, userID, conceptID string) (*models.UserConceptState, error) {
	var state models.UserConceptState
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "concept_id": conceptID}).Decode(&state)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

// Upsert writes the full state document keyed by (user, concept). The
// _id only applies on first insert; updates leave it alone.
func (r *StateRepository) Upsert(ctx context.Context, state *models.UserConceptState) error {
	filter := bson.M{"user_id": state.UserID, "concept_id": state.ConceptID}
	update := bson.M{
		"$set": bson.M{
			"state":                     state.State,
			"accuracy":                  state.Accuracy,
			"total_attempts":            state.TotalAttempts,
			"correct_attempts":          state.CorrectAttempts,
			"consecutive_perfect":       state.ConsecutivePerfect,
			"max_streak":                state.MaxStreak,
			"avg_response_time_ms":      state.AvgResponseTimeMs,
			"baseline_response_time_ms": state.BaselineResponseTimeMs,
			"hesitation_count":          state.HesitationCount,
			"formats_tested":            state.FormatsTested,
			"formats_passed":            state.FormatsPassed,
			"predicted_recall":          state.PredictedRecall,
			"last_tested_at":            state.LastTestedAt,
			"mastered_at":               state.MasteredAt,
			"next_review_at":            state.NextReviewAt,
			"updated_at":                state.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        state.ID,
			"created_at": state.CreatedAt,
		},
	}
	_, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *StateRepository) FindByUser(ctx context.Context, userID string, conceptIDs []string) ([]models.UserConceptState, error) {
	filter := bson.M{"user_id": userID}
	if len(conceptIDs) > 0 {
		filter["concept_id"] = bson.M{"$in": conceptIDs}
	}
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var states []models.UserConceptState
	for cur.Next(ctx) {
		var s models.UserConceptState
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, nil
}

func (r *StateRepository) CountMastered(ctx context.Context, userID string, conceptIDs []string) (int64, error) {
	filter := bson.M{"user_id": userID, "state": models.StateMastered}
	if len(conceptIDs) > 0 {
		filter["concept_id"] = bson.M{"$in": conceptIDs}
	}
	return r.Col.CountDocuments(ctx, filter)
}

func (r *StateRepository) CountByState(ctx context.Context, userID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, s := range []string{
		models.StateUntouched,
		models.StateLearning,
		models.StateStruggling,
		models.StateProficient,
		models.StateMastered,
	} {
		n, err := r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "state": s})
		if err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, nil
}
