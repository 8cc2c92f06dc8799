package engine

import (
	"time"

	"mastery-service/internal/models"
)

// MasteryThresholds holds the five criteria a concept must satisfy
// simultaneously before it is flagged mastered.
type MasteryThresholds struct {
	Accuracy           float64
	ConsecutivePerfect int
	SpeedRatio         float64
	FormatCoverage     float64
	PredictedRecall    float64
}

// DefaultMasteryThresholds returns the standard criteria.
func DefaultMasteryThresholds() MasteryThresholds {
	return MasteryThresholds{
		Accuracy:           0.99,
		ConsecutivePerfect: 10,
		SpeedRatio:         1.3,
		FormatCoverage:     0.8,
		PredictedRecall:    0.95,
	}
}

// Review interval granted at the moment of mastery.
const reviewInterval = 7 * 24 * time.Hour

// MasteryJudge applies the five mastery criteria to a concept state.
type MasteryJudge struct {
	thresholds MasteryThresholds
}

func NewMasteryJudge(thresholds MasteryThresholds) *MasteryJudge {
	return &MasteryJudge{thresholds: thresholds}
}

// CheckMastery reports whether the state now meets every criterion, and
// on success flips it to mastered with the review timestamp set. An
// already-mastered state short-circuits to false: mastery is granted
// exactly once.
func (j *MasteryJudge) CheckMastery(state *models.UserConceptState, now time.Time) bool {
	if state.State == models.StateMastered {
		return false
	}

	// Criterion 1: accuracy
	if state.Accuracy < j.thresholds.Accuracy {
		return false
	}

	// Criterion 2: stability
	if state.ConsecutivePerfect < j.thresholds.ConsecutivePerfect {
		return false
	}

	// Criterion 3: speed/fluency. Vacuously satisfied until a baseline
	// and a current average exist.
	if state.BaselineResponseTimeMs > 0 && state.AvgResponseTimeMs > 0 {
		ratio := float64(state.AvgResponseTimeMs) / float64(state.BaselineResponseTimeMs)
		if ratio > j.thresholds.SpeedRatio {
			return false
		}
	}

	// Criterion 4: format invariance. Vacuously satisfied when nothing
	// has been tested yet.
	if len(state.FormatsTested) > 0 {
		passRate := float64(len(state.FormatsPassed)) / float64(len(state.FormatsTested))
		if passRate < j.thresholds.FormatCoverage {
			return false
		}
	}

	// Criterion 5: predicted recall, freshly computed by the caller.
	if state.PredictedRecall < j.thresholds.PredictedRecall {
		return false
	}

	mastered := now
	review := now.Add(reviewInterval)
	state.State = models.StateMastered
	state.MasteredAt = &mastered
	state.NextReviewAt = &review

	return true
}
