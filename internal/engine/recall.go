package engine

import (
	"math"
	"time"
)

// ACT-R decay constant d.
const recallDecay = 0.5

// PredictRecall estimates the probability that a concept is still
// retained, from the timestamps of past correct answers:
//
//	R = ln(Σ Δ_i^(-d)),  Δ_i in hours
//	P = 1 / (1 + e^(-R))
//
// It is recomputed from the full history on every answer rather than
// maintained incrementally, since the decay weights shift continuously
// as time passes. Non-positive elapsed times are skipped; no history
// yields 0.
func PredictRecall(correctAt []time.Time, now time.Time) float64 {
	activationSum := 0.0
	for _, t := range correctAt {
		hours := now.Sub(t).Hours()
		if hours <= 0 {
			continue
		}
		activationSum += math.Pow(hours, -recallDecay)
	}

	if activationSum == 0 {
		return 0
	}

	activation := math.Log(activationSum)
	return 1 / (1 + math.Exp(-activation))
}
