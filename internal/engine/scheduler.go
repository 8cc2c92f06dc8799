package engine

import (
	"math/rand"
	"sort"
	"time"

	"mastery-service/internal/models"
)

// Scheduler tuning. RescueWindow bounds how far back the rescue check
// looks; the skip ratio above skipRatioLimit triggers it.
const (
	RescueWindow   = 5 * time.Minute
	skipRatioLimit = 0.3

	// Optimal-challenge scores
	scoreReviewDue   = 50.0
	scoreStruggling  = 100.0
	scoreLearning    = 60.0
	scoreLearningCap = 90.0
	scoreUntouched   = 90.0

	// Size of the weighted-random candidate pool in stage 3.
	challengePoolSize = 5
)

// Selection is the scheduler's decision for one turn. ForcedMode is set
// only by the rescue and validation stages; otherwise the mode selector
// rotation applies.
type Selection struct {
	Concept    *models.Concept
	ForcedMode Mode
	Reason     string
}

// Scheduler chooses which concept to present next via a three-stage
// priority cascade: rescue detection, validation detection, then
// optimal-challenge selection. Random choices go through an injectable
// source so tests can pin outcomes.
type Scheduler struct {
	rng        *rand.Rand
	thresholds MasteryThresholds
}

func NewScheduler(thresholds MasteryThresholds) *Scheduler {
	return NewSchedulerWithRand(thresholds, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func NewSchedulerWithRand(thresholds MasteryThresholds, rng *rand.Rand) *Scheduler {
	return &Scheduler{rng: rng, thresholds: thresholds}
}

// SelectConcept runs the cascade. recentEvents must already be limited to
// the current session's events inside RescueWindow. It returns
// errAllConceptsSettled when every concept is mastered and none is due
// for review; the controller treats that as a completion signal.
func (s *Scheduler) SelectConcept(
	concepts []models.Concept,
	states map[string]*models.UserConceptState,
	recentEvents []models.ResponseEvent,
	now time.Time,
) (*Selection, error) {
	if len(concepts) == 0 {
		return nil, ErrNoConcepts
	}

	if c := s.findRescueConcept(concepts, recentEvents); c != nil {
		return &Selection{Concept: c, ForcedMode: ModeMicroWins, Reason: "rescue"}, nil
	}

	if c := s.findValidationConcept(concepts, states); c != nil {
		return &Selection{Concept: c, ForcedMode: ModeMasteryValidation, Reason: "validation"}, nil
	}

	return s.selectOptimalConcept(concepts, states, now)
}

// findRescueConcept checks for rapid skipping, which signals anxiety or
// avoidance: difficulty is dropped immediately rather than probing
// further. Returns the concept with the most skips among the recent
// events when the skip ratio exceeds the limit.
func (s *Scheduler) findRescueConcept(concepts []models.Concept, recent []models.ResponseEvent) *models.Concept {
	if len(recent) == 0 {
		return nil
	}

	skipsByConcept := make(map[string]int)
	skipped := 0
	for _, ev := range recent {
		if ev.Skipped {
			skipped++
			skipsByConcept[ev.ConceptID]++
		}
	}

	ratio := float64(skipped) / float64(len(recent))
	if ratio <= skipRatioLimit {
		return nil
	}

	var worstID string
	worst := 0
	for id, n := range skipsByConcept {
		if n > worst {
			worst = n
			worstID = id
		}
	}
	if worstID == "" {
		return nil
	}

	return findConcept(concepts, worstID)
}

// findValidationConcept hunts for concepts that already look mastered on
// accuracy and streak grounds but have not yet passed an extra
// validation question. One is picked uniformly at random.
func (s *Scheduler) findValidationConcept(concepts []models.Concept, states map[string]*models.UserConceptState) *models.Concept {
	var candidates []string
	for _, c := range concepts {
		st, ok := states[c.ID]
		if !ok {
			continue
		}
		if st.State == models.StateLearning &&
			st.Accuracy >= s.thresholds.Accuracy &&
			st.ConsecutivePerfect >= s.thresholds.ConsecutivePerfect {
			candidates = append(candidates, c.ID)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	return findConcept(concepts, candidates[s.rng.Intn(len(candidates))])
}

type scoredConcept struct {
	concept *models.Concept
	score   float64
}

// selectOptimalConcept scores every concept, takes the top candidates
// and picks one uniformly at random among them. Mastered concepts not
// yet due for review are excluded entirely.
func (s *Scheduler) selectOptimalConcept(
	concepts []models.Concept,
	states map[string]*models.UserConceptState,
	now time.Time,
) (*Selection, error) {
	scores := make([]scoredConcept, 0, len(concepts))

	for i := range concepts {
		c := &concepts[i]
		st := states[c.ID]

		switch {
		case st != nil && st.State == models.StateMastered:
			if st.NextReviewAt != nil && !st.NextReviewAt.After(now) {
				scores = append(scores, scoredConcept{c, scoreReviewDue})
			}
			// Not due: excluded.

		case st != nil && st.State == models.StateStruggling:
			scores = append(scores, scoredConcept{c, scoreStruggling})

		case st != nil && st.State == models.StateLearning:
			minutesSince := now.Sub(st.UpdatedAt).Minutes()
			score := scoreLearning + minutesSince
			if score > scoreLearningCap {
				score = scoreLearningCap
			}
			scores = append(scores, scoredConcept{c, score})

		default:
			// Untouched, or no state row yet.
			scores = append(scores, scoredConcept{c, scoreUntouched})
		}
	}

	if len(scores) == 0 {
		return nil, errAllConceptsSettled
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	top := scores
	if len(top) > challengePoolSize {
		top = top[:challengePoolSize]
	}

	pick := top[s.rng.Intn(len(top))]
	return &Selection{Concept: pick.concept, Reason: "challenge"}, nil
}

func findConcept(concepts []models.Concept, id string) *models.Concept {
	for i := range concepts {
		if concepts[i].ID == id {
			return &concepts[i]
		}
	}
	return nil
}
