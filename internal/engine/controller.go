package engine

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"time"

	"mastery-service/internal/models"
)

// hesitationCutoffMs is the pause length above which an answer counts as
// hesitant for the speed and confidence signals.
const hesitationCutoffMs = 2000

// QuestionPayload is what the transport layer sends to the client for
// one turn.
type QuestionPayload struct {
	QuestionID   string                 `json:"question_id"`
	ConceptID    string                 `json:"concept_id"`
	ConceptName  string                 `json:"concept_name"`
	Mode         string                 `json:"mode"`
	QuestionText string                 `json:"question_text"`
	Difficulty   int                    `json:"difficulty"`
	Data         map[string]interface{} `json:"data,omitempty"`
	Reason       string                 `json:"reason,omitempty"`
}

// Feedback is the graded outcome of a submitted answer.
type Feedback struct {
	Correct         bool          `json:"correct"`
	Partial         bool          `json:"partial"`
	Explanation     string        `json:"explanation"`
	Mastered        bool          `json:"mastered"`
	ConceptName     string        `json:"concept_name"`
	SessionComplete bool          `json:"session_complete"`
	Stats           *SessionStats `json:"stats,omitempty"`
}

// SessionStats summarizes a session for the stats endpoint and the
// completion message.
type SessionStats struct {
	DurationMinutes  int     `json:"duration_minutes"`
	TotalQuestions   int     `json:"total_questions"`
	TotalCorrect     int     `json:"total_correct"`
	Accuracy         float64 `json:"accuracy"`
	ConceptsMastered int     `json:"concepts_mastered"`
	TotalConcepts    int     `json:"total_concepts"`
}

// Controller drives one study session turn by turn: pick a concept,
// serve a question, grade the answer, update state, check mastery.
// It is not safe for concurrent use; the session manager serializes
// access per session.
type Controller struct {
	sessionID  string
	userID     string
	materialID string

	concepts []models.Concept
	session  *models.StudySession

	states    ConceptStateStore
	questions QuestionBank
	sessions  SessionStore
	users     UserStore

	scheduler *Scheduler
	judge     *MasteryJudge

	currentConcept  *models.Concept
	currentMode     Mode
	currentQuestion *models.Question
	forced          bool

	asked    map[string]bool
	sequence int

	rng *rand.Rand
	now func() time.Time
}

// NewController builds a controller for an active session. concepts must
// be the material's full concept list; an empty list is rejected.
func NewController(
	session *models.StudySession,
	concepts []models.Concept,
	states ConceptStateStore,
	questions QuestionBank,
	sessions SessionStore,
	users UserStore,
) (*Controller, error) {
	if len(concepts) == 0 {
		return nil, ErrNoConcepts
	}
	thresholds := DefaultMasteryThresholds()
	return &Controller{
		sessionID:  session.ID,
		userID:     session.UserID,
		materialID: session.MaterialID,
		concepts:   concepts,
		session:    session,
		states:     states,
		questions:  questions,
		sessions:   sessions,
		users:      users,
		scheduler:  NewScheduler(thresholds),
		judge:      NewMasteryJudge(thresholds),
		asked:      make(map[string]bool),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
	}, nil
}

// NextQuestion advances the session to the next turn. It returns
// ErrSessionComplete when the scheduler finds nothing left to present,
// which the caller should confirm via the completion stats.
func (c *Controller) NextQuestion(ctx context.Context) (*QuestionPayload, error) {
	now := c.now()

	recent, err := c.states.RecentSessionEvents(ctx, c.sessionID, now.Add(-RescueWindow))
	if err != nil {
		return nil, err
	}
	stateMap, err := c.statesByConcept(ctx)
	if err != nil {
		return nil, err
	}

	sel, err := c.scheduler.SelectConcept(c.concepts, stateMap, recent, now)
	if err == errAllConceptsSettled {
		return nil, ErrSessionComplete
	}
	if err != nil {
		return nil, err
	}

	mode := sel.ForcedMode
	c.forced = mode != ""
	if !c.forced {
		state, err := c.states.GetOrCreateState(ctx, c.userID, sel.Concept.ID)
		if err != nil {
			return nil, err
		}
		mode = SelectMode(state)
	}

	question, err := c.pickQuestion(ctx, sel.Concept, mode)
	if err != nil {
		return nil, err
	}

	c.currentConcept = sel.Concept
	c.currentMode = Mode(question.Mode)
	c.currentQuestion = question

	return &QuestionPayload{
		QuestionID:   question.ID,
		ConceptID:    sel.Concept.ID,
		ConceptName:  sel.Concept.Name,
		Mode:         question.Mode,
		QuestionText: question.QuestionText,
		Difficulty:   question.Difficulty,
		Data:         question.Data,
		Reason:       sel.Reason,
	}, nil
}

// pickQuestion finds an unasked question for the concept in the wanted
// mode, falling back to other modes before giving up. When a pool exists
// but every question in it was already asked this session, the dedup set
// for that concept is cleared so questions can repeat rather than starve
// the turn.
func (c *Controller) pickQuestion(ctx context.Context, concept *models.Concept, mode Mode) (*models.Question, error) {
	pool, err := c.questions.QuestionsForConceptMode(ctx, concept.ID, mode)
	if err != nil {
		return nil, err
	}
	if q := c.pickUnasked(pool); q != nil {
		return q, nil
	}
	if len(pool) > 0 {
		c.clearAsked(pool)
		if q := c.pickUnasked(pool); q != nil {
			return q, nil
		}
	}

	log.Printf("WARNING: no %s questions for concept %s, falling back to any mode", mode, concept.ID)
	all, err := c.questions.QuestionsForConcept(ctx, concept.ID)
	if err != nil {
		return nil, err
	}
	if q := c.pickUnasked(all); q != nil {
		return q, nil
	}
	if len(all) > 0 {
		c.clearAsked(all)
		if q := c.pickUnasked(all); q != nil {
			return q, nil
		}
	}
	return nil, ErrNoQuestionAvailable
}

func (c *Controller) pickUnasked(pool []models.Question) *models.Question {
	var fresh []models.Question
	for _, q := range pool {
		if !c.asked[q.ID] {
			fresh = append(fresh, q)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	q := fresh[c.rng.Intn(len(fresh))]
	c.asked[q.ID] = true
	return &q
}

func (c *Controller) clearAsked(pool []models.Question) {
	for _, q := range pool {
		delete(c.asked, q.ID)
	}
}

// SubmitAnswer grades the answer against the current question, records
// the event, updates the concept state and session counters, and runs
// the mastery check.
func (c *Controller) SubmitAnswer(ctx context.Context, answer string, responseTimeMs, hesitationMs int) (*Feedback, error) {
	if c.currentConcept == nil {
		return nil, ErrNoActiveQuestion
	}
	now := c.now()
	concept := c.currentConcept

	question := c.currentQuestion
	if question == nil {
		log.Printf("WARNING: answer for session %s arrived with no served question, looking up concept %s directly", c.sessionID, concept.ID)
		pool, err := c.questions.QuestionsForConcept(ctx, concept.ID)
		if err != nil {
			return nil, err
		}
		if len(pool) == 0 {
			return nil, ErrNoActiveQuestion
		}
		question = &pool[0]
	}

	verdict := Evaluate(answer, question.AnswerText)

	state, err := c.states.GetOrCreateState(ctx, c.userID, concept.ID)
	if err != nil {
		return nil, err
	}

	event := &models.ResponseEvent{
		UserID:           c.userID,
		ConceptID:        concept.ID,
		QuestionID:       question.ID,
		SessionID:        c.sessionID,
		Mode:             question.Mode,
		UserAnswer:       answer,
		IsCorrect:        verdict.Correct,
		IsPartial:        verdict.Partial,
		ResponseTimeMs:   responseTimeMs,
		HesitationMs:     hesitationMs,
		DifficultyAtTime: question.Difficulty,
		SequenceNumber:   c.sequence,
		CreatedAt:        now,
	}
	if err := c.states.AppendEvent(ctx, event); err != nil {
		return nil, err
	}

	c.applyAnswer(state, question, verdict, responseTimeMs, hesitationMs, now)

	times, err := c.states.CorrectAnswerTimes(ctx, c.userID, concept.ID)
	if err != nil {
		return nil, err
	}
	state.PredictedRecall = PredictRecall(times, now)

	mastered := c.judge.CheckMastery(state, now)

	state.UpdatedAt = now
	if err := c.states.SaveState(ctx, state); err != nil {
		return nil, err
	}

	if mastered {
		c.session.ConceptsMasteredThisSession++
		if err := c.users.IncrementMastered(ctx, c.userID); err != nil {
			log.Printf("WARNING: failed to bump mastered counter for user %s: %v", c.userID, err)
		}
	}

	c.session.TotalQuestions++
	if verdict.Correct {
		c.session.TotalCorrect++
	}
	if err := c.sessions.SaveCounters(ctx, c.session); err != nil {
		log.Printf("WARNING: failed to save session counters for %s: %v", c.sessionID, err)
	}

	c.sequence++
	c.currentQuestion = nil

	masteredCount, err := c.states.CountMastered(ctx, c.userID, c.conceptIDs())
	if err != nil {
		return nil, err
	}
	complete := masteredCount >= len(c.concepts)

	fb := &Feedback{
		Correct:         verdict.Correct,
		Partial:         verdict.Partial,
		Explanation:     c.explain(concept, question, verdict),
		Mastered:        mastered,
		ConceptName:     concept.Name,
		SessionComplete: complete,
	}
	if complete {
		fb.Stats = c.Stats(masteredCount)
	}
	return fb, nil
}

// applyAnswer folds one graded answer into the rolling state counters
// and re-derives the state category. Mastered is terminal here; only
// the review scheduler brings a mastered concept back.
func (c *Controller) applyAnswer(state *models.UserConceptState, question *models.Question, verdict Verdict, responseTimeMs, hesitationMs int, now time.Time) {
	state.TotalAttempts++
	if verdict.Correct {
		state.CorrectAttempts++
		state.ConsecutivePerfect++
		if state.ConsecutivePerfect > state.MaxStreak {
			state.MaxStreak = state.ConsecutivePerfect
		}
	} else {
		state.ConsecutivePerfect = 0
	}
	state.Accuracy = float64(state.CorrectAttempts) / float64(state.TotalAttempts)

	if state.BaselineResponseTimeMs == 0 {
		state.BaselineResponseTimeMs = responseTimeMs
	}
	n := state.TotalAttempts
	state.AvgResponseTimeMs = (state.AvgResponseTimeMs*(n-1) + responseTimeMs) / n

	if hesitationMs > hesitationCutoffMs {
		state.HesitationCount++
	}

	state.FormatsTested = appendOnce(state.FormatsTested, question.Mode)
	if verdict.Correct {
		state.FormatsPassed = appendOnce(state.FormatsPassed, question.Mode)
	}

	if state.State != models.StateMastered {
		switch {
		case state.Accuracy < 0.5:
			state.State = models.StateStruggling
		case state.Accuracy >= c.judge.thresholds.Accuracy && state.ConsecutivePerfect >= c.judge.thresholds.ConsecutivePerfect:
			state.State = models.StateProficient
		case state.Accuracy >= 0.7:
			state.State = models.StateLearning
		default:
			state.State = models.StateStruggling
		}
	}
	state.LastTestedAt = now
}

func (c *Controller) explain(concept *models.Concept, question *models.Question, verdict Verdict) string {
	if verdict.Correct {
		return "Correct! " + concept.Definition
	}
	return "Not quite. The answer is: " + question.AnswerText + ". " + concept.Definition
}

// ProcessSkip records a skip event. Skipping marks the concept as
// struggling and counts toward hesitation so the rescue check can see
// avoidance patterns.
func (c *Controller) ProcessSkip(ctx context.Context) error {
	if c.currentConcept == nil {
		return ErrNoActiveQuestion
	}
	now := c.now()
	concept := c.currentConcept

	event := &models.ResponseEvent{
		UserID:         c.userID,
		ConceptID:      concept.ID,
		SessionID:      c.sessionID,
		Mode:           string(c.currentMode),
		Skipped:        true,
		SequenceNumber: c.sequence,
		CreatedAt:      now,
	}
	if c.currentQuestion != nil {
		event.QuestionID = c.currentQuestion.ID
		event.DifficultyAtTime = c.currentQuestion.Difficulty
	}
	if err := c.states.AppendEvent(ctx, event); err != nil {
		return err
	}

	state, err := c.states.GetOrCreateState(ctx, c.userID, concept.ID)
	if err != nil {
		return err
	}
	if state.State != models.StateMastered {
		state.State = models.StateStruggling
	}
	state.HesitationCount++
	state.UpdatedAt = now
	if err := c.states.SaveState(ctx, state); err != nil {
		return err
	}

	c.sequence++
	c.currentQuestion = nil
	return nil
}

// ProcessPeek reveals the answer without scoring it and records the
// event so later analysis can separate peeked answers from honest ones.
func (c *Controller) ProcessPeek(ctx context.Context) (string, error) {
	if c.currentConcept == nil {
		return "", ErrNoActiveQuestion
	}
	now := c.now()
	concept := c.currentConcept

	if c.currentQuestion == nil {
		return concept.Definition, nil
	}

	event := &models.ResponseEvent{
		UserID:           c.userID,
		ConceptID:        concept.ID,
		QuestionID:       c.currentQuestion.ID,
		SessionID:        c.sessionID,
		Mode:             c.currentQuestion.Mode,
		Peeked:           true,
		DifficultyAtTime: c.currentQuestion.Difficulty,
		SequenceNumber:   c.sequence,
		CreatedAt:        now,
	}
	if err := c.states.AppendEvent(ctx, event); err != nil {
		return "", err
	}
	c.sequence++
	return c.currentQuestion.AnswerText, nil
}

// Hint returns a partial reveal of the current answer. Hints are free
// and leave no event behind.
func (c *Controller) Hint() string {
	if c.currentQuestion == nil {
		if c.currentConcept != nil {
			return "This relates to " + c.currentConcept.Name
		}
		return ""
	}
	answer := c.currentQuestion.AnswerText
	if len(answer) > 20 {
		return answer[:20] + "..."
	}
	if len(answer) <= 1 {
		return answer
	}
	return answer[:1] + strings.Repeat("_", len(answer)-1)
}

// Stats builds the current session summary. masteredCount is the
// authoritative store count, queried by the caller.
func (c *Controller) Stats(masteredCount int) *SessionStats {
	duration := int(c.now().Sub(c.session.StartTime).Minutes())
	accuracy := 0.0
	if c.session.TotalQuestions > 0 {
		accuracy = float64(c.session.TotalCorrect) / float64(c.session.TotalQuestions)
	}
	return &SessionStats{
		DurationMinutes:  duration,
		TotalQuestions:   c.session.TotalQuestions,
		TotalCorrect:     c.session.TotalCorrect,
		Accuracy:         accuracy,
		ConceptsMastered: masteredCount,
		TotalConcepts:    len(c.concepts),
	}
}

// MasteredCount queries the store for the user's mastered count over
// this material's concepts.
func (c *Controller) MasteredCount(ctx context.Context) (int, error) {
	return c.states.CountMastered(ctx, c.userID, c.conceptIDs())
}

// Close finalizes the session record. Errors are logged, not returned;
// a disconnect should never fail.
func (c *Controller) Close(ctx context.Context, status string) {
	now := c.now()
	c.session.EndTime = now
	c.session.DurationMinutes = int(now.Sub(c.session.StartTime).Minutes())
	c.session.Status = status
	if err := c.sessions.SaveCounters(ctx, c.session); err != nil {
		log.Printf("WARNING: failed to finalize session %s: %v", c.sessionID, err)
	}
}

func (c *Controller) Session() *models.StudySession { return c.session }

func (c *Controller) statesByConcept(ctx context.Context) (map[string]*models.UserConceptState, error) {
	return c.states.StatesForUser(ctx, c.userID, c.conceptIDs())
}

func (c *Controller) conceptIDs() []string {
	ids := make([]string, len(c.concepts))
	for i, cc := range c.concepts {
		ids[i] = cc.ID
	}
	return ids
}

func appendOnce(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
