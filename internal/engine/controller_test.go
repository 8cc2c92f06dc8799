package engine

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"mastery-service/internal/models"
)

// memStore is an in-memory stand-in for the Mongo-backed stores.
type memStore struct {
	states    map[string]*models.UserConceptState
	questions map[string][]models.Question
	events    []models.ResponseEvent
	sessions  map[string]*models.StudySession
	mastered  map[string]int
	nextID    int
}

func newMemStore() *memStore {
	return &memStore{
		states:    make(map[string]*models.UserConceptState),
		questions: make(map[string][]models.Question),
		sessions:  make(map[string]*models.StudySession),
		mastered:  make(map[string]int),
	}
}

func stateKey(userID, conceptID string) string { return userID + "/" + conceptID }

func (m *memStore) GetOrCreateState(_ context.Context, userID, conceptID string) (*models.UserConceptState, error) {
	key := stateKey(userID, conceptID)
	if s, ok := m.states[key]; ok {
		return s, nil
	}
	s := &models.UserConceptState{UserID: userID, ConceptID: conceptID, State: models.StateUntouched}
	m.states[key] = s
	return s, nil
}

func (m *memStore) SaveState(_ context.Context, state *models.UserConceptState) error {
	m.states[stateKey(state.UserID, state.ConceptID)] = state
	return nil
}

func (m *memStore) AppendEvent(_ context.Context, event *models.ResponseEvent) error {
	m.nextID++
	m.events = append(m.events, *event)
	return nil
}

func (m *memStore) RecentSessionEvents(_ context.Context, sessionID string, since time.Time) ([]models.ResponseEvent, error) {
	var out []models.ResponseEvent
	for _, ev := range m.events {
		if ev.SessionID == sessionID && !ev.CreatedAt.Before(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memStore) CorrectAnswerTimes(_ context.Context, userID, conceptID string) ([]time.Time, error) {
	var out []time.Time
	for _, ev := range m.events {
		if ev.UserID == userID && ev.ConceptID == conceptID && ev.IsCorrect {
			out = append(out, ev.CreatedAt)
		}
	}
	return out, nil
}

func (m *memStore) StatesForUser(_ context.Context, userID string, conceptIDs []string) (map[string]*models.UserConceptState, error) {
	out := make(map[string]*models.UserConceptState)
	for _, id := range conceptIDs {
		if s, ok := m.states[stateKey(userID, id)]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (m *memStore) CountMastered(_ context.Context, userID string, conceptIDs []string) (int, error) {
	n := 0
	for _, id := range conceptIDs {
		if s, ok := m.states[stateKey(userID, id)]; ok && s.State == models.StateMastered {
			n++
		}
	}
	return n, nil
}

func (m *memStore) QuestionsForConceptMode(_ context.Context, conceptID string, mode Mode) ([]models.Question, error) {
	var out []models.Question
	for _, q := range m.questions[conceptID] {
		if q.Mode == string(mode) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memStore) QuestionsForConcept(_ context.Context, conceptID string) ([]models.Question, error) {
	return m.questions[conceptID], nil
}

func (m *memStore) SaveCounters(_ context.Context, session *models.StudySession) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *memStore) IncrementMastered(_ context.Context, userID string) error {
	m.mastered[userID]++
	return nil
}

func (m *memStore) addQuestions(conceptID, answer string, modes ...Mode) {
	for i, mode := range modes {
		m.questions[conceptID] = append(m.questions[conceptID], models.Question{
			ID:           conceptID + "-q" + string(rune('a'+i)),
			ConceptID:    conceptID,
			Mode:         string(mode),
			QuestionText: "What is " + conceptID + "?",
			AnswerText:   answer,
			Difficulty:   3,
		})
	}
}

func newTestController(t *testing.T, store *memStore, concepts []models.Concept) *Controller {
	t.Helper()
	session := &models.StudySession{
		ID:         "sess-1",
		UserID:     "user-1",
		MaterialID: "mat-1",
		StartTime:  time.Now(),
		Status:     models.SessionActive,
	}
	ctrl, err := NewController(session, concepts, store, store, store, store)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	ctrl.rng = rand.New(rand.NewSource(1))
	ctrl.scheduler = NewSchedulerWithRand(DefaultMasteryThresholds(), rand.New(rand.NewSource(1)))
	return ctrl
}

func TestControllerRejectsEmptyConcepts(t *testing.T) {
	session := &models.StudySession{ID: "s", UserID: "u"}
	store := newMemStore()
	_, err := NewController(session, nil, store, store, store, store)
	if !errors.Is(err, ErrNoConcepts) {
		t.Errorf("err = %v, want ErrNoConcepts", err)
	}
}

func TestControllerFirstTurn(t *testing.T) {
	store := newMemStore()
	concepts := []models.Concept{{ID: "c1", Name: "Osmosis", Definition: "Movement of water across a membrane."}}
	store.addQuestions("c1", "osmosis", ModeGuidedSolve, ModeRapidFire)

	ctrl := newTestController(t, store, concepts)
	ctx := context.Background()

	q, err := ctrl.NextQuestion(ctx)
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if q.ConceptID != "c1" {
		t.Errorf("ConceptID = %s, want c1", q.ConceptID)
	}
	if q.Mode != string(ModeGuidedSolve) {
		t.Errorf("untouched concept served mode %s, want %s", q.Mode, ModeGuidedSolve)
	}
}

func TestControllerAnswerFlowUpdatesState(t *testing.T) {
	store := newMemStore()
	concepts := []models.Concept{{ID: "c1", Name: "Osmosis", Definition: "Movement of water."}}
	store.addQuestions("c1", "osmosis", AllModes()...)

	ctrl := newTestController(t, store, concepts)
	ctx := context.Background()

	if _, err := ctrl.NextQuestion(ctx); err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	fb, err := ctrl.SubmitAnswer(ctx, "osmosis", 2500, 0)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !fb.Correct {
		t.Error("exact answer graded incorrect")
	}
	if !strings.HasPrefix(fb.Explanation, "Correct!") {
		t.Errorf("Explanation = %q", fb.Explanation)
	}

	state := store.states[stateKey("user-1", "c1")]
	if state.TotalAttempts != 1 || state.CorrectAttempts != 1 {
		t.Errorf("attempts = %d/%d, want 1/1", state.CorrectAttempts, state.TotalAttempts)
	}
	if state.Accuracy != 1.0 {
		t.Errorf("Accuracy = %v, want 1.0", state.Accuracy)
	}
	if state.BaselineResponseTimeMs != 2500 {
		t.Errorf("BaselineResponseTimeMs = %d, want 2500", state.BaselineResponseTimeMs)
	}
	if len(state.FormatsTested) != 1 || len(state.FormatsPassed) != 1 {
		t.Errorf("formats tested/passed = %d/%d, want 1/1", len(state.FormatsTested), len(state.FormatsPassed))
	}

	if ctrl.Session().TotalQuestions != 1 || ctrl.Session().TotalCorrect != 1 {
		t.Errorf("session counters = %d/%d, want 1/1",
			ctrl.Session().TotalCorrect, ctrl.Session().TotalQuestions)
	}
}

func TestControllerWrongAnswerResetsStreak(t *testing.T) {
	store := newMemStore()
	concepts := []models.Concept{{ID: "c1", Name: "Osmosis", Definition: "Movement of water."}}
	store.addQuestions("c1", "osmosis", AllModes()...)

	ctrl := newTestController(t, store, concepts)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := ctrl.NextQuestion(ctx); err != nil {
			t.Fatalf("NextQuestion: %v", err)
		}
		answer := "osmosis"
		if i == 2 {
			answer = "diffusion"
		}
		if _, err := ctrl.SubmitAnswer(ctx, answer, 2000, 0); err != nil {
			t.Fatalf("SubmitAnswer: %v", err)
		}
	}

	state := store.states[stateKey("user-1", "c1")]
	if state.ConsecutivePerfect != 0 {
		t.Errorf("ConsecutivePerfect = %d, want 0 after a miss", state.ConsecutivePerfect)
	}
	if state.MaxStreak != 2 {
		t.Errorf("MaxStreak = %d, want 2", state.MaxStreak)
	}
	got := state.Accuracy
	want := 2.0 / 3.0
	if got < want-1e-9 || got > want+1e-9 {
		t.Errorf("Accuracy = %v, want %v", got, want)
	}
}

func TestControllerMasteryAndCompletion(t *testing.T) {
	store := newMemStore()
	concepts := []models.Concept{{ID: "c1", Name: "Osmosis", Definition: "Movement of water."}}
	store.addQuestions("c1", "osmosis", AllModes()...)

	ctrl := newTestController(t, store, concepts)
	ctx := context.Background()

	// Answer correctly until mastery. Eleven perfect answers satisfy
	// accuracy and streak; recall needs recent correct history, which
	// accumulates as events are appended.
	var last *Feedback
	for i := 0; i < 30; i++ {
		_, err := ctrl.NextQuestion(ctx)
		if errors.Is(err, ErrSessionComplete) {
			break
		}
		if err != nil {
			t.Fatalf("NextQuestion: %v", err)
		}
		last, err = ctrl.SubmitAnswer(ctx, "osmosis", 2000, 0)
		if err != nil {
			t.Fatalf("SubmitAnswer: %v", err)
		}
		if last.SessionComplete {
			break
		}
	}

	if last == nil || !last.SessionComplete {
		t.Fatal("session never completed")
	}
	if !last.Mastered {
		t.Error("final answer did not report mastery")
	}
	if last.Stats == nil {
		t.Fatal("completion feedback missing stats")
	}
	if last.Stats.ConceptsMastered != 1 || last.Stats.TotalConcepts != 1 {
		t.Errorf("stats mastered/total = %d/%d, want 1/1",
			last.Stats.ConceptsMastered, last.Stats.TotalConcepts)
	}
	if store.mastered["user-1"] != 1 {
		t.Errorf("lifetime mastered counter = %d, want 1", store.mastered["user-1"])
	}

	state := store.states[stateKey("user-1", "c1")]
	if state.State != models.StateMastered {
		t.Errorf("State = %q, want mastered", state.State)
	}
	if state.NextReviewAt == nil {
		t.Error("NextReviewAt not set on mastery")
	}
}

func TestControllerSkipMarksStruggling(t *testing.T) {
	store := newMemStore()
	concepts := []models.Concept{{ID: "c1", Name: "Osmosis", Definition: "Movement of water."}}
	store.addQuestions("c1", "osmosis", AllModes()...)

	ctrl := newTestController(t, store, concepts)
	ctx := context.Background()

	if _, err := ctrl.NextQuestion(ctx); err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if err := ctrl.ProcessSkip(ctx); err != nil {
		t.Fatalf("ProcessSkip: %v", err)
	}

	state := store.states[stateKey("user-1", "c1")]
	if state.State != models.StateStruggling {
		t.Errorf("State = %q, want struggling after skip", state.State)
	}
	if state.HesitationCount != 1 {
		t.Errorf("HesitationCount = %d, want 1", state.HesitationCount)
	}
	if len(store.events) != 1 || !store.events[0].Skipped {
		t.Error("skip event not recorded")
	}
}

func TestControllerPeekRevealsWithoutScoring(t *testing.T) {
	store := newMemStore()
	concepts := []models.Concept{{ID: "c1", Name: "Osmosis", Definition: "Movement of water."}}
	store.addQuestions("c1", "osmosis", AllModes()...)

	ctrl := newTestController(t, store, concepts)
	ctx := context.Background()

	if _, err := ctrl.NextQuestion(ctx); err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	answer, err := ctrl.ProcessPeek(ctx)
	if err != nil {
		t.Fatalf("ProcessPeek: %v", err)
	}
	if answer != "osmosis" {
		t.Errorf("peek returned %q, want the answer text", answer)
	}

	if len(store.events) != 1 || !store.events[0].Peeked {
		t.Error("peek event not recorded")
	}
	if state, ok := store.states[stateKey("user-1", "c1")]; ok && state.TotalAttempts != 0 {
		t.Error("peek changed attempt counters")
	}
}

func TestControllerHint(t *testing.T) {
	store := newMemStore()
	concepts := []models.Concept{{ID: "c1", Name: "Osmosis", Definition: "Movement of water."}}

	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{"short answer masked", "osmosis", "o______"},
		{"long answer truncated", "the movement of water across a membrane", "the movement of wate..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.addQuestions("c1", tt.answer, ModeGuidedSolve)
			ctrl := newTestController(t, store, concepts)
			if _, err := ctrl.NextQuestion(context.Background()); err != nil {
				t.Fatalf("NextQuestion: %v", err)
			}
			if got := ctrl.Hint(); got != tt.want {
				t.Errorf("Hint() = %q, want %q", got, tt.want)
			}
		})
	}

	// No active question falls back to the concept name.
	store.addQuestions("c1", "osmosis", ModeGuidedSolve)
	ctrl := newTestController(t, store, concepts)
	if got := ctrl.Hint(); got != "" {
		t.Errorf("Hint() before first question = %q, want empty", got)
	}
}

func TestControllerSubmitWithoutQuestion(t *testing.T) {
	store := newMemStore()
	concepts := []models.Concept{{ID: "c1", Name: "Osmosis"}}
	store.addQuestions("c1", "osmosis", ModeGuidedSolve)

	ctrl := newTestController(t, store, concepts)
	_, err := ctrl.SubmitAnswer(context.Background(), "osmosis", 1000, 0)
	if !errors.Is(err, ErrNoActiveQuestion) {
		t.Errorf("err = %v, want ErrNoActiveQuestion", err)
	}
}

func TestControllerQuestionPoolRecycles(t *testing.T) {
	store := newMemStore()
	concepts := []models.Concept{{ID: "c1", Name: "Osmosis", Definition: "Movement of water."}}
	// One question per concept total: dedup must reset instead of
	// starving the session.
	store.addQuestions("c1", "osmosis", ModeGuidedSolve)

	ctrl := newTestController(t, store, concepts)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		q, err := ctrl.NextQuestion(ctx)
		if err != nil {
			t.Fatalf("NextQuestion round %d: %v", i, err)
		}
		if q.QuestionText == "" {
			t.Fatal("empty question served")
		}
		if _, err := ctrl.SubmitAnswer(ctx, "wrong", 1000, 0); err != nil {
			t.Fatalf("SubmitAnswer: %v", err)
		}
	}
}

func TestControllerNoQuestionsAtAll(t *testing.T) {
	store := newMemStore()
	concepts := []models.Concept{{ID: "c1", Name: "Osmosis"}}

	ctrl := newTestController(t, store, concepts)
	_, err := ctrl.NextQuestion(context.Background())
	if !errors.Is(err, ErrNoQuestionAvailable) {
		t.Errorf("err = %v, want ErrNoQuestionAvailable", err)
	}
}
