package engine

import "errors"

var (
	// ErrNoConcepts means the material has no concepts at all; sessions
	// must not start against it.
	ErrNoConcepts = errors.New("material has no concepts")

	// ErrNoQuestionAvailable means a concept truly has no questions left
	// after every fallback. Terminal for the session, not retried.
	ErrNoQuestionAvailable = errors.New("no question available for concept")

	// ErrSessionComplete signals that every concept is mastered.
	ErrSessionComplete = errors.New("session complete")

	// ErrNoActiveQuestion means an answer/skip/peek/hint arrived before
	// any question was served this session.
	ErrNoActiveQuestion = errors.New("no active question")

	// errAllConceptsSettled is the scheduler's "nothing scorable" signal:
	// every concept is mastered and none is due for review. The
	// controller treats it as a session-completion check, never as a
	// concept selection.
	errAllConceptsSettled = errors.New("all concepts settled")
)
