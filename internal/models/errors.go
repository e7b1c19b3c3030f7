package models

import "errors"

var (
	// ErrSessionNotFound is returned when a session does not exist or does
	// not belong to the caller.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuestionNotFound indicates a submitted question ID is unknown.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAlreadyCompleted is returned on any mutation of a finalized session.
	ErrAlreadyCompleted = errors.New("quiz session already completed")
	// ErrNoQuestionsAvailable indicates the catalog holds no usable content
	// for the requested scope.
	ErrNoQuestionsAvailable = errors.New("no questions available for this selection")
	// ErrDuplicateAnswer is returned when a question is submitted twice
	// within the same session.
	ErrDuplicateAnswer = errors.New("question already answered in this session")
	// ErrConcurrentModification is returned after a version conflict persists
	// through a retry.
	ErrConcurrentModification = errors.New("session modified concurrently")
	// ErrInvalidResult guards zero-question finalization.
	ErrInvalidResult = errors.New("cannot build a result from zero questions")
	// ErrVersionConflict is the store-level optimistic lock failure; callers
	// retry once before surfacing ErrConcurrentModification.
	ErrVersionConflict = errors.New("session version conflict")
)
