package domain

import "errors"

var (
	// ErrEmptyAnswer is returned when a submission is empty or blank after
	// trimming. The session state is left unchanged.
	ErrEmptyAnswer = errors.New("answer is empty")
	// ErrSessionComplete is returned when an answer is submitted after the
	// session reached its terminal state.
	ErrSessionComplete = errors.New("session already complete")
	// ErrSessionNotFound is returned when acting on an unknown session ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrEmptyBank indicates a bank with no questions, which cannot host a session.
	ErrEmptyBank = errors.New("question bank has no questions")
)
