package domain

import "errors"

var (
	// ErrInvalidQuizData is returned when round or question data is malformed or inconsistent.
	ErrInvalidQuizData = errors.New("invalid quiz data")
	// ErrNoPendingQuestion is returned when an answer arrives while no question is shown.
	ErrNoPendingQuestion = errors.New("no pending question")
	// ErrInvalidPhase indicates an operation that the current quiz phase does not allow.
	ErrInvalidPhase = errors.New("operation not allowed in current quiz phase")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrEmailRejected is returned by the entry gate for addresses outside the accepted domains.
	ErrEmailRejected = errors.New("email address not accepted")
	// ErrAttemptInProgress is returned when a candidate already has a live attempt.
	ErrAttemptInProgress = errors.New("quiz attempt already in progress")
	// ErrSessionClosed is returned for commands sent to a closed session.
	ErrSessionClosed = errors.New("quiz session closed")
)
