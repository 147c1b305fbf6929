package domain

import "errors"

var (
	// ErrEmptyCatalog is returned when a session is started with no questions.
	ErrEmptyCatalog = errors.New("catalog has no questions")
	// ErrInvalidOption is returned when an answer index is out of range for the current question.
	ErrInvalidOption = errors.New("option index out of range")
	// ErrUnansweredQuestion blocks advancing past a question that has no answer yet.
	ErrUnansweredQuestion = errors.New("current question not answered")
	// ErrSessionCompleted is returned by navigation calls on a finished session.
	ErrSessionCompleted = errors.New("quiz session already completed")
	// ErrSessionNotCompleted is returned when results are requested mid-session.
	ErrSessionNotCompleted = errors.New("quiz session not completed")
	// ErrInvalidPoints rejects attempt points that are negative or not a multiple of 10.
	ErrInvalidPoints = errors.New("attempt points must be a non-negative multiple of 10")

	// ErrCatalogNotFound indicates the requested catalog does not exist.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrCatalogUnavailable indicates the catalog source failed (I/O, not a miss).
	ErrCatalogUnavailable = errors.New("catalog source unavailable")

	// ErrUserNotFound indicates the user record does not exist in the store.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned on registration with an already-registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrStoreUnavailable indicates the user store failed (I/O, not a miss).
	ErrStoreUnavailable = errors.New("user store unavailable")
)
