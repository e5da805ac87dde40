package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when no live session answers to a PIN.
	ErrSessionNotFound = errors.New("session not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizSourceUnavailable wraps quiz store failures other than a missing quiz.
	ErrQuizSourceUnavailable = errors.New("quiz source unavailable")
	// ErrInvalidQuiz is returned by loaders for documents that break the quiz shape.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrPinSpaceExhausted means no free PIN was found within the retry budget.
	ErrPinSpaceExhausted = errors.New("pin space exhausted")
	// ErrNameTaken rejects a join whose display name is already on the roster.
	ErrNameTaken = errors.New("name already taken")
	// ErrInvalidName rejects a join with an empty display name.
	ErrInvalidName = errors.New("invalid player name")
)

// Rejection reasons sent to the affected connection.
const (
	ReasonInvalidPIN        = "invalid_pin"
	ReasonNameTaken         = "name_taken"
	ReasonInvalidName       = "invalid_name"
	ReasonQuizNotFound      = "quiz_not_found"
	ReasonSourceUnavailable = "quiz_source_unavailable"
	ReasonPinSpaceExhausted = "pin_space_exhausted"
	ReasonInternal          = "internal_error"
)

// Reason maps an error to the rejection reason reported to clients.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return ReasonInvalidPIN
	case errors.Is(err, ErrNameTaken):
		return ReasonNameTaken
	case errors.Is(err, ErrInvalidName):
		return ReasonInvalidName
	case errors.Is(err, ErrQuizNotFound):
		return ReasonQuizNotFound
	case errors.Is(err, ErrQuizSourceUnavailable):
		return ReasonSourceUnavailable
	case errors.Is(err, ErrPinSpaceExhausted):
		return ReasonPinSpaceExhausted
	default:
		return ReasonInternal
	}
}

// Unavailable wraps err as ErrQuizSourceUnavailable unless it already reports a missing quiz.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrQuizNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrQuizSourceUnavailable, err)
}
