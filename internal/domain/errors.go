package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned for unknown, expired or archived quiz sessions.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrAlreadyAnswered is returned when the session (solo) or the user (multiplayer) already answered.
	ErrAlreadyAnswered = errors.New("already answered")
	// ErrValidation marks bad caller input that has no safe default.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence marks failures of the backing store. Nothing is committed when it is returned.
	ErrPersistence = errors.New("persistence failure")
	// ErrTranslation indicates the translation provider could not produce a quiz.
	ErrTranslation = errors.New("translation failed")
	// ErrRateLimited is returned when a user exceeds the quiz start rate.
	ErrRateLimited = errors.New("rate limited")
	// ErrManagerClosed is returned once the session manager has shut down.
	ErrManagerClosed = errors.New("session manager closed")

	ErrUnsupportedLanguage = fmt.Errorf("%w: unsupported language", ErrValidation)
	ErrInvalidMode         = fmt.Errorf("%w: invalid mode", ErrValidation)
	ErrInvalidOption       = fmt.Errorf("%w: option index out of range", ErrValidation)
)
