package http

import (
	"errors"
	"net/http"

	"lingo-quiz-service/internal/domain"
)

// errorCode maps domain errors onto stable client-facing codes and HTTP statuses.
func errorCode(err error) (string, int) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return "session_not_found", http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyAnswered):
		return "already_answered", http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return "validation", http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited", http.StatusTooManyRequests
	case errors.Is(err, domain.ErrTranslation):
		return "translation_failed", http.StatusBadGateway
	case errors.Is(err, domain.ErrManagerClosed):
		return "unavailable", http.StatusServiceUnavailable
	default:
		return "internal", http.StatusInternalServerError
	}
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newErrorPayload(err error) errorPayload {
	code, _ := errorCode(err)
	return errorPayload{Code: code, Message: err.Error()}
}
