package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hearthhub/hearthhub/internal/auth"
	"github.com/hearthhub/hearthhub/internal/service"
	"github.com/hearthhub/hearthhub/internal/storage"
)

// errorBody is the uniform JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// writeError maps a service failure to an HTTP status. The mapping lives
// only here; services know nothing about status codes.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		slog.Error("request failed", "error", err, "status", status)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	var ve *service.ValidationError
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError

	switch {
	case errors.As(err, &ve), errors.As(err, &syn), errors.As(err, &typ):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrBatchTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInactiveUser):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrEmailExists),
		errors.Is(err, storage.ErrNotAccepting),
		errors.Is(err, service.ErrAlreadyInFamily):
		return http.StatusConflict
	case errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
