package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"pay-my-buddy-go/internal/api"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a service error onto an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, api.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, api.ErrInvalidInput),
		errors.Is(err, api.ErrInvalidAmount),
		errors.Is(err, api.ErrInvalidPayee),
		errors.Is(err, api.ErrInsufficientBalance),
		errors.Is(err, api.ErrDuplicateConnection),
		errors.Is(err, api.ErrEmailAlreadyUsed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError hides the detail of unexpected failures from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("Failed to encode response", zap.Error(err))
	}
}
