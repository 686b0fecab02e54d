package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/streamhub/backend/internal/accounts"
	"github.com/streamhub/backend/internal/auth"
	"github.com/streamhub/backend/internal/logging"
	"github.com/streamhub/backend/internal/repositories"
)

// apiResponse is the envelope every endpoint returns.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload := apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "message", message)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "message", message)
	}
}

// respondError maps core error kinds onto their HTTP classes. Unknown errors
// become opaque 500s so internals never leak to clients.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounts.ErrInvalidInput):
		respondJSON(ctx, w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, repositories.ErrConflict):
		respondJSON(ctx, w, http.StatusConflict, "resource already exists", nil)
	case errors.Is(err, accounts.ErrInvalidCredentials):
		respondJSON(ctx, w, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, auth.ErrTokenExpired):
		respondJSON(ctx, w, http.StatusUnauthorized, "token expired", nil)
	case errors.Is(err, auth.ErrTokenRevoked):
		respondJSON(ctx, w, http.StatusUnauthorized, "refresh token is expired or already used", nil)
	case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, auth.ErrTokenKindMismatch):
		respondJSON(ctx, w, http.StatusUnauthorized, "invalid token", nil)
	case errors.Is(err, repositories.ErrNotFound):
		respondJSON(ctx, w, http.StatusNotFound, "resource not found", nil)
	default:
		logging.FromContext(ctx).Error("unhandled error", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, "internal server error", nil)
	}
}
