package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/delivery"
)

const (
	CodeValidation   = "validation_error"
	CodeNotFound     = "not_found"
	CodeRateLimited  = "rate_limited"
	CodeUnavailable  = "storage_unavailable"
	CodeInternal     = "internal"
	CodeUnauthorized = "unauthorized"
)

const retryMessage = "storage is temporarily unavailable, please retry"

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: message, Code: code}})
}

// respondServiceError maps storage failures to 503 and everything else to 500.
func respondServiceError(c *gin.Context, err error, event string) {
	ctx := c.Request.Context()

	var storageErr *delivery.StorageError
	if errors.As(err, &storageErr) {
		slog.WarnContext(ctx, "request failed on storage",
			slog.String("event", event),
			slog.String("op", storageErr.Op),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusServiceUnavailable, CodeUnavailable, retryMessage)
		return
	}

	slog.ErrorContext(ctx, "request failed",
		slog.String("event", event),
		slog.String("error", err.Error()),
	)
	respondError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
}
