// Package apierr maps service errors to HTTP status codes.
package apierr

import (
	"context"
	"errors"
	"net/http"

	"github.com/zhouzirui/reply-studio/backend/internal/service/reply"
	"github.com/zhouzirui/reply-studio/backend/internal/service/session"
)

// Status returns the HTTP status and client-facing message for err.
func Status(err error) (int, string) {
	var genErr *reply.GenerationError

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, session.ErrGenerationInFlight):
		return http.StatusConflict, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "reply generation timed out"
	case errors.As(err, &genErr):
		return http.StatusBadGateway, genErr.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
