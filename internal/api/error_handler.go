package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/dashboard/internal/core/domain"
	"github.com/userhub/dashboard/internal/core/userform"
	"github.com/userhub/dashboard/internal/security"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Surfaces backend-provided 4xx messages verbatim, after sanitization.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger, sanitizer *security.MessageSanitizer) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, sanitizer, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, sanitizer *security.MessageSanitizer, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrInvalidRole), errors.Is(err, userform.ErrRoleNotOffered):
		return http.StatusUnprocessableEntity, "role cannot be assigned"
	case errors.Is(err, domain.ErrBackendUnreachable):
		log.Error().Err(err).Str("path", c.Path()).Msg("user backend unreachable")
		return http.StatusBadGateway, "user service is unavailable, try again later"
	}

	// Backend-reported failures: 4xx messages are the backend talking to the
	// user and pass through as-is (sanitized); 5xx bodies are not trusted.
	var be *domain.BackendError
	if errors.As(err, &be) {
		if be.StatusCode >= 400 && be.StatusCode < 500 {
			msg := sanitizer.Sanitize(be.Message)
			if msg == "" {
				msg = "request rejected"
			}
			return be.StatusCode, msg
		}
		return http.StatusBadGateway, "user service error, try again later"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
