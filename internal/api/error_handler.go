package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/openshelf/library-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// errorMappings pairs each domain sentinel with its HTTP status: not found →
// 404, conflicts (duplicates, no copies, already returned) → 409, invalid
// input → 400.
var errorMappings = []struct {
	err  error
	code int
}{
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrBookNotFound, http.StatusNotFound},
	{domain.ErrLoanNotFound, http.StatusNotFound},
	{domain.ErrAuditEntryNotFound, http.StatusNotFound},
	{domain.ErrDuplicateUser, http.StatusConflict},
	{domain.ErrDuplicateISBN, http.StatusConflict},
	{domain.ErrNoCopiesAvailable, http.StatusConflict},
	{domain.ErrLoanAlreadyReturned, http.StatusConflict},
	{domain.ErrInvalidRole, http.StatusBadRequest},
	{domain.ErrInvalidCopyDelta, http.StatusBadRequest},
	{domain.ErrAuditMissingFields, http.StatusBadRequest},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. The sentinel's own
	// message goes out, not the wrapped chain.
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.code, m.err.Error()
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
