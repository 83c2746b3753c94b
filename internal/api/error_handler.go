package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

var kindStatus = map[string]int{
	domain.KindNotFound:          http.StatusNotFound,
	domain.KindInvalidInput:      http.StatusBadRequest,
	domain.KindInsufficientStock: http.StatusConflict,
	domain.KindConflict:          http.StatusConflict,
	domain.KindInvalidTransition: http.StatusUnprocessableEntity,
	domain.KindForbidden:         http.StatusForbidden,
	domain.KindUnauthenticated:   http.StatusUnauthorized,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs storage and unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "kind": "<kind>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, auth middleware).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Kind: kindForStatus(he.Code)}
	}

	kind := domain.Kind(err)
	if code, ok := kindStatus[kind]; ok {
		return code, errorResponse{Error: err.Error(), Kind: kind}
	}

	log.Error().
		Err(err).
		Str("kind", kind).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Kind: kind}
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusNotFound:
		return domain.KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.KindInvalidInput
	case http.StatusUnauthorized:
		return domain.KindUnauthenticated
	case http.StatusForbidden:
		return domain.KindForbidden
	case http.StatusConflict:
		return domain.KindConflict
	}
	if code >= http.StatusInternalServerError {
		return domain.KindInternal
	}
	return http.StatusText(code)
}
