package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medstock/inventory-tracker/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantKind string
	}{
		{domain.ErrStockItemNotFound, http.StatusNotFound, domain.KindNotFound},
		{domain.InvalidInput("quantity must be positive"), http.StatusBadRequest, domain.KindInvalidInput},
		{fmt.Errorf("allocate: %w", domain.ErrInsufficientStock), http.StatusConflict, domain.KindInsufficientStock},
		{domain.ErrDuplicateUniqueNum, http.StatusConflict, domain.KindConflict},
		{domain.ErrInvalidTransition, http.StatusUnprocessableEntity, domain.KindInvalidTransition},
		{domain.ErrForbidden, http.StatusForbidden, domain.KindForbidden},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, domain.KindUnauthenticated},
		{domain.StorageError("find", errors.New("dial tcp")), http.StatusInternalServerError, domain.KindStorage},
		{errors.New("boom"), http.StatusInternalServerError, domain.KindInternal},
		{echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized, domain.KindUnauthenticated},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/stock", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h(tc.err, c)

		if rec.Code != tc.wantCode {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.wantCode, rec.Code)
			continue
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if body.Kind != tc.wantKind {
			t.Errorf("%v: expected kind %s, got %s", tc.err, tc.wantKind, body.Kind)
		}
		if tc.wantCode == http.StatusInternalServerError && body.Error != "internal server error" {
			t.Errorf("internal error leaked: %q", body.Error)
		}
	}
}
