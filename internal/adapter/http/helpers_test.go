package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stridehq/stride/internal/domain"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestWriteDomainError_TypedError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := domain.Conflictf("budget_exceeded", "active goals require 11.0 hours").
		WithDetail("requiredHoursPerWeek", 11.0)

	writeDomainError(rec, err)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Error.Code != "budget_exceeded" {
		t.Errorf("code = %q", body.Error.Code)
	}
	if body.Error.Details["requiredHoursPerWeek"] != 11.0 {
		t.Errorf("details = %v", body.Error.Details)
	}
}

func TestWriteDomainError_WrappedTypedError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("handle message: %w", domain.Unavailablef("planner circuit open"))

	writeDomainError(rec, err)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if body := decodeErrorBody(t, rec); body.Error.Code != "upstream_unavailable" {
		t.Errorf("code = %q", body.Error.Code)
	}
}

func TestWriteDomainError_Sentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{domain.ErrConflict, http.StatusConflict, "version_conflict"},
		{domain.ErrValidation, http.StatusBadRequest, "invalid_request"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{domain.ErrUnavailable, http.StatusServiceUnavailable, "upstream_unavailable"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeDomainError(rec, fmt.Errorf("store: %w", tc.err))
		if rec.Code != tc.status {
			t.Errorf("%v: status = %d, want %d", tc.err, rec.Code, tc.status)
		}
		if body := decodeErrorBody(t, rec); body.Error.Code != tc.code {
			t.Errorf("%v: code = %q, want %q", tc.err, body.Error.Code, tc.code)
		}
	}
}

func TestWriteDomainError_UnknownErrorIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, errors.New("something odd"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Error.Code != "internal_error" {
		t.Errorf("code = %q", body.Error.Code)
	}
	if body.Error.Message == "something odd" {
		t.Error("internal error details must not leak to the client")
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS("http://localhost:3000")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("preflight must not reach the next handler")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/goals", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin = %q", got)
	}
}
