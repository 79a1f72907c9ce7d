package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/habitflow/habitflow-backend/internal/pkg/apperr"
)

func recordError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondError(c, err)

	var envelope ErrorEnvelope
	if jErr := json.Unmarshal(rec.Body.Bytes(), &envelope); jErr != nil {
		t.Fatalf("decoding error envelope: %v (%s)", jErr, rec.Body.String())
	}
	return rec, envelope
}

func TestRespondErrorMapsKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "validation", err: apperr.Validationf("count must be positive"), wantStatus: http.StatusBadRequest, wantCode: "validation"},
		{name: "not_found", err: apperr.NotFoundf("habit not found"), wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "conflict", err: apperr.Conflictf("category exists"), wantStatus: http.StatusConflict, wantCode: "conflict"},
		{name: "computation", err: apperr.Computation("recalc failed", errors.New("db down")), wantStatus: http.StatusInternalServerError, wantCode: "computation"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, envelope := recordError(t, tc.err)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", envelope.Error.Code, tc.wantCode)
			}
			if envelope.Error.Message == "" {
				t.Fatal("message must not be empty")
			}
		})
	}
}

func TestRespondErrorHidesInternals(t *testing.T) {
	rec, envelope := recordError(t, errors.New("pq: connection refused at 10.0.0.4"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if envelope.Error.Message != "internal error" {
		t.Fatalf("message = %q, internals must not leak", envelope.Error.Message)
	}
}

func TestRespondErrorUnwrapsWrappedAppErr(t *testing.T) {
	wrapped := errors.Join(errors.New("loading habit"), apperr.NotFoundf("habit not found"))
	rec, _ := recordError(t, wrapped)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for wrapped not_found", rec.Code)
	}
}
