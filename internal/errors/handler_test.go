package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func TestErrorToProblem(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/dataset", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"load failure", NewLoadError("no file", nil), http.StatusServiceUnavailable, TypeDataLoadFailed},
		{"wrapped load failure", fmt.Errorf("service: %w", NewLoadError("no file", nil)), http.StatusServiceUnavailable, TypeDataLoadFailed},
		{"schema", NewSchemaError("missing Empresa", nil), http.StatusUnprocessableEntity, TypeDataSchema},
		{"parsing", NewParsingError("dates", nil), http.StatusUnprocessableEntity, TypeDataParsing},
		{"export", NewExportError("xlsx", nil), http.StatusInternalServerError, TypeExportFailed},
		{"validation", NewAppValidationError("bad range"), http.StatusBadRequest, TypeValidation},
		{"not found", NewNotFoundError("x"), http.StatusNotFound, TypeNotFound},
		{"config", NewConfigError("bad", nil), http.StatusInternalServerError, TypeInternal},
		{"api validation", ErrValidation("date_to", "bad"), http.StatusBadRequest, TypeValidation},
		{"api rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests, TypeRateLimit},
		{"api unavailable", ErrDatasetUnavailable, http.StatusServiceUnavailable, TypeServiceDown},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"unknown", fmt.Errorf("plain"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/dataset", problem.Instance)
		})
	}
}

func TestHandleErrorWritesProblem(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/dataset", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, NewLoadError("cannot read input", nil).WithContext("source", "data.csv"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeDataLoadFailed, body["type"])
	assert.Equal(t, "LOAD", body["error_type"])
	assert.Equal(t, "DATASET_UNAVAILABLE", body["error_code"])
	assert.Contains(t, body["detail"], "cannot read input")
}

func TestHandleErrorNil(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestRecoveryMiddleware(t *testing.T) {
	h := newTestHandler()
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	RecoveryMiddleware(h)(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dataset", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), TypeInternal)
	assert.NotContains(t, rec.Body.String(), "kaboom")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/dataset", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "DELETE")
}
