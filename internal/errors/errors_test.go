package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	cause := fmt.Errorf("open data.csv: no such file or directory")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{
			name:     "load error with cause",
			err:      NewLoadError("failed to read source", cause),
			wantType: ErrTypeLoad,
			wantMsg:  "[LOAD] failed to read source: open data.csv: no such file or directory",
		},
		{
			name:     "schema error",
			err:      NewSchemaError("missing column Empresa", nil),
			wantType: ErrTypeSchema,
			wantMsg:  "[SCHEMA] missing column Empresa",
		},
		{
			name:     "export error",
			err:      NewExportError("write workbook", cause),
			wantType: ErrTypeExport,
			wantMsg:  "[EXPORT] write workbook: open data.csv: no such file or directory",
		},
		{
			name:     "validation error",
			err:      NewAppValidationError("date_from after date_to"),
			wantType: ErrTypeValidation,
			wantMsg:  "[VALIDATION] date_from after date_to",
		},
		{
			name:     "not found",
			err:      NewNotFoundError("column"),
			wantType: ErrTypeNotFound,
			wantMsg:  "[NOT_FOUND] column not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := fmt.Errorf("wrapped: %w", NewParsingError("bad cell", cause))

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(err, ErrTypeLoad))

	errType, ok := TypeOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrTypeParsing, errType)

	_, ok = TypeOf(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestAppErrorWithContext(t *testing.T) {
	err := (&AppError{Type: ErrTypeLoad, Message: "x"}).WithContext("path", "a.csv")
	assert.Equal(t, "a.csv", err.Context["path"])
}

func TestAPIErrorHelpers(t *testing.T) {
	err := ErrValidation("date_from", "must be YYYY-MM-DD")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "date_from", details.Field)

	nf := NotFoundError("dataset")
	assert.Equal(t, "dataset not found", nf.Error())
	assert.Equal(t, http.StatusNotFound, nf.StatusCode)
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusServiceUnavailable, TypeDataLoadFailed, "Dataset Load Failed", "cannot read", "/api/dataset").
		WithExtension("trace_id", "abc").
		WithExtension("type", "ignored")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeDataLoadFailed, decoded["type"])
	assert.Equal(t, "Dataset Load Failed", decoded["title"])
	assert.Equal(t, float64(503), decoded["status"])
	assert.Equal(t, "cannot read", decoded["detail"])
	assert.Equal(t, "/api/dataset", decoded["instance"])
	assert.Equal(t, "abc", decoded["trace_id"])
}
