package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "insiderdash/internal/errors"
	"insiderdash/internal/exporter"
	"insiderdash/internal/services"
	"insiderdash/pkg/contracts/domain"
)

func TestExportHandler_DownloadExcel(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockDatasetService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "default scope",
			query: "",
			setupMock: func(m *MockDatasetService) {
				m.On("ExportExcel", "", domain.FilterSelection{}).Return(&services.Artifact{
					Filename:    "tabela_diretoria.xlsx",
					ContentType: exporter.ContentTypeXLSX,
					Data:        []byte("PK\x03\x04"),
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "PK\x03\x04",
		},
		{
			name:  "filtered scope",
			query: "?scope=filtered&company=Y",
			setupMock: func(m *MockDatasetService) {
				m.On("ExportExcel", "filtered", hasCompanies("Y")).Return(&services.Artifact{
					Filename:    "tabela_diretoria.xlsx",
					ContentType: exporter.ContentTypeXLSX,
					Data:        []byte("xlsx"),
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "xlsx",
		},
		{
			name:           "unknown scope",
			query:          "?scope=partial",
			setupMock:      func(m *MockDatasetService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "scope must be one of: all, filtered",
		},
		{
			name:  "export failure",
			query: "",
			setupMock: func(m *MockDatasetService) {
				m.On("ExportExcel", mock.Anything, mock.Anything).Return(nil,
					apierrors.NewExportError("failed to render workbook", errors.New("disk full")))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "/errors/export/failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDatasetService)
			tt.setupMock(mockService)

			logger, errorHandler, validator := testDeps(t)
			handler := NewExportHandler(mockService, validator, logger, errorHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/export.xlsx"+tt.query, nil)
			rec := httptest.NewRecorder()

			handler.DownloadExcel(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestExportHandler_DownloadHeaders(t *testing.T) {
	mockService := new(MockDatasetService)
	mockService.On("ExportExcel", "all", domain.FilterSelection{}).Return(&services.Artifact{
		Filename:    "tabela_diretoria.xlsx",
		ContentType: exporter.ContentTypeXLSX,
		Data:        []byte("12345"),
	}, nil)

	logger, errorHandler, validator := testDeps(t)
	handler := NewExportHandler(mockService, validator, logger, errorHandler)

	rec := httptest.NewRecorder()
	handler.DownloadExcel(rec, httptest.NewRequest(http.MethodGet, "/api/export.xlsx?scope=all", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exporter.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=tabela_diretoria.xlsx", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "5", rec.Header().Get("Content-Length"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestExportHandler_DownloadCSV(t *testing.T) {
	mockService := new(MockDatasetService)
	mockService.On("ExportCSV", "", domain.FilterSelection{}).Return(&services.Artifact{
		Filename:    "tabela_diretoria.csv",
		ContentType: exporter.ContentTypeCSV,
		Data:        []byte("Empresa,Volume\r\nY,2000.00\r\n"),
	}, nil)

	logger, errorHandler, validator := testDeps(t)
	handler := NewExportHandler(mockService, validator, logger, errorHandler)

	rec := httptest.NewRecorder()
	handler.DownloadCSV(rec, httptest.NewRequest(http.MethodGet, "/api/export.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exporter.ContentTypeCSV, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "tabela_diretoria.csv")
	assert.Contains(t, rec.Body.String(), "Y,2000.00")
	mockService.AssertExpectations(t)
}

func TestExportHandler_GetPayload(t *testing.T) {
	payload := domain.ExportPayload{
		Filename:      "tabela_diretoria.xlsx",
		ContentType:   exporter.ContentTypeXLSX,
		ContentBase64: "UEsDBA==",
		Size:          4,
	}

	mockService := new(MockDatasetService)
	mockService.On("ExportPayload", "", domain.FilterSelection{}).Return(payload, nil)

	logger, errorHandler, validator := testDeps(t)
	handler := NewExportHandler(mockService, validator, logger, errorHandler)

	rec := httptest.NewRecorder()
	handler.GetPayload(rec, httptest.NewRequest(http.MethodGet, "/api/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string               `json:"status"`
		Data   domain.ExportPayload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, payload, body.Data)
}
