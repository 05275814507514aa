package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"insiderdash/internal/config"
	apierrors "insiderdash/internal/errors"
	"insiderdash/pkg/contracts/domain"
)

func newDashboard(t *testing.T, m *MockDatasetService) *DashboardHandler {
	t.Helper()
	logger, errorHandler, validator := testDeps(t)
	return NewDashboardHandler(m, validator, config.Default().Dashboard, logger, errorHandler)
}

func TestDashboardHandler_Render(t *testing.T) {
	mockService := new(MockDatasetService)
	mockService.On("Options").Return(sampleOptions(), nil)
	mockService.On("Query", hasDateRange("2024-01-15", "2024-01-31")).Return(sampleView(), nil)

	rec := httptest.NewRecorder()
	newDashboard(t, mockService).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "<title>Dashboard STK</title>")
	assert.Contains(t, body, "#102E46")
	assert.Contains(t, body, `<option value="Compra">Compra</option>`)
	assert.Contains(t, body, `value="2024-01-15"`)
	assert.Contains(t, body, `value="2024-01-31"`)
	assert.Contains(t, body, "<td>2000.00</td>")
	assert.Contains(t, body, "2 registro(s)")
	assert.Contains(t, body, "height: 600px")
	assert.NotContains(t, body, `role="alert"`)
	mockService.AssertExpectations(t)
}

func TestDashboardHandler_SelectedFilters(t *testing.T) {
	mockService := new(MockDatasetService)
	mockService.On("Options").Return(sampleOptions(), nil)
	mockService.On("Query", hasCompanies("Y")).Return(domain.TableView{
		Columns: []string{"Empresa"},
		Rows:    [][]string{{"Y"}},
		Count:   1,
	}, nil)

	rec := httptest.NewRecorder()
	newDashboard(t, mockService).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?company=Y", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `<option value="Y" selected>Y</option>`)
	assert.Contains(t, body, `<option value="X">X</option>`)
	assert.Contains(t, body, "/api/export.xlsx?company=Y&amp;date_from=2024-01-15&amp;date_to=2024-01-31&amp;scope=filtered")
	assert.Contains(t, body, "/api/export.csv?company=Y&amp;date_from=2024-01-15&amp;date_to=2024-01-31&amp;scope=filtered")
	mockService.AssertExpectations(t)
}

func TestDashboardHandler_DefaultDateRange(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantFrom string
		wantTo   string
	}{
		{"both defaulted", "", "2024-01-15", "2024-01-31"},
		{"only from given", "?date_from=2024-01-20", "2024-01-20", "2024-01-31"},
		{"only to given", "?date_to=2024-01-20", "2024-01-15", "2024-01-20"},
		{"both given", "?date_from=2024-01-16&date_to=2024-01-17", "2024-01-16", "2024-01-17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDatasetService)
			mockService.On("Options").Return(sampleOptions(), nil)
			mockService.On("Query", hasDateRange(tt.wantFrom, tt.wantTo)).Return(sampleView(), nil)

			rec := httptest.NewRecorder()
			newDashboard(t, mockService).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))

			body := rec.Body.String()
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, body, `value="`+tt.wantFrom+`"`)
			assert.Contains(t, body, `value="`+tt.wantTo+`"`)
			assert.Contains(t, body, "date_from="+tt.wantFrom+"&amp;date_to="+tt.wantTo)
			mockService.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_NoDatesKeepsRangeOpen(t *testing.T) {
	opts := sampleOptions()
	opts.MinDate, opts.MaxDate = nil, nil

	mockService := new(MockDatasetService)
	mockService.On("Options").Return(opts, nil)
	mockService.On("Query", domain.FilterSelection{}).Return(sampleView(), nil)

	rec := httptest.NewRecorder()
	newDashboard(t, mockService).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/export.xlsx?scope=filtered")
	mockService.AssertExpectations(t)
}

func TestDashboardHandler_Errors(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockDatasetService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "load failure",
			query: "",
			setupMock: func(m *MockDatasetService) {
				m.On("Options").Return(domain.FilterOptions{},
					apierrors.NewLoadError("failed to open data source", errors.New("missing")))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "failed to open data source",
		},
		{
			name:  "malformed date",
			query: "?date_to=amanha",
			setupMock: func(m *MockDatasetService) {
				m.On("Options").Return(sampleOptions(), nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "date_to must be a date in YYYY-MM-DD format",
		},
		{
			name:  "inverted range",
			query: "?date_from=2024-02-01&date_to=2024-01-01",
			setupMock: func(m *MockDatasetService) {
				m.On("Options").Return(sampleOptions(), nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "date_from must not be after date_to",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDatasetService)
			tt.setupMock(mockService)

			rec := httptest.NewRecorder()
			newDashboard(t, mockService).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))

			body := rec.Body.String()
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, body, `role="alert"`)
			assert.Contains(t, body, tt.expectedBody)
			assert.NotContains(t, body, "<table>")
			mockService.AssertNotCalled(t, "Query", mock.Anything)
		})
	}
}
