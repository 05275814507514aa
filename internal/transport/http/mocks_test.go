package http

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"insiderdash/internal/dataprocessing"
	apierrors "insiderdash/internal/errors"
	mw "insiderdash/internal/middleware"
	"insiderdash/internal/services"
	"insiderdash/internal/shared/testutil"
	"insiderdash/pkg/contracts/domain"
)

// MockDatasetService is a mock implementation of DatasetServiceInterface
type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) Query(ctx context.Context, sel domain.FilterSelection) (domain.TableView, error) {
	args := m.Called(sel)
	return args.Get(0).(domain.TableView), args.Error(1)
}

func (m *MockDatasetService) Options(ctx context.Context) (domain.FilterOptions, error) {
	args := m.Called()
	return args.Get(0).(domain.FilterOptions), args.Error(1)
}

func (m *MockDatasetService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	args := m.Called()
	return args.Get(0).(domain.DatasetSummary), args.Error(1)
}

func (m *MockDatasetService) Reload(ctx context.Context) (*dataprocessing.Dataset, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataprocessing.Dataset), args.Error(1)
}

func (m *MockDatasetService) ExportExcel(ctx context.Context, scope string, sel domain.FilterSelection) (*services.Artifact, error) {
	args := m.Called(scope, sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Artifact), args.Error(1)
}

func (m *MockDatasetService) ExportCSV(ctx context.Context, scope string, sel domain.FilterSelection) (*services.Artifact, error) {
	args := m.Called(scope, sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Artifact), args.Error(1)
}

func (m *MockDatasetService) ExportPayload(ctx context.Context, scope string, sel domain.FilterSelection) (domain.ExportPayload, error) {
	args := m.Called(scope, sel)
	return args.Get(0).(domain.ExportPayload), args.Error(1)
}

func testDeps(t *testing.T) (*slog.Logger, *apierrors.ErrorHandler, *mw.QueryValidator) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return logger, errorHandler, mw.NewQueryValidator(logger, errorHandler)
}

func sampleView() domain.TableView {
	return domain.TableView{
		Columns: []string{"Empresa", "Data_Referencia", "Volume"},
		Rows: [][]string{
			{"Y", "2024-01-31", "2000.00"},
			{"X", "2024-01-15", "1000.00"},
		},
		Count: 2,
	}
}

func sampleOptions() domain.FilterOptions {
	minDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	maxDate := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	return domain.FilterOptions{
		Companies:     []string{"X", "Y"},
		MovementTypes: []string{"Compra", "Venda"},
		Roles:         []string{"Diretor"},
		MinDate:       &minDate,
		MaxDate:       &maxDate,
	}
}

// hasCompanies matches a selection filtering exactly on companies
func hasCompanies(companies ...string) interface{} {
	return mock.MatchedBy(func(sel domain.FilterSelection) bool {
		if len(sel.Companies) != len(companies) {
			return false
		}
		for i := range companies {
			if sel.Companies[i] != companies[i] {
				return false
			}
		}
		return true
	})
}

// hasDateRange matches a selection whose date range is exactly [from, to]
func hasDateRange(from, to string) interface{} {
	return mock.MatchedBy(func(sel domain.FilterSelection) bool {
		return sel.HasDateRange() &&
			sel.DateFrom.Format(time.DateOnly) == from &&
			sel.DateTo.Format(time.DateOnly) == to
	})
}
