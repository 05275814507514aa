package http

import (
	"context"

	"insiderdash/internal/dataprocessing"
	"insiderdash/internal/services"
	"insiderdash/pkg/contracts/domain"
)

// DatasetServiceInterface defines the dataset operations the handlers use
type DatasetServiceInterface interface {
	Query(ctx context.Context, sel domain.FilterSelection) (domain.TableView, error)
	Options(ctx context.Context) (domain.FilterOptions, error)
	Summary(ctx context.Context) (domain.DatasetSummary, error)
	Reload(ctx context.Context) (*dataprocessing.Dataset, error)
	ExportExcel(ctx context.Context, scope string, sel domain.FilterSelection) (*services.Artifact, error)
	ExportCSV(ctx context.Context, scope string, sel domain.FilterSelection) (*services.Artifact, error)
	ExportPayload(ctx context.Context, scope string, sel domain.FilterSelection) (domain.ExportPayload, error)
}
