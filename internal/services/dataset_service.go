package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"insiderdash/internal/dataprocessing"
	apperrors "insiderdash/internal/errors"
	"insiderdash/internal/exporter"
	"insiderdash/internal/infrastructure"
	"insiderdash/pkg/contracts/domain"
)

// Export scopes
const (
	ScopeAll      = "all"
	ScopeFiltered = "filtered"
)

const loadKey = "dataset"

// Artifact is a rendered export ready to be written to a client or file
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DatasetServiceConfig carries the collaborators of a DatasetService.
// Zero values select defaults: no expiry, the global tracer, no-op metrics,
// default exporters and the wall clock.
type DatasetServiceConfig struct {
	Source       Source
	Load         dataprocessing.LoadOptions
	Normalize    dataprocessing.NormalizeOptions
	TTL          time.Duration
	DefaultScope string
	Excel        *exporter.ExcelExporter
	CSV          *exporter.CSVWriter
	Metrics      *infrastructure.PipelineMetrics
	Tracer       trace.Tracer
	Now          func() time.Time
}

// snapshot is one published normalization result
type snapshot struct {
	dataset   *dataprocessing.Dataset
	loadedAt  time.Time
	expiresAt time.Time // zero means never
}

func (s *snapshot) validAt(now time.Time) bool {
	return s != nil && (s.expiresAt.IsZero() || now.Before(s.expiresAt))
}

// DatasetService owns the cached normalized table. Loads run at most once per
// cache window; concurrent callers share a single in-flight load and readers
// never block on the published snapshot.
type DatasetService struct {
	source       Source
	loadOpts     dataprocessing.LoadOptions
	normalizer   *dataprocessing.Normalizer
	ttl          time.Duration
	defaultScope string
	excel        *exporter.ExcelExporter
	csv          *exporter.CSVWriter
	metrics      *infrastructure.PipelineMetrics
	tracer       trace.Tracer
	now          func() time.Time
	logger       *slog.Logger

	group   singleflight.Group
	current atomic.Pointer[snapshot]
	loads   atomic.Int64
}

// NewDatasetService creates a DatasetService
func NewDatasetService(cfg DatasetServiceConfig, logger *slog.Logger) (*DatasetService, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("dataset source is required")
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("cache ttl must not be negative, got %s", cfg.TTL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dataset_service"))

	if cfg.Load.Delimiter == 0 {
		cfg.Load = dataprocessing.DefaultLoadOptions()
	}
	if cfg.DefaultScope == "" {
		cfg.DefaultScope = ScopeAll
	}
	if cfg.DefaultScope != ScopeAll && cfg.DefaultScope != ScopeFiltered {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, cfg.DefaultScope)
	}
	if cfg.Excel == nil {
		cfg.Excel = exporter.NewExcelExporter(exporter.DefaultExcelOptions(), logger)
	}
	if cfg.CSV == nil {
		cfg.CSV = exporter.NewCSVWriter("tabela_diretoria.csv", logger)
	}
	if cfg.Metrics == nil {
		cfg.Metrics = infrastructure.NoopPipelineMetrics()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(infrastructure.MeterName)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	logger.Info("DatasetService initialized",
		slog.String("source", cfg.Source.Name()),
		slog.Duration("cache_ttl", cfg.TTL),
		slog.String("default_scope", cfg.DefaultScope))

	return &DatasetService{
		source:       cfg.Source,
		loadOpts:     cfg.Load,
		normalizer:   dataprocessing.NewNormalizer(cfg.Normalize, logger),
		ttl:          cfg.TTL,
		defaultScope: cfg.DefaultScope,
		excel:        cfg.Excel,
		csv:          cfg.CSV,
		metrics:      cfg.Metrics,
		tracer:       cfg.Tracer,
		now:          cfg.Now,
		logger:       logger,
	}, nil
}

// Source returns the name of the dataset source
func (s *DatasetService) Source() string {
	return s.source.Name()
}

// Loads returns how many times the source has been read
func (s *DatasetService) Loads() int64 {
	return s.loads.Load()
}

// Loaded reports whether a valid snapshot is cached
func (s *DatasetService) Loaded() bool {
	return s.current.Load().validAt(s.now())
}

// Ready reports whether the service can serve data, either from the cache
// or because the source looks readable
func (s *DatasetService) Ready() error {
	if s.Loaded() {
		return nil
	}
	return s.source.Available()
}

// Dataset returns the cached normalized dataset, loading it when the cache
// is empty or expired
func (s *DatasetService) Dataset(ctx context.Context) (*dataprocessing.Dataset, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.dataset, nil
}

func (s *DatasetService) snapshot(ctx context.Context) (*snapshot, error) {
	if snap := s.current.Load(); snap.validAt(s.now()) {
		s.metrics.RecordCacheLookup(ctx, true)
		return snap, nil
	}
	s.metrics.RecordCacheLookup(ctx, false)

	v, err, shared := s.group.Do(loadKey, func() (interface{}, error) {
		// another caller may have published while this one waited
		if snap := s.current.Load(); snap.validAt(s.now()) {
			return snap, nil
		}
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "joined in-flight dataset load")
	}
	return v.(*snapshot), nil
}

// Reload reads the source again regardless of the cache state. The
// previous snapshot keeps serving readers until the new one is published.
func (s *DatasetService) Reload(ctx context.Context) (*dataprocessing.Dataset, error) {
	s.logger.InfoContext(ctx, "dataset reload requested", slog.String("source", s.source.Name()))

	s.group.Forget(loadKey)

	v, err, _ := s.group.Do(loadKey, func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot).dataset, nil
}

// Invalidate drops the cached snapshot; the next read reloads
func (s *DatasetService) Invalidate() {
	s.current.Store(nil)
}

// load reads and normalizes the source, then publishes the result. A failed
// load leaves the previous snapshot in place.
func (s *DatasetService) load(ctx context.Context) (snap *snapshot, err error) {
	ctx, span := s.tracer.Start(ctx, "dataset.load",
		trace.WithAttributes(attribute.String("dataset.source", s.source.Name())))
	defer span.End()

	start := s.now()
	var report domain.NormalizeReport
	defer func() {
		s.metrics.RecordLoad(ctx, s.source.Name(), s.now().Sub(start), report, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.ErrorContext(ctx, "dataset load failed",
				slog.String("source", s.source.Name()),
				slog.String("error", err.Error()))
		}
	}()

	s.loads.Add(1)

	rc, err := s.source.Open(ctx)
	if err != nil {
		return nil, apperrors.NewLoadError("failed to open data source", err).
			WithContext("source", s.source.Name())
	}
	defer rc.Close()

	raw, err := dataprocessing.Load(rc, s.loadOpts)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("source", s.source.Name())
		}
		return nil, err
	}

	_, normSpan := s.tracer.Start(ctx, "dataset.normalize",
		trace.WithAttributes(attribute.Int("dataset.rows_in", raw.Len())))
	ds, err := s.normalizer.Normalize(ctx, raw)
	normSpan.End()
	if err != nil {
		return nil, err
	}
	report = ds.Report

	loadedAt := s.now()
	snap = &snapshot{dataset: ds, loadedAt: loadedAt}
	if s.ttl > 0 {
		snap.expiresAt = loadedAt.Add(s.ttl)
	}
	s.current.Store(snap)

	span.SetAttributes(attribute.Int("dataset.rows_out", report.RowsOut))
	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("source", s.source.Name()),
		slog.Int("rows", report.RowsOut),
		slog.Int64("loads", s.loads.Load()))

	return snap, nil
}

// Query returns the rows matching sel
func (s *DatasetService) Query(ctx context.Context, sel domain.FilterSelection) (domain.TableView, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return domain.TableView{}, err
	}
	filtered := ds.Filter(sel)
	s.metrics.RecordFilter(ctx, ds.Table.Len(), filtered.Len())
	return dataprocessing.View(filtered), nil
}

// Options returns the values offered by each filter
func (s *DatasetService) Options(ctx context.Context) (domain.FilterOptions, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return ds.Options(), nil
}

// Summary describes the cached dataset
func (s *DatasetService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return domain.DatasetSummary{}, err
	}

	summary := domain.DatasetSummary{
		Source:   s.source.Name(),
		LoadedAt: snap.loadedAt,
		Loads:    s.loads.Load(),
		Columns:  snap.dataset.Table.Columns(),
		Report:   snap.dataset.Report,
	}
	if !snap.expiresAt.IsZero() {
		expires := snap.expiresAt
		summary.ExpiresAt = &expires
	}
	return summary, nil
}

// exportView resolves scope and returns the table to export
func (s *DatasetService) exportView(ctx context.Context, scope string, sel domain.FilterSelection) (domain.TableView, string, error) {
	if scope == "" {
		scope = s.defaultScope
	}
	if scope != ScopeAll && scope != ScopeFiltered {
		return domain.TableView{}, scope, apperrors.NewAppValidationError(
			fmt.Sprintf("%v: %q", ErrInvalidScope, scope))
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return domain.TableView{}, scope, err
	}
	if scope == ScopeAll {
		return dataprocessing.View(ds.Table), scope, nil
	}
	return dataprocessing.View(ds.Filter(sel)), scope, nil
}

// ExportExcel renders the table (or the filtered view) as a workbook
func (s *DatasetService) ExportExcel(ctx context.Context, scope string, sel domain.FilterSelection) (*Artifact, error) {
	return s.export(ctx, "xlsx", scope, sel, func(view domain.TableView) (*Artifact, error) {
		data, err := s.excel.Bytes(view)
		if err != nil {
			return nil, err
		}
		return &Artifact{Filename: s.excel.Filename(), ContentType: exporter.ContentTypeXLSX, Data: data}, nil
	})
}

// ExportCSV renders the table (or the filtered view) as UTF-8 CSV
func (s *DatasetService) ExportCSV(ctx context.Context, scope string, sel domain.FilterSelection) (*Artifact, error) {
	return s.export(ctx, "csv", scope, sel, func(view domain.TableView) (*Artifact, error) {
		data, err := s.csv.Bytes(view, exporter.DefaultWriteOptions())
		if err != nil {
			return nil, err
		}
		return &Artifact{Filename: s.csv.Filename(), ContentType: exporter.ContentTypeCSV, Data: data}, nil
	})
}

// ExportPayload renders a workbook wrapped for JSON transport
func (s *DatasetService) ExportPayload(ctx context.Context, scope string, sel domain.FilterSelection) (domain.ExportPayload, error) {
	art, err := s.ExportExcel(ctx, scope, sel)
	if err != nil {
		return domain.ExportPayload{}, err
	}
	return exporter.EncodePayload(art.Filename, art.ContentType, art.Data), nil
}

func (s *DatasetService) export(ctx context.Context, format, scope string, sel domain.FilterSelection, render func(domain.TableView) (*Artifact, error)) (art *Artifact, err error) {
	ctx, span := s.tracer.Start(ctx, "dataset.export",
		trace.WithAttributes(attribute.String("export.format", format)))
	defer span.End()

	view, scope, err := s.exportView(ctx, scope, sel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("export.scope", scope), attribute.Int("export.rows", view.Count))

	art, err = render(view)
	size := 0
	if art != nil {
		size = len(art.Data)
	}
	s.metrics.RecordExport(ctx, format, scope, size, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
		return nil, apperrors.NewExportError("failed to render "+format+" export", err).
			WithContext("scope", scope)
	}

	s.logger.InfoContext(ctx, "export generated",
		slog.String("format", format),
		slog.String("scope", scope),
		slog.Int("rows", view.Count),
		slog.Int("bytes", size))

	return art, nil
}
