package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"

	"insiderdash/pkg/contracts/domain"
)

// PipelineMetrics holds the dashboard's application metrics
type PipelineMetrics struct {
	// Dataset pipeline
	LoadsTotal         metric.Int64Counter
	LoadDuration       metric.Float64Histogram
	RowsLoaded         metric.Int64Counter
	DuplicatesDropped  metric.Int64Counter
	CellParseFailures  metric.Int64Counter
	DateParseFailures  metric.Int64Counter
	CacheLookups       metric.Int64Counter
	FilterApplications metric.Int64Counter

	// Export
	ExportsTotal metric.Int64Counter
	ExportBytes  metric.Int64Histogram

	// HTTP
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
}

// NewPipelineMetrics creates the application instruments on meter. A nil
// meter yields no-op instruments.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	if meter == nil {
		meter = metricnoop.NewMeterProvider().Meter(MeterName)
	}

	m := &PipelineMetrics{}
	var err error

	if m.LoadsTotal, err = meter.Int64Counter(
		"dataset_loads_total",
		metric.WithDescription("Total number of dataset loads"),
	); err != nil {
		return nil, err
	}
	if m.LoadDuration, err = meter.Float64Histogram(
		"dataset_load_duration_seconds",
		metric.WithDescription("Dataset load and normalization duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.RowsLoaded, err = meter.Int64Counter(
		"dataset_rows_loaded_total",
		metric.WithDescription("Rows kept after normalization"),
	); err != nil {
		return nil, err
	}
	if m.DuplicatesDropped, err = meter.Int64Counter(
		"dataset_duplicates_dropped_total",
		metric.WithDescription("Rows removed by deduplication"),
	); err != nil {
		return nil, err
	}
	if m.CellParseFailures, err = meter.Int64Counter(
		"dataset_cell_parse_failures_total",
		metric.WithDescription("Numeric cells that could not be parsed and became empty"),
	); err != nil {
		return nil, err
	}
	if m.DateParseFailures, err = meter.Int64Counter(
		"dataset_date_parse_failures_total",
		metric.WithDescription("Date cells that could not be parsed and became empty"),
	); err != nil {
		return nil, err
	}
	if m.CacheLookups, err = meter.Int64Counter(
		"dataset_cache_lookups_total",
		metric.WithDescription("Dataset cache lookups by result"),
	); err != nil {
		return nil, err
	}
	if m.FilterApplications, err = meter.Int64Counter(
		"dataset_filter_applications_total",
		metric.WithDescription("Number of filtered views produced"),
	); err != nil {
		return nil, err
	}
	if m.ExportsTotal, err = meter.Int64Counter(
		"export_requests_total",
		metric.WithDescription("Total number of exports by format and status"),
	); err != nil {
		return nil, err
	}
	if m.ExportBytes, err = meter.Int64Histogram(
		"export_size_bytes",
		metric.WithDescription("Size of generated export artifacts"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// NoopPipelineMetrics returns instruments that record nothing
func NoopPipelineMetrics() *PipelineMetrics {
	m, _ := NewPipelineMetrics(nil)
	return m
}

func statusAttr(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "failure")
	}
	return attribute.String("status", "success")
}

// RecordLoad records the outcome of one load and normalize run
func (m *PipelineMetrics) RecordLoad(ctx context.Context, source string, duration time.Duration, report domain.NormalizeReport, err error) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("source", source), statusAttr(err))
	m.LoadsTotal.Add(ctx, 1, attrs)
	m.LoadDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil {
		return
	}

	m.RowsLoaded.Add(ctx, int64(report.RowsOut))
	m.DuplicatesDropped.Add(ctx, int64(report.DuplicatesDropped))
	m.CellParseFailures.Add(ctx, int64(report.CellParseFailures))
	m.DateParseFailures.Add(ctx, int64(report.DateParseFailures))
}

// RecordCacheLookup records whether a dataset request was served from cache
func (m *PipelineMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordFilter records one filtered view
func (m *PipelineMetrics) RecordFilter(ctx context.Context, rowsIn, rowsOut int) {
	if m == nil {
		return
	}
	filtered := "false"
	if rowsOut < rowsIn {
		filtered = "true"
	}
	m.FilterApplications.Add(ctx, 1, metric.WithAttributes(attribute.String("narrowed", filtered)))
}

// RecordExport records one export attempt
func (m *PipelineMetrics) RecordExport(ctx context.Context, format, scope string, size int, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("format", format),
		attribute.String("scope", scope),
	}
	m.ExportsTotal.Add(ctx, 1, metric.WithAttributes(append(attrs, statusAttr(err))...))
	if err == nil {
		m.ExportBytes.Record(ctx, int64(size), metric.WithAttributes(attrs...))
	}
}

// RecordHTTPRequest records one served HTTP request
func (m *PipelineMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}
