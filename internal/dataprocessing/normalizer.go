package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	apperrors "insiderdash/internal/errors"
	"insiderdash/pkg/contracts/domain"
)

// SortKey selects the column the normalized table is ordered by
type SortKey string

const (
	SortByVolume SortKey = "volume"
	SortByDate   SortKey = "date"
)

// DedupKey selects which columns identify a duplicate row
type DedupKey string

const (
	DedupByVolume            DedupKey = "volume"
	DedupByVolumeCompanyDate DedupKey = "volume_company_date"
)

// CanonicalVolumeColumn is the default header of the volume column after
// normalization
const CanonicalVolumeColumn = "Volume Financeiro (R$)"

// DefaultDropColumns lists administrative columns removed before display
var DefaultDropColumns = []string{
	"Nome_Companhia",
	"Intermediario",
	"Versao",
	"CNPJ_Companhia",
	"Tipo_Empresa",
	"Descricao_Movimentacao",
	"Tipo_Operacao",
}

// DefaultDateLayouts are tried in order when parsing reference dates
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04:05",
}

// NormalizeOptions configures a Normalizer
type NormalizeOptions struct {
	Convention   Convention
	Fields       []FieldSpec
	DropColumns  []string
	VolumeColumn string
	SortKey      SortKey
	DedupKey     DedupKey
	DateLayouts  []string
}

// DefaultNormalizeOptions mirrors the original dashboard's behaviour
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		Convention:   DefaultConvention(),
		Fields:       DefaultFieldSpecs(),
		DropColumns:  DefaultDropColumns,
		VolumeColumn: CanonicalVolumeColumn,
		SortKey:      SortByVolume,
		DedupKey:     DedupByVolume,
		DateLayouts:  DefaultDateLayouts,
	}
}

// Dataset is a normalized table together with how it was derived
type Dataset struct {
	Table  *Table
	Schema Schema
	Report domain.NormalizeReport
}

// Normalizer turns a raw table into the display table
type Normalizer struct {
	opts   NormalizeOptions
	logger *slog.Logger
}

// NewNormalizer creates a Normalizer. Zero-valued options fall back to the
// defaults.
func NewNormalizer(opts NormalizeOptions, logger *slog.Logger) *Normalizer {
	def := DefaultNormalizeOptions()
	if opts.Convention.Format == "" {
		opts.Convention.Format = def.Convention.Format
	}
	if opts.Fields == nil {
		opts.Fields = def.Fields
	}
	if opts.VolumeColumn == "" {
		opts.VolumeColumn = def.VolumeColumn
	}
	if opts.SortKey == "" {
		opts.SortKey = def.SortKey
	}
	if opts.DedupKey == "" {
		opts.DedupKey = def.DedupKey
	}
	if len(opts.DateLayouts) == 0 {
		opts.DateLayouts = def.DateLayouts
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Normalizer{
		opts:   opts,
		logger: logger.With(slog.String("component", "normalizer")),
	}
}

// Normalize resolves the schema, cleans volumes, prunes and renames columns,
// parses dates, removes duplicates, sorts and finally formats numbers for
// display. The raw table is not modified.
func (n *Normalizer) Normalize(ctx context.Context, raw *Table) (*Dataset, error) {
	report := domain.NormalizeReport{
		RowsIn:       raw.Len(),
		NumberFormat: string(n.opts.Convention.Format),
		SortKey:      string(n.opts.SortKey),
		DedupKey:     string(n.opts.DedupKey),
	}

	schema, err := ResolveSchema(raw.Columns(), preferCanonicalVolume(n.opts.Fields, n.opts.VolumeColumn))
	if err != nil {
		return nil, err
	}

	t := raw

	// Volume cleaning
	if col, ok := schema.Column(domain.FieldVolume); ok {
		failures := 0
		t = t.MapColumn(col, func(v Value) Value {
			out, ok := n.opts.Convention.CleanVolume(v)
			if !ok {
				failures++
				n.logger.DebugContext(ctx, "unparseable volume cell",
					slog.String("column", col),
					slog.String("value", v.String()))
			}
			return out
		})
		report.CellParseFailures += failures
	}

	// Column pruning, never dropping a column bound to a field
	drop := make([]string, 0, len(n.opts.DropColumns))
	for _, c := range n.opts.DropColumns {
		if !schema.Claims(c) {
			drop = append(drop, c)
		}
	}
	t, report.DroppedColumns = t.DropColumns(drop...)

	// Rename volume to its canonical header unless another column holds it
	if col, ok := schema.Column(domain.FieldVolume); ok && col != n.opts.VolumeColumn {
		if t.HasColumn(n.opts.VolumeColumn) {
			n.logger.WarnContext(ctx, "volume column kept under its source header",
				slog.String("column", col),
				slog.String("canonical", n.opts.VolumeColumn))
		} else {
			renamed, err := t.RenameColumn(col, n.opts.VolumeColumn)
			if err != nil {
				return nil, apperrors.NewSchemaError("cannot rename volume column", err)
			}
			t = renamed
			schema = schema.with(domain.FieldVolume, n.opts.VolumeColumn)
		}
	}

	// Date parsing
	if col, ok := schema.Column(domain.FieldReferenceDate); ok {
		parsed, failures, err := n.parseDates(t, col)
		if err != nil {
			return nil, err
		}
		t = parsed
		report.DateParseFailures = failures
	}

	before := t.Len()
	t = n.dedup(t, schema)
	report.DuplicatesDropped = before - t.Len()

	t = n.sort(t, schema)

	var failures int
	t, failures = n.format(t, schema)
	report.CellParseFailures += failures

	report.RowsOut = t.Len()
	report.Schema = schema.Map()

	n.logger.InfoContext(ctx, "dataset normalized",
		slog.Int("rows_in", report.RowsIn),
		slog.Int("rows_out", report.RowsOut),
		slog.Int("duplicates_dropped", report.DuplicatesDropped),
		slog.Int("cell_parse_failures", report.CellParseFailures),
		slog.Int("date_parse_failures", report.DateParseFailures),
		slog.Any("dropped_columns", report.DroppedColumns))

	return &Dataset{Table: t, Schema: schema, Report: report}, nil
}

// parseDates converts the date column. Unparseable cells become null; a
// column where no non-empty cell parses is rejected as a load failure.
func (n *Normalizer) parseDates(t *Table, col string) (*Table, int, error) {
	nonEmpty, parsed := 0, 0
	out := t.MapColumn(col, func(v Value) Value {
		if v.IsNull() {
			return v
		}
		nonEmpty++
		if d, ok := v.AsDate(); ok {
			parsed++
			return Date(d)
		}
		if d, ok := ParseDate(v.String(), n.opts.DateLayouts); ok {
			parsed++
			return Date(d)
		}
		return Null()
	})

	if nonEmpty > 0 && parsed == 0 {
		return nil, 0, apperrors.NewLoadError(
			fmt.Sprintf("no value in column %q is a recognised date", col), nil,
		).WithContext("column", col).WithContext("layouts", n.opts.DateLayouts)
	}
	return out, nonEmpty - parsed, nil
}

// preferCanonicalVolume makes a column already named canonical win over
// substring matches for the volume field
func preferCanonicalVolume(specs []FieldSpec, canonical string) []FieldSpec {
	out := slices.Clone(specs)
	for i, spec := range out {
		if spec.Field != domain.FieldVolume {
			continue
		}
		if !slices.ContainsFunc(spec.Headers, func(h string) bool { return strings.EqualFold(strings.TrimSpace(h), canonical) }) {
			out[i].Headers = append([]string{canonical}, spec.Headers...)
		}
	}
	return out
}

// ParseDate tries each layout in order
func ParseDate(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// dedup keeps the first row for each key. Null volumes share one key.
func (n *Normalizer) dedup(t *Table, schema Schema) *Table {
	volume, ok := schema.Column(domain.FieldVolume)
	if !ok {
		return t
	}

	keyCols := []string{volume}
	if n.opts.DedupKey == DedupByVolumeCompanyDate {
		for _, f := range []domain.Field{domain.FieldCompany, domain.FieldReferenceDate} {
			if c, ok := schema.Column(f); ok {
				keyCols = append(keyCols, c)
			}
		}
	}

	seen := make(map[string]struct{}, t.Len())
	return t.Where(func(r Row) bool {
		parts := make([]string, len(keyCols))
		for i, c := range keyCols {
			parts[i] = r.Get(c).key()
		}
		k := strings.Join(parts, "\x1f")
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

// sort orders rows descending by the sort key, nulls last
func (n *Normalizer) sort(t *Table, schema Schema) *Table {
	field := domain.FieldVolume
	if n.opts.SortKey == SortByDate {
		field = domain.FieldReferenceDate
	}
	col, ok := schema.Column(field)
	if !ok {
		return t
	}
	return t.SortStable(func(a, b Row) bool {
		return compareNullsLast(a.Get(col), b.Get(col), true) < 0
	})
}

// format renders volume, quantity and unit price as display text
func (n *Normalizer) format(t *Table, schema Schema) (*Table, int) {
	conv := n.opts.Convention
	failures := 0

	numeric := func(v Value) (float64, bool) {
		if f, ok := v.AsNumber(); ok {
			return f, true
		}
		if s, ok := v.AsText(); ok {
			if f, ok := conv.ParseNumber(s); ok {
				return f, true
			}
			failures++
		}
		return 0, false
	}

	render := func(fn func(float64) string) func(Value) Value {
		return func(v Value) Value {
			f, ok := numeric(v)
			if !ok {
				return Null()
			}
			return Text(fn(f))
		}
	}

	if col, ok := schema.Column(domain.FieldVolume); ok {
		t = t.MapColumn(col, render(conv.FormatCurrency))
	}
	if col, ok := schema.Column(domain.FieldQuantity); ok {
		t = t.MapColumn(col, render(conv.FormatInteger))
	}
	if col, ok := schema.Column(domain.FieldUnitPrice); ok {
		t = t.MapColumn(col, render(func(f float64) string { return conv.FormatDecimal(f, 2) }))
	}

	return t, failures
}
