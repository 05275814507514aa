package exporter

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"insiderdash/pkg/contracts/domain"
)

// ExcelOptions configures workbook generation
type ExcelOptions struct {
	Filename       string
	SheetName      string
	WidthPadding   int
	MaxColumnWidth int
}

// DefaultExcelOptions matches the dashboard download
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		Filename:       "tabela_diretoria.xlsx",
		SheetName:      "Dados",
		WidthPadding:   2,
		MaxColumnWidth: 255,
	}
}

// ExcelExporter writes a table to a single-sheet workbook
type ExcelExporter struct {
	opts   ExcelOptions
	logger *slog.Logger
}

// NewExcelExporter creates an ExcelExporter
func NewExcelExporter(opts ExcelOptions, logger *slog.Logger) *ExcelExporter {
	def := DefaultExcelOptions()
	if opts.Filename == "" {
		opts.Filename = def.Filename
	}
	if opts.SheetName == "" {
		opts.SheetName = def.SheetName
	}
	if opts.MaxColumnWidth <= 0 || opts.MaxColumnWidth > def.MaxColumnWidth {
		opts.MaxColumnWidth = def.MaxColumnWidth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExporter{
		opts:   opts,
		logger: logger.With(slog.String("component", "excel_exporter")),
	}
}

// Filename returns the download name of workbooks
func (e *ExcelExporter) Filename() string {
	return e.opts.Filename
}

// ColumnWidths returns, per column, the longest rendered value (header
// included) plus the configured padding, capped at the sheet maximum
func (e *ExcelExporter) ColumnWidths(view domain.TableView) []float64 {
	widths := make([]float64, len(view.Columns))
	for c, h := range view.Columns {
		longest := displayWidth(h)
		for _, row := range view.Rows {
			if c < len(row) {
				if n := displayWidth(row[c]); n > longest {
					longest = n
				}
			}
		}
		w := longest + e.opts.WidthPadding
		if w > e.opts.MaxColumnWidth {
			w = e.opts.MaxColumnWidth
		}
		widths[c] = float64(w)
	}
	return widths
}

// Write renders view as a workbook to out
func (e *ExcelExporter) Write(out io.Writer, view domain.TableView) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("failed to close workbook", slog.String("error", err.Error()))
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), e.opts.SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(e.opts.SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for c, w := range e.ColumnWidths(view) {
		if err := sw.SetColWidth(c+1, c+1, w); err != nil {
			return fmt.Errorf("failed to set width of column %d: %w", c+1, err)
		}
	}

	if err := writeRow(sw, 1, view.Columns); err != nil {
		return err
	}
	for i, row := range view.Rows {
		if err := writeRow(sw, i+2, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(sw *excelize.StreamWriter, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := sw.SetRow(cell, row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

// Bytes renders view as a workbook in memory
func (e *ExcelExporter) Bytes(view domain.TableView) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, view); err != nil {
		return nil, err
	}

	e.logger.Debug("workbook generated",
		slog.Int("rows", len(view.Rows)),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}
