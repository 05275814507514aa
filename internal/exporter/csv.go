package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"insiderdash/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	filename string
	logger   *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(filename string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		filename: filename,
		logger:   logger.With(slog.String("component", "csv_exporter")),
	}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Delimiter rune
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// DefaultWriteOptions writes comma-separated UTF-8 with a BOM
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Delimiter: ',', BOMPrefix: true}
}

// Filename returns the download name of CSV exports
func (w *CSVWriter) Filename() string {
	return w.filename
}

// Write renders view as CSV to out
func (w *CSVWriter) Write(out io.Writer, view domain.TableView, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if options.Delimiter != 0 {
		writer.Comma = options.Delimiter
	}

	if err := writer.Write(view.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, record := range view.Rows {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Bytes renders view as CSV in memory
func (w *CSVWriter) Bytes(view domain.TableView, options WriteOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf, view, options); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes view as CSV to filePath, creating parent directories
func (w *CSVWriter) WriteFile(filePath string, view domain.TableView, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(view.Rows)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := w.Write(file, view, options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
