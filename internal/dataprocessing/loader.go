package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	apperrors "insiderdash/internal/errors"
)

// Supported source encodings
const (
	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf-8"
)

const utf8BOM = "\uFEFF"

// LoadOptions control how a delimited file is read
type LoadOptions struct {
	Delimiter  rune
	Encoding   string
	Convention Convention
}

// DefaultLoadOptions reads semicolon-separated Latin-1 text with the plain
// numeric convention
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Delimiter:  ';',
		Encoding:   EncodingLatin1,
		Convention: DefaultConvention(),
	}
}

// LoadFile reads the delimited file at path into a Table
func LoadFile(path string, opts LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewLoadError("failed to open data file", err).WithContext("path", path)
	}
	defer f.Close()

	t, err := Load(f, opts)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("path", path)
		}
		return nil, err
	}
	return t, nil
}

// Load reads delimited text from r. Header cells are trimmed and a leading
// BOM removed; short rows are padded with null and long rows truncated to
// the header width. A column whose every non-empty cell is a number under
// opts.Convention becomes numeric; all other non-empty cells stay text.
func Load(r io.Reader, opts LoadOptions) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewLoadError("failed to read input", err)
	}
	text, err := decode(bytes.TrimPrefix(data, []byte(utf8BOM)), opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewLoadError("malformed delimited input", err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewLoadError("input is empty", nil)
	}

	header := normalizeHeader(records[0])
	if len(header) == 0 {
		return nil, apperrors.NewLoadError("input has no header", nil)
	}

	body := records[1:]
	raw := make([][]string, len(body))
	for i, rec := range body {
		row := make([]string, len(header))
		copy(row, rec)
		raw[i] = row
	}

	rows := make([][]Value, len(raw))
	for i := range rows {
		rows[i] = make([]Value, len(header))
	}

	for c := range header {
		numeric := isNumericColumn(raw, c, opts.Convention)
		for i, row := range raw {
			cell := strings.TrimSpace(row[c])
			switch {
			case cell == "":
				rows[i][c] = Null()
			case numeric:
				f, _ := opts.Convention.parseBare(cell)
				rows[i][c] = Number(f)
			default:
				rows[i][c] = Text(cell)
			}
		}
	}

	t, err := NewTable(header, rows)
	if err != nil {
		return nil, apperrors.NewLoadError("invalid table", err)
	}
	return t, nil
}

func decode(data []byte, encoding string) (string, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingLatin1, "iso-8859-1":
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", apperrors.NewLoadError("failed to decode latin1 input", err)
		}
		return string(out), nil
	case EncodingUTF8, "utf8":
		if !utf8.Valid(data) {
			return "", apperrors.NewLoadError("input is not valid UTF-8", nil)
		}
		return string(data), nil
	default:
		return "", apperrors.NewLoadError(fmt.Sprintf("unsupported encoding %q", encoding), nil)
	}
}

// normalizeHeader trims names, names blank columns and suffixes repeats so
// every column is addressable: "A", "A" becomes "A", "A.1".
func normalizeHeader(rec []string) []string {
	if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
		return nil
	}

	header := make([]string, len(rec))
	used := make(map[string]bool, len(rec))
	for i, h := range rec {
		base := strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		if base == "" {
			base = "Unnamed: " + strconv.Itoa(i)
		}
		name := base
		for n := 1; used[name]; n++ {
			name = base + "." + strconv.Itoa(n)
		}
		used[name] = true
		header[i] = name
	}
	return header
}

func isNumericColumn(raw [][]string, c int, conv Convention) bool {
	seen := false
	for _, row := range raw {
		cell := strings.TrimSpace(row[c])
		if cell == "" {
			continue
		}
		if conv.CurrencySymbol != "" && strings.Contains(cell, conv.CurrencySymbol) {
			return false
		}
		if _, ok := conv.parseBare(cell); !ok {
			return false
		}
		seen = true
	}
	return seen
}
