package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insiderdash/pkg/contracts/domain"
)

func TestNewCSVWriter(t *testing.T) {
	writer := NewCSVWriter("tabela_diretoria.csv", nil)

	assert.NotNil(t, writer)
	assert.Equal(t, "tabela_diretoria.csv", writer.Filename())
}

func TestCSVWriter_Write(t *testing.T) {
	view := sampleView()

	tests := []struct {
		name      string
		options   WriteOptions
		wantBOM   bool
		delimiter rune
	}{
		{name: "default options", options: DefaultWriteOptions(), wantBOM: true, delimiter: ','},
		{name: "semicolon without BOM", options: WriteOptions{Delimiter: ';'}, delimiter: ';'},
		{name: "zero delimiter falls back to comma", options: WriteOptions{}, delimiter: ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := NewCSVWriter("out.csv", testLogger(t))

			data, err := writer.Bytes(view, tt.options)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(data, utf8BOM))
			data = bytes.TrimPrefix(data, utf8BOM)

			reader := csv.NewReader(bytes.NewReader(data))
			reader.Comma = tt.delimiter
			records, err := reader.ReadAll()
			require.NoError(t, err)

			require.Len(t, records, 3)
			assert.Equal(t, view.Columns, records[0])
			assert.Equal(t, view.Rows, records[1:])
		})
	}
}

func TestCSVWriter_QuotesDelimiters(t *testing.T) {
	writer := NewCSVWriter("out.csv", testLogger(t))
	view := domain.TableView{
		Columns: []string{"Empresa"},
		Rows:    [][]string{{"Petróleo, Gás \"e\" Energia"}},
	}

	data, err := writer.Bytes(view, WriteOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Empresa\n\"Petróleo, Gás \"\"e\"\" Energia\"\n", string(data))
}

func TestCSVWriter_WriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tabela.csv")
	writer := NewCSVWriter("tabela.csv", testLogger(t))

	require.NoError(t, writer.WriteFile(path, sampleView(), DefaultWriteOptions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM))
	assert.Contains(t, string(data), "Itaú Unibanco")
}
