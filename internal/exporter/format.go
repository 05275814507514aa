package exporter

import (
	"encoding/base64"
	"mime"
	"unicode/utf8"

	"insiderdash/pkg/contracts/domain"
)

// Content types of the export artifacts
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// ContentDisposition builds an attachment header for filename
func ContentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

// displayWidth is the width of s in characters
func displayWidth(s string) int {
	return utf8.RuneCountInString(s)
}

// EncodePayload wraps an artifact for JSON transport
func EncodePayload(filename, contentType string, data []byte) domain.ExportPayload {
	return domain.ExportPayload{
		Filename:      filename,
		ContentType:   contentType,
		ContentBase64: base64.StdEncoding.EncodeToString(data),
		Size:          len(data),
	}
}
