// Package exporter renders table views as downloadable artifacts.
//
// ExcelExporter: single-sheet .xlsx workbooks built with excelize, with each
// column as wide as its longest rendered value plus padding.
//
// CSVWriter: UTF-8 CSV with an optional BOM so spreadsheet tools detect the
// encoding.
//
// Example usage:
//
//	xlsx := exporter.NewExcelExporter(exporter.DefaultExcelOptions(), logger)
//	data, err := xlsx.Bytes(view)
//	payload := exporter.EncodePayload(xlsx.Filename(), exporter.ContentTypeXLSX, data)
//
//	csvw := exporter.NewCSVWriter("tabela_diretoria.csv", logger)
//	err = csvw.WriteFile("out/tabela.csv", view, exporter.DefaultWriteOptions())
package exporter
