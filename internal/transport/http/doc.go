// Package http implements the HTTP handlers of the disclosure dashboard.
// Handlers stay thin: they bind query parameters, validate them, call the
// dataset service and format the response.
//
// # Endpoints
//
//	GET  /                      dashboard page
//	GET  /api/dataset           filtered rows
//	GET  /api/dataset/options   values offered by each filter
//	GET  /api/dataset/summary   normalize report and cache state
//	POST /api/dataset/reload    re-read the source file
//	GET  /api/export.xlsx       workbook download
//	GET  /api/export.csv        CSV download
//	GET  /api/export            workbook as base64 JSON
//	POST /api/client-log        errors reported by the page
//
// List filters are passed as repeated parameters (?company=A&company=B).
// The date range applies only when both date_from and date_to are set.
//
// # Error Handling
//
// JSON endpoints answer failures with RFC 7807 problem details produced by
// the errors package. The dashboard page renders the same message in place
// instead.
package http
