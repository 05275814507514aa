// Package api contains API contract definitions for the insider disclosure dashboard.
// Version v1 represents the current stable API version.
package api

// Export scopes accepted by the export endpoints
const (
	ScopeAll      = "all"
	ScopeFiltered = "filtered"
)

// DateRangeRequest represents a date range in requests
type DateRangeRequest struct {
	From string `json:"date_from" query:"date_from" validate:"omitempty,isodate"`
	To   string `json:"date_to" query:"date_to" validate:"omitempty,isodate"`
}

// DatasetQueryRequest carries the dashboard filter selection as received over HTTP.
// List parameters may be repeated (?company=A&company=B).
type DatasetQueryRequest struct {
	Companies     []string `json:"company" query:"company" validate:"dive,max=256"`
	MovementTypes []string `json:"movement_type" query:"movement_type" validate:"dive,max=256"`
	Roles         []string `json:"role" query:"role" validate:"dive,max=256"`
	DateRangeRequest
}

// ExportRequest selects what an export contains
type ExportRequest struct {
	DatasetQueryRequest
	Scope string `json:"scope" query:"scope" validate:"omitempty,oneof=all filtered"`
}
