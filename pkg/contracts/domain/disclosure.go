package domain

import (
	"time"
)

// Field identifies a canonical disclosure attribute independent of the
// header used by the source file.
type Field string

const (
	FieldCompany       Field = "company"
	FieldReferenceDate Field = "reference_date"
	FieldMovementType  Field = "movement_type"
	FieldRole          Field = "role"
	FieldQuantity      Field = "quantity"
	FieldUnitPrice     Field = "unit_price"
	FieldVolume        Field = "volume"
)

// AllFields lists the canonical fields in resolution order
var AllFields = []Field{
	FieldCompany,
	FieldReferenceDate,
	FieldMovementType,
	FieldRole,
	FieldQuantity,
	FieldUnitPrice,
	FieldVolume,
}

// ParseField converts a configuration key into a Field
func ParseField(s string) (Field, bool) {
	for _, f := range AllFields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// FilterSelection holds the request-scoped choices made on the dashboard.
// Empty lists and an incomplete date range leave the matching axis unfiltered.
type FilterSelection struct {
	Companies     []string   `json:"companies,omitempty"`
	MovementTypes []string   `json:"movement_types,omitempty"`
	Roles         []string   `json:"roles,omitempty"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
}

// HasDateRange reports whether both bounds of the date range are present
func (s FilterSelection) HasDateRange() bool {
	return s.DateFrom != nil && s.DateTo != nil
}

// IsEmpty reports whether the selection filters nothing
func (s FilterSelection) IsEmpty() bool {
	return len(s.Companies) == 0 &&
		len(s.MovementTypes) == 0 &&
		len(s.Roles) == 0 &&
		!s.HasDateRange()
}

// FilterOptions lists the values offered by each filter widget
type FilterOptions struct {
	Companies     []string   `json:"companies"`
	MovementTypes []string   `json:"movement_types"`
	Roles         []string   `json:"roles"`
	MinDate       *time.Time `json:"min_date,omitempty"`
	MaxDate       *time.Time `json:"max_date,omitempty"`
}

// TableView is the rendered form of a table sent to presentation layers
type TableView struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Count   int        `json:"count"`
}

// ExportPayload carries an export artifact encoded for transport
type ExportPayload struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	ContentBase64 string `json:"content_base64"`
	Size          int    `json:"size"`
}
