package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		in   string
		want Field
		ok   bool
	}{
		{"company", FieldCompany, true},
		{"volume", FieldVolume, true},
		{"reference_date", FieldReferenceDate, true},
		{"Company", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseField(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterSelection(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		sel          FilterSelection
		hasDateRange bool
		empty        bool
	}{
		{"zero value", FilterSelection{}, false, true},
		{"empty lists", FilterSelection{Companies: []string{}, Roles: []string{}}, false, true},
		{"only from", FilterSelection{DateFrom: &from}, false, true},
		{"only to", FilterSelection{DateTo: &to}, false, true},
		{"full range", FilterSelection{DateFrom: &from, DateTo: &to}, true, false},
		{"company", FilterSelection{Companies: []string{"X"}}, false, false},
		{"movement type", FilterSelection{MovementTypes: []string{"Compra"}}, false, false},
		{"role", FilterSelection{Roles: []string{"Diretor"}}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hasDateRange, tt.sel.HasDateRange())
			assert.Equal(t, tt.empty, tt.sel.IsEmpty())
		})
	}
}
