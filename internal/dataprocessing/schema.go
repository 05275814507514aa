package dataprocessing

import (
	"fmt"
	"maps"
	"strings"

	apperrors "insiderdash/internal/errors"
	"insiderdash/pkg/contracts/domain"
)

// FieldSpec says which source headers may carry a canonical field. Headers
// match exactly ignoring case and surrounding space; Contains matches as a
// case-insensitive substring and is only tried when no exact header matched.
type FieldSpec struct {
	Field    domain.Field
	Headers  []string
	Contains []string
	Required bool
}

// DefaultFieldSpecs returns the header mapping of the disclosure export
func DefaultFieldSpecs() []FieldSpec {
	return []FieldSpec{
		{Field: domain.FieldCompany, Headers: []string{"Empresa"}},
		{Field: domain.FieldReferenceDate, Headers: []string{"Data_Referencia"}},
		{Field: domain.FieldMovementType, Headers: []string{"Tipo_Movimentacao"}},
		{Field: domain.FieldRole, Headers: []string{"Tipo_Cargo"}},
		{Field: domain.FieldQuantity, Headers: []string{"Quantidade"}},
		{Field: domain.FieldUnitPrice, Headers: []string{"Preco_Unitario"}},
		{Field: domain.FieldVolume, Contains: []string{"volume"}},
	}
}

// MergeFieldSpecs overlays overrides onto base by field. An override replaces
// the headers and patterns of its field; Required is ORed.
func MergeFieldSpecs(base []FieldSpec, overrides ...FieldSpec) []FieldSpec {
	out := make([]FieldSpec, len(base))
	copy(out, base)

	for _, o := range overrides {
		found := false
		for i := range out {
			if out[i].Field == o.Field {
				if len(o.Headers) > 0 || len(o.Contains) > 0 {
					out[i].Headers = o.Headers
					out[i].Contains = o.Contains
				}
				out[i].Required = out[i].Required || o.Required
				found = true
				break
			}
		}
		if !found {
			out = append(out, o)
		}
	}
	return out
}

// Schema maps canonical fields to the source columns that carry them.
// Fields that were not found are absent.
type Schema struct {
	columns map[domain.Field]string
}

// Column returns the column carrying f
func (s Schema) Column(f domain.Field) (string, bool) {
	c, ok := s.columns[f]
	return c, ok
}

// Has reports whether f resolved to a column
func (s Schema) Has(f domain.Field) bool {
	_, ok := s.columns[f]
	return ok
}

// with returns a copy of s with f pointing at column
func (s Schema) with(f domain.Field, column string) Schema {
	m := maps.Clone(s.columns)
	if m == nil {
		m = make(map[domain.Field]string)
	}
	m[f] = column
	return Schema{columns: m}
}

// Claims reports whether column is bound to any field
func (s Schema) Claims(column string) bool {
	for _, c := range s.columns {
		if c == column {
			return true
		}
	}
	return false
}

// Map returns field name to column name
func (s Schema) Map() map[string]string {
	out := make(map[string]string, len(s.columns))
	for f, c := range s.columns {
		out[string(f)] = c
	}
	return out
}

// ResolveSchema binds each spec to the first unclaimed column that matches
// it, in column order. A required field with no match is a schema error.
func ResolveSchema(columns []string, specs []FieldSpec) (Schema, error) {
	schema := Schema{columns: make(map[domain.Field]string)}
	claimed := make(map[string]bool)

	for _, spec := range specs {
		col, ok := matchColumn(columns, claimed, spec)
		if !ok {
			if spec.Required {
				return Schema{}, apperrors.NewSchemaError(
					fmt.Sprintf("required field %q not found in columns", spec.Field), nil,
				).WithContext("field", string(spec.Field)).WithContext("columns", columns)
			}
			continue
		}
		claimed[col] = true
		schema.columns[spec.Field] = col
	}

	return schema, nil
}

func matchColumn(columns []string, claimed map[string]bool, spec FieldSpec) (string, bool) {
	for _, c := range columns {
		if claimed[c] {
			continue
		}
		name := strings.TrimSpace(c)
		for _, h := range spec.Headers {
			if strings.EqualFold(name, strings.TrimSpace(h)) {
				return c, true
			}
		}
	}

	for _, c := range columns {
		if claimed[c] {
			continue
		}
		lower := strings.ToLower(c)
		for _, p := range spec.Contains {
			if p != "" && strings.Contains(lower, strings.ToLower(p)) {
				return c, true
			}
		}
	}

	return "", false
}
