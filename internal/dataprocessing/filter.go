package dataprocessing

import (
	"slices"
	"time"

	"insiderdash/pkg/contracts/domain"
)

// Apply returns the rows of t matching every active axis of sel, in their
// original order. An axis is inactive when its list is empty (or, for dates,
// when a bound is missing) or when its column is absent from the schema.
func Apply(t *Table, schema Schema, sel domain.FilterSelection) *Table {
	var preds []func(Row) bool

	addMembership := func(f domain.Field, allowed []string) {
		col, ok := schema.Column(f)
		if !ok || len(allowed) == 0 {
			return
		}
		set := make(map[string]struct{}, len(allowed))
		for _, a := range allowed {
			set[a] = struct{}{}
		}
		preds = append(preds, func(r Row) bool {
			v := r.Get(col)
			if v.IsNull() {
				return false
			}
			_, in := set[v.String()]
			return in
		})
	}

	addMembership(domain.FieldCompany, sel.Companies)
	addMembership(domain.FieldMovementType, sel.MovementTypes)
	addMembership(domain.FieldRole, sel.Roles)

	if col, ok := schema.Column(domain.FieldReferenceDate); ok && sel.HasDateRange() {
		lo, hi := dayOf(*sel.DateFrom), dayOf(*sel.DateTo)
		preds = append(preds, func(r Row) bool {
			d, ok := r.Get(col).AsDate()
			if !ok {
				return false
			}
			day := dayOf(d)
			return day >= lo && day <= hi
		})
	}

	if len(preds) == 0 {
		return t
	}

	return t.Where(func(r Row) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	})
}

// dayOf maps a time to a comparable calendar day in its own location
func dayOf(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// Options lists the distinct values of each filter axis, sorted, and the
// date bounds used as the default range
func Options(t *Table, schema Schema) domain.FilterOptions {
	opts := domain.FilterOptions{
		Companies:     distinct(t, schema, domain.FieldCompany),
		MovementTypes: distinct(t, schema, domain.FieldMovementType),
		Roles:         distinct(t, schema, domain.FieldRole),
	}

	if col, ok := schema.Column(domain.FieldReferenceDate); ok {
		for _, v := range t.Column(col) {
			d, ok := v.AsDate()
			if !ok {
				continue
			}
			day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
			if opts.MinDate == nil || day.Before(*opts.MinDate) {
				opts.MinDate = &day
			}
			if opts.MaxDate == nil || day.After(*opts.MaxDate) {
				opts.MaxDate = &day
			}
		}
	}

	return opts
}

func distinct(t *Table, schema Schema, f domain.Field) []string {
	out := []string{}
	col, ok := schema.Column(f)
	if !ok {
		return out
	}
	seen := make(map[string]struct{})
	for _, v := range t.Column(col) {
		if v.IsNull() {
			continue
		}
		s := v.String()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Filter applies sel to the dataset's table
func (d *Dataset) Filter(sel domain.FilterSelection) *Table {
	return Apply(d.Table, d.Schema, sel)
}

// Options lists the filter values offered for the dataset
func (d *Dataset) Options() domain.FilterOptions {
	return Options(d.Table, d.Schema)
}

// View renders t for presentation
func View(t *Table) domain.TableView {
	return domain.TableView{
		Columns: t.Columns(),
		Rows:    t.Strings(),
		Count:   t.Len(),
	}
}
