package dataprocessing

import (
	"fmt"
	"slices"
	"sort"
)

// Table is an ordered set of rows sharing a column set. Tables are never
// mutated after construction; every transformation returns a new Table that
// may share row storage with its source.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewTable builds a table. Column names must be unique and every row must be
// exactly as wide as the header.
func NewTable(columns []string, rows [][]Value) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(r), len(columns))
		}
	}
	return &Table{columns: slices.Clone(columns), index: index, rows: rows}, nil
}

// MustNewTable is like NewTable but panics on error. Intended for tests and
// literals.
func MustNewTable(columns []string, rows [][]Value) *Table {
	t, err := NewTable(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) derive(rows [][]Value) *Table {
	return &Table{columns: t.columns, index: t.index, rows: rows}
}

// Columns returns the column names in order
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether the column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the value at row i in the named column, null when absent
func (t *Table) Cell(i int, column string) Value {
	c, ok := t.index[column]
	if !ok || i < 0 || i >= len(t.rows) {
		return Null()
	}
	return t.rows[i][c]
}

// Row returns a copy of row i
func (t *Table) Row(i int) []Value { return slices.Clone(t.rows[i]) }

// Column returns the values of the named column, nil when absent
func (t *Table) Column(name string) []Value {
	c, ok := t.index[name]
	if !ok {
		return nil
	}
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[c]
	}
	return out
}

// DropColumns removes the named columns that exist and reports which ones
// were removed. Unknown names are ignored.
func (t *Table) DropColumns(names ...string) (*Table, []string) {
	drop := make(map[int]bool)
	var dropped []string
	for _, n := range names {
		if c, ok := t.index[n]; ok && !drop[c] {
			drop[c] = true
			dropped = append(dropped, n)
		}
	}
	if len(drop) == 0 {
		return t, nil
	}

	keep := make([]int, 0, len(t.columns)-len(drop))
	cols := make([]string, 0, len(t.columns)-len(drop))
	for i, c := range t.columns {
		if !drop[i] {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}

	rows := make([][]Value, len(t.rows))
	for i, r := range t.rows {
		nr := make([]Value, len(keep))
		for j, k := range keep {
			nr[j] = r[k]
		}
		rows[i] = nr
	}

	out, _ := NewTable(cols, rows)
	return out, dropped
}

// RenameColumn renames from to to. Renaming onto another existing column is
// an error; renaming an absent column is a no-op.
func (t *Table) RenameColumn(from, to string) (*Table, error) {
	c, ok := t.index[from]
	if !ok || from == to {
		return t, nil
	}
	if _, exists := t.index[to]; exists {
		return nil, fmt.Errorf("cannot rename %q: column %q already exists", from, to)
	}

	cols := slices.Clone(t.columns)
	cols[c] = to
	return NewTable(cols, t.rows)
}

// MapColumn returns a table whose named column is fn applied to each cell
func (t *Table) MapColumn(name string, fn func(Value) Value) *Table {
	c, ok := t.index[name]
	if !ok {
		return t
	}
	rows := make([][]Value, len(t.rows))
	for i, r := range t.rows {
		nr := slices.Clone(r)
		nr[c] = fn(r[c])
		rows[i] = nr
	}
	return t.derive(rows)
}

// Row is the read-only view handed to Where and SortStable callbacks
type Row struct {
	t     *Table
	cells []Value
}

// Get returns the named cell, null when the column is absent
func (r Row) Get(column string) Value {
	c, ok := r.t.index[column]
	if !ok {
		return Null()
	}
	return r.cells[c]
}

// Where keeps the rows for which keep returns true, preserving order
func (t *Table) Where(keep func(Row) bool) *Table {
	rows := make([][]Value, 0, len(t.rows))
	for _, r := range t.rows {
		if keep(Row{t: t, cells: r}) {
			rows = append(rows, r)
		}
	}
	return t.derive(rows)
}

// SortStable orders rows with less while keeping the relative order of
// rows that compare equal
func (t *Table) SortStable(less func(a, b Row) bool) *Table {
	rows := slices.Clone(t.rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return less(Row{t: t, cells: rows[i]}, Row{t: t, cells: rows[j]})
	})
	return t.derive(rows)
}

// Strings renders every cell with Value.String
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		sr := make([]string, len(r))
		for j, v := range r {
			sr[j] = v.String()
		}
		out[i] = sr
	}
	return out
}
