// Package table provides the in-memory table that flows between pipeline
// stages: ordered, uniquely named columns over row-major typed values.
//
// A Table is never modified after construction. Every builder method returns
// a new Table and leaves the receiver untouched, so one input can be handed to
// several independent pipelines at once.
package table

import (
	"fmt"
	"slices"
)

// Table is an ordered sequence of records sharing one column set.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New builds a table from column names and rows. Each row must have exactly
// one value per column, and column names must be unique.
func New(columns []string, rows ...[]Value) (*Table, error) {
	idx, err := buildIndex(columns)
	if err != nil {
		return nil, err
	}
	out := make([][]Value, len(rows))
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(r), len(columns))
		}
		out[i] = slices.Clone(r)
	}
	return &Table{columns: slices.Clone(columns), index: idx, rows: out}, nil
}

// MustNew is New that panics on error. Intended for fixtures and tests.
func MustNew(columns []string, rows ...[]Value) *Table {
	t, err := New(columns, rows...)
	if err != nil {
		panic(err)
	}
	return t
}

// FromRecords builds a table from name-keyed records. Columns absent from a
// record are null.
func FromRecords(columns []string, records ...map[string]Value) (*Table, error) {
	rows := make([][]Value, len(records))
	for i, rec := range records {
		row := make([]Value, len(columns))
		for j, c := range columns {
			row[j] = rec[c]
		}
		rows[i] = row
	}
	return New(columns, rows...)
}

func buildIndex(columns []string) (map[string]int, error) {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := idx[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		idx[c] = i
	}
	return idx, nil
}

// fromParts wraps already-owned slices without copying.
func fromParts(columns []string, rows [][]Value) *Table {
	idx, err := buildIndex(columns)
	if err != nil {
		// Builders only produce unique names; reaching here is a bug.
		panic(err)
	}
	return &Table{columns: columns, index: idx, rows: rows}
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table has the named column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Index returns the position of the named column.
func (t *Table) Index(col string) (int, bool) {
	i, ok := t.index[col]
	return i, ok
}

// Get returns the value at row for col, or null if the column does not exist.
func (t *Table) Get(row int, col string) Value {
	i, ok := t.index[col]
	if !ok {
		return Null()
	}
	return t.rows[row][i]
}

// Row returns a copy of the values of row i in column order.
func (t *Table) Row(i int) []Value { return slices.Clone(t.rows[i]) }

// Rows returns a copy of every row.
func (t *Table) Rows() [][]Value {
	out := make([][]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = slices.Clone(r)
	}
	return out
}

// Record returns row i keyed by column name.
func (t *Table) Record(i int) map[string]Value {
	rec := make(map[string]Value, len(t.columns))
	for j, c := range t.columns {
		rec[c] = t.rows[i][j]
	}
	return rec
}

// Column returns a copy of the named column's values.
func (t *Table) Column(col string) ([]Value, bool) {
	i, ok := t.index[col]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, true
}

// WithColumn returns a table where col holds values. An existing column is
// replaced in place; a new one is appended.
func (t *Table) WithColumn(col string, values []Value) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column %q has %d values, table has %d rows", col, len(values), len(t.rows))
	}
	if i, ok := t.index[col]; ok {
		rows := make([][]Value, len(t.rows))
		for r, row := range t.rows {
			nr := slices.Clone(row)
			nr[i] = values[r]
			rows[r] = nr
		}
		return fromParts(slices.Clone(t.columns), rows), nil
	}
	return t.insertAt(len(t.columns), col, values), nil
}

// InsertAfter returns a table with a new column placed directly after anchor.
// If anchor is absent the column is appended. If col already exists it is
// replaced in place.
func (t *Table) InsertAfter(anchor, col string, values []Value) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column %q has %d values, table has %d rows", col, len(values), len(t.rows))
	}
	if t.Has(col) {
		return t.WithColumn(col, values)
	}
	pos := len(t.columns)
	if i, ok := t.index[anchor]; ok {
		pos = i + 1
	}
	return t.insertAt(pos, col, values), nil
}

func (t *Table) insertAt(pos int, col string, values []Value) *Table {
	cols := slices.Insert(slices.Clone(t.columns), pos, col)
	rows := make([][]Value, len(t.rows))
	for r, row := range t.rows {
		nr := make([]Value, 0, len(row)+1)
		nr = append(nr, row[:pos]...)
		nr = append(nr, values[r])
		nr = append(nr, row[pos:]...)
		rows[r] = nr
	}
	return fromParts(cols, rows)
}

// Map returns a table with fn applied to every value of col. fn receives the
// row index so callers can report where a value failed. The first error stops
// the mapping and is returned unchanged.
func (t *Table) Map(col string, fn func(row int, v Value) (Value, error)) (*Table, error) {
	i, ok := t.index[col]
	if !ok {
		return nil, &MissingColumnsError{Columns: []string{col}, Available: t.Columns()}
	}
	values := make([]Value, len(t.rows))
	for r, row := range t.rows {
		nv, err := fn(r, row[i])
		if err != nil {
			return nil, err
		}
		values[r] = nv
	}
	return t.WithColumn(col, values)
}

// Select returns a table with exactly the named columns in the given order.
// Unknown names are skipped.
func (t *Table) Select(cols ...string) *Table {
	var keep []int
	var names []string
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if i, ok := t.index[c]; ok && !seen[c] {
			seen[c] = true
			keep = append(keep, i)
			names = append(names, c)
		}
	}
	rows := make([][]Value, len(t.rows))
	for r, row := range t.rows {
		nr := make([]Value, len(keep))
		for j, i := range keep {
			nr[j] = row[i]
		}
		rows[r] = nr
	}
	return fromParts(names, rows)
}

// Drop returns a table without the named columns. Absent names are ignored.
func (t *Table) Drop(cols ...string) *Table {
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}
	keep := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	return t.Select(keep...)
}

// Rename returns a table with columns renamed per mapping. Columns not in the
// mapping keep their names. When a new name collides with a column that is not
// itself renamed, the colliding column is removed and the renamed one keeps its
// position.
func (t *Table) Rename(mapping map[string]string) *Table {
	names := slices.Clone(t.columns)
	renamed := make(map[int]bool)
	for i, c := range names {
		if nn, ok := mapping[c]; ok {
			names[i] = nn
			renamed[i] = true
		}
	}
	// Resolve collisions: a renamed column wins over an untouched one.
	taken := make(map[string]int, len(names))
	shadow := make(map[int]bool)
	for i, n := range names {
		if prev, ok := taken[n]; ok {
			switch {
			case renamed[i] && !renamed[prev]:
				shadow[prev] = true
				taken[n] = i
			default:
				shadow[i] = true
			}
			continue
		}
		taken[n] = i
	}
	var cols []string
	var keep []int
	for i, n := range names {
		if shadow[i] {
			continue
		}
		cols = append(cols, n)
		keep = append(keep, i)
	}
	rows := make([][]Value, len(t.rows))
	for r, row := range t.rows {
		nr := make([]Value, len(keep))
		for j, i := range keep {
			nr[j] = row[i]
		}
		rows[r] = nr
	}
	return fromParts(cols, rows)
}

// Filter returns a table containing only the rows for which keep is true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	var rows [][]Value
	for r, row := range t.rows {
		if keep(r) {
			rows = append(rows, slices.Clone(row))
		}
	}
	return fromParts(slices.Clone(t.columns), rows)
}

// Equal reports whether two tables have the same columns in the same order
// and the same values row by row.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if !slices.Equal(t.columns, o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for r := range t.rows {
		if !slices.EqualFunc(t.rows[r], o.rows[r], Value.Equal) {
			return false
		}
	}
	return true
}
