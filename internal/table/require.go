package table

// require.go checks a table against the columns a stage needs before the
// stage touches any value. Modeled on header validation during CSV import:
// missing columns are collected and reported together, kind mismatches stop
// at the first offending cell.

import (
	"fmt"
	"slices"
	"strings"
)

// ColumnSpec names a column a stage reads and the value kinds it accepts.
// An empty Kinds list accepts any kind.
type ColumnSpec struct {
	Name  string
	Kinds []Kind
}

// Need is shorthand for a ColumnSpec.
func Need(name string, kinds ...Kind) ColumnSpec {
	return ColumnSpec{Name: name, Kinds: kinds}
}

// MissingColumnsError lists required columns absent from a table.
type MissingColumnsError struct {
	Columns   []string
	Available []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// KindError reports a value whose kind a column does not accept.
type KindError struct {
	Row    int
	Column string
	Value  Value
	Want   []Kind
}

func (e *KindError) Error() string {
	want := make([]string, len(e.Want))
	for i, k := range e.Want {
		want[i] = k.String()
	}
	return fmt.Sprintf("row %d: column %q holds %s %q, want %s",
		e.Row, e.Column, e.Value.Kind(), e.Value.Text(), strings.Join(want, " or "))
}

// Require validates that every listed column exists and holds only accepted
// kinds.
func Require(t *Table, specs ...ColumnSpec) error {
	var missing []string
	for _, s := range specs {
		if !t.Has(s.Name) {
			missing = append(missing, s.Name)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing, Available: t.Columns()}
	}

	for _, s := range specs {
		if len(s.Kinds) == 0 {
			continue
		}
		i := t.index[s.Name]
		for r, row := range t.rows {
			if !slices.Contains(s.Kinds, row[i].kind) {
				return &KindError{Row: r, Column: s.Name, Value: row[i], Want: s.Kinds}
			}
		}
	}
	return nil
}
