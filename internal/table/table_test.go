package table

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fixture() *Table {
	return MustNew(
		[]string{"A", "B", "C"},
		[]Value{Str("a1"), Int(1), Null()},
		[]Value{Str("a2"), Int(2), Str("c2")},
	)
}

func TestNew_RejectsDuplicateColumns(t *testing.T) {
	if _, err := New([]string{"A", "A"}); err == nil {
		t.Fatal("expected error for duplicate column")
	}
}

func TestNew_RejectsWrongWidth(t *testing.T) {
	if _, err := New([]string{"A", "B"}, []Value{Str("x")}); err == nil {
		t.Fatal("expected error for short row")
	}
}

func TestNew_CopiesRows(t *testing.T) {
	row := []Value{Str("x")}
	tbl := MustNew([]string{"A"}, row)
	row[0] = Str("changed")

	if got := tbl.Get(0, "A"); !got.Equal(Str("x")) {
		t.Errorf("Get = %#v, want Str(\"x\")", got)
	}
}

func TestFromRecords_MissingKeysAreNull(t *testing.T) {
	tbl, err := FromRecords([]string{"A", "B"}, map[string]Value{"A": Str("x")})
	if err != nil {
		t.Fatalf("FromRecords() error = %v", err)
	}
	if !tbl.Get(0, "B").IsNull() {
		t.Errorf("B = %#v, want null", tbl.Get(0, "B"))
	}
}

func TestGet_AbsentColumnIsNull(t *testing.T) {
	if v := fixture().Get(0, "Z"); !v.IsNull() {
		t.Errorf("Get(absent) = %#v, want null", v)
	}
}

func TestWithColumn(t *testing.T) {
	src := fixture()

	replaced, err := src.WithColumn("B", []Value{Int(10), Int(20)})
	if err != nil {
		t.Fatalf("WithColumn() error = %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, replaced.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if v := replaced.Get(1, "B"); !v.Equal(Int(20)) {
		t.Errorf("B[1] = %#v, want Int(20)", v)
	}
	if v := src.Get(1, "B"); !v.Equal(Int(2)) {
		t.Errorf("source mutated: B[1] = %#v", v)
	}

	appended, err := src.WithColumn("D", []Value{Null(), Null()})
	if err != nil {
		t.Fatalf("WithColumn() error = %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "D"}, appended.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if src.Width() != 3 {
		t.Errorf("source width = %d, want 3", src.Width())
	}

	if _, err := src.WithColumn("D", []Value{Null()}); err == nil {
		t.Error("expected error for wrong value count")
	}
}

func TestInsertAfter(t *testing.T) {
	got, err := fixture().InsertAfter("A", "A2", []Value{Str("x"), Str("y")})
	if err != nil {
		t.Fatalf("InsertAfter() error = %v", err)
	}
	if diff := cmp.Diff([]string{"A", "A2", "B", "C"}, got.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Value{Str("a2"), Str("y"), Int(2), Str("c2")}, got.Row(1)); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}

	appended, err := fixture().InsertAfter("nope", "Z", []Value{Null(), Null()})
	if err != nil {
		t.Fatalf("InsertAfter() error = %v", err)
	}
	if cols := appended.Columns(); cols[len(cols)-1] != "Z" {
		t.Errorf("columns = %v, want Z last", cols)
	}
}

func TestMap(t *testing.T) {
	got, err := fixture().Map("B", func(_ int, v Value) (Value, error) {
		i, _ := v.AsInt()
		return Int(i * 100), nil
	})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if v := got.Get(1, "B"); !v.Equal(Int(200)) {
		t.Errorf("B[1] = %#v, want Int(200)", v)
	}

	boom := errors.New("boom")
	_, err = fixture().Map("B", func(row int, _ Value) (Value, error) {
		if row == 1 {
			return Value{}, boom
		}
		return Null(), nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Map() error = %v, want boom", err)
	}

	_, err = fixture().Map("Z", func(_ int, v Value) (Value, error) { return v, nil })
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Errorf("Map(absent) error = %v, want MissingColumnsError", err)
	}
}

func TestSelectAndDrop(t *testing.T) {
	sel := fixture().Select("C", "Z", "A")
	if diff := cmp.Diff([]string{"C", "A"}, sel.Columns()); diff != "" {
		t.Errorf("Select columns mismatch (-want +got):\n%s", diff)
	}

	dropped := fixture().Drop("B", "Z")
	if diff := cmp.Diff([]string{"A", "C"}, dropped.Columns()); diff != "" {
		t.Errorf("Drop columns mismatch (-want +got):\n%s", diff)
	}
	if dropped.Len() != 2 {
		t.Errorf("Drop len = %d, want 2", dropped.Len())
	}
}

func TestRename(t *testing.T) {
	tests := []struct {
		name    string
		mapping map[string]string
		want    []string
		row0    []Value
	}{
		{
			name:    "simple",
			mapping: map[string]string{"A": "X"},
			want:    []string{"X", "B", "C"},
			row0:    []Value{Str("a1"), Int(1), Null()},
		},
		{
			name:    "absent names ignored",
			mapping: map[string]string{"Z": "Y"},
			want:    []string{"A", "B", "C"},
			row0:    []Value{Str("a1"), Int(1), Null()},
		},
		{
			name:    "swap",
			mapping: map[string]string{"A": "B", "B": "A"},
			want:    []string{"B", "A", "C"},
			row0:    []Value{Str("a1"), Int(1), Null()},
		},
		{
			name:    "collision removes untouched column",
			mapping: map[string]string{"A": "C"},
			want:    []string{"C", "B"},
			row0:    []Value{Str("a1"), Int(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fixture().Rename(tt.mapping)
			if diff := cmp.Diff(tt.want, got.Columns()); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.row0, got.Row(0)); diff != "" {
				t.Errorf("row 0 mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	got := fixture().Filter(func(row int) bool { return row == 1 })
	if got.Len() != 1 {
		t.Fatalf("Len = %d, want 1", got.Len())
	}
	if v := got.Get(0, "A"); !v.Equal(Str("a2")) {
		t.Errorf("A[0] = %#v, want Str(\"a2\")", v)
	}

	none := fixture().Filter(func(int) bool { return false })
	if none.Len() != 0 || none.Width() != 3 {
		t.Errorf("empty filter = %d rows x %d cols, want 0 x 3", none.Len(), none.Width())
	}
}

func TestEqual(t *testing.T) {
	if !fixture().Equal(fixture()) {
		t.Error("identical tables not equal")
	}
	if fixture().Equal(fixture().Select("B", "A", "C")) {
		t.Error("column order ignored")
	}
	typed := MustNew([]string{"A"}, []Value{Int(1)})
	text := MustNew([]string{"A"}, []Value{Str("1")})
	if typed.Equal(text) {
		t.Error("Int(1) compared equal to Str(\"1\")")
	}
}
