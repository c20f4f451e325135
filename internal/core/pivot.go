package core

// pivot.go spreads a categorical column into one numeric column per category,
// summing values that share a group key.
//
// Rules, in the order they are applied:
//  1. The group key is the configured GroupBy columns that exist in the
//     table, in configured order. Configured but absent columns are ignored
//     unless none exist at all, which is a ConfigurationMismatchError. An
//     empty GroupBy puts every row in one partition.
//  2. Every value cell must be an integer, an integer string, or a whole
//     float string; nulls and blank strings add nothing. Anything else fails
//     before any grouping happens.
//  3. Rows with a null in any key column, or a null category, are skipped.
//     Their category labels do not count as seen, so a label that only
//     occurs on skipped rows gets no column.
//  4. Partitions are emitted sorted by key. Pivoted columns follow the key
//     columns: first non-canonical categories sorted by label, then the
//     canonical columns in configured order, each only if its label occurred.
//     Every pivoted cell is an integer, zero where the partition had no rows
//     for that category. A sum that would overflow int64 fails on the row
//     that overflows it.

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/JonMunkholm/enrolment/internal/table"
)

// CategoryColumn renames one category label to its output column.
type CategoryColumn struct {
	Label  string
	Column string
}

// PivotConfig configures PivotStatus.
type PivotConfig struct {
	GroupBy   []string
	Category  string
	Value     string
	Canonical []CategoryColumn
}

type partition struct {
	key  []table.Value
	sums map[string]int64
}

// PivotStatus groups t by cfg.GroupBy and spreads cfg.Category into columns
// holding the summed cfg.Value. See the file comment for the exact rules.
func PivotStatus(t *table.Table, cfg PivotConfig) (*table.Table, error) {
	if err := checkColumns(StagePivot, t, table.Need(cfg.Category), table.Need(cfg.Value)); err != nil {
		return nil, err
	}
	if cfg.Category == cfg.Value {
		return nil, &ConfigurationMismatchError{
			Stage: StagePivot, Columns: []string{cfg.Category}, Available: t.Columns(),
			Reason: "category and value must be different columns",
		}
	}

	var keyCols []string
	var overlap []string
	for _, c := range cfg.GroupBy {
		switch {
		case c == cfg.Category || c == cfg.Value:
			overlap = append(overlap, c)
		case t.Has(c) && !slices.Contains(keyCols, c):
			keyCols = append(keyCols, c)
		}
	}
	if len(overlap) > 0 {
		return nil, &ConfigurationMismatchError{
			Stage: StagePivot, Columns: overlap, Available: t.Columns(),
			Reason: "group columns overlap the category or value column",
		}
	}
	if len(cfg.GroupBy) > 0 && len(keyCols) == 0 {
		return nil, &ConfigurationMismatchError{
			Stage: StagePivot, Columns: cfg.GroupBy, Available: t.Columns(),
			Reason: "no configured group column is present",
		}
	}

	values, _ := t.Column(cfg.Value)
	counts := make([]int64, len(values))
	for r, v := range values {
		n, err := parseCount(v)
		if err != nil {
			return nil, &MalformedValueError{
				Stage: StagePivot, Row: r, Column: cfg.Value, Value: v,
				Reason: ReasonNumber, Err: err,
			}
		}
		counts[r] = n
	}

	keyIdx := make([]int, len(keyCols))
	for i, c := range keyCols {
		keyIdx[i], _ = t.Index(c)
	}
	catIdx, _ := t.Index(cfg.Category)

	parts := make(map[string]*partition)
	var order []*partition
	seen := make(map[string]bool)

rows:
	for r := 0; r < t.Len(); r++ {
		row := t.Row(r)
		cat := row[catIdx]
		if cat.IsNull() {
			continue
		}
		key := make([]table.Value, len(keyIdx))
		for i, idx := range keyIdx {
			if row[idx].IsNull() {
				continue rows
			}
			key[i] = row[idx]
		}

		id := encodeKey(key)
		p, ok := parts[id]
		if !ok {
			p = &partition{key: key, sums: make(map[string]int64)}
			parts[id] = p
			order = append(order, p)
		}
		label := cat.Text()
		seen[label] = true
		sum, ok := addCount(p.sums[label], counts[r])
		if !ok {
			return nil, &MalformedValueError{
				Stage: StagePivot, Row: r, Column: cfg.Value, Value: t.Get(r, cfg.Value),
				Reason: ReasonNumber, Err: strconv.ErrRange,
			}
		}
		p.sums[label] = sum
	}

	slices.SortStableFunc(order, func(a, b *partition) int {
		for i := range a.key {
			if c := table.Compare(a.key[i], b.key[i]); c != 0 {
				return c
			}
		}
		return 0
	})

	labels, columns := pivotColumns(cfg.Canonical, seen)
	outCols := append(slices.Clone(keyCols), columns...)
	for _, c := range columns {
		if slices.Contains(keyCols, c) {
			return nil, &ConfigurationMismatchError{
				Stage: StagePivot, Columns: []string{c}, Available: t.Columns(),
				Reason: "pivoted column collides with a group column",
			}
		}
	}

	outRows := make([][]table.Value, len(order))
	for i, p := range order {
		row := make([]table.Value, 0, len(outCols))
		row = append(row, p.key...)
		for _, l := range labels {
			row = append(row, table.Int(p.sums[l]))
		}
		outRows[i] = row
	}

	out, err := table.New(outCols, outRows...)
	if err != nil {
		return nil, &ConfigurationMismatchError{
			Stage: StagePivot, Columns: outCols, Available: t.Columns(),
			Reason: "pivoted columns are not unique: " + err.Error(),
		}
	}
	return out, nil
}

// pivotColumns returns the category labels to emit and their output column
// names, in output order.
func pivotColumns(canonical []CategoryColumn, seen map[string]bool) (labels, columns []string) {
	isCanonical := make(map[string]bool, len(canonical))
	for _, c := range canonical {
		isCanonical[c.Label] = true
	}

	var other []string
	for l := range seen {
		if !isCanonical[l] {
			other = append(other, l)
		}
	}
	slices.Sort(other)
	labels = append(labels, other...)
	columns = append(columns, other...)

	for _, c := range canonical {
		if seen[c.Label] {
			labels = append(labels, c.Label)
			columns = append(columns, c.Column)
		}
	}
	return labels, columns
}

// encodeKey builds a map key that distinguishes kinds, so Int(1) and Str("1")
// never share a partition.
func encodeKey(key []table.Value) string {
	var b strings.Builder
	for _, v := range key {
		b.WriteString(v.Kind().String())
		b.WriteByte(':')
		b.WriteString(strconv.Quote(v.Text()))
		b.WriteByte(';')
	}
	return b.String()
}

// parseCount reads a value cell. Nulls and blank strings count as zero.
func parseCount(v table.Value) (int64, error) {
	switch v.Kind() {
	case table.KindNull:
		return 0, nil
	case table.KindInt:
		n, _ := v.AsInt()
		return n, nil
	}

	s, _ := v.AsString()
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, strconv.ErrRange
	}
	return int64(f), nil
}

// addCount returns a+b and false if the sum overflows int64.
func addCount(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

// PivotStage wraps PivotStatus.
func PivotStage(cfg PivotConfig) Stage {
	cfg.GroupBy = append([]string(nil), cfg.GroupBy...)
	cfg.Canonical = append([]CategoryColumn(nil), cfg.Canonical...)
	return Stage{Name: StagePivot, Apply: func(t *table.Table) (*table.Table, error) {
		return PivotStatus(t, cfg)
	}}
}
