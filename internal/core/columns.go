package core

import (
	"github.com/JonMunkholm/enrolment/internal/table"
)

// Stage names, used in errors and logs.
const (
	StageRequire           = "require_columns"
	StageDrop              = "drop_columns"
	StageRename            = "rename_columns"
	StageFiscalYear        = "fiscal_year"
	StageSplitGeography    = "split_geography"
	StageAbbreviate        = "abbreviate_names"
	StageRemoveTerritories = "remove_territories"
	StageSelectGeographies = "select_geographies"
	StageReorder           = "reorder_columns"
	StagePivot             = "pivot_status"
	StageProvinceCode      = "province_code"
)

// DropColumns removes the named columns. Names absent from t are ignored.
func DropColumns(t *table.Table, cols ...string) *table.Table {
	return t.Drop(cols...)
}

// RenameColumns renames columns per mapping; unmentioned columns are left
// alone. Renaming onto the name of an existing, unrenamed column replaces it.
func RenameColumns(t *table.Table, mapping map[string]string) *table.Table {
	return t.Rename(mapping)
}

// ReorderColumns moves the listed columns to the front in the given order,
// skipping any t lacks, and appends the rest in their existing order.
func ReorderColumns(t *table.Table, order ...string) *table.Table {
	placed := make(map[string]bool, len(order))
	final := make([]string, 0, t.Width())
	for _, c := range order {
		if t.Has(c) && !placed[c] {
			placed[c] = true
			final = append(final, c)
		}
	}
	for _, c := range t.Columns() {
		if !placed[c] {
			final = append(final, c)
		}
	}
	return t.Select(final...)
}

// DropStage wraps DropColumns.
func DropStage(cols ...string) Stage {
	cols = append([]string(nil), cols...)
	return Stage{Name: StageDrop, Apply: func(t *table.Table) (*table.Table, error) {
		return DropColumns(t, cols...), nil
	}}
}

// RenameStage wraps RenameColumns.
func RenameStage(mapping map[string]string) Stage {
	m := make(map[string]string, len(mapping))
	for k, v := range mapping {
		m[k] = v
	}
	return Stage{Name: StageRename, Apply: func(t *table.Table) (*table.Table, error) {
		return RenameColumns(t, m), nil
	}}
}

// ReorderStage wraps ReorderColumns.
func ReorderStage(order ...string) Stage {
	order = append([]string(nil), order...)
	return Stage{Name: StageReorder, Apply: func(t *table.Table) (*table.Table, error) {
		return ReorderColumns(t, order...), nil
	}}
}

// RequireStage fails with a ConfigurationMismatchError unless every named
// column is present. The table passes through unchanged.
func RequireStage(cols ...string) Stage {
	specs := make([]table.ColumnSpec, len(cols))
	for i, c := range cols {
		specs[i] = table.Need(c)
	}
	return Stage{Name: StageRequire, Apply: func(t *table.Table) (*table.Table, error) {
		if err := checkColumns(StageRequire, t, specs...); err != nil {
			return nil, err
		}
		return t, nil
	}}
}
