package core

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/JonMunkholm/enrolment/internal/table"
)

// SplitConfig configures SplitGeography.
type SplitConfig struct {
	Source      string   // combined "Institution, Province" column
	Institution string   // output institution column
	Geography   string   // output geography column; may equal Source
	Known       []string // bare geography names (provinces, territories, Canada)
}

// SplitGeography derives an institution and a geography column from a
// combined column.
//
// A value equal to a known geography is a province-wide total: the
// institution becomes "<value> (total)" and the geography is the value. Any
// other value is split at its last comma; the geography is trimmed, the
// institution is kept as written.
//
// Values with no comma that are not known geographies get the whole value as
// institution and "" as geography. The resulting table is returned together
// with an *UnresolvedGeographyError naming those rows; callers decide whether
// that is fatal.
func SplitGeography(t *table.Table, cfg SplitConfig) (*table.Table, error) {
	if cfg.Institution == cfg.Geography {
		return nil, &ConfigurationMismatchError{
			Stage:     StageSplitGeography,
			Columns:   []string{cfg.Institution},
			Available: t.Columns(),
			Reason:    "institution and geography outputs must differ",
		}
	}
	if err := checkColumns(StageSplitGeography, t,
		table.Need(cfg.Source, table.KindString, table.KindNull)); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(cfg.Known))
	for _, k := range cfg.Known {
		known[k] = true
	}

	src, _ := t.Column(cfg.Source)
	institutions := make([]table.Value, len(src))
	geographies := make([]table.Value, len(src))
	var unresolved *UnresolvedGeographyError

	for r, v := range src {
		s, ok := v.AsString()
		if !ok {
			institutions[r], geographies[r] = table.Null(), table.Null()
			continue
		}
		if known[s] {
			institutions[r] = table.Str(s + " (total)")
			geographies[r] = table.Str(s)
			continue
		}
		i := strings.LastIndex(s, ",")
		if i < 0 {
			if unresolved == nil {
				unresolved = &UnresolvedGeographyError{Stage: StageSplitGeography, Column: cfg.Source}
			}
			unresolved.Rows = append(unresolved.Rows, r)
			unresolved.Values = append(unresolved.Values, s)
			institutions[r] = table.Str(s)
			geographies[r] = table.Str("")
			continue
		}
		institutions[r] = table.Str(s[:i])
		geographies[r] = table.Str(strings.TrimSpace(s[i+1:]))
	}

	out, err := t.WithColumn(cfg.Institution, institutions)
	if err != nil {
		return nil, err
	}
	out, err = out.WithColumn(cfg.Geography, geographies)
	if err != nil {
		return nil, err
	}
	if unresolved != nil {
		return out, unresolved
	}
	return out, nil
}

// RemoveTerritories drops rows whose col value contains any territory name,
// ignoring case. Null values never match. Empty names are skipped.
func RemoveTerritories(t *table.Table, col string, territories []string) (*table.Table, error) {
	if err := checkColumns(StageRemoveTerritories, t, table.Need(col)); err != nil {
		return nil, err
	}

	// Casers keep state, so each call folds with its own.
	fold := cases.Fold()
	patterns := make([]string, 0, len(territories))
	for _, name := range territories {
		if name != "" {
			patterns = append(patterns, fold.String(name))
		}
	}

	values, _ := t.Column(col)
	return t.Filter(func(row int) bool {
		v := values[row]
		if v.IsNull() {
			return true
		}
		text := fold.String(v.Text())
		for _, p := range patterns {
			if strings.Contains(text, p) {
				return false
			}
		}
		return true
	}), nil
}

// SelectGeographies keeps only rows whose col value is exactly one of names.
// Null values are dropped.
func SelectGeographies(t *table.Table, col string, names []string) (*table.Table, error) {
	if err := checkColumns(StageSelectGeographies, t, table.Need(col)); err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	values, _ := t.Column(col)
	return t.Filter(func(row int) bool {
		s, ok := values[row].AsString()
		return ok && keep[s]
	}), nil
}

// AddProvinceCode inserts codeCol directly after col, holding the short code
// for each geography name. Names without a code (Canada, territories) get null.
func AddProvinceCode(t *table.Table, col, codeCol string, codes map[string]string) (*table.Table, error) {
	if err := checkColumns(StageProvinceCode, t, table.Need(col)); err != nil {
		return nil, err
	}

	values, _ := t.Column(col)
	out := make([]table.Value, len(values))
	for r, v := range values {
		s, _ := v.AsString()
		if code, ok := codes[s]; ok && !v.IsNull() {
			out[r] = table.Str(code)
		} else {
			out[r] = table.Null()
		}
	}
	return t.InsertAfter(col, codeCol, out)
}

// SplitGeographyStage wraps SplitGeography.
func SplitGeographyStage(cfg SplitConfig) Stage {
	cfg.Known = append([]string(nil), cfg.Known...)
	return Stage{Name: StageSplitGeography, Apply: func(t *table.Table) (*table.Table, error) {
		return SplitGeography(t, cfg)
	}}
}

// RemoveTerritoriesStage wraps RemoveTerritories.
func RemoveTerritoriesStage(col string, territories []string) Stage {
	territories = append([]string(nil), territories...)
	return Stage{Name: StageRemoveTerritories, Apply: func(t *table.Table) (*table.Table, error) {
		return RemoveTerritories(t, col, territories)
	}}
}

// SelectGeographiesStage wraps SelectGeographies.
func SelectGeographiesStage(col string, names []string) Stage {
	names = append([]string(nil), names...)
	return Stage{Name: StageSelectGeographies, Apply: func(t *table.Table) (*table.Table, error) {
		return SelectGeographies(t, col, names)
	}}
}

// ProvinceCodeStage wraps AddProvinceCode.
func ProvinceCodeStage(col, codeCol string, codes map[string]string) Stage {
	m := make(map[string]string, len(codes))
	for k, v := range codes {
		m[k] = v
	}
	return Stage{Name: StageProvinceCode, Apply: func(t *table.Table) (*table.Table, error) {
		return AddProvinceCode(t, col, codeCol, m)
	}}
}
