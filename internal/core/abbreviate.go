package core

import (
	"strings"

	"github.com/JonMunkholm/enrolment/internal/reference"
	"github.com/JonMunkholm/enrolment/internal/table"
)

// AbbreviateNames applies each rule to every value of col as a literal,
// case-sensitive substring replacement. Rules run in order and each sees the
// output of the ones before it. Every occurrence of a rule's target is
// replaced before the next rule runs. Nulls pass through.
func AbbreviateNames(t *table.Table, col string, rules []reference.Rule) (*table.Table, error) {
	if err := checkColumns(StageAbbreviate, t,
		table.Need(col, table.KindString, table.KindNull)); err != nil {
		return nil, err
	}

	return t.Map(col, func(_ int, v table.Value) (table.Value, error) {
		s, ok := v.AsString()
		if !ok {
			return v, nil
		}
		for _, r := range rules {
			if r.Target == "" {
				continue
			}
			s = strings.ReplaceAll(s, r.Target, r.Replacement)
		}
		return table.Str(s), nil
	})
}

// AbbreviateStage wraps AbbreviateNames.
func AbbreviateStage(col string, rules []reference.Rule) Stage {
	rules = append([]reference.Rule(nil), rules...)
	return Stage{Name: StageAbbreviate, Apply: func(t *table.Table) (*table.Table, error) {
		return AbbreviateNames(t, col, rules)
	}}
}
