package core

import (
	"strconv"

	"github.com/JonMunkholm/enrolment/internal/table"
)

// NormalizeFiscalYear replaces "YYYY-YYYY" values in col with the starting
// year as an integer. Only the leading four characters are read, so any
// string starting with a four-digit year is accepted. Nulls, integers and
// strings without a leading year fail with a MalformedValueError.
func NormalizeFiscalYear(t *table.Table, col string) (*table.Table, error) {
	if err := checkColumns(StageFiscalYear, t, table.Need(col)); err != nil {
		return nil, err
	}

	return t.Map(col, func(row int, v table.Value) (table.Value, error) {
		s, ok := v.AsString()
		if !ok {
			return table.Value{}, &MalformedValueError{
				Stage: StageFiscalYear, Row: row, Column: col, Value: v,
				Reason: ReasonFiscalYear,
			}
		}
		year, err := leadingYear(s)
		if err != nil {
			return table.Value{}, &MalformedValueError{
				Stage: StageFiscalYear, Row: row, Column: col, Value: v,
				Reason: ReasonFiscalYear, Err: err,
			}
		}
		return table.Int(year), nil
	})
}

func leadingYear(s string) (int64, error) {
	if len(s) < 4 {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.ParseInt(s[:4], 10, 64)
}

// FiscalYearStage wraps NormalizeFiscalYear.
func FiscalYearStage(col string) Stage {
	return Stage{Name: StageFiscalYear, Apply: func(t *table.Table) (*table.Table, error) {
		return NormalizeFiscalYear(t, col)
	}}
}
