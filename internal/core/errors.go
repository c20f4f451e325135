package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/enrolment/internal/table"
)

// ErrRecoverable marks stage errors whose accompanying table is still usable.
// Match with errors.Is.
var ErrRecoverable = errors.New("recoverable")

// Reasons carried by MalformedValueError. MapError keys off these.
const (
	ReasonFiscalYear = "invalid fiscal year"
	ReasonNumber     = "invalid number"
	ReasonText       = "not a text value"
)

// MalformedValueError reports a cell that does not have the shape a stage
// needs. Row is the zero-based index into the stage's input table.
type MalformedValueError struct {
	Stage  string
	Row    int
	Column string
	Value  table.Value
	Reason string
	Err    error
}

func (e *MalformedValueError) Error() string {
	msg := fmt.Sprintf("%s: row %d: column %q: %s %s %q",
		e.Stage, e.Row, e.Column, e.Reason, e.Value.Kind(), e.Value.Text())
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedValueError) Unwrap() error { return e.Err }

// ConfigurationMismatchError reports that the columns a stage was configured
// with do not line up with the table it received.
type ConfigurationMismatchError struct {
	Stage     string
	Columns   []string
	Available []string
	Reason    string
}

func (e *ConfigurationMismatchError) Error() string {
	return fmt.Sprintf("%s: %s: %s (available: %s)",
		e.Stage, e.Reason, strings.Join(e.Columns, ", "), strings.Join(e.Available, ", "))
}

// UnresolvedGeographyError lists geography values that are neither a known
// province/territory nor of the form "Institution, Province". The stage that
// returns it also returns a complete table in which those rows carry the whole
// value as the institution and an empty geography.
type UnresolvedGeographyError struct {
	Stage  string
	Column string
	Rows   []int
	Values []string
}

func (e *UnresolvedGeographyError) Error() string {
	return fmt.Sprintf("%s: %d value(s) in %q have no province: first at row %d (%q)",
		e.Stage, len(e.Rows), e.Column, e.Rows[0], e.Values[0])
}

// Is lets errors.Is(err, ErrRecoverable) succeed.
func (e *UnresolvedGeographyError) Is(target error) bool { return target == ErrRecoverable }

// StageError wraps a failure with the pipeline position it came from.
type StageError struct {
	Stage string
	Index int
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s): %v", e.Index, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// checkColumns converts table requirement failures into the core taxonomy.
func checkColumns(stage string, t *table.Table, specs ...table.ColumnSpec) error {
	err := table.Require(t, specs...)
	if err == nil {
		return nil
	}

	var missing *table.MissingColumnsError
	if errors.As(err, &missing) {
		return &ConfigurationMismatchError{
			Stage:     stage,
			Columns:   missing.Columns,
			Available: missing.Available,
			Reason:    "required column not found",
		}
	}

	var kind *table.KindError
	if errors.As(err, &kind) {
		return &MalformedValueError{
			Stage:  stage,
			Row:    kind.Row,
			Column: kind.Column,
			Value:  kind.Value,
			Reason: ReasonText,
		}
	}

	return fmt.Errorf("%s: %w", stage, err)
}
