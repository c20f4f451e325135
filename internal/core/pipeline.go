package core

// pipeline.go composes stages into an ordered run.
//
// A stage is a pure function from one table to the next. The pipeline applies
// them left to right, checks for cancellation between stages (never inside
// one), and stops at the first error. Validate dry-runs the same stages on a
// zero-row table so a column mismatch is caught before any data is touched.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/enrolment/internal/logging"
	"github.com/JonMunkholm/enrolment/internal/table"
)

// Func transforms a table. Implementations must not modify their input.
type Func func(*table.Table) (*table.Table, error)

// Stage is a named transform.
type Stage struct {
	Name  string
	Apply Func
}

// Options tunes pipeline error policy.
type Options struct {
	// TolerateUnresolvedGeography continues past an UnresolvedGeographyError,
	// using the fallback table the stage returned. The rows are logged.
	TolerateUnresolvedGeography bool
}

// Pipeline is an ordered list of stages. It holds no per-run state and may be
// run concurrently on different tables.
type Pipeline struct {
	stages []Stage
	opts   Options
}

// NewPipeline builds a pipeline. Stages run in the order given.
func NewPipeline(opts Options, stages ...Stage) *Pipeline {
	return &Pipeline{stages: append([]Stage(nil), stages...), opts: opts}
}

// Stages returns the stage names in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Validate checks that a table with the given columns would satisfy every
// stage's column requirements, and returns the resulting output columns.
// Only column presence is checked; values are not available yet.
func (p *Pipeline) Validate(columns []string) ([]string, error) {
	cur, err := table.New(columns)
	if err != nil {
		return nil, fmt.Errorf("pipeline: input schema: %w", err)
	}
	for i, s := range p.stages {
		out, err := s.Apply(cur)
		if err != nil && !(out != nil && errors.Is(err, ErrRecoverable)) {
			return nil, &StageError{Stage: s.Name, Index: i, Err: err}
		}
		cur = out
	}
	return cur.Columns(), nil
}

// Run applies every stage to t in order.
func (p *Pipeline) Run(ctx context.Context, t *table.Table) (*table.Table, error) {
	logger := logging.FromContext(ctx)
	cur := t

	for i, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline cancelled before stage %d (%s): %w", i, s.Name, err)
		}

		start := time.Now()
		out, err := s.Apply(cur)
		if err != nil {
			var unresolved *UnresolvedGeographyError
			if out == nil || !p.opts.TolerateUnresolvedGeography || !errors.As(err, &unresolved) {
				return nil, &StageError{Stage: s.Name, Index: i, Err: err}
			}
			logger.Warn("unresolved geography values kept with empty province",
				"stage", s.Name,
				"column", unresolved.Column,
				"count", len(unresolved.Rows),
				"first_row", unresolved.Rows[0],
				"first_value", unresolved.Values[0],
			)
		}

		logger.Debug("stage complete",
			"stage", s.Name,
			"index", i,
			"rows_in", cur.Len(),
			"rows_out", out.Len(),
			"columns_out", out.Width(),
			"duration", time.Since(start),
		)
		cur = out
	}

	return cur, nil
}
