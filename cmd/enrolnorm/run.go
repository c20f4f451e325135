package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/enrolment/internal/core"
	"github.com/JonMunkholm/enrolment/internal/csvio"
	"github.com/JonMunkholm/enrolment/internal/logging"
)

// outputSuffix replaces the input extension in output file names.
const outputSuffix = ".normalized.csv"

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] file.csv...",
		Short: "Normalise one or more extracts",
		Long: `Reads each extract, runs the enrolment pipeline and writes
<out>/<name>.normalized.csv. Files are processed in parallel; the first
failure cancels the rest of the run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFiles(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}

	cmd.Flags().StringVarP(&a.outputDir, "out", "o", "", "output directory (env ENROL_OUTPUT_DIR)")
	cmd.Flags().IntVarP(&a.concurrency, "concurrency", "j", 0, "files processed in parallel (env RUN_MAX_CONCURRENT)")
	cmd.Flags().DurationVar(&a.timeout, "timeout", 0, "timeout for the whole run (env RUN_TIMEOUT)")
	return cmd
}

// fileResult is one finished file, reported after the whole run succeeds.
type fileResult struct {
	input  string
	output string
	rows   int
}

// runFiles normalises every path concurrently.
func (a *app) runFiles(ctx context.Context, w io.Writer, paths []string) error {
	outputs, err := outputPaths(a.cfg.Pipeline.OutputDir, paths)
	if err != nil {
		return err
	}
	// Build once up front so a bad geography group fails before any file is read.
	if _, err := a.pipeline(); err != nil {
		return err
	}
	if err := os.MkdirAll(a.cfg.Pipeline.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Run.Timeout)
	defer cancel()

	logger := logging.FromContext(ctx)
	logger.Info("run started", "files", len(paths), "max_concurrent", a.cfg.Run.MaxConcurrent)
	start := time.Now()

	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Run.MaxConcurrent)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			rows, err := a.normalizeFile(gctx, path, outputs[i])
			if err != nil {
				return err
			}
			results[i] = fileResult{input: path, output: outputs[i], rows: rows}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		msg := core.MapError(err)
		logger.Error("run failed", "error", err, "code", msg.Code, "duration", time.Since(start))
		return err
	}

	for _, r := range results {
		fmt.Fprintf(w, "%s -> %s (%d rows)\n", r.input, r.output, r.rows)
	}
	logger.Info("run complete", "files", len(paths), "duration", time.Since(start))
	return nil
}

// normalizeFile reads in, runs a fresh pipeline over it and writes out.
func (a *app) normalizeFile(ctx context.Context, in, out string) (int, error) {
	ctx = logging.ContextWithFields(ctx, "input", in)
	logger := logging.FromContext(ctx)
	logger.Debug("normalising")

	p, err := a.pipeline()
	if err != nil {
		return 0, err
	}

	// ReadFile already names the path in its errors.
	t, err := csvio.ReadFile(in, csvio.Options{Encoding: a.cfg.Pipeline.InputEncoding})
	if err != nil {
		return 0, fileFailed(ctx, err)
	}

	result, err := p.Run(ctx, t)
	if err != nil {
		return 0, fileFailed(ctx, fmt.Errorf("%s: %w", in, err))
	}

	if err := csvio.WriteFile(out, result); err != nil {
		return 0, fileFailed(ctx, fmt.Errorf("write %s: %w", out, err))
	}

	logger.Info("written",
		"output", out,
		"rows_in", t.Len(),
		"rows_out", result.Len(),
		"columns", result.Width(),
	)
	return result.Len(), nil
}

// fileFailed logs err with its user-facing code and returns it. Cancellation
// caused by another file's failure is not logged again.
func fileFailed(ctx context.Context, err error) error {
	if ctx.Err() == nil {
		msg := core.MapError(err)
		logging.FromContext(ctx).Error("normalisation failed",
			"error", err,
			"code", msg.Code,
			"action", msg.Action,
		)
	}
	return err
}

// outputPaths maps each input to <dir>/<name>.normalized.csv and rejects two
// inputs that would write the same file.
func outputPaths(dir string, inputs []string) ([]string, error) {
	outs := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		base := filepath.Base(in)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		out := filepath.Join(dir, name+outputSuffix)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("inputs %s and %s would both write %s", prev, in, out)
		}
		seen[out] = in
		outs[i] = out
	}
	return outs, nil
}
