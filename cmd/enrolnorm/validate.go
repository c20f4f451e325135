package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/enrolment/internal/core"
	"github.com/JonMunkholm/enrolment/internal/csvio"
	"github.com/JonMunkholm/enrolment/internal/logging"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate file.csv...",
		Short: "Check extract headers without normalising",
		Long: `Reads only the header row of each extract and checks it against every
pipeline stage. Prints the output columns each file would produce.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateFiles(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
}

func (a *app) validateFiles(ctx context.Context, w io.Writer, paths []string) error {
	p, err := a.pipeline()
	if err != nil {
		return err
	}

	failed := 0
	var firstErr error
	for _, path := range paths {
		logger := logging.WithFields(ctx, "input", path)

		cols, err := a.validateFile(p, path)
		if err != nil {
			msg := core.MapError(err)
			logger.Warn("validation failed", "error", err, "code", msg.Code)
			fmt.Fprintf(w, "%s: FAIL %s\n", path, core.FormatUserError(err))
			fmt.Fprintf(w, "  %v\n", err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logger.Debug("validation passed", "columns", len(cols))
		fmt.Fprintf(w, "%s: ok -> %s\n", path, strings.Join(cols, ", "))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation: %w", failed, len(paths), firstErr)
	}
	return nil
}

func (a *app) validateFile(p *core.Pipeline, path string) ([]string, error) {
	header, err := csvio.ReadFileHeader(path, csvio.Options{Encoding: a.cfg.Pipeline.InputEncoding})
	if err != nil {
		return nil, err
	}
	cols, err := p.Validate(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cols, nil
}
