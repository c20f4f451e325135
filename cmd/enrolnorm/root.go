package main

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/enrolment/internal/config"
	"github.com/JonMunkholm/enrolment/internal/core"
	"github.com/JonMunkholm/enrolment/internal/logging"
	"github.com/JonMunkholm/enrolment/internal/reference"
)

// app carries state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	cfg *config.Config
	ref *reference.Set

	// flag values, applied over cfg only when the flag was set
	referenceFile string
	encoding      string
	logLevel      string
	logFormat     string
	outputDir     string
	tolerate      bool
	provinceCodes bool
	group         string
	geographies   []string
	concurrency   int
	timeout       time.Duration
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "enrolnorm",
		Short: "Normalise Statistics Canada enrolment extracts",
		Long: `enrolnorm turns raw postsecondary enrolment extracts into one row per
fiscal year, province, institution and program, with the citizenship-status
counts in separate columns.

Settings come from the environment (and an optional .env file); flags
override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.referenceFile, "reference", "", "YAML reference file (env ENROL_REFERENCE_FILE)")
	pf.StringVar(&a.encoding, "encoding", "", "input encoding, utf-8 or windows-1252 (env ENROL_INPUT_ENCODING)")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	pf.StringVar(&a.logFormat, "log-format", "", "text or json (env LOG_FORMAT)")
	pf.StringVar(&a.group, "group", "", "keep only provinces in this reference group (env ENROL_GEOGRAPHY_GROUP)")
	pf.StringSliceVar(&a.geographies, "geography", nil, "keep only these provinces; repeatable (env ENROL_GEOGRAPHIES)")
	pf.BoolVar(&a.tolerate, "tolerate-unresolved-geo", false, "keep GEO values with no province instead of failing (env ENROL_TOLERATE_UNRESOLVED_GEO)")
	pf.BoolVar(&a.provinceCodes, "province-codes", false, "add a Province Code column (env ENROL_PROVINCE_CODES)")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newReferenceCmd(a))
	return root
}

// setup loads configuration, applies flag overrides, configures logging and
// loads the reference set.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("reference") {
		cfg.Pipeline.ReferenceFile = a.referenceFile
	}
	if flags.Changed("encoding") {
		cfg.Pipeline.InputEncoding = a.encoding
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if flags.Changed("group") {
		cfg.Pipeline.GeographyGroup = a.group
	}
	if flags.Changed("geography") {
		cfg.Pipeline.Geographies = a.geographies
	}
	if flags.Changed("tolerate-unresolved-geo") {
		cfg.Pipeline.TolerateUnresolvedGeography = a.tolerate
	}
	if flags.Changed("province-codes") {
		cfg.Pipeline.ProvinceCodes = a.provinceCodes
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		cfg.Pipeline.OutputDir = a.outputDir
	}
	if flags.Lookup("concurrency") != nil && flags.Changed("concurrency") {
		cfg.Run.MaxConcurrent = a.concurrency
	}
	if flags.Lookup("timeout") != nil && flags.Changed("timeout") {
		cfg.Run.Timeout = a.timeout
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	ref := reference.Default()
	if cfg.Pipeline.ReferenceFile != "" {
		ref, err = reference.Load(cfg.Pipeline.ReferenceFile)
		if err != nil {
			return err
		}
		slog.Debug("reference data loaded", "path", cfg.Pipeline.ReferenceFile)
	}

	a.cfg = cfg
	a.ref = ref
	return nil
}

// resolveGeographies resolves the province filter from the configured group and
// explicit list. An empty result keeps every province.
func (a *app) resolveGeographies() ([]string, error) {
	var names []string
	if g := a.cfg.Pipeline.GeographyGroup; g != "" {
		members, ok := a.ref.Group(g)
		if !ok {
			return nil, fmt.Errorf("unknown geography group %q (known: %v)", g, a.ref.GroupNames())
		}
		names = append(names, members...)
	}
	for _, n := range a.cfg.Pipeline.Geographies {
		n = a.ref.ProvinceName(n)
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	return names, nil
}

// pipeline builds a fresh enrolment pipeline from the loaded settings.
func (a *app) pipeline() (*core.Pipeline, error) {
	geos, err := a.resolveGeographies()
	if err != nil {
		return nil, err
	}
	return core.EnrolmentPipeline(a.ref, core.EnrolmentOptions{
		Geographies:                 geos,
		ProvinceCodes:               a.cfg.Pipeline.ProvinceCodes,
		TolerateUnresolvedGeography: a.cfg.Pipeline.TolerateUnresolvedGeography,
	}), nil
}
