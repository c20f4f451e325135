// Package config provides centralized configuration management for the
// normaliser. It loads configuration from environment variables with sensible
// defaults and validates all settings on startup to fail fast on
// misconfiguration. Command-line flags override the loaded values.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Pipeline PipelineConfig
	Run      RunConfig
	Logging  LoggingConfig
}

// PipelineConfig holds normalisation settings.
type PipelineConfig struct {
	// ReferenceFile is a YAML file overriding the built-in reference data (default: none)
	ReferenceFile string `env:"ENROL_REFERENCE_FILE"`

	// InputEncoding is the encoding of input extracts: utf-8 or windows-1252 (default: utf-8)
	InputEncoding string `env:"ENROL_INPUT_ENCODING" default:"utf-8"`

	// OutputDir is where normalised files are written (default: out)
	OutputDir string `env:"ENROL_OUTPUT_DIR" envAlt:"OUTPUT_DIR" default:"out"`

	// TolerateUnresolvedGeography keeps rows whose GEO has no province instead of failing (default: false)
	TolerateUnresolvedGeography bool `env:"ENROL_TOLERATE_UNRESOLVED_GEO" default:"false"`

	// ProvinceCodes adds a Province Code column to the output (default: false)
	ProvinceCodes bool `env:"ENROL_PROVINCE_CODES" default:"false"`

	// GeographyGroup keeps only provinces in the named reference group (default: none)
	GeographyGroup string `env:"ENROL_GEOGRAPHY_GROUP"`

	// Geographies is a comma-separated list of provinces to keep, combined with GeographyGroup (default: all)
	Geographies []string `env:"ENROL_GEOGRAPHIES"`
}

// RunConfig holds batch execution settings.
type RunConfig struct {
	// MaxConcurrent is the number of files normalised in parallel (default: 4)
	MaxConcurrent int `env:"RUN_MAX_CONCURRENT" default:"4"`

	// Timeout bounds a whole run (default: 5m)
	Timeout time.Duration `env:"RUN_TIMEOUT" default:"5m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
