package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// clearEnv blanks every variable the loader reads so host settings do not
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"ENROL_REFERENCE_FILE", "ENROL_INPUT_ENCODING", "ENROL_OUTPUT_DIR", "OUTPUT_DIR",
		"ENROL_TOLERATE_UNRESOLVED_GEO", "ENROL_PROVINCE_CODES", "ENROL_GEOGRAPHY_GROUP",
		"ENROL_GEOGRAPHIES", "RUN_MAX_CONCURRENT", "RUN_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(name, "")
	}
}

func validConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{InputEncoding: "utf-8", OutputDir: "out"},
		Run:      RunConfig{MaxConcurrent: 4, Timeout: time.Minute},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pipeline.InputEncoding != "utf-8" {
		t.Errorf("Pipeline.InputEncoding = %q, want %q", cfg.Pipeline.InputEncoding, "utf-8")
	}
	if cfg.Pipeline.OutputDir != "out" {
		t.Errorf("Pipeline.OutputDir = %q, want %q", cfg.Pipeline.OutputDir, "out")
	}
	if cfg.Pipeline.ReferenceFile != "" {
		t.Errorf("Pipeline.ReferenceFile = %q, want empty", cfg.Pipeline.ReferenceFile)
	}
	if cfg.Pipeline.TolerateUnresolvedGeography {
		t.Error("Pipeline.TolerateUnresolvedGeography = true, want false")
	}
	if cfg.Run.MaxConcurrent != 4 {
		t.Errorf("Run.MaxConcurrent = %d, want %d", cfg.Run.MaxConcurrent, 4)
	}
	if cfg.Run.Timeout != 5*time.Minute {
		t.Errorf("Run.Timeout = %v, want %v", cfg.Run.Timeout, 5*time.Minute)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENROL_INPUT_ENCODING", "windows-1252")
	t.Setenv("ENROL_TOLERATE_UNRESOLVED_GEO", "true")
	t.Setenv("ENROL_PROVINCE_CODES", "1")
	t.Setenv("ENROL_GEOGRAPHY_GROUP", "large_population")
	t.Setenv("RUN_MAX_CONCURRENT", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pipeline.InputEncoding != "windows-1252" {
		t.Errorf("Pipeline.InputEncoding = %q, want %q", cfg.Pipeline.InputEncoding, "windows-1252")
	}
	if !cfg.Pipeline.TolerateUnresolvedGeography || !cfg.Pipeline.ProvinceCodes {
		t.Errorf("Pipeline booleans = %+v, want both true", cfg.Pipeline)
	}
	if cfg.Pipeline.GeographyGroup != "large_population" {
		t.Errorf("Pipeline.GeographyGroup = %q, want %q", cfg.Pipeline.GeographyGroup, "large_population")
	}
	if cfg.Run.MaxConcurrent != 10 {
		t.Errorf("Run.MaxConcurrent = %d, want %d", cfg.Run.MaxConcurrent, 10)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	clearEnv(t)
	t.Setenv("OUTPUT_DIR", "/tmp/normalized")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Pipeline.OutputDir != "/tmp/normalized" {
		t.Errorf("Pipeline.OutputDir = %q, want %q", cfg.Pipeline.OutputDir, "/tmp/normalized")
	}

	t.Setenv("ENROL_OUTPUT_DIR", "primary")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Pipeline.OutputDir != "primary" {
		t.Errorf("Pipeline.OutputDir = %q, want primary variable to win", cfg.Pipeline.OutputDir)
	}
}

func TestLoad_Duration(t *testing.T) {
	clearEnv(t)
	t.Setenv("RUN_TIMEOUT", "1m30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Run.Timeout != 90*time.Second {
		t.Errorf("Run.Timeout = %v, want %v", cfg.Run.Timeout, 90*time.Second)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENROL_GEOGRAPHIES", "Ontario, Quebec , ,British Columbia")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"Ontario", "Quebec", "British Columbia"}
	if diff := cmp.Diff(want, cfg.Pipeline.Geographies); diff != "" {
		t.Errorf("Geographies mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		value   string
		wantErr string
	}{
		{"bad integer", "RUN_MAX_CONCURRENT", "four", "RUN_MAX_CONCURRENT"},
		{"bad duration", "RUN_TIMEOUT", "soon", "invalid duration"},
		{"bad boolean", "ENROL_PROVINCE_CODES", "maybe", "invalid boolean"},
		{"unknown encoding", "ENROL_INPUT_ENCODING", "ebcdic-klingon", "ENROL_INPUT_ENCODING"},
		{"zero concurrency", "RUN_MAX_CONCURRENT", "0", "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.env, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %q: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	cfg := validConfig()
	cfg.Run.MaxConcurrent = 0
	cfg.Run.Timeout = 0
	cfg.Logging.Level = "verbose"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"RUN_MAX_CONCURRENT", "RUN_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	for _, enc := range []string{"utf-8", "UTF-8", "windows-1252", "latin1", ""} {
		cfg.Pipeline.InputEncoding = enc
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() with encoding %q error = %v", enc, err)
		}
	}
}

func TestValidate_EmptyOutputDir(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.OutputDir = "  "

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "ENROL_OUTPUT_DIR") {
		t.Errorf("Validate() error = %v, want ENROL_OUTPUT_DIR failure", err)
	}
}

func TestConfigString(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.GeographyGroup = "provinces"

	str := cfg.String()
	for _, want := range []string{`OutputDir: "out"`, `GeographyGroup: "provinces"`, "MaxConcurrent: 4", `Level: "info"`} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %s, missing %s", str, want)
		}
	}
}
