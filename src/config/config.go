package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Config holds all rendering configuration
type Config struct {
	// Session identifier
	SessionUUID uuid.UUID

	// Input
	InputFile string

	// Output settings
	OutputDir string
	Format    string

	// Rendering
	PageSize     int
	ExportTables bool
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		SessionUUID:  uuid.New(),
		InputFile:    "",
		OutputDir:    "./dashboard-output",
		Format:       "html",
		PageSize:     0,
		ExportTables: false,
	}
}

// ParseFlags parses command-line flags into a Config struct
func ParseFlags() (*Config, error) {
	cfg := DefaultConfig()

	flag.StringVar(&cfg.InputFile, "i", cfg.InputFile, "Input payload file (json, jsonl, csv, tsv, parquet)")
	flag.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Output directory for generated dashboards")
	flag.StringVar(&cfg.Format, "f", cfg.Format, "Output format: html, term")
	flag.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "Table page size override (0 keeps per-record settings)")
	flag.BoolVar(&cfg.ExportTables, "export-tables", cfg.ExportTables, "Also write each table visualization as a Parquet file")

	flag.Parse()

	// A positional argument may stand in for -i
	if cfg.InputFile == "" && flag.NArg() > 0 {
		cfg.InputFile = flag.Arg(0)
	}

	return cfg, cfg.Validate()
}

// Validate checks configuration for errors
func (c *Config) Validate() error {
	var errs []error

	if c.InputFile == "" {
		errs = append(errs, errors.New("input file required: -i <payload file>"))
	} else if _, err := os.Stat(c.InputFile); os.IsNotExist(err) {
		errs = append(errs, fmt.Errorf("input file does not exist: %s", c.InputFile))
	}

	validFormats := map[string]bool{
		"html": true,
		"term": true,
	}
	if !validFormats[c.Format] {
		errs = append(errs, fmt.Errorf("invalid format %q: must be one of html, term", c.Format))
	}

	if c.PageSize < 0 {
		errs = append(errs, errors.New("page size must be >= 0"))
	}

	if c.Format == "html" || c.ExportTables {
		if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
			errs = append(errs, fmt.Errorf("cannot create output directory %q: %w", c.OutputDir, err))
		}
	}

	return errors.Join(errs...)
}

// String returns a human-readable configuration summary
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Input File:   %s\n", c.InputFile))
	b.WriteString(fmt.Sprintf("Format:       %s\n", c.Format))
	if c.Format == "html" {
		b.WriteString(fmt.Sprintf("Output Dir:   %s\n", c.OutputDir))
	}
	if c.PageSize > 0 {
		b.WriteString(fmt.Sprintf("Page Size:    %d\n", c.PageSize))
	}
	if c.ExportTables {
		b.WriteString("Tables:       exported to parquet\n")
	}
	return b.String()
}
