package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Orders accepted by the --order flag.
const (
	OrderDateAsc    = "by-date-asc"
	OrderDateDesc   = "by-date-desc"
	OrderAsUploaded = "as-uploaded"
)

// Config captures all command-line options required to run the converter.
type Config struct {
	Inputs                []string
	OutDir                string
	Order                 string
	IncludeHeaders        bool
	IncludeBody           bool
	ShowDateDebug         bool
	ProducePDF            bool
	LogLevel              string
	LogDir                string
	IncludeHeaderPatterns []string
	IncludeBodyPatterns   []string
	ExcludeHeaderPatterns []string
	ExcludeBodyPatterns   []string
}

// RegisterFlags attaches all CLI flags to the provided command.
func RegisterFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	flags.StringP("out", "o", ".", "Directory to write the combined export files to")
	flags.String("order", OrderDateAsc, "Order of emails in the output: by-date-asc, by-date-desc, as-uploaded")
	flags.Bool("include-headers", true, "Include the raw header block of each message")
	flags.Bool("include-body", true, "Include the body of each message")
	flags.Bool("show-date-debug", false, "Log every raw date source considered per message")
	flags.Bool("pdf", true, "Also render the Markdown export to PDF (requires wkhtmltopdf)")
	flags.String("log-level", "info", "Logging level: debug, info, warn, error")
	flags.String("log-dir", "", "Directory for log files (disabled when empty)")
	flags.StringArray("include-header-pattern", nil, "Regex allow-list applied to message headers (mutually exclusive with exclude patterns)")
	flags.StringArray("include-body-pattern", nil, "Regex allow-list applied to message bodies (mutually exclusive with exclude patterns)")
	flags.StringArray("exclude-header-pattern", nil, "Regex block-list applied to message headers (mutually exclusive with include patterns)")
	flags.StringArray("exclude-body-pattern", nil, "Regex block-list applied to message bodies (mutually exclusive with include patterns)")
	return nil
}

// LoadConfig converts the parsed Cobra flags into a Config struct with
// validation. args are the positional input paths or globs.
func LoadConfig(cmd *cobra.Command, args []string) (Config, error) {
	flags := cmd.Flags()

	outDir, err := flags.GetString("out")
	if err != nil {
		return Config{}, err
	}
	order, err := flags.GetString("order")
	if err != nil {
		return Config{}, err
	}
	includeHeaders, err := flags.GetBool("include-headers")
	if err != nil {
		return Config{}, err
	}
	includeBody, err := flags.GetBool("include-body")
	if err != nil {
		return Config{}, err
	}
	showDateDebug, err := flags.GetBool("show-date-debug")
	if err != nil {
		return Config{}, err
	}
	producePDF, err := flags.GetBool("pdf")
	if err != nil {
		return Config{}, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return Config{}, err
	}
	logDir, err := flags.GetString("log-dir")
	if err != nil {
		return Config{}, err
	}
	includeHeaderPatterns, err := flags.GetStringArray("include-header-pattern")
	if err != nil {
		return Config{}, err
	}
	includeBodyPatterns, err := flags.GetStringArray("include-body-pattern")
	if err != nil {
		return Config{}, err
	}
	excludeHeaderPatterns, err := flags.GetStringArray("exclude-header-pattern")
	if err != nil {
		return Config{}, err
	}
	excludeBodyPatterns, err := flags.GetStringArray("exclude-body-pattern")
	if err != nil {
		return Config{}, err
	}

	logLevel = strings.ToLower(logLevel)
	if logLevel == "warning" {
		logLevel = "warn"
	}

	cfg := Config{
		Inputs:                args,
		OutDir:                outDir,
		Order:                 order,
		IncludeHeaders:        includeHeaders,
		IncludeBody:           includeBody,
		ShowDateDebug:         showDateDebug,
		ProducePDF:            producePDF,
		LogLevel:              logLevel,
		LogDir:                logDir,
		IncludeHeaderPatterns: includeHeaderPatterns,
		IncludeBodyPatterns:   includeBodyPatterns,
		ExcludeHeaderPatterns: excludeHeaderPatterns,
		ExcludeBodyPatterns:   excludeBodyPatterns,
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	if len(cfg.Inputs) == 0 {
		return fmt.Errorf("at least one input file is required")
	}
	if cfg.OutDir == "" {
		return fmt.Errorf("--out must not be empty")
	}

	switch cfg.Order {
	case OrderDateAsc, OrderDateDesc, OrderAsUploaded:
	default:
		return fmt.Errorf("invalid --order: %s", cfg.Order)
	}

	includeActive := len(cfg.IncludeHeaderPatterns) > 0 || len(cfg.IncludeBodyPatterns) > 0
	excludeActive := len(cfg.ExcludeHeaderPatterns) > 0 || len(cfg.ExcludeBodyPatterns) > 0
	if includeActive && excludeActive {
		return fmt.Errorf("include and exclude patterns are mutually exclusive")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --log-level: %s", cfg.LogLevel)
	}

	return nil
}
