package reporter

import (
	"fmt"

	"github.com/yaklabco/gomdpos/pkg/config"
)

// Format represents an output format.
type Format string

// Output formats supported by the reporter.
const (
	FormatText    = Format(config.FormatText)
	FormatJSON    = Format(config.FormatJSON)
	FormatYAML    = Format(config.FormatYAML)
	FormatXML     = Format(config.FormatXML)
	FormatSummary = Format(config.FormatSummary)
)

// ParseFormat parses a format string, returning an error for unknown formats.
// An empty string selects text.
func ParseFormat(formatStr string) (Format, error) {
	if formatStr == "" {
		return FormatText, nil
	}
	f, err := config.ParseOutputFormat(formatStr)
	if err != nil {
		return "", fmt.Errorf("parse format: %w", err)
	}
	return Format(f), nil
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	return config.OutputFormat(f).IsValid()
}
