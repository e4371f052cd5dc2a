package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a commented configuration file template. JSON
// templates carry the default values without comments.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		out, err := json.MarshalIndent(NewConfig(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal JSON: %w", err)
		}
		return append(out, '\n'), nil
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Markdown flavor: commonmark or gfm
flavor: gfm

# Output format: text, json, yaml, xml, or summary
format: text

# Number of parallel workers (0 = one per CPU)
# jobs: 0

# File patterns to skip during discovery (glob patterns)
# ignore:
#   - "vendor/*"
#   - "node_modules/*"

# Guess the language of unlabeled code blocks
# detect_language: false

# Parse ":tag:" ... ":" blocks as extension tokens
# tagged_blocks: false

# Re-check every location against the source
# verify: false

# One line per token in text output; minified json and xml
# compact: false

# Only report tokens matching an expression, for example:
# filter: type == "heading" && start.line < 10
`)
	return buf.Bytes(), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gomdpos configuration
# See: https://github.com/yaklabco/gomdpos`
}
