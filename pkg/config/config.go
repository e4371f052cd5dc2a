// Package config defines core configuration types for gomdpos.
// These types are pure data structures with no dependency on how they are loaded.
package config

// OutputFormat specifies how annotated tokens are written.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatXML  OutputFormat = "xml"

	// FormatSummary prints per-type token counts instead of the tokens.
	FormatSummary OutputFormat = "summary"
)

// Flavor specifies the Markdown flavor to use for lexing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// Config is the root configuration structure for gomdpos.
//
// Boolean switches are pointers so a layer that does not mention a switch
// leaves the lower layer's value alone.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor,omitempty" json:"flavor,omitempty"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"format,omitempty" json:"format,omitempty"`

	// Jobs specifies the number of parallel workers. 0 means one per CPU.
	Jobs int `yaml:"jobs,omitempty" json:"jobs,omitempty"`

	// Ignore contains glob patterns for files to skip during discovery.
	Ignore []string `yaml:"ignore,omitempty" json:"ignore,omitempty"`

	// DetectLanguage guesses the language of unlabeled code blocks.
	DetectLanguage *bool `yaml:"detect_language,omitempty" json:"detect_language,omitempty"`

	// TaggedBlocks enables ":tag:" block syntax.
	TaggedBlocks *bool `yaml:"tagged_blocks,omitempty" json:"tagged_blocks,omitempty"`

	// Verify re-checks every location against the source after annotation.
	Verify *bool `yaml:"verify,omitempty" json:"verify,omitempty"`

	// Compact prints one line per token in text output and minifies JSON and
	// XML.
	Compact *bool `yaml:"compact,omitempty" json:"compact,omitempty"`

	// Filter is an expression selecting which tokens to report.
	Filter string `yaml:"filter,omitempty" json:"filter,omitempty"`

	// Output is a file path to write the report to instead of stdout.
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:         FlavorGFM,
		Format:         FormatText,
		Jobs:           0,
		DetectLanguage: Bool(false),
		TaggedBlocks:   Bool(false),
		Verify:         Bool(false),
		Compact:        Bool(false),
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// Enabled reports whether a boolean switch is set and true.
func Enabled(b *bool) bool {
	return b != nil && *b
}
