package analysis

// SortField specifies how the per-type breakdown is ordered.
type SortField string

const (
	// SortByCount sorts by token count.
	SortByCount SortField = "count"
	// SortByAlpha sorts by type name.
	SortByAlpha SortField = "alpha"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	return s == SortByCount || s == SortByAlpha
}

// Options configures Analyze.
type Options struct {
	// Filter selects which tokens are reported. When set, each file's Tokens
	// is the flat list of matching tokens instead of the tree.
	Filter *Filter

	// IncludeTokens includes per-file token trees or filter matches.
	IncludeTokens bool

	// IncludeByType includes the per-type breakdown.
	IncludeByType bool

	// SortBy orders ByType. Ties are broken by type name.
	SortBy SortField

	// SortDesc sorts ByType counts highest first.
	SortDesc bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeTokens: true,
		IncludeByType: true,
		SortBy:        SortByCount,
		SortDesc:      true,
	}
}
