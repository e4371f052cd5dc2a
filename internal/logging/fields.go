package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldPaths  = "paths"
	FieldOutput = "output"

	// Lexing and annotation fields.
	FieldFlavor   = "flavor"
	FieldFormat   = "format"
	FieldJobs     = "jobs"
	FieldTokens   = "tokens"
	FieldBytes    = "bytes"
	FieldDuration = "duration"
	FieldFilter   = "filter"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesAnnotated  = "files_annotated"
	FieldFilesFailed     = "files_failed"
	FieldViolations      = "violations"

	// Configuration fields.
	FieldConfigSource = "config_source"

	// Token type listing fields.
	FieldAttrs       = "attrs"
	FieldDescription = "description"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
