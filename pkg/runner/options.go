// Package runner annotates many Markdown files concurrently.
package runner

import (
	"io"

	"github.com/yaklabco/gomdpos/pkg/fsutil"
)

// StdinPath is the path argument that stands for standard input.
const StdinPath = "-"

// Options controls which files a run annotates and how many at once.
type Options struct {
	// Paths are files or directories to annotate, or StdinPath. Empty means
	// the working directory.
	Paths []string

	// WorkingDir resolves relative Paths. Empty means the process working
	// directory.
	WorkingDir string

	// Extensions are the lowercase file extensions, with leading dot, picked
	// up when walking directories. Empty means fsutil.DefaultExtensions().
	Extensions []string

	// ExcludeGlobs skip matching files and directories during discovery.
	ExcludeGlobs []string

	// FollowSymlinks walks into symlinked directories.
	FollowSymlinks bool

	// Jobs caps the number of concurrent workers. 0 or negative means
	// runtime.NumCPU().
	Jobs int

	// Stdin is read when Paths contains StdinPath. Nil means os.Stdin.
	Stdin io.Reader
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return fsutil.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
