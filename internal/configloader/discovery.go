package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths holds the config file found for each layer. An empty path means
// the layer has no file.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

// layer is one config file in merge order.
type layer struct {
	name string
	path string
}

// layers returns the file layers from lowest to highest precedence, skipping
// those without a file.
func (p *ConfigPaths) layers() []layer {
	all := []layer{
		{"system", p.System},
		{"user", p.User},
		{"project", p.Project},
		{"explicit", p.Explicit},
	}
	out := all[:0]
	for _, l := range all {
		if l.path != "" {
			out = append(out, l)
		}
	}
	return out
}

// ProjectConfigName is the file written by "gomdpos init".
const ProjectConfigName = ".gomdpos.yml"

// projectConfigNames are tried in each directory of the upward search. JSON
// files are read by the same YAML decoder.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigNames = []string{
	ProjectConfigName,
	".gomdpos.yaml",
	"gomdpos.yml",
	"gomdpos.yaml",
	"gomdpos.json",
}

// layerConfigNames are tried in the system and user config directories.
//
//nolint:gochecknoglobals // Read-only lookup table.
var layerConfigNames = []string{"config.yaml", "config.yml"}

// repoMarkers end the upward search: a config above the repository root
// belongs to some other project.
//
//nolint:gochecknoglobals // Read-only lookup table.
var repoMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths locates the system, user and project config files for a run
// started in workDir. Explicit is left for the caller to fill in.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), layerConfigNames),
		User:    firstFile(userConfigDir(), layerConfigNames),
		Project: project,
	}, nil
}

// systemConfigDir is /etc/gomdpos, or %ProgramData%\gomdpos on Windows.
func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/gomdpos"
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "gomdpos")
}

// userConfigDir is $XDG_CONFIG_HOME/gomdpos, falling back to ~/.config.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gomdpos")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gomdpos")
}

// FindProjectConfig walks up from startDir (the working directory when empty)
// and returns the first project config file it sees. The walk gives up at a
// repository root, the home directory or the filesystem root, returning "".
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}
		if found := firstFile(dir, projectConfigNames); found != "" {
			return found, nil
		}
		if isRepoRoot(dir) || dir == home {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func isRepoRoot(dir string) bool {
	for _, marker := range repoMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
