// Package cli provides the Cobra command structure for gomdpos.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdpos/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gomdpos command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gomdpos",
		Short: "Annotate Markdown tokens with their source positions",
		Long: `gomdpos lexes Markdown into a token tree and attaches to every token the
exact span of source it came from: byte offsets, zero-based lines and columns,
and per-line spans for tokens that cross lines.

It targets CommonMark and GitHub Flavored Markdown (GFM) and prints the
annotated tree as text, JSON, YAML or XML.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       info.Version,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newAnnotateCommand())
	rootCmd.AddCommand(newTypesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
