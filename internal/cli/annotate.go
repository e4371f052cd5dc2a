package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdpos/internal/configloader"
	"github.com/yaklabco/gomdpos/internal/logging"
	"github.com/yaklabco/gomdpos/pkg/analysis"
	"github.com/yaklabco/gomdpos/pkg/config"
	"github.com/yaklabco/gomdpos/pkg/fsutil"
	"github.com/yaklabco/gomdpos/pkg/reporter"
	"github.com/yaklabco/gomdpos/pkg/runner"
)

type annotateFlags struct {
	format         string
	flavor         string
	jobs           int
	ignore         []string
	filter         string
	output         string
	detectLanguage bool
	taggedBlocks   bool
	verify         bool
	compact        bool
	followSymlinks bool
	maxRaw         int
}

func newAnnotateCommand() *cobra.Command {
	flags := &annotateFlags{}

	cmd := &cobra.Command{
		Use:     "annotate [paths...|-]",
		Aliases: []string{"pos"},
		Short:   "Print Markdown token trees with source positions",
		Long:    annotateLongDescription,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, args, flags)
		},
	}

	addAnnotateFlags(cmd, flags)

	return cmd
}

const annotateLongDescription = `Lex Markdown files and print every token with its location.

By default, annotates all .md and .markdown files in the current directory
and subdirectories. Specify paths to annotate specific files or directories,
or "-" to read standard input.

Locations print as [line:column-line:column], 1-based. Structured formats
carry zero-based lines and columns plus byte offsets.

Examples:
  gomdpos annotate                              # Annotate current directory
  gomdpos annotate README.md                    # Annotate a single file
  cat doc.md | gomdpos pos -                    # Annotate standard input
  gomdpos annotate --format json -o tokens.json # Write JSON to a file
  gomdpos annotate --filter 'type == "heading"' # Only report headings
  gomdpos annotate --verify                     # Re-check every location`

// cliConfig builds the configuration layer holding only the flags the user
// set, so unset flags do not override config files.
func cliConfig(cmd *cobra.Command, flags *annotateFlags) *config.Config {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}
	if changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("filter") {
		cfg.Filter = flags.filter
	}
	if changed("output") {
		cfg.Output = flags.output
	}
	if changed("detect-language") {
		cfg.DetectLanguage = config.Bool(flags.detectLanguage)
	}
	if changed("tagged-blocks") {
		cfg.TaggedBlocks = config.Bool(flags.taggedBlocks)
	}
	if changed("verify") {
		cfg.Verify = config.Bool(flags.verify)
	}
	if changed("compact") {
		cfg.Compact = config.Bool(flags.compact)
	}
	return cfg
}

// loadConfig resolves the configuration layers for cmd, with cli on top.
func loadConfig(cmd *cobra.Command, cli *config.Config) (*configloader.LoadResult, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}
	return loadResult, nil
}

func runAnnotate(cmd *cobra.Command, args []string, flags *annotateFlags) error {
	logger := logging.Default()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	loadResult, err := loadConfig(cmd, cliConfig(cmd, flags))
	if err != nil {
		return err
	}
	cfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldConfigSource, loadResult.LoadedFrom)
	}
	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldFormat, cfg.Format,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldFilter, cfg.Filter,
	)

	filter, err := analysis.CompileFilter(cfg.Filter)
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	result, err := runner.New(cfg).Run(ctx, runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		ExcludeGlobs:   cfg.Ignore,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           cfg.Jobs,
		Stdin:          cmd.InOrStdin(),
	})
	if err != nil {
		return errors.Join(errors.New("annotation run failed"), err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	var out io.Writer = cmd.OutOrStdout()
	var buf bytes.Buffer
	if cfg.Output != "" {
		out = &buf
		colorMode = "never"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      out,
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode,
		ShowSummary: format == reporter.FormatText,
		Compact:     config.Enabled(cfg.Compact),
		Filter:      filter,
		MaxRaw:      flags.maxRaw,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if cfg.Output != "" {
		changed, err := fsutil.WriteAtomicIfChanged(ctx, cfg.Output, buf.Bytes(), fsutil.DefaultFileMode)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logger.Debug("report written",
			logging.FieldOutput, cfg.Output,
			logging.FieldBytes, buf.Len(),
			"changed", changed,
		)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrAnnotationFailures
	}
	return nil
}

func addAnnotateFlags(cmd *cobra.Command, flags *annotateFlags) {
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "output format: text, json, yaml, xml, summary")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor: commonmark, gfm")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringVar(&flags.filter, "filter", "", `only report tokens matching an expression, e.g. 'type == "link"'`)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&flags.detectLanguage, "detect-language", false, "guess the language of unlabeled code blocks")
	cmd.Flags().BoolVar(&flags.taggedBlocks, "tagged-blocks", false, `parse ":tag:" blocks as extension tokens`)
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "re-check every location against the source")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "one line per token in text output, minified json and xml")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "walk into symlinked directories")
	cmd.Flags().IntVar(&flags.maxRaw, "max-raw", 0, "truncate raw snippets in text output (0 = default, -1 = never)")
}
