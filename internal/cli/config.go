package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdpos/internal/configloader"
	"github.com/yaklabco/gomdpos/pkg/config"
)

func newConfigCommand() *cobra.Command {
	var showEnv bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long: `Print the configuration gomdpos would use in the current directory, after
merging system, user and project files, --config, and GOMDPOS_* variables.

Use --env to list the supported environment variables instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if showEnv {
				for _, ev := range configloader.ListEnvVars() {
					fmt.Fprintf(out, "%-26s %s\n", ev.Name, ev.Description)
				}
				return nil
			}

			loadResult, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			var header strings.Builder
			header.WriteString(config.DefaultTemplateHeader())
			if len(loadResult.LoadedFrom) == 0 {
				header.WriteString("\n# Loaded from: defaults only")
			}
			for _, path := range loadResult.LoadedFrom {
				header.WriteString("\n# Loaded from: " + path)
			}

			data, err := loadResult.Config.ToYAMLWithHeader(header.String())
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&showEnv, "env", false, "list supported environment variables")

	return cmd
}
