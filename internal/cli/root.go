package cli

import (
	"fmt"

	"github.com/droidgen-labs/droidgen/internal/branding"
	"github.com/droidgen-labs/droidgen/internal/config"
	"github.com/droidgen-labs/droidgen/internal/generator"
	"github.com/droidgen-labs/droidgen/internal/logging"
	"github.com/droidgen-labs/droidgen/internal/schema"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbosity int
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` generates buildable Android application projects from a
parameterized template. Parameters come from an answers file, --set flags,
or interactive prompts, and are validated before anything is written.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetupLogger(verbosity)
		config.Load()

		if err := schema.CheckCatalog(); err != nil {
			return fmt.Errorf("parameter catalog self-check failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	generator.ToolVersion = version
	return rootCmd.Execute()
}
