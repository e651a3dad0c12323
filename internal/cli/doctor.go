package cli

import (
	"fmt"

	"github.com/droidgen-labs/droidgen/internal/config"
	"github.com/droidgen-labs/droidgen/internal/logging"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report the detected Android toolchain",
	Long: `Probe the local toolchain (JDK, Gradle, Android SDK platforms, Android
Studio) and print what was found. Missing components never fail the
command; generation only warns about them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.Current()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Toolchain:")
		printCapability(out, newDetector(settings, true).Detect(cmd.Context()))

		fmt.Fprintln(out, "\nFiles:")
		fmt.Fprintf(out, "  config  %s\n", config.FilePath())
		fmt.Fprintf(out, "  log     %s\n", logging.LogFilePath())
		return nil
	},
}
