package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/droidgen-labs/droidgen/internal/branding"
	"github.com/droidgen-labs/droidgen/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write settings stored at ~/.droidgen/config.yaml.

Keys:
  strict_capabilities  treat toolchain mismatches as errors (default false)
  probe_timeout        per-tool detection timeout, e.g. 10s
  android_sdk_root     extra Android SDK location to scan first
  template_dir         render from this directory instead of the built-in template
  report_file          report file name written into the project
  probe_cache_ttl      reuse a toolchain report this long, e.g. 15m (0 disables)`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		printSettings(cmd.OutOrStdout(), config.FilePath(), config.Current())
		return nil
	},
}

// printSettings lists each setting with its value and the environment
// variable that overrides it.
func printSettings(w io.Writer, file string, s config.Settings) {
	rows := []struct {
		key   string
		value string
	}{
		{config.KeyStrictCapabilities, strconv.FormatBool(s.StrictCapabilities)},
		{config.KeyProbeTimeout, s.ProbeTimeout.String()},
		{config.KeyAndroidSDKRoot, s.AndroidSDKRoot},
		{config.KeyTemplateDir, s.TemplateDir},
		{config.KeyReportFile, s.ReportFile},
		{config.KeyProbeCacheTTL, s.ProbeCacheTTL.String()},
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "file\t%s\t\n", file)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.key, r.value, branding.EnvVar(r.key))
	}
	tw.Flush()
}
