package cli

import (
	"github.com/droidgen-labs/droidgen/internal/config"
	"github.com/droidgen-labs/droidgen/internal/generator"
	"github.com/spf13/cobra"
)

var (
	resolveAnswersFile string
	resolveSet         []string
	resolveStrict      bool
)

func init() {
	resolveCmd.Flags().StringVarP(&resolveAnswersFile, "answers", "a", "", "Answers file (.yaml, .yml, .json or .toml)")
	resolveCmd.Flags().StringArrayVar(&resolveSet, "set", nil, "Set a parameter, e.g. --set min_sdk=26 (repeatable)")
	resolveCmd.Flags().BoolVar(&resolveStrict, "strict", false, "Fail when requested SDK or JDK levels exceed the installed toolchain")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Validate parameters and print the resolved context",
	Long: `Resolve parameters exactly as 'droidgen new' would and print the result
as YAML, without writing any files. Warnings go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.Current()
		if cmd.Flags().Changed("strict") {
			settings.StrictCapabilities = resolveStrict
		}

		raw, err := collectInput(nil, nil, resolveAnswersFile, resolveSet, false)
		if err != nil {
			return err
		}

		gen := generator.New(newDetector(settings, false), nil, generator.Options{Strict: settings.StrictCapabilities})
		res, _, err := gen.Resolve(cmd.Context(), raw)
		if err != nil {
			return printFailure(cmd.ErrOrStderr(), err)
		}

		printWarnings(cmd.ErrOrStderr(), res.Warnings)
		data, err := res.Context.Encode()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
