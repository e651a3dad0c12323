package cli

import (
	"fmt"
	"path/filepath"

	"github.com/droidgen-labs/droidgen/internal/config"
	"github.com/droidgen-labs/droidgen/internal/generator"
	"github.com/droidgen-labs/droidgen/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	newAnswersFile string
	newSet         []string
	newNoInput     bool
	newTemplateDir string
	newStrict      bool
	newReportFile  string
	newRefresh     bool
)

func init() {
	newCmd.Flags().StringVarP(&newAnswersFile, "answers", "a", "", "Answers file (.yaml, .yml, .json or .toml)")
	newCmd.Flags().StringArrayVar(&newSet, "set", nil, "Set a parameter, e.g. --set min_sdk=26 (repeatable)")
	newCmd.Flags().BoolVar(&newNoInput, "no-input", false, "Never prompt; missing parameters use their defaults")
	newCmd.Flags().StringVar(&newTemplateDir, "template-dir", "", "Render from this template directory instead of the built-in one")
	newCmd.Flags().BoolVar(&newStrict, "strict", false, "Fail when requested SDK or JDK levels exceed the installed toolchain")
	newCmd.Flags().StringVar(&newReportFile, "report-file", "", "Name of the generation report written into the project")
	newCmd.Flags().BoolVar(&newRefresh, "refresh", false, "Probe the toolchain again instead of reusing a recent report")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <destination>",
	Short: "Generate a new Android project",
	Long: `Generate a new Android project into <destination>.

Parameters are taken from --answers, then --set, then interactive prompts
when stdin is a terminal. Run 'droidgen params' to list them.

Examples:
  droidgen new ./Sample --set project_name=Sample --set package_name=com.acme.sample
  droidgen new ./Sample --answers sample.yaml --no-input`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	dest, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving destination: %w", err)
	}

	settings := config.Current()
	if cmd.Flags().Changed("strict") {
		settings.StrictCapabilities = newStrict
	}
	if newTemplateDir != "" {
		settings.TemplateDir = newTemplateDir
	}
	if newReportFile != "" {
		settings.ReportFile = newReportFile
	}

	out := cmd.OutOrStdout()
	interactive := !newNoInput && isInteractive(cmd.InOrStdin())
	raw, err := collectInput(cmd.InOrStdin(), out, newAnswersFile, newSet, interactive)
	if err != nil {
		return err
	}

	tmpl, err := scaffold.Open(settings.TemplateDir)
	if err != nil {
		return err
	}

	gen := generator.New(newDetector(settings, newRefresh), tmpl, generator.Options{
		Strict:     settings.StrictCapabilities,
		ReportFile: settings.ReportFile,
	})

	res, err := gen.Run(cmd.Context(), raw, dest)
	if err != nil {
		return printFailure(out, err)
	}

	printWarnings(out, res.Warnings)
	fmt.Fprintf(out, "[ OK ] Generated %s (%s) with %d files in %s\n",
		res.Context.String("project_name"), res.Context.String("package_name"), len(res.Tree.Files()), dest)
	fmt.Fprintf(out, "[ OK ] Report written to %s\n", res.ReportPath)

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintf(out, "  1. cd %s\n", dest)
	fmt.Fprintf(out, "  2. gradle wrapper --gradle-version %s\n", res.Context.String("gradle_version"))
	fmt.Fprintln(out, "  3. ./gradlew assembleDebug")
	return nil
}
