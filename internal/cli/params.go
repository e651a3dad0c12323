package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/droidgen-labs/droidgen/internal/schema"
	"github.com/spf13/cobra"
)

var paramsJSON bool

func init() {
	paramsCmd.Flags().BoolVar(&paramsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(paramsCmd)
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "List the recognized parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		specs := schema.Describe()
		if paramsJSON {
			return printParamsJSON(cmd.OutOrStdout(), specs)
		}
		printParams(cmd.OutOrStdout(), specs)
		return nil
	},
}

// paramEntry is the JSON form of a parameter.
type paramEntry struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Default     string   `json:"default,omitempty"`
	Rule        string   `json:"rule,omitempty"`
	Choices     []string `json:"choices,omitempty"`
	DerivedFrom []string `json:"derived_from,omitempty"`
	Description string   `json:"description"`
}

func printParams(w io.Writer, specs []schema.ParameterSpec) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tDEFAULT\tRULE")
	for _, s := range specs {
		def := s.Default
		if s.Derived() {
			def = "(derived)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, s.Kind, def, ruleText(s))
	}
	tw.Flush()
}

func printParamsJSON(w io.Writer, specs []schema.ParameterSpec) error {
	entries := make([]paramEntry, 0, len(specs))
	for _, s := range specs {
		entries = append(entries, paramEntry{
			Name:        s.Name,
			Kind:        string(s.Kind),
			Default:     s.Default,
			Rule:        ruleText(s),
			Choices:     s.Choices,
			DerivedFrom: s.DependsOn,
			Description: s.Description,
		})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling parameters: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// ruleText summarizes a parameter's validation rule in one line.
func ruleText(s schema.ParameterSpec) string {
	var parts []string
	if s.Derived() {
		parts = append(parts, "from "+strings.Join(s.DependsOn, ", "))
	}
	switch {
	case s.Kind == schema.KindEnum:
		parts = append(parts, "one of "+strings.Join(s.Choices, "|"))
	case s.Kind == schema.KindIdentifier:
		parts = append(parts, "dotted lower-case package")
	case s.Kind == schema.KindSemver:
		parts = append(parts, "x.y.z")
	case s.Range != nil:
		lower := "["
		if s.Range.ExclusiveMin {
			lower = "("
		}
		parts = append(parts, fmt.Sprintf("%s%s, %s]", lower, formatBound(s.Range.Min), formatBound(s.Range.Max)))
	case s.PatternHint != "":
		parts = append(parts, s.PatternHint)
	}
	if s.MaxLen > 0 {
		parts = append(parts, fmt.Sprintf("max %d chars", s.MaxLen))
	}
	if s.Optional {
		parts = append(parts, "optional")
	}
	if s.Capability != "" {
		parts = append(parts, "checked against "+s.Capability)
	}
	return strings.Join(parts, "; ")
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
