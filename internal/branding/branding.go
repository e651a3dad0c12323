// Package branding provides compile-time identity values for the CLI.
//
// Values are read from the embedded branding.yaml on first access, with hard
// defaults used when the file is empty or unparseable.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	ReportFile  string `yaml:"report_file"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:     "droidgen",
			DisplayName: "DroidGen",
			Description: "Android project scaffolding generator",
			HomeDir:     ".droidgen",
			EnvPrefix:   "DROIDGEN",
			ReportFile:  "GENERATION_REPORT.md",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "droidgen").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".droidgen").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "DROIDGEN").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ReportFile returns the default name of the generation report written into
// every generated project.
func ReportFile() string { load(); return defaults.ReportFile }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "DROIDGEN_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
