package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/droidgen-labs/droidgen/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyStrictCapabilities = "strict_capabilities"
	KeyProbeTimeout       = "probe_timeout"
	KeyAndroidSDKRoot     = "android_sdk_root"
	KeyTemplateDir        = "template_dir"
	KeyReportFile         = "report_file"
	KeyProbeCacheTTL      = "probe_cache_ttl"
)

// DefaultProbeTimeout bounds each toolchain query when nothing is configured.
const DefaultProbeTimeout = 10 * time.Second

// DefaultProbeCacheTTL is how long a toolchain report is reused between runs.
const DefaultProbeCacheTTL = 15 * time.Minute

// Settings is the typed view of the configuration used by a generation run.
type Settings struct {
	// StrictCapabilities turns toolchain mismatches into validation failures.
	StrictCapabilities bool
	ProbeTimeout       time.Duration
	AndroidSDKRoot     string
	TemplateDir        string
	ReportFile         string
	// ProbeCacheTTL is the maximum age of a reused toolchain report. Zero
	// disables the cache.
	ProbeCacheTTL time.Duration
}

// Dir returns the path to the config directory (~/.droidgen/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.droidgen/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyStrictCapabilities, false)
	viper.SetDefault(KeyProbeTimeout, DefaultProbeTimeout)
	viper.SetDefault(KeyAndroidSDKRoot, "")
	viper.SetDefault(KeyTemplateDir, "")
	viper.SetDefault(KeyReportFile, branding.ReportFile())
	viper.SetDefault(KeyProbeCacheTTL, DefaultProbeCacheTTL)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the typed settings from the loaded configuration.
// A non-positive probe timeout falls back to DefaultProbeTimeout.
func Current() Settings {
	s := Settings{
		StrictCapabilities: viper.GetBool(KeyStrictCapabilities),
		ProbeTimeout:       viper.GetDuration(KeyProbeTimeout),
		AndroidSDKRoot:     viper.GetString(KeyAndroidSDKRoot),
		TemplateDir:        viper.GetString(KeyTemplateDir),
		ReportFile:         viper.GetString(KeyReportFile),
		ProbeCacheTTL:      viper.GetDuration(KeyProbeCacheTTL),
	}
	if s.ProbeTimeout <= 0 {
		s.ProbeTimeout = DefaultProbeTimeout
	}
	if s.ProbeCacheTTL < 0 {
		s.ProbeCacheTTL = 0
	}
	if s.ReportFile == "" {
		s.ReportFile = branding.ReportFile()
	}
	return s
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
