package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "droidgen" {
		t.Errorf("CLIName() = %q, want %q", got, "droidgen")
	}
	if got := HomeDir(); got != ".droidgen" {
		t.Errorf("HomeDir() = %q, want %q", got, ".droidgen")
	}
	if got := ReportFile(); got != "GENERATION_REPORT.md" {
		t.Errorf("ReportFile() = %q, want %q", got, "GENERATION_REPORT.md")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("probe_timeout"); got != "DROIDGEN_PROBE_TIMEOUT" {
		t.Errorf("EnvVar() = %q, want %q", got, "DROIDGEN_PROBE_TIMEOUT")
	}
}
