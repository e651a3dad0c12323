package capability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/droidgen-labs/droidgen/internal/schema"
)

// fakeRunner answers tool queries from a canned table.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	block   map[string]bool
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if f.block[name] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	out, ok := f.outputs[name]
	if !ok {
		return nil, errors.New(name + " not found on PATH")
	}
	return []byte(out), nil
}

func makeSDK(t *testing.T, levels ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, l := range levels {
		if err := os.MkdirAll(filepath.Join(root, "platforms", l), 0755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestDetect_AllPresent(t *testing.T) {
	studio := t.TempDir()
	d := &Detector{
		Runner: &fakeRunner{outputs: map[string]string{
			"java":   "openjdk version \"17.0.2\" 2022-01-18\nOpenJDK Runtime Environment\n",
			"gradle": "\n------------------------------------------------------------\nGradle 8.11.1\n------------------------------------------------------------\n",
		}},
		SDKRoots:    []string{makeSDK(t, "android-33", "android-35", "android-34", "sources")},
		StudioPaths: []string{studio},
	}

	r := d.Detect(context.Background())

	checks := map[string]string{
		schema.ComponentLanguageRuntime: "17.0.2",
		schema.ComponentBuildTool:       "8.11.1",
		schema.ComponentPlatformSDK:     "35",
		schema.ComponentIDE:             "installed",
	}
	for component, want := range checks {
		got, ok := r.Version(component)
		if !ok {
			t.Errorf("%s reported absent, want %s", component, want)
			continue
		}
		if got != want {
			t.Errorf("%s = %q, want %q", component, got, want)
		}
	}
	if len(r.Notes) != 0 {
		t.Errorf("unexpected notes: %v", r.Notes)
	}
}

func TestDetect_NothingInstalled(t *testing.T) {
	d := &Detector{
		Runner:      &fakeRunner{},
		SDKRoots:    []string{filepath.Join(t.TempDir(), "missing")},
		StudioPaths: []string{filepath.Join(t.TempDir(), "missing")},
	}

	r := d.Detect(context.Background())

	for _, c := range Components {
		if v := r.Versions[c]; v != Absent {
			t.Errorf("%s = %q, want %q", c, v, Absent)
		}
	}
	if len(r.Notes) != len(Components) {
		t.Errorf("got %d notes, want %d: %v", len(r.Notes), len(Components), r.Notes)
	}
}

func TestDetect_TimeoutIsAbsent(t *testing.T) {
	d := &Detector{
		Runner: &fakeRunner{
			block:   map[string]bool{"java": true},
			outputs: map[string]string{"gradle": "Gradle 8.5\n"},
		},
		Timeout: 20 * time.Millisecond,
	}

	r := d.Detect(context.Background())

	if _, ok := r.Version(schema.ComponentLanguageRuntime); ok {
		t.Error("timed-out probe should be absent")
	}
	found := false
	for _, n := range r.Notes {
		if strings.Contains(n, "did not answer") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected timeout note, got %v", r.Notes)
	}
	if v, _ := r.Version(schema.ComponentBuildTool); v != "8.5.0" {
		t.Errorf("build-tool = %q, want 8.5.0", v)
	}
}

func TestDetect_UnrecognizedOutput(t *testing.T) {
	d := &Detector{Runner: &fakeRunner{outputs: map[string]string{"java": "garbage"}}}
	r := d.Detect(context.Background())
	if _, ok := r.Version(schema.ComponentLanguageRuntime); ok {
		t.Error("unrecognized output should be absent")
	}
}

func TestDetect_EmptyPlatforms(t *testing.T) {
	d := &Detector{Runner: &fakeRunner{}, SDKRoots: []string{makeSDK(t)}}
	if err := os.MkdirAll(filepath.Join(d.SDKRoots[0], "platforms"), 0755); err != nil {
		t.Fatal(err)
	}
	r := d.Detect(context.Background())
	if _, ok := r.Version(schema.ComponentPlatformSDK); ok {
		t.Error("SDK without platforms should be absent")
	}
}

func TestReportMajor(t *testing.T) {
	r := NewReport()
	r.Set(schema.ComponentLanguageRuntime, normalizeVersion("1.8.0_392"), "java")
	r.Set(schema.ComponentPlatformSDK, "34", "")
	r.Set(schema.ComponentBuildTool, "8.11.1", "")

	tests := []struct {
		component string
		want      int
		ok        bool
	}{
		{schema.ComponentLanguageRuntime, 8, true},
		{schema.ComponentPlatformSDK, 34, true},
		{schema.ComponentBuildTool, 8, true},
		{schema.ComponentIDE, 0, false},
	}
	for _, tt := range tests {
		got, ok := r.Major(tt.component)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Major(%q) = %d, %v; want %d, %v", tt.component, got, ok, tt.want, tt.ok)
		}
	}
}

func TestReportNames(t *testing.T) {
	r := NewReport()
	r.Set("zeta", "1", "")
	r.Set("alpha", "1", "")
	got := strings.Join(r.Names(), ",")
	want := "language-runtime,build-tool,platform-sdk,ide,alpha,zeta"
	if got != want {
		t.Errorf("Names() = %s, want %s", got, want)
	}
}

func TestReportDisplay(t *testing.T) {
	r := NewReport()
	r.Set(schema.ComponentBuildTool, "8.11.1", "gradle")
	r.MarkAbsent(schema.ComponentLanguageRuntime, "java not found on PATH")

	if got := r.Display(schema.ComponentBuildTool); got != "8.11.1" {
		t.Errorf("Display(build-tool) = %q, want 8.11.1", got)
	}
	if got := r.Display(schema.ComponentLanguageRuntime); got != Absent {
		t.Errorf("Display(language-runtime) = %q, want %q", got, Absent)
	}
	if got := r.Display("unknown"); got != Absent {
		t.Errorf("Display(unknown) = %q, want %q", got, Absent)
	}
}
