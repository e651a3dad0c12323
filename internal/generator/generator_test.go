package generator

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/droidgen-labs/droidgen/internal/capability"
	"github.com/droidgen-labs/droidgen/internal/render"
	"github.com/droidgen-labs/droidgen/internal/resolve"
	"github.com/droidgen-labs/droidgen/internal/scaffold"
	"github.com/droidgen-labs/droidgen/internal/schema"
)

type fakeDetector struct {
	report capability.Report
	calls  int
}

func (f *fakeDetector) Detect(context.Context) capability.Report {
	f.calls++
	return f.report
}

func installedToolchain() capability.Report {
	r := capability.NewReport()
	r.Set(schema.ComponentLanguageRuntime, "17.0.2", "/usr/bin/java")
	r.Set(schema.ComponentBuildTool, "8.11.1", "/usr/bin/gradle")
	r.Set(schema.ComponentPlatformSDK, "35", "/opt/android-sdk/platforms/android-35")
	r.Set(schema.ComponentIDE, "installed", "/opt/android-studio")
	return r
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("expected content to contain %q", substr)
	}
}

func TestRun_GeneratesProject(t *testing.T) {
	det := &fakeDetector{report: installedToolchain()}
	g := New(det, scaffold.FS(), Options{})
	dest := filepath.Join(t.TempDir(), "Sample")

	res, err := g.Run(context.Background(), map[string]string{
		"project_name": "Sample",
		"package_name": "com.acme.sample",
	}, dest)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if det.calls != 1 {
		t.Errorf("Detect() called %d times, want 1", det.calls)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}

	data, err := os.ReadFile(filepath.Join(dest, "app", "src", "main", "res", "values", "strings.xml"))
	if err != nil {
		t.Fatalf("reading strings.xml: %v", err)
	}
	assertContains(t, string(data), `<string name="app_name">Sample</string>`)

	if _, err := os.Stat(filepath.Join(dest, "app", "src", "main", "kotlin", "com.acme.sample", "MainActivity.kt")); err != nil {
		t.Errorf("MainActivity.kt not under the package directory: %v", err)
	}

	err = filepath.WalkDir(dest, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.Contains(d.Name(), "{{") || strings.Contains(d.Name(), "}}") {
			t.Errorf("path %s still contains a delimiter", p)
		}
		if d.IsDir() {
			return nil
		}
		body, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if strings.Contains(string(body), "{{") || strings.Contains(string(body), "}}") {
			t.Errorf("%s still contains a delimiter", p)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if res.ReportPath != filepath.Join(dest, "GENERATION_REPORT.md") {
		t.Errorf("ReportPath = %q", res.ReportPath)
	}
	report, err := os.ReadFile(res.ReportPath)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	assertContains(t, string(report), "# Sample")
	assertContains(t, string(report), "`com.acme.sample`")
	assertContains(t, string(report), "min 24, target 35, compile 35")
	assertContains(t, string(report), "| platform-sdk | 35 |")
	assertContains(t, string(report), "None.")
	assertContains(t, string(report), "gradle wrapper --gradle-version 8.11.1")
}

func TestRun_SDKOrderViolation(t *testing.T) {
	g := New(&fakeDetector{report: installedToolchain()}, scaffold.FS(), Options{})
	dest := filepath.Join(t.TempDir(), "Sample")

	_, err := g.Run(context.Background(), map[string]string{
		"min_sdk":    "30",
		"target_sdk": "24",
	}, dest)

	var ve *resolve.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Run() error = %v, want *resolve.ValidationError", err)
	}
	if len(ve.Violations) != 1 {
		t.Fatalf("got %d violations, want 1: %v", len(ve.Violations), ve)
	}
	v := ve.Violations[0]
	if !v.Involves("min_sdk") || !v.Involves("target_sdk") {
		t.Errorf("violation should name min_sdk and target_sdk: %v", v)
	}
	if _, err := os.Stat(dest); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("destination should not exist after validation failure, stat err = %v", err)
	}
}

func TestRun_DelimiterInFreeTextIsViolation(t *testing.T) {
	g := New(&fakeDetector{report: installedToolchain()}, scaffold.FS(), Options{})
	dest := filepath.Join(t.TempDir(), "Sample")

	_, err := g.Run(context.Background(), map[string]string{"author_name": "Ada }} Lovelace"}, dest)

	var ve *resolve.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Run() error = %v, want *resolve.ValidationError", err)
	}
	if len(ve.Violations) != 1 || !ve.Violations[0].Involves("author_name") {
		t.Errorf("violations = %v, want one naming author_name", ve.Violations)
	}
	if _, err := os.Stat(dest); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("destination should not exist after validation failure, stat err = %v", err)
	}
}

func TestRun_AllViolationsReported(t *testing.T) {
	g := New(&fakeDetector{report: installedToolchain()}, scaffold.FS(), Options{})

	_, err := g.Run(context.Background(), map[string]string{
		"project_name":        "9lives",
		"body_letter_spacing": "0",
		"colour":              "red",
	}, filepath.Join(t.TempDir(), "out"))

	var ve *resolve.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Run() error = %v, want *resolve.ValidationError", err)
	}
	if len(ve.Violations) != 3 {
		t.Errorf("got %d violations, want 3: %v", len(ve.Violations), ve)
	}
}

func TestRun_CapabilityWarningsAreAdvisory(t *testing.T) {
	report := installedToolchain()
	report.Set(schema.ComponentPlatformSDK, "33", "/opt/android-sdk/platforms/android-33")
	g := New(&fakeDetector{report: report}, scaffold.FS(), Options{})
	dest := filepath.Join(t.TempDir(), "out")

	res, err := g.Run(context.Background(), nil, dest)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected capability warnings")
	}
	for _, w := range res.Warnings {
		if w.Component != schema.ComponentPlatformSDK {
			t.Errorf("unexpected warning: %v", w)
		}
	}
	report2, _ := os.ReadFile(res.ReportPath)
	assertContains(t, string(report2), "## Warnings\n\n- ")
}

func TestRun_StrictCapabilities(t *testing.T) {
	report := installedToolchain()
	report.Set(schema.ComponentPlatformSDK, "33", "/opt/android-sdk/platforms/android-33")
	g := New(&fakeDetector{report: report}, scaffold.FS(), Options{Strict: true})
	dest := filepath.Join(t.TempDir(), "out")

	_, err := g.Run(context.Background(), nil, dest)
	var ve *resolve.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Run() error = %v, want *resolve.ValidationError", err)
	}
	for _, v := range ve.Violations {
		if v.Rule != resolve.RuleCapability {
			t.Errorf("unexpected violation rule %q", v.Rule)
		}
	}
	if _, err := os.Stat(dest); !errors.Is(err, fs.ErrNotExist) {
		t.Error("destination should not exist after strict failure")
	}
}

func TestRun_RenderErrorLeavesDestinationUntouched(t *testing.T) {
	tmpl := fstest.MapFS{
		"a.txt": {Data: []byte("{{project_name}}")},
		"b.txt": {Data: []byte("{{no_such_param}}")},
	}
	g := New(&fakeDetector{report: installedToolchain()}, tmpl, Options{})

	dest := filepath.Join(t.TempDir(), "out")
	_, err := g.Run(context.Background(), nil, dest)
	if !errors.Is(err, render.ErrUnresolvedToken) {
		t.Fatalf("Run() error = %v, want ErrUnresolvedToken", err)
	}
	if _, err := os.Stat(dest); !errors.Is(err, fs.ErrNotExist) {
		t.Error("destination created despite render error")
	}

	existing := t.TempDir()
	if err := os.WriteFile(filepath.Join(existing, "keep.txt"), []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Run(context.Background(), nil, existing); err == nil {
		t.Fatal("Run() expected error")
	}
	entries, _ := os.ReadDir(existing)
	if len(entries) != 1 {
		t.Errorf("existing destination changed: %d entries", len(entries))
	}
}

func TestRun_SecondRunCollides(t *testing.T) {
	g := New(&fakeDetector{report: installedToolchain()}, scaffold.FS(), Options{})
	dest := filepath.Join(t.TempDir(), "Sample")

	if _, err := g.Run(context.Background(), nil, dest); err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	_, err := g.Run(context.Background(), nil, dest)
	if !errors.Is(err, render.ErrCollision) {
		t.Errorf("second Run() error = %v, want ErrCollision", err)
	}
}

func TestRun_ReportFile(t *testing.T) {
	tmpl := fstest.MapFS{
		"README.md": {Data: []byte("# {{project_name}}\n")},
	}

	g := New(&fakeDetector{report: installedToolchain()}, tmpl, Options{ReportFile: "REPORT.md"})
	res, err := g.Run(context.Background(), nil, filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if filepath.Base(res.ReportPath) != "REPORT.md" {
		t.Errorf("ReportPath = %q", res.ReportPath)
	}

	g.Options.ReportFile = "README.md"
	dest := filepath.Join(t.TempDir(), "out")
	if _, err := g.Run(context.Background(), nil, dest); !errors.Is(err, render.ErrCollision) {
		t.Errorf("Run() error = %v, want ErrCollision", err)
	}
	if _, err := os.Stat(dest); !errors.Is(err, fs.ErrNotExist) {
		t.Error("destination created despite report collision")
	}

	g.Options.ReportFile = "../escape.md"
	if _, err := g.Run(context.Background(), nil, filepath.Join(t.TempDir(), "out")); err == nil {
		t.Error("Run() should reject a report path outside the destination")
	}
}

func TestBuildReport_Deterministic(t *testing.T) {
	res, err := resolve.Resolve(map[string]string{"author_name": "Ada", "author_email": "ada@example.com"},
		schema.Describe(), capability.NewReport(), resolve.Options{})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	first, err := BuildReport(res.Context, capability.NewReport(), res.Warnings)
	if err != nil {
		t.Fatalf("BuildReport() error: %v", err)
	}
	second, _ := BuildReport(res.Context, capability.NewReport(), res.Warnings)
	if string(first) != string(second) {
		t.Error("report output is not deterministic")
	}

	text := string(first)
	assertContains(t, text, "| Author | Ada <ada@example.com> |")
	assertContains(t, text, "| language-runtime | absent | - |")
	assertContains(t, text, "| ide | absent | - |")
	assertContains(t, text, "project_name: MyApplication")
	for _, w := range res.Warnings {
		assertContains(t, text, "- "+w.String())
	}
}
