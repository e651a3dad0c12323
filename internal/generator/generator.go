package generator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/droidgen-labs/droidgen/internal/branding"
	"github.com/droidgen-labs/droidgen/internal/capability"
	"github.com/droidgen-labs/droidgen/internal/logging"
	"github.com/droidgen-labs/droidgen/internal/render"
	"github.com/droidgen-labs/droidgen/internal/resolve"
	"github.com/droidgen-labs/droidgen/internal/schema"
)

// Detector reports the installed toolchain. *capability.Detector satisfies it.
type Detector interface {
	Detect(ctx context.Context) capability.Report
}

// Options tunes a generation run.
type Options struct {
	// Strict turns capability mismatches into violations.
	Strict bool
	// ReportFile is the report name inside the destination. Empty uses the
	// branding default.
	ReportFile string
}

// Generator runs the generation pipeline against one template.
type Generator struct {
	Detector Detector
	Specs    []schema.ParameterSpec
	Template fs.FS
	Options  Options
}

// Result is the outcome of a successful run.
type Result struct {
	Tree       *render.Tree
	Context    *resolve.Context
	Capability capability.Report
	Warnings   []resolve.Warning
	ReportPath string
}

// New returns a Generator over the full parameter catalog.
func New(detector Detector, template fs.FS, opts Options) *Generator {
	return &Generator{
		Detector: detector,
		Specs:    schema.Describe(),
		Template: template,
		Options:  opts,
	}
}

// Resolve detects the toolchain and resolves raw input without rendering.
func (g *Generator) Resolve(ctx context.Context, raw map[string]string) (*resolve.Result, capability.Report, error) {
	if err := schema.CheckOrder(g.Specs); err != nil {
		return nil, capability.Report{}, fmt.Errorf("parameter schema: %w", err)
	}

	report := g.Detector.Detect(ctx)
	res, err := resolve.Resolve(raw, g.Specs, report, resolve.Options{Strict: g.Options.Strict})
	if err != nil {
		return nil, report, err
	}
	return res, report, nil
}

// Run generates a project into dest. It stops at the first failing stage;
// validation failures come back as *resolve.ValidationError and render
// failures as *render.RenderError with dest left as it was.
func (g *Generator) Run(ctx context.Context, raw map[string]string, dest string) (*Result, error) {
	logger := logging.GetLogger("generator")
	done := logging.LogOperationStart(logger, "generate")
	defer done()

	res, report, err := g.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("params", res.Context.Len()).Int("warnings", len(res.Warnings)).Msg("Context resolved")

	reportName, err := g.reportName()
	if err != nil {
		return nil, err
	}
	content, err := BuildReport(res.Context, report, res.Warnings)
	if err != nil {
		return nil, err
	}

	tmpl, err := render.Load(g.Template)
	if err != nil {
		return nil, &render.RenderError{Op: "load", Err: err}
	}
	if err := g.checkReportTarget(dest, reportName); err != nil {
		return nil, err
	}
	tree, err := tmpl.Render(dest, res.Context)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("entries", len(tree.Entries)).Str("dest", dest).Msg("Tree rendered")

	reportPath, err := writeReport(dest, reportName, content)
	if err != nil {
		return nil, err
	}

	return &Result{
		Tree:       tree,
		Context:    res.Context,
		Capability: report,
		Warnings:   res.Warnings,
		ReportPath: reportPath,
	}, nil
}

// checkReportTarget makes sure the report will not overwrite a template
// file or an existing file in dest.
func (g *Generator) checkReportTarget(dest, name string) error {
	if _, err := fs.Stat(g.Template, name); err == nil {
		return &render.RenderError{Op: "preflight", Path: name, Err: fmt.Errorf("%w: template already provides the report file", render.ErrCollision)}
	}
	if _, err := os.Lstat(filepath.Join(dest, name)); err == nil {
		return &render.RenderError{Op: "preflight", Path: name, Err: fmt.Errorf("%w: %s already exists", render.ErrCollision, filepath.Join(dest, name))}
	}
	return nil
}

// reportName validates the configured report name. It must be a plain file
// name so the report lands inside the destination.
func (g *Generator) reportName() (string, error) {
	name := g.Options.ReportFile
	if name == "" {
		name = branding.ReportFile()
	}
	if name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("report file %q must be a plain file name", name)
	}
	return name, nil
}
