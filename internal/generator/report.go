package generator

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/droidgen-labs/droidgen/internal/branding"
	"github.com/droidgen-labs/droidgen/internal/capability"
	"github.com/droidgen-labs/droidgen/internal/resolve"
)

//go:embed report.md.tmpl
var reportTemplate string

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

// ToolVersion is stamped into generation reports. The cli package sets it
// from the build version.
var ToolVersion = "dev"

type toolchainRow struct {
	Component string
	Version   string
	Location  string
}

type reportData struct {
	Tool          string
	ToolVersion   string
	ProjectName   string
	Package       string
	VersionName   string
	VersionCode   string
	Author        string
	MinSDK        string
	TargetSDK     string
	CompileSDK    string
	JavaVersion   string
	GradleVersion string
	Navigation    string
	Parameters    string
	Toolchain     []toolchainRow
	Notes         []string
	Warnings      []string
}

// BuildReport renders the generation report for a resolved context. The
// output depends only on its inputs.
func BuildReport(ctx *resolve.Context, report capability.Report, warnings []resolve.Warning) ([]byte, error) {
	params, err := ctx.Encode()
	if err != nil {
		return nil, err
	}

	author := ctx.String("author_name")
	if email := ctx.String("author_email"); email != "" {
		if author != "" {
			author += " "
		}
		author += "<" + email + ">"
	}

	data := reportData{
		Tool:          branding.DisplayName(),
		ToolVersion:   ToolVersion,
		ProjectName:   ctx.String("project_name"),
		Package:       ctx.String("package_name"),
		VersionName:   ctx.String("version_name"),
		VersionCode:   ctx.String("version_code"),
		Author:        author,
		MinSDK:        ctx.String("min_sdk"),
		TargetSDK:     ctx.String("target_sdk"),
		CompileSDK:    ctx.String("compile_sdk"),
		JavaVersion:   ctx.String("java_version"),
		GradleVersion: ctx.String("gradle_version"),
		Navigation:    ctx.String("navigation_style"),
		Parameters:    string(params),
		Notes:         report.Notes,
	}
	for _, name := range report.Names() {
		version := report.Display(name)
		data.Toolchain = append(data.Toolchain, toolchainRow{
			Component: name,
			Version:   version,
			Location:  report.Locations[name],
		})
	}
	for _, w := range warnings {
		data.Warnings = append(data.Warnings, w.String())
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeReport(dest, name string, content []byte) (string, error) {
	path := filepath.Join(dest, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
