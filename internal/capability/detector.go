package capability

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/droidgen-labs/droidgen/internal/logging"
	"github.com/droidgen-labs/droidgen/internal/schema"
)

// DefaultTimeout bounds each tool query.
const DefaultTimeout = 10 * time.Second

var (
	javaVersionPattern   = regexp.MustCompile(`version "([^"]+)"`)
	gradleVersionPattern = regexp.MustCompile(`(?m)^Gradle\s+(\S+)`)
	platformDirPattern   = regexp.MustCompile(`^android-(\d+)$`)
)

// Detector probes the environment for toolchain versions.
type Detector struct {
	Runner  Runner
	Timeout time.Duration
	// SDKRoots are Android SDK locations, scanned in order; the first root
	// with a platforms/ directory wins.
	SDKRoots []string
	// StudioPaths are candidate Android Studio install locations.
	StudioPaths []string
}

// NewDetector returns a Detector that executes real tools. extraSDKRoot, when
// non-empty, is scanned before the environment and default locations.
func NewDetector(extraSDKRoot string, timeout time.Duration) *Detector {
	return &Detector{
		Runner:      ExecRunner{},
		Timeout:     timeout,
		SDKRoots:    DefaultSDKRoots(extraSDKRoot),
		StudioPaths: DefaultStudioPaths(),
	}
}

// CacheKey identifies the probe configuration: the SDK roots and the PATH
// the tools are looked up on.
func (d *Detector) CacheKey() string {
	return strings.Join(d.SDKRoots, string(os.PathListSeparator)) + "\n" + os.Getenv("PATH")
}

// DefaultSDKRoots lists the usual Android SDK locations, honoring
// ANDROID_HOME and ANDROID_SDK_ROOT.
func DefaultSDKRoots(extra string) []string {
	var roots []string
	if extra != "" {
		roots = append(roots, extra)
	}
	for _, env := range []string{"ANDROID_HOME", "ANDROID_SDK_ROOT"} {
		if v := os.Getenv(env); v != "" {
			roots = append(roots, v)
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots,
			filepath.Join(home, "Library", "Android", "sdk"),
			filepath.Join(home, "Android", "Sdk"),
			filepath.Join(home, "AppData", "Local", "Android", "Sdk"),
		)
	}
	return roots
}

// DefaultStudioPaths lists the usual Android Studio install locations.
func DefaultStudioPaths() []string {
	paths := []string{
		"/Applications/Android Studio.app",
		"/opt/android-studio",
		"C:/Program Files/Android/Android Studio",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "android-studio"))
	}
	return paths
}

// Detect probes every component. It never fails: a probe that errors, times
// out, or produces unrecognized output marks its component Absent.
func (d *Detector) Detect(ctx context.Context) Report {
	logger := logging.GetLogger("capability")
	done := logging.LogOperationStart(logger, "detect")
	defer done()

	r := NewReport()
	d.probeTool(ctx, &r, schema.ComponentLanguageRuntime, "java", []string{"-version"}, javaVersionPattern)
	d.probeTool(ctx, &r, schema.ComponentBuildTool, "gradle", []string{"--version"}, gradleVersionPattern)
	d.probePlatforms(&r)
	d.probeStudio(&r)

	for _, name := range r.Names() {
		logger.Debug().Str("component", name).Str("version", r.Versions[name]).Msg("Capability detected")
	}
	return r
}

func (d *Detector) probeTool(ctx context.Context, r *Report, component, tool string, args []string, pattern *regexp.Regexp) {
	if d.Runner == nil {
		r.MarkAbsent(component, "no runner configured")
		return
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := d.Runner.Run(qctx, tool, args...)
	if err != nil {
		if errors.Is(qctx.Err(), context.DeadlineExceeded) {
			r.MarkAbsent(component, fmt.Sprintf("%s did not answer within %s", tool, timeout))
			return
		}
		r.MarkAbsent(component, err.Error())
		return
	}

	m := pattern.FindSubmatch(out)
	if m == nil {
		r.MarkAbsent(component, fmt.Sprintf("unrecognized %s version output", tool))
		return
	}
	r.Set(component, normalizeVersion(string(m[1])), tool)
}

// probePlatforms reports the highest API level installed under the first SDK
// root that has a platforms/ directory.
func (d *Detector) probePlatforms(r *Report) {
	for _, root := range d.SDKRoots {
		entries, err := os.ReadDir(filepath.Join(root, "platforms"))
		if err != nil {
			continue
		}
		highest := 0
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			m := platformDirPattern.FindStringSubmatch(e.Name())
			if m == nil {
				continue
			}
			if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
				highest = n
			}
		}
		if highest == 0 {
			r.MarkAbsent(schema.ComponentPlatformSDK, fmt.Sprintf("no platforms installed in %s", root))
			return
		}
		r.Set(schema.ComponentPlatformSDK, strconv.Itoa(highest), root)
		return
	}
	if len(d.SDKRoots) == 0 {
		r.MarkAbsent(schema.ComponentPlatformSDK, "no SDK locations configured")
		return
	}
	r.MarkAbsent(schema.ComponentPlatformSDK, "Android SDK not found in "+strings.Join(d.SDKRoots, ", "))
}

func (d *Detector) probeStudio(r *Report) {
	for _, p := range d.StudioPaths {
		if _, err := os.Stat(p); err == nil {
			r.Set(schema.ComponentIDE, "installed", p)
			return
		}
	}
	r.MarkAbsent(schema.ComponentIDE, "Android Studio not found in common locations")
}
