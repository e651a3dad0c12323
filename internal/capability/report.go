package capability

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/droidgen-labs/droidgen/internal/schema"
)

// Absent marks a component whose version could not be determined.
const Absent = "absent"

// Components probed by the Detector, in report order.
var Components = []string{
	schema.ComponentLanguageRuntime,
	schema.ComponentBuildTool,
	schema.ComponentPlatformSDK,
	schema.ComponentIDE,
}

// Report maps toolchain component names to detected versions.
type Report struct {
	Versions map[string]string `json:"versions"`
	// Locations records where a component was found, when known.
	Locations map[string]string `json:"locations,omitempty"`
	// Notes explains why a component is absent.
	Notes []string `json:"notes,omitempty"`
}

// NewReport returns an empty report with every known component absent.
func NewReport() Report {
	r := Report{
		Versions:  make(map[string]string, len(Components)),
		Locations: make(map[string]string),
	}
	for _, c := range Components {
		r.Versions[c] = Absent
	}
	return r
}

// Version returns the detected version of a component.
func (r Report) Version(component string) (string, bool) {
	v, ok := r.Versions[component]
	if !ok || v == Absent || v == "" {
		return "", false
	}
	return v, true
}

// Display returns the version of a component for printing, or Absent when
// it was not detected.
func (r Report) Display(component string) string {
	if v, ok := r.Version(component); ok {
		return v
	}
	return Absent
}

// Major returns the major version of a component. Legacy Java versions of
// the form 1.x report x.
func (r Report) Major(component string) (int, bool) {
	v, ok := r.Version(component)
	if !ok {
		return 0, false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return 0, false
	}
	if sv.Major() == 1 && component == schema.ComponentLanguageRuntime {
		return int(sv.Minor()), true
	}
	return int(sv.Major()), true
}

// Names returns the component names in a stable order: known components
// first, then any extras alphabetically.
func (r Report) Names() []string {
	names := make([]string, 0, len(r.Versions))
	known := make(map[string]bool, len(Components))
	for _, c := range Components {
		known[c] = true
		if _, ok := r.Versions[c]; ok {
			names = append(names, c)
		}
	}
	var extra []string
	for c := range r.Versions {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// Set records a detected version.
func (r *Report) Set(component, version, location string) {
	r.Versions[component] = version
	if location != "" {
		r.Locations[component] = location
	}
}

// MarkAbsent records a component as absent with the reason.
func (r *Report) MarkAbsent(component, reason string) {
	r.Versions[component] = Absent
	if reason != "" {
		r.Notes = append(r.Notes, component+": "+reason)
	}
}

// normalizeVersion turns tool output such as "1.8.0_392" or "17.0.2" into a
// semver-compatible string. Unparseable input is returned unchanged.
func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	cleaned := strings.Replace(v, "_", "+", 1)
	sv, err := semver.NewVersion(cleaned)
	if err != nil {
		return v
	}
	return sv.String()
}
