package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/droidgen-labs/droidgen/internal/answers"
	"github.com/droidgen-labs/droidgen/internal/capability"
	"github.com/droidgen-labs/droidgen/internal/config"
	"github.com/droidgen-labs/droidgen/internal/resolve"
	"github.com/droidgen-labs/droidgen/internal/schema"
	"github.com/mattn/go-isatty"
)

// errReported signals that the failure details were already printed.
var errReported = errors.New("invalid parameters; nothing was generated")

func printWarnings(w io.Writer, warnings []resolve.Warning) {
	for _, warn := range warnings {
		fmt.Fprintf(w, "[WARN] %s\n", warn)
	}
}

// printFailure prints every violation of a validation error. Other errors are
// returned unchanged for main to print.
func printFailure(w io.Writer, err error) error {
	var ve *resolve.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for _, v := range ve.Violations {
		fmt.Fprintf(w, "[FAIL] %s\n", v)
	}
	return errReported
}

func printCapability(w io.Writer, report capability.Report) {
	for _, name := range report.Names() {
		version := report.Display(name)
		if version == capability.Absent {
			fmt.Fprintf(w, "[MISS] %-18s not detected\n", name)
			continue
		}
		if loc := report.Locations[name]; loc != "" {
			fmt.Fprintf(w, "[ OK ] %-18s %s (%s)\n", name, version, loc)
		} else {
			fmt.Fprintf(w, "[ OK ] %-18s %s\n", name, version)
		}
	}
	for _, note := range report.Notes {
		fmt.Fprintf(w, "       %s\n", note)
	}
}

// isInteractive reports whether r is a terminal we can prompt on.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// collectInput layers raw parameters: answers file, then --set flags, then
// interactive answers for anything still missing.
func collectInput(in io.Reader, out io.Writer, answersFile string, sets []string, interactive bool) (map[string]string, error) {
	var fromFile map[string]string
	if answersFile != "" {
		var err error
		fromFile, err = answers.Load(answersFile)
		if err != nil {
			return nil, err
		}
	}
	fromFlags, err := answers.ParseSet(sets)
	if err != nil {
		return nil, err
	}
	raw := answers.Merge(fromFile, fromFlags)

	if interactive {
		prompted, err := answers.Prompt(schema.Describe(), raw, in, out)
		if err != nil {
			return nil, err
		}
		raw = answers.Merge(raw, prompted)
	}
	return raw, nil
}

// newDetector builds the toolchain probe for a run, reusing a recent report
// from the config directory unless refresh is set.
func newDetector(settings config.Settings, refresh bool) capability.Source {
	det := capability.NewDetector(settings.AndroidSDKRoot, settings.ProbeTimeout)
	return &capability.CachingSource{
		Source:  det,
		Dir:     config.Dir(),
		Key:     det.CacheKey(),
		MaxAge:  settings.ProbeCacheTTL,
		Refresh: refresh,
	}
}
