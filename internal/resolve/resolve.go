package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/droidgen-labs/droidgen/internal/capability"
	"github.com/droidgen-labs/droidgen/internal/logging"
	"github.com/droidgen-labs/droidgen/internal/schema"
)

// Options tunes resolution.
type Options struct {
	// Strict turns a requested level above the installed toolchain into a
	// violation. By default it is only a warning.
	Strict bool
}

// Result is a successful resolution.
type Result struct {
	Context  *Context
	Warnings []Warning
}

// Resolve merges raw input with defaults, computes derived parameters, and
// validates everything against specs. A missing key in raw means "use the
// default". On failure the error is a *ValidationError listing every
// violation. Resolve performs no I/O.
func Resolve(raw map[string]string, specs []schema.ParameterSpec, report capability.Report, opts Options) (*Result, error) {
	logger := logging.GetLogger("resolve")

	ctx := newContext(len(specs))
	invalid := make(map[string]bool)
	var violations []Violation

	violations = append(violations, unknownInputs(raw, specs)...)

	for _, spec := range specs {
		value, v := resolveOne(spec, raw, ctx, invalid)
		if v != nil {
			violations = append(violations, *v)
			invalid[spec.Name] = true
			continue
		}
		if value == nil {
			// Skipped: a dependency already failed.
			invalid[spec.Name] = true
			continue
		}
		ctx.set(spec, value)
		logger.Trace().Str("param", spec.Name).Str("value", schema.FormatValue(value)).Msg("Parameter resolved")
	}

	violations = append(violations, checkOrderings(ctx, invalid)...)

	warnings := reservedNameWarnings(ctx)
	capWarnings, capViolations := checkCapabilities(ctx, specs, report, opts)
	warnings = append(warnings, capWarnings...)
	violations = append(violations, capViolations...)

	if len(violations) > 0 {
		logger.Debug().Int("violations", len(violations)).Msg("Resolution failed")
		return nil, &ValidationError{Violations: violations}
	}

	logger.Debug().Int("params", ctx.Len()).Int("warnings", len(warnings)).Msg("Resolution succeeded")
	return &Result{Context: ctx, Warnings: warnings}, nil
}

// resolveOne returns the validated value of a parameter, a violation, or
// neither when a derived parameter is skipped because a dependency failed.
func resolveOne(spec schema.ParameterSpec, raw map[string]string, ctx *Context, invalid map[string]bool) (any, *Violation) {
	if spec.Derived() {
		for _, dep := range spec.DependsOn {
			if invalid[dep] {
				return nil, nil
			}
		}
		derived, err := spec.Derive(ctx.Lookup())
		if err != nil {
			return nil, &Violation{Params: []string{spec.Name}, Rule: RuleDerivation, Message: err.Error()}
		}
		value, err := spec.Parse(schema.FormatValue(derived))
		if err != nil {
			return nil, &Violation{Params: []string{spec.Name}, Rule: string(spec.Kind), Message: "derived value " + err.Error()}
		}
		return value, nil
	}

	text, ok := raw[spec.Name]
	if !ok {
		text = spec.Default
	}
	value, err := spec.Parse(text)
	if err != nil {
		return nil, &Violation{Params: []string{spec.Name}, Rule: string(spec.Kind), Message: err.Error()}
	}
	return value, nil
}

func unknownInputs(raw map[string]string, specs []schema.ParameterSpec) []Violation {
	known := make(map[string]bool, len(specs))
	for _, s := range specs {
		known[s.Name] = true
	}
	var names []string
	for name := range raw {
		if !known[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	violations := make([]Violation, 0, len(names))
	for _, name := range names {
		violations = append(violations, Violation{
			Params:  []string{name},
			Rule:    RuleUnknown,
			Message: "unknown parameter",
		})
	}
	return violations
}

// checkOrderings applies whole-context ordering rules once every parameter
// of a rule resolved on its own. Each adjacent pair out of order yields one
// violation naming both parameters.
func checkOrderings(ctx *Context, invalid map[string]bool) []Violation {
	var violations []Violation
	for _, o := range schema.Orderings() {
		values := make([]int, len(o.Params))
		complete := true
		for i, name := range o.Params {
			v, ok := ctx.Get(name)
			n, isInt := v.(int)
			if !ok || !isInt || invalid[name] {
				complete = false
				break
			}
			values[i] = n
		}
		if !complete {
			continue
		}
		for i := 0; i+1 < len(values); i++ {
			if values[i] > values[i+1] {
				violations = append(violations, Violation{
					Params: []string{o.Params[i], o.Params[i+1]},
					Rule:   o.Name,
					Message: fmt.Sprintf("%s (%d) must not exceed %s (%d)",
						o.Params[i], values[i], o.Params[i+1], values[i+1]),
				})
			}
		}
	}
	return violations
}

func reservedNameWarnings(ctx *Context) []Warning {
	name := ctx.String("project_name")
	for _, reserved := range schema.ReservedProjectNames {
		if strings.EqualFold(name, reserved) {
			return []Warning{{
				Param:   "project_name",
				Message: fmt.Sprintf("project name %q might conflict with Android reserved words", name),
			}}
		}
	}
	return nil
}

// checkCapabilities compares levels requested by the context with the
// installed toolchain. An absent component yields one warning naming every
// parameter it could not verify.
func checkCapabilities(ctx *Context, specs []schema.ParameterSpec, report capability.Report, opts Options) ([]Warning, []Violation) {
	var warnings []Warning
	var violations []Violation
	unverified := make(map[string][]string)
	var absentOrder []string

	for _, spec := range specs {
		if spec.Capability == "" {
			continue
		}
		v, ok := ctx.Get(spec.Name)
		requested, isInt := v.(int)
		if !ok || !isInt {
			continue
		}

		installed, found := report.Major(spec.Capability)
		if !found {
			if _, seen := unverified[spec.Capability]; !seen {
				absentOrder = append(absentOrder, spec.Capability)
			}
			unverified[spec.Capability] = append(unverified[spec.Capability], spec.Name)
			continue
		}
		if requested <= installed {
			continue
		}

		msg := fmt.Sprintf("%s %d exceeds installed %s %d", spec.Name, requested, spec.Capability, installed)
		if opts.Strict {
			violations = append(violations, Violation{Params: []string{spec.Name}, Rule: RuleCapability, Message: msg})
			continue
		}
		warnings = append(warnings, Warning{Param: spec.Name, Component: spec.Capability, Message: msg})
	}

	for _, component := range absentOrder {
		params := unverified[component]
		warnings = append(warnings, Warning{
			Param:     params[0],
			Component: component,
			Message:   fmt.Sprintf("%s not detected; cannot verify %s", component, strings.Join(params, ", ")),
		})
	}
	return warnings, violations
}
