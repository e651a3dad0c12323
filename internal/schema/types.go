package schema

import (
	"fmt"
	"regexp"
)

// Kind is the value type of a parameter.
type Kind string

// Supported parameter kinds.
const (
	KindString     Kind = "string"
	KindIdentifier Kind = "identifier"
	KindInteger    Kind = "integer"
	KindDecimal    Kind = "decimal"
	KindSemver     Kind = "semver"
	KindEnum       Kind = "enum"
	KindBoolean    Kind = "boolean"
)

// Toolchain components a parameter can be checked against.
const (
	ComponentLanguageRuntime = "language-runtime"
	ComponentBuildTool       = "build-tool"
	ComponentPlatformSDK     = "platform-sdk"
	ComponentIDE             = "ide"
)

// Lookup returns the resolved value of an earlier parameter.
type Lookup func(name string) (any, bool)

// DeriveFunc computes a parameter from already-resolved parameters.
// It must be pure: no I/O, no clock, no randomness.
type DeriveFunc func(get Lookup) (any, error)

// Range is an inclusive numeric bound.
type Range struct {
	Min float64
	Max float64
	// ExclusiveMin makes the lower bound exclusive (x > Min).
	ExclusiveMin bool
}

// ParameterSpec declares one recognized parameter.
type ParameterSpec struct {
	Name        string
	Kind        Kind
	Description string
	// Default is the textual default, parsed like raw input.
	Default string

	// Validation rule. Only the fields relevant to Kind are consulted.
	Pattern      *regexp.Regexp
	PatternHint  string
	MaxLen       int
	Range        *Range
	Choices      []string
	Optional     bool
	// ShortVersion lets a semver parameter omit the patch number, as
	// Gradle release versions do (8.9).
	ShortVersion bool

	// Derivation rule. A derived parameter ignores raw input.
	DependsOn []string
	Derive    DeriveFunc

	// Capability names the toolchain component this parameter is checked
	// against after resolution. The check is advisory.
	Capability string
}

// Derived reports whether the parameter is computed rather than supplied.
func (p ParameterSpec) Derived() bool {
	return p.Derive != nil
}

// Conditional reports whether the parameter can key a conditional block.
func (p ParameterSpec) Conditional() bool {
	return p.Kind == KindBoolean || p.Kind == KindEnum
}

// HasChoice reports whether v is one of the parameter's allowed choices.
func (p ParameterSpec) HasChoice(v string) bool {
	for _, c := range p.Choices {
		if c == v {
			return true
		}
	}
	return false
}

// Ordering declares that the listed integer parameters must be non-decreasing
// in declaration order of the list (Params[0] <= Params[1] <= ...).
type Ordering struct {
	Name   string
	Params []string
}

// DependencyOrderError reports a derivation that reads a parameter which is
// not declared before it. It indicates a defect in the catalog itself.
type DependencyOrderError struct {
	Param      string
	Dependency string
	Reason     string
}

func (e *DependencyOrderError) Error() string {
	return fmt.Sprintf("parameter %q depends on %q: %s", e.Param, e.Dependency, e.Reason)
}
