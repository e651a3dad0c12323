package resolve

import (
	"fmt"
	"strings"
)

// Rule names attached to violations that are not a parameter's own rule.
const (
	RuleUnknown    = "unknown-parameter"
	RuleDerivation = "derivation"
	RuleCapability = "capability"
)

// Violation is one failed validation rule. Cross-field rules name every
// parameter involved.
type Violation struct {
	Params  []string
	Rule    string
	Message string
}

func (v Violation) String() string {
	return strings.Join(v.Params, ", ") + ": " + v.Message
}

// Involves reports whether the violation names the parameter.
func (v Violation) Involves(name string) bool {
	for _, p := range v.Params {
		if p == name {
			return true
		}
	}
	return false
}

// ValidationError aggregates every violation found during resolution.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return "validation failed: " + e.Violations[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "validation failed with %d violations:", len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v.String())
	}
	return b.String()
}

// Warning is an advisory finding attached to a successful resolution.
type Warning struct {
	Param     string
	Component string
	Message   string
}

func (w Warning) String() string {
	return w.Message
}
