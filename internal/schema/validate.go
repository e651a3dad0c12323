package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var identifierSegment = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var shortVersionPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)$`)

// javaReserved holds keywords and literals that may not appear as a package
// segment.
var javaReserved = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true,
}

// Parse converts a raw textual value to the parameter's kind and checks it
// against the validation rule. The returned value is a string, int, float64,
// or bool depending on Kind.
func (p ParameterSpec) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch p.Kind {
	case KindString:
		return p.parseString(raw)
	case KindIdentifier:
		if err := p.checkLength(raw); err != nil {
			return nil, err
		}
		if err := ValidateIdentifier(raw); err != nil {
			return nil, err
		}
		return raw, nil
	case KindInteger:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("must be a valid integer, got %q", raw)
		}
		if err := p.checkRange(float64(n)); err != nil {
			return nil, err
		}
		return n, nil
	case KindDecimal:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("must be a valid number, got %q", raw)
		}
		if err := p.checkRange(f); err != nil {
			return nil, err
		}
		return f, nil
	case KindSemver:
		if raw == "" {
			return nil, fmt.Errorf("must not be empty")
		}
		if _, err := semver.StrictNewVersion(raw); err != nil {
			if !p.ShortVersion || !shortVersionPattern.MatchString(raw) {
				return nil, fmt.Errorf("must follow semantic versioning (e.g. 1.0.0), got %q", raw)
			}
		}
		return raw, nil
	case KindEnum:
		if !p.HasChoice(raw) {
			return nil, fmt.Errorf("must be one of %s, got %q", strings.Join(p.Choices, ", "), raw)
		}
		return raw, nil
	case KindBoolean:
		b, ok := ParseBool(raw)
		if !ok {
			return nil, fmt.Errorf("must be a boolean (true/false, yes/no), got %q", raw)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported parameter kind %q", p.Kind)
	}
}

func (p ParameterSpec) parseString(raw string) (any, error) {
	if raw == "" {
		if p.Optional {
			return "", nil
		}
		return nil, fmt.Errorf("must not be empty")
	}
	if err := p.checkLength(raw); err != nil {
		return nil, err
	}
	if strings.Contains(raw, "{{") || strings.Contains(raw, "}}") {
		return nil, fmt.Errorf("must not contain template delimiters {{ or }}, got %q", raw)
	}
	if p.Pattern != nil && !p.Pattern.MatchString(raw) {
		hint := p.PatternHint
		if hint == "" {
			hint = "must match " + p.Pattern.String()
		}
		return nil, fmt.Errorf("%s, got %q", hint, raw)
	}
	return raw, nil
}

func (p ParameterSpec) checkLength(raw string) error {
	if p.MaxLen > 0 && len(raw) > p.MaxLen {
		return fmt.Errorf("must be %d characters or less", p.MaxLen)
	}
	return nil
}

func (p ParameterSpec) checkRange(v float64) error {
	r := p.Range
	if r == nil {
		return nil
	}
	low := v < r.Min
	if r.ExclusiveMin {
		low = v <= r.Min
	}
	if low || v > r.Max {
		if r.ExclusiveMin {
			return fmt.Errorf("must be greater than %s and at most %s", FormatValue(r.Min), FormatValue(r.Max))
		}
		return fmt.Errorf("must be between %s and %s", FormatValue(r.Min), FormatValue(r.Max))
	}
	return nil
}

// ValidateIdentifier checks a dotted package identifier: at least two
// segments, each starting with a lower-case letter and containing only
// lower-case letters, digits, and underscores, none of them a reserved word.
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("must not be empty")
	}
	segments := strings.Split(id, ".")
	if len(segments) < 2 {
		return fmt.Errorf("must have at least two dot-separated segments (e.g. com.example.app), got %q", id)
	}
	for _, seg := range segments {
		if seg == "" {
			return fmt.Errorf("must not contain empty segments, got %q", id)
		}
		if !identifierSegment.MatchString(seg) {
			return fmt.Errorf("segment %q must start with a lower-case letter and contain only lower-case letters, digits, and underscores", seg)
		}
		if javaReserved[seg] {
			return fmt.Errorf("segment %q is a reserved word", seg)
		}
	}
	return nil
}

// ParseBool accepts the usual spellings of yes and no.
func ParseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "on", "1":
		return true, true
	case "false", "no", "n", "off", "0":
		return false, true
	}
	return false, false
}

// FormatValue renders a resolved value as it is substituted into templates.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
