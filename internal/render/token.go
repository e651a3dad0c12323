package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/droidgen-labs/droidgen/internal/resolve"
	"github.com/droidgen-labs/droidgen/internal/schema"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

var (
	namePattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	blockPattern = regexp.MustCompile(`^([#^/])\s*([a-z][a-z0-9_]*)\s*(?:=\s*([A-Za-z0-9_.-]+))?$`)
)

// block is an open conditional section.
type block struct {
	key    string
	active bool
}

// Substitute replaces every token in text with its value from ctx and
// evaluates conditional blocks. Tokens inside a disabled block are still
// checked so template drift surfaces regardless of the context. The result
// never contains a token delimiter.
func Substitute(text string, ctx *resolve.Context) (string, error) {
	var out strings.Builder
	var open *block
	i := 0

	for {
		rel := strings.Index(text[i:], openDelim)
		if rel < 0 {
			break
		}
		start := i + rel
		endRel := strings.Index(text[start+len(openDelim):], closeDelim)
		if endRel < 0 {
			return "", fmt.Errorf("%w: %q is never closed", ErrMalformedToken, excerpt(text[start:]))
		}
		end := start + len(openDelim) + endRel + len(closeDelim)
		inner := strings.TrimSpace(text[start+len(openDelim) : end-len(closeDelim)])

		literal := text[i:start]
		if m := blockPattern.FindStringSubmatch(inner); m != nil {
			lineStart, lineEnd, standalone := standaloneBounds(text, i, start, end)
			if standalone {
				literal = text[i:lineStart]
				end = lineEnd
			}
			if open == nil || open.active {
				out.WriteString(literal)
			}

			switch m[1] {
			case "#", "^":
				if open != nil {
					return "", fmt.Errorf("%w: {{%s}} inside {{#%s}}", ErrNestedCondition, inner, open.key)
				}
				active, err := evalCondition(ctx, m[2], m[3])
				if err != nil {
					return "", err
				}
				if m[1] == "^" {
					active = !active
				}
				open = &block{key: m[2], active: active}
			case "/":
				if open == nil || open.key != m[2] {
					return "", fmt.Errorf("%w: {{/%s}} closes no open block", ErrMalformedToken, m[2])
				}
				if m[3] != "" {
					return "", fmt.Errorf("%w: closing tag {{%s}} takes no value", ErrMalformedToken, inner)
				}
				open = nil
			}
			i = end
			continue
		}

		if !namePattern.MatchString(inner) {
			return "", fmt.Errorf("%w: {{%s}}", ErrMalformedToken, inner)
		}
		value, ok := ctx.Get(inner)
		if !ok {
			return "", fmt.Errorf("%w: {{%s}}", ErrUnresolvedToken, inner)
		}
		if open == nil || open.active {
			out.WriteString(literal)
			out.WriteString(schema.FormatValue(value))
		}
		i = end
	}

	if open != nil {
		return "", fmt.Errorf("%w: {{#%s}} is never closed", ErrMalformedToken, open.key)
	}
	out.WriteString(text[i:])

	result := out.String()
	if strings.Contains(result, openDelim) || strings.Contains(result, closeDelim) {
		return "", fmt.Errorf("%w: delimiter survives substitution in %q", ErrUnresolvedToken, excerpt(result))
	}
	return result, nil
}

// evalCondition decides whether a block keyed on name is enabled. Boolean
// keys take no value; enum keys must compare against one of their choices.
func evalCondition(ctx *resolve.Context, name, want string) (bool, error) {
	spec, ok := ctx.Spec(name)
	if !ok {
		return false, fmt.Errorf("%w: %q is not a parameter", ErrUnknownCondition, name)
	}
	value, _ := ctx.Get(name)

	switch spec.Kind {
	case schema.KindBoolean:
		if want != "" {
			return false, fmt.Errorf("%w: boolean %q cannot be compared with %q", ErrUnknownCondition, name, want)
		}
		b, _ := value.(bool)
		return b, nil
	case schema.KindEnum:
		if want == "" {
			return false, fmt.Errorf("%w: enum %q needs a value, e.g. {{#%s=%s}}", ErrUnknownCondition, name, name, spec.Choices[0])
		}
		if !spec.HasChoice(want) {
			return false, fmt.Errorf("%w: %q is not a choice of %q (%s)", ErrUnknownCondition, want, name, strings.Join(spec.Choices, ", "))
		}
		return schema.FormatValue(value) == want, nil
	default:
		return false, fmt.Errorf("%w: %q is a %s parameter; conditions need a boolean or enum", ErrUnknownCondition, name, spec.Kind)
	}
}

// standaloneBounds reports whether the tag text[start:end] sits alone on its
// line. If so it returns the line start and the offset just past the line's
// newline, so the whole line can be dropped from the output.
func standaloneBounds(text string, from, start, end int) (int, int, bool) {
	lineStart := strings.LastIndex(text[:start], "\n") + 1
	if lineStart < from || strings.TrimSpace(text[lineStart:start]) != "" {
		return 0, 0, false
	}
	rest := text[end:]
	nl := strings.Index(rest, "\n")
	lineEnd := len(text)
	tail := rest
	if nl >= 0 {
		lineEnd = end + nl + 1
		tail = rest[:nl]
	}
	if strings.TrimSpace(tail) != "" {
		return 0, 0, false
	}
	return lineStart, lineEnd, true
}

func excerpt(s string) string {
	const max = 40
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
