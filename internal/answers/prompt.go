package answers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/droidgen-labs/droidgen/internal/schema"
)

// maxAttempts bounds how often a single parameter is asked again after an
// invalid answer.
const maxAttempts = 3

// Prompt asks for every non-derived parameter in declaration order, skipping
// names already present in preset. An empty answer keeps the default and adds
// nothing to the result. When input ends early, the remaining parameters keep
// their defaults.
func Prompt(specs []schema.ParameterSpec, preset map[string]string, r io.Reader, w io.Writer) (map[string]string, error) {
	reader := bufio.NewReader(r)
	out := make(map[string]string)

	for _, spec := range specs {
		if spec.Derived() {
			continue
		}
		if _, ok := preset[spec.Name]; ok {
			continue
		}

		value, err := askParam(reader, w, spec)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(w)
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if value != "" {
			out[spec.Name] = value
		}
	}
	return out, nil
}

func askParam(reader *bufio.Reader, w io.Writer, spec schema.ParameterSpec) (string, error) {
	for attempt := 1; ; attempt++ {
		var (
			value string
			err   error
		)
		if spec.Kind == schema.KindEnum {
			value, err = selectChoice(reader, w, spec)
		} else {
			value, err = askLine(reader, w, spec)
		}
		if err != nil {
			return "", err
		}
		if value == "" {
			return "", nil
		}
		if _, perr := spec.Parse(value); perr != nil {
			if attempt >= maxAttempts {
				return "", fmt.Errorf("%s: %w", spec.Name, perr)
			}
			fmt.Fprintf(w, "  %v\n", perr)
			continue
		}
		return value, nil
	}
}

func askLine(reader *bufio.Reader, w io.Writer, spec schema.ParameterSpec) (string, error) {
	label := spec.Description
	if label == "" {
		label = spec.Name
	}
	switch {
	case spec.Kind == schema.KindBoolean:
		hint := "y/N"
		if b, ok := schema.ParseBool(spec.Default); ok && b {
			hint = "Y/n"
		}
		fmt.Fprintf(w, "%s [%s]: ", label, hint)
	case spec.Default != "":
		fmt.Fprintf(w, "%s [%s]: ", label, spec.Default)
	default:
		fmt.Fprintf(w, "%s: ", label)
	}
	return readLine(reader)
}

// selectChoice presents a numbered list and returns the chosen value. The
// default choice is marked and taken on an empty answer.
func selectChoice(reader *bufio.Reader, w io.Writer, spec schema.ParameterSpec) (string, error) {
	label := spec.Description
	if label == "" {
		label = spec.Name
	}
	fmt.Fprintf(w, "\n%s:\n", label)
	for i, choice := range spec.Choices {
		marker := ""
		if choice == spec.Default {
			marker = " (default)"
		}
		fmt.Fprintf(w, "  %d) %s%s\n", i+1, choice, marker)
	}
	fmt.Fprintf(w, "Enter number [1-%d]: ", len(spec.Choices))

	line, err := readLine(reader)
	if err != nil || line == "" {
		return "", err
	}
	if num, convErr := strconv.Atoi(line); convErr == nil {
		if num < 1 || num > len(spec.Choices) {
			return line, nil
		}
		return spec.Choices[num-1], nil
	}
	return line, nil
}

// readLine returns the trimmed line. io.EOF is returned only when input ended
// without any text.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return line, nil
}
