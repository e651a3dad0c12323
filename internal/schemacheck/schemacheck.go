// Package schemacheck validates decoded YAML, JSON and TOML documents against
// embedded JSON Schemas.
package schemacheck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Validator compiles its schema on first use.
type Validator struct {
	name   string
	source []byte

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// New returns a validator for the schema document source, registered under
// name.
func New(name string, source []byte) *Validator {
	return &Validator{name: name, source: source}
}

// Error lists every leaf failure of a document, one "path: message" entry
// each, sorted.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (v *Validator) schema() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(v.source))
		if err != nil {
			v.err = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(v.name, doc); err != nil {
			v.err = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		v.compiled, v.err = c.Compile(v.name)
		if v.err != nil {
			v.err = fmt.Errorf("compiling schema: %w", v.err)
		}
	})
	return v.compiled, v.err
}

// Validate checks doc against the schema. A document that does not conform
// yields *Error; any other error means the schema or the document could not
// be prepared.
func (v *Validator) Validate(doc any) error {
	s, err := v.schema()
	if err != nil {
		return fmt.Errorf("loading %s: %w", v.name, err)
	}

	// Round-trip through JSON so the validator sees JSON-native types.
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting document to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("preparing document for validation: %w", err)
	}

	err = s.Validate(inst)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validating against %s: %w", v.name, err)
	}
	msgs := leafMessages(ve)
	sort.Strings(msgs)
	return &Error{Messages: msgs}
}

// leafMessages flattens a validation error tree into "path: message" lines.
func leafMessages(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		msg := ve.Error()
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}
		return []string{path + ": " + msg}
	}
	var out []string
	for _, c := range ve.Causes {
		out = append(out, leafMessages(c)...)
	}
	return out
}
