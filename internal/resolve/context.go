package resolve

import (
	"fmt"

	"github.com/droidgen-labs/droidgen/internal/schema"
	"go.yaml.in/yaml/v3"
)

type entry struct {
	spec  schema.ParameterSpec
	value any
}

// Context holds resolved parameter values in declaration order. It is built
// by Resolve and is read-only afterwards.
type Context struct {
	entries []entry
	index   map[string]int
}

func newContext(capacity int) *Context {
	return &Context{
		entries: make([]entry, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

func (c *Context) set(spec schema.ParameterSpec, value any) {
	if i, ok := c.index[spec.Name]; ok {
		c.entries[i].value = value
		return
	}
	c.index[spec.Name] = len(c.entries)
	c.entries = append(c.entries, entry{spec: spec, value: value})
}

// NewContext builds a context directly from typed values, in the order of
// specs. Values missing from the map are skipped. It is intended for callers
// that already hold validated values, such as tests of the renderer.
func NewContext(specs []schema.ParameterSpec, values map[string]any) *Context {
	c := newContext(len(specs))
	for _, s := range specs {
		if v, ok := values[s.Name]; ok {
			c.set(s, v)
		}
	}
	return c
}

// Get returns the typed value of a parameter.
func (c *Context) Get(name string) (any, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.entries[i].value, true
}

// Spec returns the declaration of a resolved parameter.
func (c *Context) Spec(name string) (schema.ParameterSpec, bool) {
	i, ok := c.index[name]
	if !ok {
		return schema.ParameterSpec{}, false
	}
	return c.entries[i].spec, true
}

// String returns the substitution text of a parameter, or "" if unresolved.
func (c *Context) String(name string) string {
	v, _ := c.Get(name)
	return schema.FormatValue(v)
}

// Names returns parameter names in declaration order.
func (c *Context) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.spec.Name
	}
	return names
}

// Len returns the number of resolved parameters.
func (c *Context) Len() int {
	return len(c.entries)
}

// Lookup adapts the context for derivation rules.
func (c *Context) Lookup() schema.Lookup {
	return c.Get
}

// Encode returns the context as YAML in declaration order. Identical
// contexts always encode to identical bytes.
func (c *Context) Encode() ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range c.entries {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: e.spec.Name}
		val := &yaml.Node{}
		if err := val.Encode(e.value); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", e.spec.Name, err)
		}
		doc.Content = append(doc.Content, key, val)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding context: %w", err)
	}
	return out, nil
}
