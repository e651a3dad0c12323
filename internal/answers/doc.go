// Package answers collects raw parameter input for a generation run: answers
// files (YAML, JSON or TOML), --set overrides, and interactive prompting.
// Values stay strings here; typing and validation belong to the resolver.
package answers
