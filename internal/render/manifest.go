package render

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/droidgen-labs/droidgen/internal/schemacheck"
	"go.yaml.in/yaml/v3"
)

// ManifestFile is the optional template manifest at the template root. It is
// never copied into the output.
const ManifestFile = "template.yaml"

//go:embed schema/template.schema.json
var manifestSchemaBytes []byte

var manifestSchema = schemacheck.New("template.schema.json", manifestSchemaBytes)

// DefaultBinary matches files that are copied without substitution when a
// manifest does not declare its own list.
var DefaultBinary = []string{
	"**/*.png", "**/*.jpg", "**/*.jpeg", "**/*.gif", "**/*.webp", "**/*.ico",
	"**/*.jar", "**/*.aar", "**/*.so", "**/*.zip",
	"**/*.keystore", "**/*.jks", "**/*.ttf", "**/*.otf",
}

// Manifest describes how a template tree is rendered.
type Manifest struct {
	Name        string   `yaml:"name" json:"name,omitempty"`
	Description string   `yaml:"description" json:"description,omitempty"`
	// Binary lists globs of files copied byte for byte.
	Binary []string `yaml:"binary" json:"binary,omitempty"`
	// Exclude lists globs of template files and directories left out of the
	// output.
	Exclude []string `yaml:"exclude" json:"exclude,omitempty"`
	// Required lists rendered paths that must exist after generation.
	Required []string `yaml:"required" json:"required,omitempty"`
}

// LoadManifest reads and validates the manifest at the root of fsys. A
// template without a manifest uses DefaultBinary and no exclusions.
func LoadManifest(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, ManifestFile)
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{Binary: DefaultBinary}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ManifestFile, err)
	}
	return ParseManifest(data)
}

// ParseManifest validates YAML manifest bytes against the embedded JSON
// schema and decodes them.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	if err := validateManifest(raw); err != nil {
		return nil, err
	}

	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ManifestFile, err)
	}
	if m.Binary == nil {
		m.Binary = DefaultBinary
	}
	for _, pattern := range append(append(append([]string{}, m.Binary...), m.Exclude...), m.Required...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%s: invalid glob %q", ManifestFile, pattern)
		}
	}
	return m, nil
}

func validateManifest(raw any) error {
	err := manifestSchema.Validate(raw)
	var se *schemacheck.Error
	if errors.As(err, &se) {
		return fmt.Errorf("invalid %s: %w", ManifestFile, err)
	}
	if err != nil {
		return fmt.Errorf("validating %s: %w", ManifestFile, err)
	}
	return nil
}

// IsBinary reports whether a template-relative path is declared binary.
func (m *Manifest) IsBinary(rel string) bool {
	return matchAny(m.Binary, rel)
}

// IsExcluded reports whether a template-relative path is left out of the
// output. The manifest itself is always excluded.
func (m *Manifest) IsExcluded(rel string) bool {
	return rel == ManifestFile || matchAny(m.Exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
