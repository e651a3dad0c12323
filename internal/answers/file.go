package answers

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/droidgen-labs/droidgen/internal/schema"
	"github.com/droidgen-labs/droidgen/internal/schemacheck"
	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

//go:embed schema/answers.schema.json
var answersSchemaBytes []byte

var answersSchema = schemacheck.New("answers.schema.json", answersSchemaBytes)

// Load reads an answers file and returns its entries as raw strings. The
// format follows the extension: .yaml, .yml and .json are read as YAML,
// .toml as TOML.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes answers file content in the format named by ext. YAML and
// JSON scalars keep their literal text, so 1.10 stays 1.10.
func Parse(data []byte, ext string) (map[string]string, error) {
	raw := map[string]any{}
	var out map[string]string
	switch strings.ToLower(ext) {
	case ".yaml", ".yml", ".json":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing answers file: %w", err)
		}
		if err := validate(raw); err != nil {
			return nil, err
		}
		nodes := map[string]yaml.Node{}
		if err := yaml.Unmarshal(data, &nodes); err != nil {
			return nil, fmt.Errorf("parsing answers file: %w", err)
		}
		out = make(map[string]string, len(nodes))
		for k, n := range nodes {
			if n.Kind == yaml.AliasNode && n.Alias != nil {
				n = *n.Alias
			}
			out[k] = n.Value
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing answers file: %w", err)
		}
		if err := validate(raw); err != nil {
			return nil, err
		}
		out = make(map[string]string, len(raw))
		for k, v := range raw {
			if err := checkVersionQuoted(k, v); err != nil {
				return nil, err
			}
			out[k] = scalarString(v)
		}
	default:
		return nil, fmt.Errorf("unsupported answers file type %q (want .yaml, .yml, .json or .toml)", ext)
	}
	return out, nil
}

// checkVersionQuoted rejects an unquoted TOML number for a version
// parameter: the decoded float no longer carries its original digits.
func checkVersionQuoted(key string, v any) error {
	if _, isString := v.(string); isString {
		return nil
	}
	if spec, ok := schema.Find(schema.Describe(), key); ok && spec.Kind == schema.KindSemver {
		return fmt.Errorf("invalid answers file: /%s: version must be a quoted string", key)
	}
	return nil
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// validate checks that the decoded file is a flat mapping of parameter names
// to scalars.
func validate(raw map[string]any) error {
	err := answersSchema.Validate(raw)
	var se *schemacheck.Error
	if errors.As(err, &se) {
		return fmt.Errorf("invalid answers file: %w", err)
	}
	if err != nil {
		return fmt.Errorf("validating answers: %w", err)
	}
	return nil
}
