package schema

import (
	"errors"
	"strings"
	"testing"
)

func TestDescribe_Catalog(t *testing.T) {
	specs := Describe()
	if len(specs) != 24 {
		t.Fatalf("Describe() returned %d parameters, want 24", len(specs))
	}
	if specs[0].Name != "project_name" {
		t.Errorf("first parameter = %q, want project_name", specs[0].Name)
	}

	// Mutating the returned slice must not affect later calls.
	specs[0].Default = "Changed"
	if again := Describe(); again[0].Default != "MyApplication" {
		t.Errorf("Describe() default changed to %q after caller mutation", again[0].Default)
	}
}

func TestCheckCatalog(t *testing.T) {
	if err := CheckCatalog(); err != nil {
		t.Fatalf("built-in catalog failed self-check: %v", err)
	}
}

func TestCheckOrder(t *testing.T) {
	derive := func(Lookup) (any, error) { return "x", nil }

	tests := []struct {
		name    string
		specs   []ParameterSpec
		wantDep bool
		wantErr bool
	}{
		{
			name: "dependency declared earlier",
			specs: []ParameterSpec{
				{Name: "a", Kind: KindString},
				{Name: "b", Kind: KindString, DependsOn: []string{"a"}, Derive: derive},
			},
		},
		{
			name: "dependency declared later",
			specs: []ParameterSpec{
				{Name: "b", Kind: KindString, DependsOn: []string{"a"}, Derive: derive},
				{Name: "a", Kind: KindString},
			},
			wantDep: true,
			wantErr: true,
		},
		{
			name: "self dependency",
			specs: []ParameterSpec{
				{Name: "a", Kind: KindString, DependsOn: []string{"a"}, Derive: derive},
			},
			wantDep: true,
			wantErr: true,
		},
		{
			name: "cycle",
			specs: []ParameterSpec{
				{Name: "a", Kind: KindString, DependsOn: []string{"b"}, Derive: derive},
				{Name: "b", Kind: KindString, DependsOn: []string{"a"}, Derive: derive},
			},
			wantDep: true,
			wantErr: true,
		},
		{
			name: "unknown dependency",
			specs: []ParameterSpec{
				{Name: "a", Kind: KindString, DependsOn: []string{"zzz"}, Derive: derive},
			},
			wantDep: true,
			wantErr: true,
		},
		{
			name: "duplicate name",
			specs: []ParameterSpec{
				{Name: "a", Kind: KindString},
				{Name: "a", Kind: KindString},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOrder(tt.specs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			var depErr *DependencyOrderError
			if got := errors.As(err, &depErr); got != tt.wantDep {
				t.Errorf("errors.As(DependencyOrderError) = %v, want %v (err: %v)", got, tt.wantDep, err)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		id      string
		wantErr string
	}{
		{"com.example.app", ""},
		{"com.acme.sample", ""},
		{"io.my_company.app2", ""},
		{"", "must not be empty"},
		{"app", "at least two"},
		{"com..app", "empty segments"},
		{"com.example.", "empty segments"},
		{"Com.example.app", "lower-case"},
		{"com.1example.app", "lower-case letter"},
		{"com.example-app.x", "lower-case"},
		{"com.example.class", "reserved word"},
		{"com.new.app", "reserved word"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateIdentifier(tt.id)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateIdentifier(%q) unexpected error: %v", tt.id, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateIdentifier(%q) expected error containing %q", tt.id, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParse(t *testing.T) {
	specs := Describe()
	get := func(name string) ParameterSpec {
		t.Helper()
		s, ok := Find(specs, name)
		if !ok {
			t.Fatalf("parameter %q not in catalog", name)
		}
		return s
	}

	tests := []struct {
		param   string
		raw     string
		want    any
		wantErr bool
	}{
		{"project_name", "Sample", "Sample", false},
		{"project_name", "1Sample", nil, true},
		{"project_name", "", nil, true},
		{"project_name", strings.Repeat("a", 51), nil, true},
		{"author_email", "", "", false},
		{"author_email", "dev@acme.com", "dev@acme.com", false},
		{"author_email", "not-an-email", nil, true},
		{"min_sdk", "24", 24, false},
		{"min_sdk", " 26 ", 26, false},
		{"min_sdk", "20", nil, true},
		{"min_sdk", "abc", nil, true},
		{"version_name", "1.2.3", "1.2.3", false},
		{"version_name", "1.2.3-beta.1", "1.2.3-beta.1", false},
		{"version_name", "one", nil, true},
		{"version_name", "1", nil, true},
		{"version_name", "1.0", nil, true},
		{"version_name", "v2", nil, true},
		{"kotlin_version", "v2.0.21", nil, true},
		{"agp_version", "8.7", nil, true},
		{"gradle_version", "8.9", "8.9", false},
		{"gradle_version", "8", nil, true},
		{"gradle_version", "v8.9", nil, true},
		{"author_name", "Ada Lovelace", "Ada Lovelace", false},
		{"author_name", "Ada }} Lovelace", nil, true},
		{"author_name", "{{project_name}}", nil, true},
		{"body_font_size", "-4", nil, true},
		{"body_font_size", "0", nil, true},
		{"body_letter_spacing", "0.25", 0.25, false},
		{"body_letter_spacing", "0", nil, true},
		{"body_letter_spacing", "NaN", nil, true},
		{"navigation_style", "drawer", "drawer", false},
		{"navigation_style", "tabs", nil, true},
		{"use_material3", "no", false, false},
		{"use_material3", "TRUE", true, false},
		{"use_material3", "maybe", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.param+"="+tt.raw, func(t *testing.T) {
			got, err := get(tt.param).Parse(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDerivations(t *testing.T) {
	values := map[string]any{
		"project_name": "my_sample_App",
		"java_version": 8,
	}
	get := func(name string) (any, bool) {
		v, ok := values[name]
		return v, ok
	}

	tests := []struct {
		param string
		want  string
	}{
		{"project_slug", "my-sample-app"},
		{"theme_name", "Theme.MySampleApp"},
		{"jvm_target", "1.8"},
	}
	specs := Describe()
	for _, tt := range tests {
		spec, _ := Find(specs, tt.param)
		got, err := spec.Derive(get)
		if err != nil {
			t.Fatalf("%s: derive error: %v", tt.param, err)
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.param, got, tt.want)
		}
		if _, err := spec.Parse(FormatValue(got)); err != nil {
			t.Errorf("%s: derived value %q fails its own rule: %v", tt.param, got, err)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"x", "x"},
		{35, "35"},
		{0.5, "0.5"},
		{2.0, "2"},
		{true, "true"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
