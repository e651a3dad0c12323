package schema

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Navigation styles offered by the skeleton.
const (
	NavigationNone      = "none"
	NavigationBottomBar = "bottom_bar"
	NavigationDrawer    = "drawer"
)

var (
	projectNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	slugPattern        = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	emailPattern       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	themePattern       = regexp.MustCompile(`^Theme\.[A-Za-z][A-Za-z0-9]*$`)
	jvmTargetPattern   = regexp.MustCompile(`^(1\.8|9|[1-9][0-9])$`)
)

const (
	minSupportedSDK = 21
	maxSupportedSDK = 35
)

// Describe returns the parameter catalog in declaration order. Each call
// returns a fresh slice; callers may not mutate the catalog itself.
func Describe() []ParameterSpec {
	return []ParameterSpec{
		// Identity.
		{
			Name:        "project_name",
			Kind:        KindString,
			Description: "Application name shown as the launcher title",
			Default:     "MyApplication",
			Pattern:     projectNamePattern,
			PatternHint: "must start with a letter and contain only letters, numbers, and underscores",
			MaxLen:      50,
		},
		{
			Name:        "package_name",
			Kind:        KindIdentifier,
			Description: "Application package and namespace (e.g. com.example.app)",
			Default:     "com.example.myapplication",
			MaxLen:      100,
		},
		{
			Name:        "project_slug",
			Kind:        KindString,
			Description: "Project directory name",
			Pattern:     slugPattern,
			PatternHint: "must be lower-case letters, digits, and dashes",
			DependsOn:   []string{"project_name"},
			Derive:      deriveSlug,
		},
		{
			Name:        "author_name",
			Kind:        KindString,
			Description: "Author shown in the generated README",
			Optional:    true,
			MaxLen:      100,
		},
		{
			Name:        "author_email",
			Kind:        KindString,
			Description: "Author contact e-mail",
			Pattern:     emailPattern,
			PatternHint: "must be a valid e-mail address",
			Optional:    true,
		},

		// Versioning.
		{
			Name:        "version_code",
			Kind:        KindInteger,
			Description: "Numeric version code",
			Default:     "1",
			Range:       &Range{Min: 1, Max: 2100000000},
		},
		{
			Name:        "version_name",
			Kind:        KindSemver,
			Description: "Semantic version name",
			Default:     "1.0.0",
		},

		// SDK bounds.
		{
			Name:        "min_sdk",
			Kind:        KindInteger,
			Description: "Minimum Android API level",
			Default:     "24",
			Range:       &Range{Min: minSupportedSDK, Max: maxSupportedSDK},
		},
		{
			Name:        "target_sdk",
			Kind:        KindInteger,
			Description: "Target Android API level",
			Default:     "35",
			Range:       &Range{Min: minSupportedSDK, Max: maxSupportedSDK},
			Capability:  ComponentPlatformSDK,
		},
		{
			Name:        "compile_sdk",
			Kind:        KindInteger,
			Description: "Compile Android API level",
			Default:     "35",
			Range:       &Range{Min: minSupportedSDK, Max: maxSupportedSDK},
			Capability:  ComponentPlatformSDK,
		},

		// Language and tooling.
		{
			Name:        "java_version",
			Kind:        KindInteger,
			Description: "Java language level",
			Default:     "17",
			Range:       &Range{Min: 8, Max: 21},
			Capability:  ComponentLanguageRuntime,
		},
		{
			Name:        "jvm_target",
			Kind:        KindString,
			Description: "Kotlin JVM target",
			Pattern:     jvmTargetPattern,
			PatternHint: "must be a JVM target such as 1.8 or 17",
			DependsOn:   []string{"java_version"},
			Derive:      deriveJVMTarget,
		},
		{
			Name:        "kotlin_version",
			Kind:        KindSemver,
			Description: "Kotlin plugin version",
			Default:     "2.0.21",
		},
		{
			Name:        "agp_version",
			Kind:        KindSemver,
			Description: "Android Gradle Plugin version",
			Default:     "8.7.3",
		},
		{
			Name:         "gradle_version",
			Kind:         KindSemver,
			Description:  "Gradle wrapper version",
			Default:      "8.11.1",
			ShortVersion: true,
		},

		// Presentation.
		{
			Name:        "navigation_style",
			Kind:        KindEnum,
			Description: "Top-level navigation",
			Default:     NavigationNone,
			Choices:     []string{NavigationNone, NavigationBottomBar, NavigationDrawer},
		},
		{
			Name:        "use_material3",
			Kind:        KindBoolean,
			Description: "Use Material 3 components",
			Default:     "true",
		},
		{
			Name:        "theme_name",
			Kind:        KindString,
			Description: "Application theme resource name",
			Pattern:     themePattern,
			PatternHint: "must be Theme.<Name>",
			DependsOn:   []string{"project_name"},
			Derive:      deriveThemeName,
		},

		// Typography, in sp.
		typography("title_font_size", "Title font size", "22", 96),
		typography("title_line_height", "Title line height", "28", 128),
		typography("body_font_size", "Body font size", "16", 96),
		typography("body_line_height", "Body line height", "24", 128),
		{
			Name:        "body_letter_spacing",
			Kind:        KindDecimal,
			Description: "Body letter spacing (sp)",
			Default:     "0.5",
			Range:       &Range{Min: 0, Max: 4, ExclusiveMin: true},
		},
		typography("label_font_size", "Label font size", "12", 96),
	}
}

func typography(name, desc, def string, max float64) ParameterSpec {
	return ParameterSpec{
		Name:        name,
		Kind:        KindInteger,
		Description: desc + " (sp)",
		Default:     def,
		Range:       &Range{Min: 1, Max: max},
	}
}

// Orderings returns the whole-context ordering rules.
func Orderings() []Ordering {
	return []Ordering{
		{Name: "sdk-order", Params: []string{"min_sdk", "target_sdk", "compile_sdk"}},
	}
}

// ReservedProjectNames are project names that build but tend to collide with
// platform tooling. Using one is advisory, not a violation.
var ReservedProjectNames = []string{"android", "test", "main", "java", "kotlin", "gradle"}

// Find returns the parameter with the given name.
func Find(specs []ParameterSpec, name string) (ParameterSpec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return ParameterSpec{}, false
}

func deriveSlug(get Lookup) (any, error) {
	name, err := lookupString(get, "project_name")
	if err != nil {
		return nil, err
	}
	return strings.ReplaceAll(cases.Lower(language.Und).String(name), "_", "-"), nil
}

func deriveThemeName(get Lookup) (any, error) {
	name, err := lookupString(get, "project_name")
	if err != nil {
		return nil, err
	}
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		b.WriteString(title.String(part))
	}
	return "Theme." + b.String(), nil
}

func deriveJVMTarget(get Lookup) (any, error) {
	v, ok := get("java_version")
	if !ok {
		return nil, fmt.Errorf("java_version is not resolved")
	}
	n, ok := v.(int)
	if !ok {
		return nil, fmt.Errorf("java_version has type %T, want int", v)
	}
	if n == 8 {
		return "1.8", nil
	}
	return fmt.Sprintf("%d", n), nil
}

func lookupString(get Lookup, name string) (string, error) {
	v, ok := get(name)
	if !ok {
		return "", fmt.Errorf("%s is not resolved", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s has type %T, want string", name, v)
	}
	return s, nil
}
