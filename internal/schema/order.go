package schema

import "fmt"

// CheckOrder asserts that the catalog is well formed: names are unique, and
// every derivation reads only parameters declared before it. It runs once at
// startup; a failure is a defect in the catalog, never in user input.
func CheckOrder(specs []ParameterSpec) error {
	declared := make(map[string]bool, len(specs))
	all := make(map[string]bool, len(specs))
	for _, s := range specs {
		all[s.Name] = true
	}

	for _, s := range specs {
		if declared[s.Name] {
			return fmt.Errorf("parameter %q is declared more than once", s.Name)
		}
		if len(s.DependsOn) > 0 && s.Derive == nil {
			return fmt.Errorf("parameter %q declares dependencies but no derivation", s.Name)
		}
		for _, dep := range s.DependsOn {
			switch {
			case dep == s.Name:
				return &DependencyOrderError{Param: s.Name, Dependency: dep, Reason: "derivation reads itself"}
			case !all[dep]:
				return &DependencyOrderError{Param: s.Name, Dependency: dep, Reason: "dependency is not declared"}
			case !declared[dep]:
				return &DependencyOrderError{Param: s.Name, Dependency: dep, Reason: "dependency is declared later"}
			}
		}
		declared[s.Name] = true
	}

	return nil
}

// CheckCatalog runs CheckOrder on the built-in catalog, then verifies that
// every default satisfies its own rule and every ordering rule refers to
// declared integer parameters.
func CheckCatalog() error {
	specs := Describe()
	if err := CheckOrder(specs); err != nil {
		return err
	}
	for _, s := range specs {
		if s.Derived() {
			continue
		}
		if _, err := s.Parse(s.Default); err != nil {
			return fmt.Errorf("default for %q is invalid: %w", s.Name, err)
		}
	}
	for _, o := range Orderings() {
		for _, name := range o.Params {
			spec, ok := Find(specs, name)
			if !ok {
				return fmt.Errorf("ordering %q references undeclared parameter %q", o.Name, name)
			}
			if spec.Kind != KindInteger {
				return fmt.Errorf("ordering %q references non-integer parameter %q", o.Name, name)
			}
		}
	}
	return nil
}
