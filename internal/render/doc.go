// Package render instantiates a template tree against a resolved context.
//
// Paths and file bodies go through the same substitution primitive. Tokens
// are written {{name}}; conditional blocks are {{#flag}}...{{/flag}},
// {{^flag}}...{{/flag}}, and {{#choice=value}}...{{/choice}}, keyed only on
// boolean or enum parameters and never nested. Files matching the template
// manifest's binary globs are copied byte for byte.
//
// A render either produces the complete tree or leaves the destination as it
// was: new destinations are written to a scratch directory and renamed into
// place, and existing ones are checked for collisions before anything is
// written.
package render
