// Package resolve turns raw user input into a validated, immutable template
// context. Parameters are resolved in schema declaration order so derived
// parameters see their dependencies; every violated rule is collected into a
// single ValidationError. Toolchain mismatches found in the capability
// report are advisory warnings unless strict mode is requested.
package resolve
