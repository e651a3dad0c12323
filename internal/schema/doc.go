// Package schema declares the fixed catalog of parameters recognized by the
// generator: their kinds, defaults, validation rules, and derivation rules.
// Declaration order is both the prompt order and the derivation order; a
// derived parameter may only read parameters declared before it, which
// CheckOrder asserts at startup.
package schema
