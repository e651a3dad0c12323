// Package cli defines the Cobra command tree for the droidgen CLI. Each file
// registers one top-level command with the root command. Commands delegate to
// internal packages for generation logic and only handle flags, input
// collection, and output formatting.
package cli
