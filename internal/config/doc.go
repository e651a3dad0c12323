// Package config manages user-level settings stored at ~/.droidgen/config.yaml.
// Settings can also be supplied through DROIDGEN_* environment variables; the
// generator reads them once per run through Current.
package config
