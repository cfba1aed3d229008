// Package config handles configuration loading, parsing, and validation
// from various sources (defaults, an optional YAML file, environment
// variables). The defaults reproduce the tool's historical constants, so a
// run with nothing configured but an API key behaves like it always did.
package config
