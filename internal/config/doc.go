// Package config loads YAML configuration for the server and loader
// binaries, with ${ENV} substitution, defaults, and validation.
package config
