// Package config loads and validates hk configuration.
//
// Two files are involved: the repository-local pipeline definition
// (.hk.yaml, the list of hooks to run and their selection rules) and
// the optional per-user tool configuration
// (~/.config/hk/config.toml, ambient settings like color mode and the
// cache directory). Pipeline validation happens entirely at load time
// so that pattern errors surface before any hook executes.
package config
