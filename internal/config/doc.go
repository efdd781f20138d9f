// Package config loads, normalizes, and validates relnotes configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GITHUB_TOKEN. The Config type centralizes every knob the generator and CLI
// need, so template/metadata/output directories, the GitHub credential, and
// the lookup retry budget are resolved and checked once at startup.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
