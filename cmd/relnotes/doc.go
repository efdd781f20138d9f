// Package main hosts the relnotes CLI entrypoint and command graph.
//
// The Cobra-based command tree renders release-notes pages from templates
// and channel metadata, resolves individual CVE identifiers against the
// GitHub issue search, manages the local lookup cache, and runs readiness
// checks. Configuration resolution and logger setup live here so the
// internal packages stay free of CLI concerns.
package main
