// Package preflight provides readiness checks for the directories, input
// files, and GitHub quota that a generate run depends on.
//
// The CLI "relnotes doctor" command runs RunAll and renders the results.
// The generate command runs the local checks before taking the output lock
// so that a missing metadata directory fails fast with a readable message.
package preflight
