// Package logs reads the relnotes log file for the `relnotes logs` command.
//
// Last returns the final lines with bounded memory. Follow streams lines
// appended after an offset until the context is cancelled.
package logs
