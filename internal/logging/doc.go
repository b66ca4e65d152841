// Package logging builds the zerolog logger used across ptr89.
//
// Text output goes through ConsoleWriter, which colours lines by level.
// Debug lines carrying a "depth" field are indented so nested sub-pattern
// traces read as a tree.
package logging
