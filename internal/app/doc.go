// Package app wires application dependencies for the CLI.
//
// It builds the logger, loads the firmware image, opens the result cache
// and constructs the scan service from Config, exposing them via the Wire
// struct for commands to use.
package app
