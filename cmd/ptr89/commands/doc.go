// Package commands defines the ptr89 CLI.
//
// Modes
//
//   - -p, --pattern    search patterns (repeatable)
//   - -x, --xref       search cross-references to an address (repeatable)
//   - --from-ini       resolve every function of a pattern library
//   - --prettify       print the canonical form of a pattern
//
// The first mode present wins, in the order above. Every mode except
// --prettify needs a fullflash file (-f).
//
// # Implementation
//
// Settings are layered by package config, with explicitly set flags on
// top. The root command then builds the dependency graph (logger, image,
// cache, scan service) before dispatching, and renders the reports as
// text or JSON. Any failure, and -h, end with a non-nil error so main can
// exit with status 1.
package commands
