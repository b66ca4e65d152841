// Package scan runs the searches behind each ptr89 mode.
//
// Pattern lists, x-ref targets and library entries are searched in
// parallel by a bounded worker group over the shared read-only image.
// Reports come back in input order. When a ResultCache is configured,
// pattern results are looked up and stored by image digest and search
// parameters.
package scan
