// Package store persists ptr89 output.
//
// WriteFile replaces report files atomically. Cache keeps pattern search
// results in SQLite, keyed by the firmware digest and the search
// parameters, so repeated runs over the same dump skip the scan.
package store
