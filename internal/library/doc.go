// Package library reads pattern libraries: lists of numbered functions,
// each with the pattern that locates it in a firmware image.
//
// Two formats are understood. The functions.ini format has one entry per
// line, "ID: Name = pattern ; comment", with ID in hex. The YAML format is
// a list of {id, function, pattern} maps. Libraries are read from a local
// path or fetched over HTTP.
package library
