// Package config loads ptr89 settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// PTR89_* environment variables (PTR89_SEARCH_BASE sets search.base),
// then explicit command-line overrides.
package config
