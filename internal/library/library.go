package library

import (
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one library function.
type Entry struct {
	ID       int    `yaml:"id"`
	Function string `yaml:"function"`
	Pattern  string `yaml:"pattern"`
}

var iniLine = regexp.MustCompile(`(?im)^[ \t]*([0-9a-f]+):[ \t]*([^=;\n]+)(?:[ \t]*=[ \t]*([^;:\n]*))?`)

// ParseINI extracts the entries of a functions.ini text. Lines that do
// not start with a hex id are ignored.
func ParseINI(text string) []Entry {
	var entries []Entry
	for _, m := range iniLine.FindAllStringSubmatch(text, -1) {
		id, err := strconv.ParseInt(m[1], 16, 32)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			ID:       int(id),
			Function: strings.TrimSpace(m[2]),
			Pattern:  strings.TrimSpace(m[3]),
		})
	}
	return entries
}

// ParseYAML decodes a YAML list of entries.
func ParseYAML(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Function = strings.TrimSpace(entries[i].Function)
		entries[i].Pattern = strings.TrimSpace(entries[i].Pattern)
	}
	return entries, nil
}

// Parse picks the format from the name's extension: .yml and .yaml are
// YAML, anything else is functions.ini.
func Parse(name string, data []byte) ([]Entry, error) {
	if isYAML(name) {
		return ParseYAML(data)
	}
	return ParseINI(string(data)), nil
}

func isYAML(name string) bool {
	if i := strings.IndexAny(name, "?#"); i >= 0 && isURL(name) {
		name = name[:i]
	}
	name = strings.ToLower(name)
	return strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml")
}
