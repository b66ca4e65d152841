package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
)

// ConsoleWriter renders zerolog JSON events as coloured text.
type ConsoleWriter struct {
	Out     io.Writer
	NoColor bool

	buffer strings.Builder
	lock   sync.Mutex
}

func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{Out: out}
}

// fields that are rendered in the line itself rather than as key=value.
var builtin = map[string]bool{
	"level": true, "message": true, "error": true, "depth": true, "time": true,
}

func (w *ConsoleWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	var evt map[string]any
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	if err := d.Decode(&evt); err != nil {
		return 0, eris.Wrapf(err, "cannot decode event: %s", p)
	}

	w.buffer.Reset()
	switch evt["level"] {
	case "fatal", "panic", "error":
		w.buffer.WriteString("[red]")
	case "warn":
		w.buffer.WriteString("[yellow]")
	case "debug", "trace":
		w.buffer.WriteString("[blue]")
	default:
		w.buffer.WriteString("[green]")
	}

	if depth, ok := evt["depth"].(json.Number); ok {
		if d, err := depth.Int64(); err == nil && d > 0 {
			w.buffer.WriteString(strings.Repeat("  ", int(d)))
		}
	}

	if evt["level"] == "error" {
		w.buffer.WriteString("Error: ")
	}
	if msg, ok := evt["message"].(string); ok {
		w.buffer.WriteString(msg)
	}

	keys := make([]string, 0, len(evt))
	for k := range evt {
		if !builtin[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&w.buffer, " %s=%v", k, evt[k])
	}

	if details, ok := evt["error"]; ok {
		w.buffer.WriteString("\n")
		w.buffer.WriteString(fmt.Sprint(details))
	}

	w.buffer.WriteString("[reset]\n")

	c := colorstring.Colorize{Colors: colorstring.DefaultColors, Disable: w.NoColor}
	if _, err := io.WriteString(w.Out, c.Color(w.buffer.String())); err != nil {
		return 0, err
	}
	return len(p), nil
}
