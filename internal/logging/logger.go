package logging

import (
	"io"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Options selects the logger's verbosity and output shape.
type Options struct {
	Level   string // zerolog level name
	Format  string // "text" or "json"
	Out     io.Writer
	NoColor bool
}

var errorStacks atomic.Bool

func init() {
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return eris.ToString(err, errorStacks.Load())
	}
}

// New returns a logger writing to opts.Out. At debug level and below,
// logged errors include their eris stack.
func New(opts Options) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	errorStacks.Store(level <= zerolog.DebugLevel)

	var out io.Writer = opts.Out
	if opts.Format != "json" {
		cw := NewConsoleWriter(opts.Out)
		cw.NoColor = opts.NoColor
		out = cw
	}
	return zerolog.New(out).Level(level), nil
}
