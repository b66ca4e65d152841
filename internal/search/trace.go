package search

import "github.com/rs/zerolog"

// tracer writes debug lines tagged with the sub-pattern nesting depth.
// The zero value is silent.
type tracer struct {
	log   *zerolog.Logger
	depth int
}

func newTracer(log *zerolog.Logger) tracer {
	if log == nil || log.GetLevel() > zerolog.DebugLevel {
		return tracer{}
	}
	return tracer{log: log}
}

func (t tracer) enabled() bool { return t.log != nil }

func (t tracer) nest() tracer {
	t.depth++
	return t
}

func (t tracer) printf(format string, args ...any) {
	if t.log == nil {
		return
	}
	t.log.Debug().Int("depth", t.depth).Msgf(format, args...)
}
