package commands

import (
	"encoding/json"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"ptr89/internal/pattern"
	"ptr89/internal/search"
	scansvc "ptr89/internal/services/scan"
)

// JSON field names are kept in alphabetical order, as the reports have
// always been emitted.

type resultJSON struct {
	Address uint32 `json:"address"`
	Offset  uint32 `json:"offset"`
	Type    string `json:"type"`
	Value   uint32 `json:"value"`
}

type patternJSON struct {
	Error    string       `json:"error,omitempty"`
	Function string       `json:"function,omitempty"`
	ID       *int         `json:"id,omitempty"`
	Pattern  string       `json:"pattern"`
	Results  []resultJSON `json:"results"`
}

type patternsJSON struct {
	Elapsed  int64         `json:"elapsed"`
	Patterns []patternJSON `json:"patterns"`
}

type xrefJSON struct {
	Address uint32 `json:"address"`
	Offset  uint32 `json:"offset"`
	Target  uint32 `json:"target"`
	Type    string `json:"type"`
}

type xrefsJSON struct {
	Elapsed int64      `json:"elapsed"`
	Results []xrefJSON `json:"results"`
}

type prettifyJSON struct {
	Pattern string `json:"pattern"`
}

func toResultsJSON(typ pattern.Type, results []search.Result) []resultJSON {
	out := make([]resultJSON, 0, len(results))
	for _, res := range results {
		out = append(out, resultJSON{
			Address: res.Address,
			Offset:  res.Offset,
			Type:    typ.String(),
			Value:   res.Value,
		})
	}
	return out
}

// xrefTypeJSON names x-ref kinds in JSON, where a call is just "branch".
func xrefTypeJSON(t search.XRefType) string {
	if t == search.XRefBranchCall {
		return "branch"
	}
	return t.String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func elapsedMS(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

// withProgress attaches a progress bar of n steps to svc when --progress
// is set.
func (r *runner) withProgress(svc *scansvc.Service, n int, desc string) (*scansvc.Service, func()) {
	if !r.progress || n == 0 {
		return svc, func() {}
	}
	bar := progressbar.NewOptions(n,
		progressbar.OptionSetWriter(r.stderr),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return svc.WithProgress(bar), func() { _ = bar.Finish() }
}
