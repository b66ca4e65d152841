package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"ptr89/internal/app"
	"ptr89/internal/search"
)

// unresolvedValue marks a library slot that has no address.
const unresolvedValue = 0xFFFFFFFF

// runLibrary resolves every function of the --from-ini library.
func (r *runner) runLibrary(ctx context.Context, w *app.Wire, out io.Writer) error {
	start := time.Now()
	entries, err := w.Library.Load(ctx, r.fromINI)
	if err != nil {
		return err
	}
	w.Log.Debug().Str("library", r.fromINI).Int("entries", len(entries)).Msg("library loaded")

	svc, done := r.withProgress(w.Scan, len(entries), "resolving")
	reports, err := svc.ResolveLibrary(ctx, w.Memory, entries)
	done()
	if err != nil {
		return err
	}

	if r.asJSON {
		doc := patternsJSON{Patterns: make([]patternJSON, 0, len(reports))}
		for _, rep := range reports {
			id := rep.Entry.ID
			item := patternJSON{
				Function: rep.Entry.Function,
				ID:       &id,
				Pattern:  rep.Entry.Pattern,
				Results:  []resultJSON{},
			}
			if rep.Err != nil {
				item.Error = rep.Err.Error()
			}
			if rep.Resolved {
				item.Results = toResultsJSON(rep.Type, []search.Result{rep.Result})
			}
			doc.Patterns = append(doc.Patterns, item)
		}
		doc.Elapsed = elapsedMS(start)
		return writeJSON(out, doc)
	}

	resolved := 0
	for _, rep := range reports {
		id := rep.Entry.ID
		if id > 0 && id&0xF == 0 {
			fmt.Fprintln(out)
		}
		if rep.Resolved && rep.Result.Value != unresolvedValue {
			resolved++
			fmt.Fprintf(out, "%04X: 0x%08X   ;%4X: %s\n", id*4, rep.Result.Value, id, rep.Entry.Function)
		} else {
			fmt.Fprintf(out, ";%03X:              ;%4X: %s\n", id*4, id, rep.Entry.Function)
		}
	}
	w.Log.Debug().Int("resolved", resolved).Int("total", len(reports)).Msg("library resolved")
	return nil
}
