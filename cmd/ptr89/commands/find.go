package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"ptr89/internal/app"
	"ptr89/internal/pattern"
)

// runPatterns searches every -p pattern.
func (r *runner) runPatterns(ctx context.Context, w *app.Wire, out io.Writer) error {
	start := time.Now()
	svc, done := r.withProgress(w.Scan, len(r.patterns), "searching")
	reports, err := svc.FindPatterns(ctx, w.Memory, r.patterns, w.Settings.Search.Limit)
	done()
	if err != nil {
		return err
	}

	if r.asJSON {
		doc := patternsJSON{Patterns: make([]patternJSON, 0, len(reports))}
		for _, rep := range reports {
			doc.Patterns = append(doc.Patterns, patternJSON{
				Pattern: rep.Input,
				Results: toResultsJSON(rep.Expr.Type, rep.Results),
			})
		}
		doc.Elapsed = elapsedMS(start)
		return writeJSON(out, doc)
	}

	for _, rep := range reports {
		fmt.Fprintf(out, "Pattern: '%s'\n", rep.Input)
		fmt.Fprintf(out, "Found %d matches:\n", len(rep.Results))
		for _, res := range rep.Results {
			if rep.Expr.Type == pattern.TypeStaticValue {
				fmt.Fprintf(out, "  %08X (static value)\n", res.Value)
				continue
			}
			fmt.Fprintf(out, "  %08X: %08X (%s)\n", res.Address, res.Value, rep.Expr.Type)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Search done in %d ms\n", elapsedMS(start))
	return nil
}
