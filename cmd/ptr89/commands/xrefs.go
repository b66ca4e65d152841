package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"ptr89/internal/app"
	"ptr89/internal/config"
)

// runXRefs searches references to every -x address.
func (r *runner) runXRefs(ctx context.Context, w *app.Wire, out io.Writer) error {
	targets := make([]uint32, 0, len(r.xrefs))
	for _, s := range r.xrefs {
		addr, err := config.ParseBase(s)
		if err != nil {
			return fmt.Errorf("Invalid x-ref address: %s", s)
		}
		targets = append(targets, addr)
	}

	start := time.Now()
	reports, err := w.Scan.FindXRefs(ctx, w.Memory, targets, w.Settings.Search.Limit)
	if err != nil {
		return err
	}

	if r.asJSON {
		doc := xrefsJSON{Results: []xrefJSON{}}
		for _, rep := range reports {
			for _, ref := range rep.Refs {
				doc.Results = append(doc.Results, xrefJSON{
					Address: ref.Address,
					Offset:  ref.Offset,
					Target:  rep.Target,
					Type:    xrefTypeJSON(ref.Type),
				})
			}
		}
		doc.Elapsed = elapsedMS(start)
		return writeJSON(out, doc)
	}

	for _, rep := range reports {
		fmt.Fprintf(out, "Searching x-refs for %08X\n", rep.Target)
		fmt.Fprintf(out, "Found %d matches:\n", len(rep.Refs))
		for _, ref := range rep.Refs {
			fmt.Fprintf(out, "  %08X (%s)\n", ref.Address, ref.Type)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Search done in %d ms\n", elapsedMS(start))
	return nil
}
