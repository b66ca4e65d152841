package commands

import (
	"fmt"
	"io"

	"ptr89/internal/app"
)

// runPrettify prints the canonical form of --prettify.
func (r *runner) runPrettify(w *app.Wire, out io.Writer) error {
	text, err := w.Scan.Prettify(r.prettify)
	if err != nil {
		return err
	}
	if r.asJSON {
		return writeJSON(out, prettifyJSON{Pattern: text})
	}
	fmt.Fprintf(out, "Pattern: %s\n", text)
	return nil
}
