// Command liferec-check annotates school-record text from a file or stdin
package main

import (
	"errors"
	"fmt"
	"os"

	"liferec/internal/cli"
	perr "liferec/internal/platform/errors"
)

func main() {
	err := cli.Execute()
	switch {
	case err == nil:
		return
	case errors.Is(err, cli.ErrHitsFound):
		os.Exit(2)
	default:
		w := perr.WireFrom(err)
		if w.Field != "" {
			fmt.Fprintf(os.Stderr, "liferec-check: %s: %s\n", w.Field, w.Message)
		} else {
			fmt.Fprintf(os.Stderr, "liferec-check: %s\n", err)
		}
		os.Exit(1)
	}
}
