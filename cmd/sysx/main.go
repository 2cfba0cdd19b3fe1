package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/blackwell-systems/sysx/internal/app"
	"github.com/blackwell-systems/sysx/internal/cleanup"
)

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app.SetVersionInfo(version, commit, date)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var fatal *cleanup.FatalError
		switch {
		case errors.As(err, &fatal):
			// Nothing was attempted: bad rules, missing privilege, and the like.
			os.Exit(2)
		case errors.Is(err, cleanup.ErrInterrupted):
			os.Exit(130)
		default:
			os.Exit(1)
		}
	}
}
