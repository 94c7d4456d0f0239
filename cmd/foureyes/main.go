package main

import (
	"log/slog"

	"github.com/foureyes/foureyes/pkg/foureyes"
)

func main() {

	//you may do your own logger setup here or use this default one with slog
	foureyes.SetupLogger()

	if err := foureyes.Start(nil); err != nil {
		slog.Error("Server exited with error", "error", err)
	}
}
