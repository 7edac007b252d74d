package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/interpose/pkg/errors"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.UserMessage(err))
		os.Exit(exitCodeForError(err))
	}
}
