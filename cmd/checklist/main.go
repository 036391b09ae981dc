package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0
	ExitRuntime = 1 // the program failed while running
	ExitConfig  = 2 // bad flags or configuration
)

// configError marks bad flags, arguments or config: failures that happen
// before any checklist exists.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}
	return ExitRuntime
}
