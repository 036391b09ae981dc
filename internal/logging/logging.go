// Package logging builds the logrus logger shared by the controller and the
// presentation layers. The TUI owns the terminal, so output goes to a file
// or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger at level writing to path. An empty path discards
// output. The returned closer releases the file, if any.
func New(level, path string, debug bool) (*logrus.Logger, io.Closer, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	if debug {
		lvl = logrus.DebugLevel
	}
	l.SetLevel(lvl)

	if path == "" {
		l.SetOutput(io.Discard)
		return l, nopCloser{}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l.SetOutput(f)
	return l, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
