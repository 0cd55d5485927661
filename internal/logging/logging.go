// Package logging configures the process logger. The terminal UI owns stdout
// and stderr while it runs, so log lines go to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Discard returns a logger that drops everything. Components use it when the
// caller does not hand them one.
func Discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Setup points the standard logger at path (stderr when empty) and returns a
// close func for the file.
func Setup(path string, verbose bool) (func() error, error) {
	logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	if path == "" {
		logrus.SetOutput(os.Stderr)
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)
	return f.Close, nil
}

// Silence routes the standard logger to io.Discard until the returned func
// is called.
func Silence() func() {
	prev := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	return func() { logrus.SetOutput(prev) }
}
