// Package logging builds the logrus logger shared by zbxreport components.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DebugEnv forces debug logging when set to any non-empty value.
const DebugEnv = "ZBXREPORT_DEBUG"

// Options controls logger construction.
type Options struct {
	Verbose bool
	Quiet   bool
	Output  io.Writer
}

// New returns a logger writing text lines with full timestamps.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	switch {
	case opts.Verbose || os.Getenv(DebugEnv) != "":
		logger.SetLevel(logrus.DebugLevel)
	case opts.Quiet:
		logger.SetLevel(logrus.WarnLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
