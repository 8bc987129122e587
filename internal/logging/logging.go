// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Format names a log output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Setup configures the standard logrus logger with the given level and
// format, writing to stderr.
func Setup(level string, format Format) error {
	return SetupWriter(os.Stderr, level, format)
}

// SetupWriter is Setup with an explicit output.
func SetupWriter(w io.Writer, level string, format Format) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "", FormatText:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case FormatJSON:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q (must be text or json)", format)
	}

	logrus.SetLevel(lvl)
	logrus.SetOutput(w)
	return nil
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}
