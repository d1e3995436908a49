// Package logging holds the logger shared by playlang packages.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const (
	// LogFormatText is the human readable format.
	LogFormatText = "text"

	// LogFormatJSON prints one JSON object per line.
	LogFormatJSON = "json"
)

// DefaultLogger is the base logger of all playlang packages.
// Packages derive their loggers with DefaultLogger.WithField(logfields.LogSubsys, ...),
// so changing its level or output affects all of them.
var DefaultLogger = initializeDefaultLogger()

func initializeDefaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(newTextFormatter())
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

func newTextFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	}
}

// SetLogLevel updates the level of DefaultLogger.
func SetLogLevel(level logrus.Level) {
	DefaultLogger.SetLevel(level)
}

// SetLogLevelName parses level name (trace, debug, info, warn, error) and updates DefaultLogger.
func SetLogLevelName(name string) error {
	level, e := logrus.ParseLevel(name)
	if e != nil {
		return e
	}

	SetLogLevel(level)
	return nil
}

// SetLogFormat switches DefaultLogger between LogFormatText and LogFormatJSON.
func SetLogFormat(format string) error {
	switch format {
	case LogFormatText:
		DefaultLogger.SetFormatter(newTextFormatter())
	case LogFormatJSON:
		DefaultLogger.SetFormatter(&logrus.JSONFormatter{DisableTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

// SetOutput redirects DefaultLogger.
func SetOutput(w io.Writer) {
	DefaultLogger.SetOutput(w)
}
