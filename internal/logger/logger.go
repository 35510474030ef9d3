// Package logger configures the process-wide logrus logger from the
// logging section of the configuration.
package logger

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Init sets the level and formatter of the standard logrus logger. Unknown
// levels fall back to info; any format other than "json" uses text output.
func Init(level string, format string) {
	Setup(log.StandardLogger(), os.Stderr, level, format)
}

// Setup applies level and format to l and points it at out.
func Setup(l *log.Logger, out io.Writer, level string, format string) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	l.SetOutput(out)

	if strings.ToLower(format) == "json" {
		l.SetFormatter(&log.JSONFormatter{})
	} else {
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
