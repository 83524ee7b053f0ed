// Package logger owns the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Options configures the global logger
type Options struct {
	Level  string    // logrus level name, default "info"
	Format string    // "text" or "json"
	Output io.Writer // default os.Stdout
}

// Init configures the global logger. Call it once from main before anything logs.
// An unknown level falls back to info and is reported once at warn level.
func Init(opts Options) {
	l := logrus.New()

	badLevel := false
	level, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
		badLevel = opts.Level != ""
	}
	l.SetLevel(level)

	if strings.EqualFold(opts.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	if opts.Output != nil {
		l.SetOutput(opts.Output)
	} else {
		l.SetOutput(os.Stdout)
	}

	Log = l
	if badLevel {
		Log.WithField("level", opts.Level).Warn("unknown log level, using info")
	}
}
