// Package logger provides the logrus-backed structured logger used across the
// service. A Logger is an entry, so fields attached with WithField or
// WithComponent are carried by every line it writes.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LoggingConfig selects level, format and destination.
//
// Format is "text" or "json". Output is "stdout", "stderr" or "file"; for
// "file" the log is appended to <FilePrefix>-<date>.log in the working
// directory.
type LoggingConfig struct {
	Level      string
	Format     string
	Output     string
	FilePrefix string
}

// Logger wraps a logrus entry. Loggers derived with WithComponent share the
// root's output, so Close on any of them closes the log file.
type Logger struct {
	*logrus.Entry
	closer *onceCloser
}

type onceCloser struct {
	once sync.Once
	c    io.Closer
	err  error
}

func (o *onceCloser) Close() error {
	o.once.Do(func() { o.err = o.c.Close() })
	return o.err
}

// New builds a logger from cfg. Unknown levels fall back to info and unknown
// formats to text.
func New(cfg LoggingConfig) *Logger {
	base := logrus.New()

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}

	log := &Logger{Entry: logrus.NewEntry(base)}

	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "", "stdout":
		base.SetOutput(os.Stdout)
	case "stderr":
		base.SetOutput(os.Stderr)
	case "file":
		f, err := openLogFile(cfg.FilePrefix)
		if err != nil {
			base.SetOutput(os.Stdout)
			log.WithError(err).Warn("open log file; writing to stdout")
		} else {
			base.SetOutput(f)
			log.closer = &onceCloser{c: f}
		}
	default:
		base.SetOutput(os.Stdout)
		log.Warnf("unknown log output %q; writing to stdout", cfg.Output)
	}

	return log
}

// NewDefault returns an info-level text logger tagged with component.
func NewDefault(component string) *Logger {
	return New(LoggingConfig{Level: "info", Format: "text"}).WithComponent(component)
}

// NewWriter returns a logger writing to w; used by tests to capture output.
func NewWriter(w io.Writer, level, format string) *Logger {
	log := New(LoggingConfig{Level: level, Format: format})
	log.Logger.SetOutput(w)
	return log
}

// WithComponent returns a child logger tagging every entry with component.
func (l *Logger) WithComponent(component string) *Logger {
	if strings.TrimSpace(component) == "" {
		return l
	}
	return &Logger{Entry: l.Entry.WithField("component", component), closer: l.closer}
}

// Close releases the log file opened for the "file" output. It is a no-op for
// stdout and stderr.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func openLogFile(prefix string) (*os.File, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "storefront"
	}
	name := fmt.Sprintf("%s-%s.log", prefix, time.Now().UTC().Format("2006-01-02"))
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
}
