// ABOUTME: Structured logger on sirupsen/logrus with optional rotating file output
// ABOUTME: Implements the core Logger interface used by every service and middleware

package logrus

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"conversion-roast-api/pkg/config"
)

// Logger implements the Logger interface using logrus
type Logger struct {
	entry *logrus.Logger
	file  *lumberjack.Logger
}

// New creates a logger writing to stdout and, when cfg.File is set, to a rotating file
func New(cfg config.LoggingConfig) (*Logger, error) {
	var file *lumberjack.Logger
	var out io.Writer = os.Stdout
	if cfg.File != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	l, err := NewWithWriter(out, cfg)
	if err != nil {
		return nil, err
	}
	l.file = file
	return l, nil
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer, cfg config.LoggingConfig) (*Logger, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return &Logger{entry: log}, nil
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Error(msg)
}

// Close flushes and closes the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
