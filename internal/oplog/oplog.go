// Package oplog writes the rotating operation log kept under the data
// directory. Cleanup commands append scan counts, plan totals, and one
// line per outcome so there is an audit trail of what a run actually did;
// nothing in the pipeline ever reads the log back.
package oplog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation policy for the operation log. Sizes are megabytes, ages days.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 30
)

// Logger is an append-only, level-tagged log backed by a rotating file.
type Logger struct {
	l   *log.Logger
	out io.Closer
}

// Open appends to the log at path, creating it and its parent directory
// when needed. Rotation is handled by the underlying writer.
func Open(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	return &Logger{
		l:   log.New(lj, "", log.LstdFlags),
		out: lj,
	}, nil
}

// Discard returns a logger that drops everything. Commands fall back to
// it when the log file cannot be opened, so a broken log never blocks an
// operation.
func Discard() *Logger {
	return &Logger{l: log.New(io.Discard, "", 0)}
}

// Infof records routine operation detail.
func (l *Logger) Infof(format string, args ...any) {
	l.l.Printf("[INFO] "+format, args...)
}

// Warnf records conditions worth a look that did not stop anything.
func (l *Logger) Warnf(format string, args ...any) {
	l.l.Printf("[WARN] "+format, args...)
}

// Errorf records failures.
func (l *Logger) Errorf(format string, args ...any) {
	l.l.Printf("[ERROR] "+format, args...)
}

// Close closes the underlying file. Safe to call on a Discard logger.
func (l *Logger) Close() error {
	if l.out == nil {
		return nil
	}
	return l.out.Close()
}
