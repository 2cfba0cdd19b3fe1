package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/sysx/internal/oplog"
)

// getDataDir returns the sysx data directory, creating it when needed.
// Uses the --data-dir flag value or $HOME/.sysx by default. The directory
// holds the run ledger and the operation log; nothing in it feeds the
// cleaning pipeline.
func getDataDir() (string, error) {
	dir := dataDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(home, ".sysx")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

// getDBPath returns the run-ledger database path inside the data directory.
func getDBPath() (string, error) {
	dir, err := getDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sysx.db"), nil
}

// getLogPath returns the operation-log path inside the data directory.
func getLogPath() (string, error) {
	dir, err := getDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sysx.log"), nil
}

// openOpLog opens the operation log, degrading to a discard logger with a
// warning when it cannot be opened. Logging problems never block a command.
func openOpLog() *oplog.Logger {
	path, err := getLogPath()
	if err == nil {
		var lg *oplog.Logger
		if lg, err = oplog.Open(path); err == nil {
			return lg
		}
	}
	fmt.Fprintf(os.Stderr, "Warning: operation log unavailable: %v\n", err)
	return oplog.Discard()
}

// formatSize converts bytes to human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.0f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.0f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
