package hostinfo

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// runCommand executes a probe command and returns its trimmed stdout, or
// "" when the command is missing, fails, or prints nothing. Diagnostics
// degrade section by section instead of erroring out.
func runCommand(ctx context.Context, name string, args ...string) string {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// readLines returns the lines of a file, or nil when it cannot be read.
func readLines(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// firstN caps a line slice without panicking on short input.
func firstN(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[:n]
}

// lastN keeps the tail of a line slice.
func lastN(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

// truncateLine shortens overlong log lines for display.
func truncateLine(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
