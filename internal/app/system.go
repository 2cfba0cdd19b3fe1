package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sysx/internal/hostinfo"
	"github.com/blackwell-systems/sysx/internal/output"
)

// collectTimeout bounds one diagnostic collection, probe commands
// included. Sections that miss the window render as unavailable.
const collectTimeout = 15 * time.Second

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Show host hardware and resource usage",
	Long: `Report the host's identity and resource usage: OS, kernel, and uptime,
CPU model and utilization, load averages, memory and swap, mounted
filesystems with usage, block I/O counters, and enumerated PCI/USB
hardware where the tools to list it exist.

The report is read-only and shares nothing with the cleanup pipeline.
Sections the process cannot query are left out rather than failing the
whole report.`,
	Example: `  sysx system`,
	RunE:    runSystem,
}

func init() {
	RootCmd.AddCommand(systemCmd)
}

func runSystem(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	rep, err := hostinfo.CollectSystem(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect system report: %w", err)
	}

	fmt.Print(output.RenderSystemReport(rep))
	return nil
}
