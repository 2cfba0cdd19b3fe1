package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sysx/internal/hostinfo"
	"github.com/blackwell-systems/sysx/internal/output"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show interfaces, traffic, connections, and routing",
	Long: `Report the host's network state: interfaces with their addresses and
link state, traffic counters since boot (global and per interface), a
capped listing of inet connections, the kernel routing table, the
default gateway, and the configured nameservers.

Connection listing may need elevated privileges; when denied, the
section says so instead of failing the report.`,
	Example: `  sysx network`,
	RunE:    runNetwork,
}

func init() {
	RootCmd.AddCommand(networkCmd)
}

func runNetwork(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	rep, err := hostinfo.CollectNetwork(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect network report: %w", err)
	}

	fmt.Print(output.RenderNetworkReport(rep))
	return nil
}
