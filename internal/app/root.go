package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir string

	// Version info populated from main via SetVersionInfo.
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"

	// RootCmd is the root command for sysx
	RootCmd = &cobra.Command{
		Use:   "sysx",
		Short: "Host diagnostics and guarded filesystem cleanup",
		Long: `sysx aggregates host diagnostics and performs guarded cleanup of caches,
stale logs, temp files, and package-manager leftovers.

Cleanup is rule-driven: every category declares the paths it may touch,
candidates are classified by risk before anything happens, and a dry run
produces the exact report a real run would, minus the deletions. Locked,
open, and system-critical paths are never removed.

Commands:
  clean      remove (or preview with --dry-run) removable files
  system     host hardware and resource usage report
  network    interfaces, traffic, connections, and routing report
  security   firewall, ports, logins, and hardening report
  explain    why a given path would or would not be cleaned
  history    past cleanup runs from the local ledger
  doctor     check that sysx itself is ready to run

Examples:
  # Preview what cleanup would remove
  sysx clean --dry-run

  # Clean only user-level caches and the trash
  sysx clean --categories cache,trash

  # Ask why a path is (not) removable
  sysx explain /var/log/syslog.1

  # Review what past runs removed
  sysx history`,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("sysx: host diagnostics and guarded filesystem cleanup")
			fmt.Println()
			dbPath, err := getDBPath()
			if err == nil {
				if _, statErr := os.Stat(dbPath); statErr == nil {
					fmt.Println("Tip: Run 'sysx history' to review past cleanup runs.")
					fmt.Println("     Run 'sysx clean --dry-run' to preview the next one.")
					fmt.Println("     Run 'sysx --help' for all commands.")
					return nil
				}
			}
			fmt.Println("Run 'sysx clean --dry-run' to preview what cleanup would remove.")
			fmt.Println("Run 'sysx --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory for the run ledger and operation log (default: ~/.sysx)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
	RootCmd.Version = fmt.Sprintf("%s (%s) built %s", appVersion, appCommit, appDate)
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}
