package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sysx/internal/output"
	"github.com/blackwell-systems/sysx/internal/store"
)

var historyFlagLast int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past cleanup runs from the local ledger",
	Long: `List recorded cleanup runs, newest first: when they ran, in which mode,
how many items were removed, how much space was freed, and whether
anything failed.

Pass a run ID to see that run's per-item outcomes. The ledger is
write-only observability: deleting it never changes what a clean does.`,
	Example: `  # The most recent runs
  sysx history

  # Everything ever recorded
  sysx history --last 0

  # Per-item detail of run 12
  sysx history 12`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyFlagLast, "last", 20, "number of runs to list, 0 for all")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}

	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer st.Close()

	if err := st.CreateSchema(); err != nil {
		return fmt.Errorf("failed to prepare ledger: %w", err)
	}

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run ID: %s (must be a number)", args[0])
		}
		return showRun(st, id)
	}

	runs, err := st.ListRuns(historyFlagLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	fmt.Print(output.RenderRuns(runs))
	if len(runs) == 0 {
		fmt.Println("Run 'sysx clean --dry-run' to preview a cleanup.")
		return nil
	}

	count, err := st.RunCount()
	if err != nil {
		return fmt.Errorf("failed to count runs: %w", err)
	}
	freed, err := st.TotalFreed()
	if err != nil {
		return fmt.Errorf("failed to sum freed bytes: %w", err)
	}

	fmt.Println()
	fmt.Printf("%d runs recorded · %s freed all-time\n", count, formatSize(freed))
	if len(runs) < count {
		fmt.Printf("Showing the latest %d. Run 'sysx history --last 0' for all.\n", len(runs))
	}

	return nil
}

// showRun prints one run's header followed by its per-item outcomes.
func showRun(st *store.Store, id int64) error {
	run, err := st.GetRun(id)
	if err != nil {
		return fmt.Errorf("%w\n\nRun 'sysx history' to see recorded runs", err)
	}
	outcomes, err := st.GetOutcomes(id)
	if err != nil {
		return fmt.Errorf("failed to get outcomes: %w", err)
	}

	categories := run.Categories
	if categories == "" {
		categories = "all"
	}

	fmt.Printf("Run %d · %s · %s\n", run.ID, run.Mode, run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Categories: %s · Duration: %s\n", categories, run.Duration.Round(time.Millisecond))
	fmt.Printf("Removed %d · freed %s · %d skipped · %d failed · %d refused\n",
		run.Removed, formatSize(run.FreedBytes), run.Skipped, run.Failed, run.Refused)
	if run.Interrupted {
		fmt.Println("Interrupted before the last item.")
	}
	fmt.Println()

	fmt.Print(output.RenderOutcomes(outcomes))
	return nil
}
