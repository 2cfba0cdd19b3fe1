package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/sysx/internal/cleanup"
	"github.com/blackwell-systems/sysx/internal/oplog"
	"github.com/blackwell-systems/sysx/internal/output"
	"github.com/blackwell-systems/sysx/internal/rules"
	"github.com/blackwell-systems/sysx/internal/store"
)

var (
	cleanFlagDryRun  bool
	cleanFlagYes     bool
	cleanFlagVerbose bool
	cleanCategories  []string
)

// cleanRuleSet supplies the rule set a clean run executes. Tests swap it
// for sets pointing at temporary directories.
var cleanRuleSet = rules.Default

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove caches, stale logs, temp files, and package leftovers",
	Long: `Scan the rule-defined cleanup locations, build a removal plan, and apply it.

Every candidate is classified before anything is removed:
  safe       removed without ceremony
  caution    stays in the plan but needs explicit confirmation
  dangerous  never removed (lock present, held open, or protected path)

A dry run produces the same report a real run would, with every item
marked skipped (dry-run), and touches nothing. Real runs remove items
one at a time; a failure on one item is recorded and the run continues
with the next.

Categories:
  cache              user application caches and thumbnails
  logs               rotated and compressed system logs (root)
  temp-files         stale entries under /tmp and /var/tmp
  package-leftovers  downloaded package archives (root, caution)
  trash              files already in the desktop trash
  crash-reports      crash dumps and core files (root)

Exit codes:
  0    full success, including "nothing to clean"
  1    at least one item could not be removed
  2    the scan could not run (invalid rules, missing privileges)
  130  interrupted`,
	Example: `  # Preview everything cleanup would remove
  sysx clean --dry-run

  # Clean user caches and trash without prompting
  sysx clean --categories cache,trash --yes

  # Everything, including the root-only categories
  sudo sysx clean`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanFlagDryRun, "dry-run", false, "preview the run without removing anything")
	cleanCmd.Flags().BoolVar(&cleanFlagYes, "yes", false, "skip the confirmation prompt")
	cleanCmd.Flags().BoolVar(&cleanFlagVerbose, "verbose", false, "list the paths the scan could not read")
	cleanCmd.Flags().StringSliceVar(&cleanCategories, "categories", nil, "restrict the run to these categories (comma-separated)")

	RootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	lg := openOpLog()
	defer lg.Close()

	set, err := cleanRuleSet().ForCategories(cleanCategories)
	if err != nil {
		ferr := &cleanup.FatalError{Stage: "rules", Err: err}
		lg.Errorf("%v", ferr)
		return ferr
	}

	mode := cleanup.Apply
	if cleanFlagDryRun {
		mode = cleanup.DryRun
	}

	// An apply run must be able to mutate everything the rule set covers;
	// fail fast before scanning when it cannot.
	if mode == cleanup.Apply {
		if err := cleanup.Preflight(set); err != nil {
			lg.Errorf("%v", err)
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Infof("clean started: mode=%s categories=%s", mode, categoriesLabel())

	plan, err := buildCleanPlan(ctx, set, lg)
	if err != nil {
		lg.Errorf("scan failed: %v", err)
		return err
	}

	fmt.Print(output.RenderPlan(plan))
	if cleanFlagVerbose {
		fmt.Print(output.RenderSkips(plan.Skips))
	}
	if plan.Empty() {
		return nil
	}
	fmt.Println()

	if mode == cleanup.Apply && !cleanFlagYes {
		if !confirmClean(plan) {
			fmt.Println("Aborted.")
			lg.Infof("clean aborted at confirmation")
			return nil
		}
	}

	rep := executePlan(ctx, set, plan, mode)
	fmt.Print(output.RenderReport(rep))

	logReport(lg, rep)
	recordRun(rep, set)

	sum := rep.Summary()
	switch {
	case rep.Interrupted:
		return cleanup.ErrInterrupted
	case sum.Failed > 0:
		return cleanup.ErrPartialFailure
	default:
		return nil
	}
}

// buildCleanPlan runs the read-only stages: locate, classify, plan.
func buildCleanPlan(ctx context.Context, set rules.Set, lg *oplog.Logger) (*cleanup.Plan, error) {
	isTTY := isatty.IsTerminal(os.Stdout.Fd())
	var spinner *output.Spinner
	if isTTY {
		spinner = output.NewSpinner("Scanning for removable files...")
		spinner.Start()
	} else {
		fmt.Println("Scanning for removable files...")
	}

	scan, err := cleanup.NewLocator(set).Scan()
	if err != nil {
		if spinner != nil {
			spinner.Stop()
		}
		return nil, err
	}

	scan.Candidates = cleanup.NewClassifier(set, cleanup.CollectOpenFiles(ctx)).Classify(scan.Candidates)
	plan := cleanup.BuildPlan(set, scan)

	if spinner != nil {
		spinner.StopWithMessage(fmt.Sprintf("✓ Scan complete: %d items, %s",
			plan.TotalCount, formatSize(plan.TotalBytes)))
	}

	lg.Infof("scan: %d candidates, %d unreadable; plan: %d items / %s, %d dangerous excluded",
		len(scan.Candidates), len(scan.Skips), plan.TotalCount, formatSize(plan.TotalBytes), plan.ExcludedCount)
	for _, s := range scan.Skips {
		lg.Warnf("unreadable: %s (%s)", s.Path, s.Reason)
	}

	return plan, nil
}

// executePlan runs the executor over the plan. A real run watches the
// scanned roots for activity and drives a progress bar; a dry run needs
// neither.
func executePlan(ctx context.Context, set rules.Set, plan *cleanup.Plan, mode cleanup.Mode) *cleanup.Report {
	if mode == cleanup.DryRun {
		return cleanup.NewExecutor(set, nil).Run(ctx, plan, mode)
	}

	var guard *cleanup.Guard
	if g, err := cleanup.NewGuard(planRoots(plan)); err == nil {
		guard = g
		defer guard.Close()
	} else {
		fmt.Fprintf(os.Stderr, "Warning: activity guard unavailable: %v\n", err)
	}

	ex := cleanup.NewExecutor(set, guard)
	progress := output.NewProgress(plan.TotalCount, "Removing")
	ex.OnOutcome = func(cleanup.Outcome) { progress.Increment() }

	rep := ex.Run(ctx, plan, mode)
	progress.Finish()
	fmt.Println()
	return rep
}

// planRoots returns the unique resolved rule bases the plan draws from;
// these are the directories the activity guard watches during an apply.
func planRoots(plan *cleanup.Plan) []string {
	seen := make(map[string]bool)
	var roots []string
	for _, item := range plan.Items() {
		if item.RuleBase == "" || seen[item.RuleBase] {
			continue
		}
		seen[item.RuleBase] = true
		roots = append(roots, item.RuleBase)
	}
	return roots
}

// confirmClean prompts before a real run. Plans containing caution items
// require the literal string "yes"; otherwise y/N suffices.
func confirmClean(plan *cleanup.Plan) bool {
	reader := bufio.NewReader(os.Stdin)

	if plan.CautionCount > 0 {
		fmt.Printf("WARNING: %d of these items are marked caution (files a package manager may still need).\n", plan.CautionCount)
		fmt.Println("Removal cannot be undone.")
		fmt.Print("Type \"yes\" to confirm (or press Enter to cancel): ")

		response, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		return strings.TrimSpace(response) == "yes"
	}

	fmt.Printf("Remove %d items (%s)? [y/N]: ", plan.TotalCount, formatSize(plan.TotalBytes))

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// logReport appends one operation-log line per outcome plus the summary.
func logReport(lg *oplog.Logger, rep *cleanup.Report) {
	for _, o := range rep.Outcomes {
		switch o.Result {
		case cleanup.ResultRemoved:
			lg.Infof("removed %s (%s)", o.Item.Path, formatSize(o.Item.Size))
		case cleanup.ResultFailed:
			lg.Errorf("failed %s: %s", o.Item.Path, o.Reason)
		default:
			lg.Infof("%s %s: %s", o.Result, o.Item.Path, o.Reason)
		}
	}

	sum := rep.Summary()
	lg.Infof("clean finished: mode=%s removed=%d skipped=%d failed=%d refused=%d freed=%s interrupted=%t",
		rep.Mode, sum.Removed, sum.Skipped, sum.Failed, sum.Refused, formatSize(sum.FreedBytes), rep.Interrupted)
}

// recordRun writes the run and its outcomes to the ledger. Ledger
// problems are warnings; they never change the outcome of a clean.
func recordRun(rep *cleanup.Report, set rules.Set) {
	// An empty categories column means "all" in the ledger; only narrowed
	// runs record the selection.
	var cats []rules.Category
	if len(cleanCategories) > 0 {
		cats = set.Categories()
	}

	dbPath, err := getDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
		return
	}

	st, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
		return
	}
	defer st.Close()

	if err := st.CreateSchema(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
		return
	}

	run, outcomes := store.NewRunFromReport(rep, cats)
	if _, err := st.InsertRun(run, outcomes); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
	}
}

// categoriesLabel names the requested category selection for log lines.
func categoriesLabel() string {
	if len(cleanCategories) == 0 {
		return "all"
	}
	return strings.Join(cleanCategories, ",")
}
