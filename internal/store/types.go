package store

import (
	"strings"
	"time"

	"github.com/blackwell-systems/sysx/internal/cleanup"
	"github.com/blackwell-systems/sysx/internal/rules"
)

// Run is one recorded cleanup invocation.
type Run struct {
	ID          int64
	StartedAt   time.Time
	Mode        string
	Duration    time.Duration
	Categories  string // comma-separated, empty means all
	Removed     int
	Skipped     int
	Failed      int
	Refused     int
	FreedBytes  int64
	Interrupted bool
}

// Outcome is the per-item detail row belonging to a run.
type Outcome struct {
	RunID     int64
	Path      string
	Category  string
	SizeBytes int64
	Result    string
	Reason    string
}

// NewRunFromReport flattens an execution report into ledger rows. The
// returned run has no ID yet; InsertRun assigns one.
func NewRunFromReport(rep *cleanup.Report, categories []rules.Category) (*Run, []Outcome) {
	sum := rep.Summary()

	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}

	run := &Run{
		StartedAt:   rep.Started,
		Mode:        rep.Mode.String(),
		Duration:    rep.Duration,
		Categories:  strings.Join(names, ","),
		Removed:     sum.Removed,
		Skipped:     sum.Skipped,
		Failed:      sum.Failed,
		Refused:     sum.Refused,
		FreedBytes:  sum.FreedBytes,
		Interrupted: rep.Interrupted,
	}

	outcomes := make([]Outcome, 0, len(rep.Outcomes))
	for _, o := range rep.Outcomes {
		outcomes = append(outcomes, Outcome{
			Path:      o.Item.Path,
			Category:  string(o.Item.Category),
			SizeBytes: o.Item.Size,
			Result:    o.Result.String(),
			Reason:    o.Reason,
		})
	}
	return run, outcomes
}
