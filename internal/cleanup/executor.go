package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blackwell-systems/sysx/internal/rules"
)

// Executor walks a plan in order and records one outcome per item. A
// failure on one item never stops the rest of the run.
type Executor struct {
	set   rules.Set
	guard *Guard // optional activity guard; nil disables the check

	// OnOutcome, when set, observes each outcome as it is recorded. It is
	// called synchronously between items; callers use it to drive progress
	// display.
	OnOutcome func(Outcome)
}

// NewExecutor builds an executor for the given rule set. guard may be nil.
func NewExecutor(set rules.Set, guard *Guard) *Executor {
	return &Executor{set: set, guard: guard}
}

// Run executes the plan. In dry-run mode every item is recorded as
// skipped with reason "dry-run" and the filesystem is never touched; the
// report has the same shape an apply pass would produce. In apply mode
// items are removed one at a time, failures are recorded and execution
// continues. Cancellation is honored between items: the ones already
// processed keep their outcomes, the rest are recorded as skipped with
// reason "cancelled", and the report is marked interrupted.
func (e *Executor) Run(ctx context.Context, plan *Plan, mode Mode) *Report {
	rep := &Report{Mode: mode, Started: time.Now()}
	for _, item := range plan.Items() {
		var out Outcome
		switch {
		case mode == DryRun:
			out = Outcome{Item: item, Result: ResultSkipped, Reason: "dry-run"}
		case ctx.Err() != nil:
			rep.Interrupted = true
			out = Outcome{Item: item, Result: ResultSkipped, Reason: "cancelled"}
		default:
			out = e.apply(item)
		}
		rep.Outcomes = append(rep.Outcomes, out)
		if e.OnOutcome != nil {
			e.OnOutcome(out)
		}
	}
	rep.Duration = time.Since(rep.Started)
	return rep
}

// apply removes a single item, re-checking everything that could have
// changed since the plan was built.
func (e *Executor) apply(item Candidate) Outcome {
	// The planner never emits dangerous items; refuse them anyway in case
	// the plan was assembled some other way.
	if item.Risk == RiskDangerous {
		return Outcome{Item: item, Result: ResultRefused, Reason: "dangerous"}
	}

	target := item.Resolved
	if target == "" {
		target = filepath.Clean(item.Path)
	}
	if target == "/" || e.set.IsProtected(target) {
		return Outcome{Item: item, Result: ResultRefused, Reason: "protected-path"}
	}
	if item.IsDir && !withinBase(item.RuleBase, target) {
		// A directory removal recurses; it must stay inside the root its
		// rule declared.
		return Outcome{Item: item, Result: ResultRefused, Reason: "outside category root"}
	}
	if e.guard != nil && e.guard.Touched(target) {
		return Outcome{Item: item, Result: ResultSkipped, Reason: "active"}
	}

	if _, err := os.Lstat(item.Path); err != nil {
		if os.IsNotExist(err) {
			return Outcome{Item: item, Result: ResultFailed, Reason: "already gone"}
		}
		return Outcome{Item: item, Result: ResultFailed, Reason: skipReason(err)}
	}

	var err error
	if item.IsDir {
		err = os.RemoveAll(item.Path)
	} else {
		// Planned as a file (or symlink): a plain remove, so a path that
		// turned into a populated directory since planning fails instead
		// of silently taking unexpected contents with it.
		err = os.Remove(item.Path)
	}
	if err != nil {
		return Outcome{Item: item, Result: ResultFailed, Reason: skipReason(err)}
	}
	return Outcome{Item: item, Result: ResultRemoved}
}

// withinBase reports whether path is base itself or sits underneath it.
func withinBase(base, path string) bool {
	if base == "" {
		return false
	}
	return path == base || strings.HasPrefix(path, base+string(filepath.Separator))
}
