package cleanup

import (
	"time"

	"github.com/blackwell-systems/sysx/internal/rules"
)

// Risk grades how safely a candidate can be removed.
type Risk int

const (
	// RiskSafe items are removed without ceremony.
	RiskSafe Risk = iota
	// RiskCaution items stay in the plan but require explicit confirmation.
	RiskCaution
	// RiskDangerous items are excluded from the plan entirely.
	RiskDangerous
)

func (r Risk) String() string {
	switch r {
	case RiskSafe:
		return "safe"
	case RiskCaution:
		return "caution"
	case RiskDangerous:
		return "dangerous"
	default:
		return "unknown"
	}
}

// Candidate is one filesystem entry matched by a rule.
type Candidate struct {
	Path     string // absolute path as located, cleaned
	Resolved string // symlink-resolved path, used for dedup and refusal checks
	Category rules.Category
	RuleBase string // resolved root the matching pattern is anchored under
	Size     int64  // file size, or recursive content size for directories
	ModTime  time.Time
	IsDir    bool
	Risk     Risk
	Reason   string // why the risk level was assigned; empty for safe
}

// Skip records an entry the locator could not examine. Skips are carried
// through the plan so reports can show what was not covered.
type Skip struct {
	Path   string
	Reason string
}

// ScanResult is the locator's output: candidates in rule declaration
// order (walk order within a rule), plus skips.
type ScanResult struct {
	Candidates []Candidate
	Skips      []Skip
}

// CategoryPlan groups the planned items of a single category.
type CategoryPlan struct {
	Category rules.Category
	Items    []Candidate // largest first, path ascending on ties
	Bytes    int64
}

// Plan is the deduplicated, totaled set of removable items for one
// invocation. Plans are built once and never mutated afterwards.
type Plan struct {
	Categories    []CategoryPlan // rule-set declaration order, empty categories omitted
	TotalCount    int
	TotalBytes    int64
	ExcludedCount int   // dangerous candidates withheld from the plan
	ExcludedBytes int64 // bytes those candidates would have freed
	CautionCount  int
	Skips         []Skip
	BuiltAt       time.Time
}

// Empty reports whether the plan contains no removable items.
func (p *Plan) Empty() bool {
	return p.TotalCount == 0
}

// Items flattens the plan into execution order: categories as declared,
// items largest first within each.
func (p *Plan) Items() []Candidate {
	out := make([]Candidate, 0, p.TotalCount)
	for _, cp := range p.Categories {
		out = append(out, cp.Items...)
	}
	return out
}

// Mode selects between previewing a plan and applying it.
type Mode int

const (
	DryRun Mode = iota
	Apply
)

func (m Mode) String() string {
	if m == Apply {
		return "apply"
	}
	return "dry-run"
}

// Result is the outcome variant recorded for one executed item.
type Result int

const (
	ResultRemoved Result = iota
	ResultSkipped
	ResultFailed
	ResultRefused
)

func (r Result) String() string {
	switch r {
	case ResultRemoved:
		return "removed"
	case ResultSkipped:
		return "skipped"
	case ResultFailed:
		return "failed"
	case ResultRefused:
		return "refused"
	default:
		return "unknown"
	}
}

// Outcome pairs one planned item with what happened to it.
type Outcome struct {
	Item   Candidate
	Result Result
	Reason string // detail for skipped/failed/refused: "dry-run", "protected-path", ...
}

// Report collects the per-item outcomes of one executor pass.
type Report struct {
	Mode        Mode
	Outcomes    []Outcome
	Started     time.Time
	Duration    time.Duration
	Interrupted bool // cancellation hit before the last item
}

// Summary tallies a report by outcome.
type Summary struct {
	Removed    int
	Skipped    int
	Failed     int
	Refused    int
	FreedBytes int64
}

// Summary walks the outcomes once and returns the tallies.
func (r *Report) Summary() Summary {
	var s Summary
	for _, o := range r.Outcomes {
		switch o.Result {
		case ResultRemoved:
			s.Removed++
			s.FreedBytes += o.Item.Size
		case ResultSkipped:
			s.Skipped++
		case ResultFailed:
			s.Failed++
		case ResultRefused:
			s.Refused++
		}
	}
	return s
}
