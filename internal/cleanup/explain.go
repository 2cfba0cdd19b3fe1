package cleanup

import (
	"os"
	"path/filepath"
	"time"

	"github.com/IGLOU-EU/go-wildcard"

	"github.com/blackwell-systems/sysx/internal/rules"
)

// RuleMatch records how one rule relates to an explained path: the pattern
// matched, and whether the entry clears the rule's thresholds.
type RuleMatch struct {
	Category rules.Category
	Pattern  string
	MinAge   time.Duration
	MinSize  int64
	AgeOK    bool // meaningful only when the path exists
	SizeOK   bool
	Eligible bool // exists and clears both thresholds
}

// Explanation is the full answer to "would cleanup touch this path, and
// why". It is assembled without mutating anything.
type Explanation struct {
	Path     string // absolute, cleaned
	Resolved string
	Exists   bool
	Size     int64 // recursive content size for directories
	ModTime  time.Time
	IsDir    bool

	Matches   []RuleMatch // every matching rule, declaration order
	Protected bool

	// Risk grades the entry the way planning would, using the first
	// matching category as the owner. Zero value when nothing matches
	// or the path does not exist.
	Risk   Risk
	Reason string
}

// Cleanable reports whether an apply run would plan this entry for
// removal: some rule matches with thresholds cleared, and classification
// did not grade it dangerous.
func (e *Explanation) Cleanable() bool {
	if !e.Exists || e.Risk == RiskDangerous {
		return false
	}
	for _, m := range e.Matches {
		if m.Eligible {
			return true
		}
	}
	return false
}

// Explain evaluates a single path against the rule set: which rules match,
// which thresholds pass, and what risk classification would assign. A
// missing path is not an error; the explanation still lists the rules that
// would cover it. A nil active set disables the open-file check.
func Explain(set rules.Set, active ActiveSet, path string) (*Explanation, error) {
	if err := set.Validate(); err != nil {
		return nil, &FatalError{Stage: "rules", Err: err}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	abs = filepath.Clean(abs)

	e := &Explanation{
		Path:     abs,
		Resolved: resolvePath(abs),
	}

	info, err := os.Lstat(abs)
	if err == nil {
		e.Exists = true
		e.IsDir = info.IsDir()
		e.ModTime = info.ModTime()
		e.Size = info.Size()
		if e.IsDir {
			e.Size = dirSize(abs)
		}
	}

	e.Protected = set.IsProtected(abs) || set.IsProtected(e.Resolved)

	now := time.Now()
	for _, spec := range set.Specs {
		for _, r := range spec.Rules {
			if !wildcard.Match(r.Pattern, abs) {
				continue
			}
			m := RuleMatch{
				Category: spec.Category,
				Pattern:  r.Pattern,
				MinAge:   r.MinAge,
				MinSize:  r.MinSize,
			}
			if e.Exists {
				m.AgeOK = r.MinAge == 0 || now.Sub(e.ModTime) >= r.MinAge
				m.SizeOK = r.MinSize == 0 || e.Size >= r.MinSize
				m.Eligible = m.AgeOK && m.SizeOK
			}
			e.Matches = append(e.Matches, m)
		}
	}

	if e.Exists && len(e.Matches) > 0 {
		cand := Candidate{
			Path:     abs,
			Resolved: e.Resolved,
			Category: e.Matches[0].Category, // first match owns, as in planning
			Size:     e.Size,
			ModTime:  e.ModTime,
			IsDir:    e.IsDir,
		}
		graded := NewClassifier(set, active).classifyOne(cand)
		e.Risk = graded.Risk
		e.Reason = graded.Reason
	}

	return e, nil
}
