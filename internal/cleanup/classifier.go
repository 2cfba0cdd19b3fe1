package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/blackwell-systems/sysx/internal/rules"
)

// ActiveSet answers whether a path is currently held open on the host.
type ActiveSet interface {
	Contains(path string) bool
}

// OpenFileSet is an ActiveSet backed by a plain path set, built from the
// live process table or assembled directly in tests.
type OpenFileSet map[string]struct{}

func (s OpenFileSet) Contains(path string) bool {
	_, ok := s[filepath.Clean(path)]
	return ok
}

// CollectOpenFiles snapshots every file the process table reports open.
// Best effort: processes that deny inspection (other users' processes,
// kernel threads) are silently ignored, so an empty set never means "no
// files are open", only "none were visible".
func CollectOpenFiles(ctx context.Context) OpenFileSet {
	set := OpenFileSet{}
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return set
	}
	for _, p := range procs {
		files, err := p.OpenFilesWithContext(ctx)
		if err != nil {
			continue
		}
		for _, f := range files {
			set[filepath.Clean(f.Path)] = struct{}{}
		}
	}
	return set
}

// Classifier stamps located candidates with a risk level. Classification
// reads the rule set, the active-file snapshot, and lock markers next to
// the candidate; it never mutates anything, so the same inputs always
// produce the same grades.
type Classifier struct {
	set    rules.Set
	active ActiveSet
}

// NewClassifier builds a classifier. A nil active set disables the
// open-file check.
func NewClassifier(set rules.Set, active ActiveSet) *Classifier {
	if active == nil {
		active = OpenFileSet{}
	}
	return &Classifier{set: set, active: active}
}

// Classify returns a copy of the candidates with Risk and Reason filled.
// Order is preserved; the input slice is left alone.
func (c *Classifier) Classify(cands []Candidate) []Candidate {
	out := make([]Candidate, len(cands))
	for i, cand := range cands {
		out[i] = c.classifyOne(cand)
	}
	return out
}

func (c *Classifier) classifyOne(cand Candidate) Candidate {
	switch {
	case c.set.IsProtected(cand.Resolved) || c.set.IsProtected(cand.Path):
		cand.Risk = RiskDangerous
		cand.Reason = "protected path"
	case isLockMarker(cand.Path):
		cand.Risk = RiskDangerous
		cand.Reason = "lock or pid marker"
	case hasLockFile(cand.Path):
		cand.Risk = RiskDangerous
		cand.Reason = "lock file present"
	case c.active.Contains(cand.Resolved) || c.active.Contains(cand.Path):
		cand.Risk = RiskDangerous
		cand.Reason = "held open by a running process"
	default:
		if spec, ok := c.set.Spec(cand.Category); ok && spec.Caution {
			cand.Risk = RiskCaution
			cand.Reason = "category requires review"
		} else {
			cand.Risk = RiskSafe
		}
	}
	return cand
}

// isLockMarker reports whether the entry is itself a lock or pid file.
// Removing one would release a guard some other process relies on.
func isLockMarker(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(name, ".lock") || strings.HasSuffix(name, ".pid")
}

// hasLockFile reports whether a sibling "<name>.lock" exists, the
// convention package managers and editors use to mark a path in use.
func hasLockFile(path string) bool {
	_, err := os.Lstat(path + ".lock")
	return err == nil
}
