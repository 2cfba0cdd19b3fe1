package cleanup

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/IGLOU-EU/go-wildcard"

	"github.com/blackwell-systems/sysx/internal/rules"
)

// Locator enumerates removal candidates for a rule set. It never follows
// symlinks (a matched link is a candidate for unlinking, not a doorway)
// and never mutates the filesystem.
type Locator struct {
	set rules.Set
}

func NewLocator(set rules.Set) *Locator {
	return &Locator{set: set}
}

// Scan walks every rule of every category in declaration order and returns
// the candidates that match a pattern and clear its age/size thresholds.
// Directories that cannot be listed contribute zero candidates and one
// skip; a nonexistent pattern root is simply empty. The only error Scan
// itself returns is a FatalError for an invalid rule set.
func (l *Locator) Scan() (*ScanResult, error) {
	if err := l.set.Validate(); err != nil {
		return nil, &FatalError{Stage: "rules", Err: err}
	}

	res := &ScanResult{}
	now := time.Now()
	for _, spec := range l.set.Specs {
		for _, rule := range spec.Rules {
			l.scanRule(spec, rule, now, res)
		}
	}
	return res, nil
}

func (l *Locator) scanRule(spec rules.Spec, rule rules.Rule, now time.Time, res *ScanResult) {
	base := patternBase(rule.Pattern)
	if _, err := os.Lstat(base); err != nil {
		if !os.IsNotExist(err) {
			res.Skips = append(res.Skips, Skip{Path: base, Reason: skipReason(err)})
		}
		return
	}

	// The root a directory removal may recurse within. Resolving it up
	// front keeps the executor's scope check honest when the base itself
	// sits behind a symlink (a common /tmp arrangement).
	resolvedBase := resolvePath(base)

	filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			res.Skips = append(res.Skips, Skip{Path: path, Reason: skipReason(err)})
			return nil
		}
		if !wildcard.Match(rule.Pattern, path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Entry vanished between readdir and stat.
			res.Skips = append(res.Skips, Skip{Path: path, Reason: skipReason(err)})
			return nil
		}

		isDir := d.IsDir()
		size := info.Size()
		if isDir {
			size = dirSize(path)
		}
		if rule.MinAge > 0 && now.Sub(info.ModTime()) < rule.MinAge {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}
		if rule.MinSize > 0 && size < rule.MinSize {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		res.Candidates = append(res.Candidates, Candidate{
			Path:     filepath.Clean(path),
			Resolved: resolvePath(path),
			Category: spec.Category,
			RuleBase: resolvedBase,
			Size:     size,
			ModTime:  info.ModTime(),
			IsDir:    isDir,
		})
		if isDir {
			// The directory is removed whole; its contents are not
			// separate candidates of this rule.
			return fs.SkipDir
		}
		return nil
	})
}

// patternBase extracts the static directory a pattern is anchored under,
// the part before the first wildcard.
func patternBase(pattern string) string {
	idx := strings.IndexAny(pattern, "*?[")
	if idx == -1 {
		return filepath.Dir(pattern)
	}
	return filepath.Dir(pattern[:idx])
}

// resolvePath follows symlinks to the real path. Entries that cannot be
// resolved (dangling links, racing removals) fall back to the lexically
// cleaned path so dedup and refusal checks still have a stable key.
func resolvePath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}

// dirSize sums the regular-file bytes under root. Unreadable corners
// contribute nothing rather than aborting the measurement.
func dirSize(root string) int64 {
	var total int64
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}

// skipReason strips the path out of stat/readdir errors so skip rows stay
// one short phrase; the Skip already carries the path.
func skipReason(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
