// Package rules declares the cleanup rule set: the closed set of cleanup
// categories, the filesystem patterns each category covers, and the
// protected-path deny list that removal must never touch.
//
// A Set is plain data. Commands run against Default(), tests inject sets
// pointing at temporary directories.
package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	wildcard "github.com/IGLOU-EU/go-wildcard"
)

// Category tags one cleanup category. The set is closed: commands accept
// only categories declared by the rule set in use.
type Category string

const (
	Cache            Category = "cache"
	Logs             Category = "logs"
	TempFiles        Category = "temp-files"
	PackageLeftovers Category = "package-leftovers"
	Trash            Category = "trash"
	CrashReports     Category = "crash-reports"
)

// Rule is a single filesystem pattern within a category. Patterns are
// absolute and use shell-style wildcards ("*", "?"); "*" also crosses
// path separators, so "/var/log/*.gz" finds rotated logs in subdirectories.
type Rule struct {
	Pattern string
	MinAge  time.Duration // entries modified more recently than this do not match (0 disables)
	MinSize int64         // entries smaller than this many bytes do not match (0 disables)
}

// Spec declares one category: its rules plus classification hints.
type Spec struct {
	Category     Category
	Description  string
	Caution      bool // candidates default to caution instead of safe
	RequiresRoot bool
	Rules        []Rule
}

// Set is an ordered rule set plus the protected deny list. Order is
// significant: it fixes category ordering in plans and first-match
// ownership when two categories name the same path.
type Set struct {
	Specs     []Spec
	Protected []string // literal prefixes or wildcard patterns removal must refuse
}

// ErrInvalidRuleSet marks structural problems with a rule set (empty
// categories, relative patterns, negative thresholds, unknown category
// names). Compared with errors.Is.
var ErrInvalidRuleSet = errors.New("invalid rule set")

// userHome returns the home directory, falling back to $HOME so rule
// construction never fails outright in stripped-down environments.
func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}

// cacheHome returns the user cache directory, respecting XDG_CACHE_HOME.
func cacheHome() string {
	if x := os.Getenv("XDG_CACHE_HOME"); x != "" {
		return x
	}
	return filepath.Join(userHome(), ".cache")
}

// dataHome returns the user data directory, respecting XDG_DATA_HOME.
func dataHome() string {
	if x := os.Getenv("XDG_DATA_HOME"); x != "" {
		return x
	}
	return filepath.Join(userHome(), ".local", "share")
}

const week = 7 * 24 * time.Hour

// Default returns the built-in rule set for Linux hosts. Categories are
// declared in report order.
func Default() Set {
	cache := cacheHome()
	trash := filepath.Join(dataHome(), "Trash")

	return Set{
		Specs: []Spec{
			{
				Category:    Cache,
				Description: "User application caches and thumbnails",
				Rules: []Rule{
					{Pattern: filepath.Join(cache, "*")},
				},
			},
			{
				Category:     Logs,
				Description:  "Rotated and compressed system logs, archived journals",
				RequiresRoot: true,
				Rules: []Rule{
					{Pattern: "/var/log/*.gz"},
					{Pattern: "/var/log/*.1"},
					{Pattern: "/var/log/*.2"},
					{Pattern: "/var/log/*.old"},
					{Pattern: "/var/log/journal/*@*.journal"},
				},
			},
			{
				Category:    TempFiles,
				Description: "Stale entries under the system temp directories",
				Rules: []Rule{
					{Pattern: "/tmp/*", MinAge: week},
					{Pattern: "/var/tmp/*", MinAge: week},
				},
			},
			{
				Category:     PackageLeftovers,
				Description:  "Downloaded package archives left by the package manager",
				Caution:      true,
				RequiresRoot: true,
				Rules: []Rule{
					{Pattern: "/var/cache/apt/archives/*.deb"},
					{Pattern: "/var/cache/apt/archives/partial/*"},
					{Pattern: "/var/cache/dnf/*"},
					{Pattern: "/var/cache/yum/*"},
				},
			},
			{
				Category:    Trash,
				Description: "Files already moved to the desktop trash",
				Rules: []Rule{
					{Pattern: filepath.Join(trash, "files", "*")},
					{Pattern: filepath.Join(trash, "info", "*")},
				},
			},
			{
				Category:     CrashReports,
				Description:  "Crash dumps and core files",
				RequiresRoot: true,
				Rules: []Rule{
					{Pattern: "/var/crash/*"},
					{Pattern: "/var/lib/systemd/coredump/*"},
				},
			},
		},
		Protected: DefaultProtected(),
	}
}

// DefaultProtected returns the built-in deny list: prefixes whose removal
// would damage the operating system regardless of what a rule claims.
func DefaultProtected() []string {
	return []string{
		"/",
		"/bin",
		"/boot",
		"/dev",
		"/etc",
		"/lib",
		"/lib64",
		"/proc",
		"/run",
		"/sbin",
		"/sys",
		"/usr",
		"/var/lib/dpkg",
		"/var/lib/rpm",
		"/var/lib/pacman",
	}
}

// Validate reports structural problems with the rule set. It does not
// touch the filesystem: a rule pointing somewhere protected is legal here
// and refused per entry at execution time.
func (s Set) Validate() error {
	if len(s.Specs) == 0 {
		return fmt.Errorf("%w: no categories declared", ErrInvalidRuleSet)
	}

	seen := make(map[Category]bool, len(s.Specs))
	for _, spec := range s.Specs {
		if spec.Category == "" {
			return fmt.Errorf("%w: category with empty name", ErrInvalidRuleSet)
		}
		if seen[spec.Category] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidRuleSet, spec.Category)
		}
		seen[spec.Category] = true

		if len(spec.Rules) == 0 {
			return fmt.Errorf("%w: category %q has no rules", ErrInvalidRuleSet, spec.Category)
		}
		for _, r := range spec.Rules {
			if r.Pattern == "" {
				return fmt.Errorf("%w: category %q: empty pattern", ErrInvalidRuleSet, spec.Category)
			}
			if !filepath.IsAbs(r.Pattern) {
				return fmt.Errorf("%w: category %q: pattern %q is not absolute", ErrInvalidRuleSet, spec.Category, r.Pattern)
			}
			if r.MinAge < 0 {
				return fmt.Errorf("%w: category %q: negative age threshold", ErrInvalidRuleSet, spec.Category)
			}
			if r.MinSize < 0 {
				return fmt.Errorf("%w: category %q: negative size threshold", ErrInvalidRuleSet, spec.Category)
			}
		}
	}

	return nil
}

// ForCategories returns the subset of s covering the named categories, in
// the declaration order of s (not the order requested). An unknown name is
// an ErrInvalidRuleSet. Empty names means the full set.
func (s Set) ForCategories(names []string) (Set, error) {
	if len(names) == 0 {
		return s, nil
	}

	want := make(map[Category]bool, len(names))
	for _, n := range names {
		c := Category(strings.TrimSpace(n))
		if _, ok := s.Spec(c); !ok {
			return Set{}, fmt.Errorf("%w: unknown category %q (have: %s)", ErrInvalidRuleSet, n, joinCategories(s.Categories()))
		}
		want[c] = true
	}

	out := Set{Protected: s.Protected}
	for _, spec := range s.Specs {
		if want[spec.Category] {
			out.Specs = append(out.Specs, spec)
		}
	}
	return out, nil
}

// Spec returns the declaration for a category, if present.
func (s Set) Spec(c Category) (Spec, bool) {
	for _, spec := range s.Specs {
		if spec.Category == c {
			return spec, true
		}
	}
	return Spec{}, false
}

// Categories returns the declared categories in order.
func (s Set) Categories() []Category {
	out := make([]Category, len(s.Specs))
	for i, spec := range s.Specs {
		out[i] = spec.Category
	}
	return out
}

// RequiresRoot reports whether any category in the set needs elevated
// privileges.
func (s Set) RequiresRoot() bool {
	for _, spec := range s.Specs {
		if spec.RequiresRoot {
			return true
		}
	}
	return false
}

// IsProtected reports whether path falls under the deny list. Entries are
// matched as literal prefixes; entries containing wildcards are matched
// with shell-style semantics against the whole path.
func (s Set) IsProtected(path string) bool {
	path = filepath.Clean(path)
	for _, p := range s.Protected {
		if strings.ContainsAny(p, "*?") {
			if wildcard.Match(p, path) {
				return true
			}
			continue
		}
		if path == p || strings.HasPrefix(path, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func joinCategories(cats []Category) string {
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
