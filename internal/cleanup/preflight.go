package cleanup

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/blackwell-systems/sysx/internal/rules"
)

// Preflight verifies the process can actually mutate what the rule set
// covers, before anything is scanned or removed. It fails fast when a
// requested category is declared root-only and the process is not root,
// or when an existing rule root is not writable. Roots that do not exist
// pass; they simply scan empty.
//
// Preflight belongs to the apply path only. A dry run never mutates, so
// it runs without privileges and reports unreadable corners as skips.
func Preflight(set rules.Set) error {
	if err := set.Validate(); err != nil {
		return &FatalError{Stage: "rules", Err: err}
	}

	if os.Geteuid() != 0 {
		if rooted := rootOnlyCategories(set); len(rooted) > 0 {
			return &FatalError{
				Stage: "privilege",
				Err: fmt.Errorf("categories %s require root; re-run with sudo or narrow the selection with --categories",
					strings.Join(rooted, ", ")),
			}
		}
	}

	for _, spec := range set.Specs {
		for _, rule := range spec.Rules {
			base := patternBase(rule.Pattern)
			if _, err := os.Lstat(base); err != nil {
				continue
			}
			if err := unix.Access(base, unix.W_OK); err != nil {
				return &FatalError{
					Stage: "privilege",
					Err:   fmt.Errorf("%s (%s) is not writable: %w", base, spec.Category, err),
				}
			}
		}
	}
	return nil
}

func rootOnlyCategories(set rules.Set) []string {
	var names []string
	for _, spec := range set.Specs {
		if spec.RequiresRoot {
			names = append(names, string(spec.Category))
		}
	}
	return names
}
