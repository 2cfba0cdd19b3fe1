package cleanup

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/blackwell-systems/sysx/internal/rules"
)

// BuildPlan merges classified candidates into a single plan:
//
//   - duplicates (same resolved path matched by several rules) collapse to
//     the first-matching category
//   - dangerous candidates are withheld and counted, never planned
//   - entries nested inside a planned directory are dropped, so no byte is
//     counted twice and no removal races its own parent
//   - categories appear in declaration order, items largest first
//
// BuildPlan only rearranges what the scan found; it does not touch the
// filesystem.
func BuildPlan(set rules.Set, scan *ScanResult) *Plan {
	plan := &Plan{
		Skips:   scan.Skips,
		BuiltAt: time.Now(),
	}

	seen := make(map[string]bool, len(scan.Candidates))
	included := make([]Candidate, 0, len(scan.Candidates))
	for _, cand := range scan.Candidates {
		key := cand.Resolved
		if key == "" {
			key = filepath.Clean(cand.Path)
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		if cand.Risk == RiskDangerous {
			plan.ExcludedCount++
			plan.ExcludedBytes += cand.Size
			continue
		}
		included = append(included, cand)
	}

	included = pruneNested(included)

	perCat := make(map[rules.Category][]Candidate, len(set.Specs))
	for _, cand := range included {
		perCat[cand.Category] = append(perCat[cand.Category], cand)
		if cand.Risk == RiskCaution {
			plan.CautionCount++
		}
	}

	for _, spec := range set.Specs {
		items := perCat[spec.Category]
		if len(items) == 0 {
			continue
		}
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Size != items[j].Size {
				return items[i].Size > items[j].Size
			}
			return items[i].Path < items[j].Path
		})
		cp := CategoryPlan{Category: spec.Category, Items: items}
		for _, it := range items {
			cp.Bytes += it.Size
		}
		plan.Categories = append(plan.Categories, cp)
		plan.TotalCount += len(items)
		plan.TotalBytes += cp.Bytes
	}
	return plan
}

// pruneNested drops candidates that sit under a planned directory
// candidate, whichever rule produced them first. The directory's recursive
// size already accounts for their bytes.
func pruneNested(cands []Candidate) []Candidate {
	var dirs []string
	for _, c := range cands {
		if c.IsDir {
			dirs = append(dirs, c.Resolved)
		}
	}
	if len(dirs) == 0 {
		return cands
	}

	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if nestedInAny(c.Resolved, dirs) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func nestedInAny(path string, dirs []string) bool {
	for _, d := range dirs {
		if path != d && strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
