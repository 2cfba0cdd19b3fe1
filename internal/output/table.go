// Package output provides terminal output utilities for sysx.
//
// This package includes:
//   - Table rendering for cleanup plans, run reports, and run history
//   - Diagnostic report rendering for the system, network, and security views
//   - Progress bars and spinners for long-running operations
//   - Human-readable formatting for sizes, dates, and other data
//
// All table rendering functions use ASCII characters and ANSI color codes for
// terminal output. Plan and report tables share a single rendering path; only
// the final column differs (risk before a run, result after). Progress
// indicators are thread-safe and can be used from multiple goroutines.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/sysx/internal/cleanup"
	"github.com/blackwell-systems/sysx/internal/rules"
	"github.com/blackwell-systems/sysx/internal/store"
)

// ANSI color codes for risk and result display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// tableRow is one item line in a plan or report section. The final cell is
// the only thing that differs between the two views.
type tableRow struct {
	item  cleanup.Candidate
	final string
}

// writeSection renders one per-category table: a header line with the item
// count and subtotal, a column header, and one row per item.
func writeSection(sb *strings.Builder, category rules.Category, rows []tableRow, finalHeader string) {
	var bytes int64
	for _, r := range rows {
		bytes += r.item.Size
	}

	sb.WriteString(fmt.Sprintf("%s · %s · %s\n",
		category, countNoun(len(rows), "item"), formatSize(bytes)))
	sb.WriteString(fmt.Sprintf("%-44s %-9s %-14s %s\n",
		"Path", "Size", "Modified", finalHeader))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-44s %-9s %-14s %s\n",
			truncate(r.item.Path, 44),
			formatSize(r.item.Size),
			formatRelativeTime(r.item.ModTime),
			r.final))
	}
}

// RenderPlan renders the per-category plan tables followed by the totals
// footer. Dangerous items never appear as rows; they surface only in the
// excluded count. An empty plan still reports exclusions and scan skips.
func RenderPlan(plan *cleanup.Plan) string {
	var sb strings.Builder

	if plan.Empty() {
		sb.WriteString("Nothing to clean.\n")
	} else {
		for i, cp := range plan.Categories {
			if i > 0 {
				sb.WriteString("\n")
			}
			rows := make([]tableRow, 0, len(cp.Items))
			for _, item := range cp.Items {
				rows = append(rows, tableRow{item: item, final: riskCell(item.Risk)})
			}
			writeSection(&sb, cp.Category, rows, "Risk")
		}

		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Total: %s, %s reclaimable\n",
			countNoun(plan.TotalCount, "item"), formatSize(plan.TotalBytes)))
	}

	if plan.ExcludedCount > 0 {
		sb.WriteString(colorize(colorRed, fmt.Sprintf("Excluded: %s (%s) left untouched\n",
			countNoun(plan.ExcludedCount, "dangerous item"), formatSize(plan.ExcludedBytes))))
	}
	if plan.CautionCount > 0 {
		sb.WriteString(colorize(colorYellow, fmt.Sprintf("Review: %s marked caution\n",
			countNoun(plan.CautionCount, "item"))))
	}
	if len(plan.Skips) > 0 {
		sb.WriteString(colorize(colorGray, fmt.Sprintf("Unreadable: %s skipped during scan\n",
			countNoun(len(plan.Skips), "path"))))
	}

	return sb.String()
}

// RenderReport renders the per-category outcome tables followed by the
// summary footer. Sections and rows mirror the plan exactly; the final
// column carries what happened to each item.
func RenderReport(rep *cleanup.Report) string {
	if len(rep.Outcomes) == 0 {
		return "Nothing to clean.\n"
	}

	grouped := make(map[rules.Category][]tableRow)
	var order []rules.Category
	for _, o := range rep.Outcomes {
		cat := o.Item.Category
		if _, ok := grouped[cat]; !ok {
			order = append(order, cat)
		}
		grouped[cat] = append(grouped[cat], tableRow{item: o.Item, final: resultCell(o)})
	}

	var sb strings.Builder
	for i, cat := range order {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeSection(&sb, cat, grouped[cat], "Result")
	}

	sb.WriteString("\n")
	sum := rep.Summary()

	if rep.Mode == cleanup.DryRun {
		sb.WriteString(fmt.Sprintf("Dry run: nothing was removed. %s (%s) would be freed.\n",
			countNoun(len(rep.Outcomes), "item"), formatSize(plannedBytes(rep))))
	} else {
		parts := []string{
			fmt.Sprintf("Removed %s", countNoun(sum.Removed, "item")),
			fmt.Sprintf("freed %s", formatSize(sum.FreedBytes)),
		}
		if sum.Skipped > 0 {
			parts = append(parts, fmt.Sprintf("%d skipped", sum.Skipped))
		}
		if sum.Failed > 0 {
			parts = append(parts, colorize(colorRed, fmt.Sprintf("%d failed", sum.Failed)))
		}
		if sum.Refused > 0 {
			parts = append(parts, colorize(colorYellow, fmt.Sprintf("%d refused", sum.Refused)))
		}
		sb.WriteString(strings.Join(parts, " · "))
		sb.WriteString("\n")
	}

	if rep.Duration > 0 {
		sb.WriteString(fmt.Sprintf("Completed in %s\n", rep.Duration.Round(time.Millisecond)))
	}
	if rep.Interrupted {
		sb.WriteString(colorize(colorYellow, "Interrupted: remaining items were not touched\n"))
	}

	return sb.String()
}

// plannedBytes sums the sizes a report covered, whether or not anything
// was actually removed. Used for the dry-run footer.
func plannedBytes(rep *cleanup.Report) int64 {
	var total int64
	for _, o := range rep.Outcomes {
		total += o.Item.Size
	}
	return total
}

// riskCell formats the colored risk column for a planned item.
func riskCell(r cleanup.Risk) string {
	switch r {
	case cleanup.RiskCaution:
		return colorize(colorYellow, "caution")
	case cleanup.RiskDangerous:
		return colorize(colorRed, "dangerous")
	default:
		return colorize(colorGreen, "safe")
	}
}

// resultCell formats the colored result column for an executed item,
// appending the reason when one was recorded.
func resultCell(o cleanup.Outcome) string {
	label := o.Result.String()
	if o.Reason != "" {
		label = fmt.Sprintf("%s (%s)", label, o.Reason)
	}
	switch o.Result {
	case cleanup.ResultRemoved:
		return colorize(colorGreen, label)
	case cleanup.ResultFailed:
		return colorize(colorRed, label)
	case cleanup.ResultRefused:
		return colorize(colorYellow, label)
	default:
		return colorize(colorGray, label)
	}
}

// maxSkipLines bounds the unreadable-path listing; the full set goes to
// the operation log.
const maxSkipLines = 10

// RenderSkips lists paths the scanner could not read. Returns an empty
// string when there were none.
func RenderSkips(skips []cleanup.Skip) string {
	if len(skips) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Unreadable paths:\n")

	shown := skips
	if len(shown) > maxSkipLines {
		shown = shown[:maxSkipLines]
	}
	for _, s := range shown {
		sb.WriteString(colorize(colorGray, fmt.Sprintf("  %s: %s\n", s.Path, s.Reason)))
	}
	if rest := len(skips) - len(shown); rest > 0 {
		sb.WriteString(colorize(colorGray, fmt.Sprintf("  ... and %d more\n", rest)))
	}

	return sb.String()
}

// RenderRuns renders the run-history table, newest first as listed.
func RenderRuns(runs []*store.Run) string {
	if len(runs) == 0 {
		return "No runs recorded.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-5s %-16s %-9s %-8s %-10s %-7s %-9s %s\n",
		"ID", "When", "Mode", "Removed", "Freed", "Failed", "Duration", "Categories"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, run := range runs {
		categories := run.Categories
		if categories == "" {
			categories = "all"
		}
		if run.Interrupted {
			categories += " · interrupted"
		}

		sb.WriteString(fmt.Sprintf("%-5d %-16s %-9s %-8d %-10s %-7d %-9s %s\n",
			run.ID,
			formatRelativeTime(run.StartedAt),
			run.Mode,
			run.Removed,
			formatSize(run.FreedBytes),
			run.Failed,
			run.Duration.Round(time.Millisecond).String(),
			truncate(categories, 28)))
	}

	return sb.String()
}

// RenderOutcomes renders the per-item detail of one recorded run.
func RenderOutcomes(outcomes []*store.Outcome) string {
	if len(outcomes) == 0 {
		return "No outcomes recorded.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-44s %-18s %-9s %s\n",
		"Path", "Category", "Size", "Result"))
	sb.WriteString(strings.Repeat("─", 88))
	sb.WriteString("\n")

	for _, o := range outcomes {
		label := o.Result
		if o.Reason != "" {
			label = fmt.Sprintf("%s (%s)", o.Result, o.Reason)
		}
		sb.WriteString(fmt.Sprintf("%-44s %-18s %-9s %s\n",
			truncate(o.Path, 44),
			o.Category,
			formatSize(o.SizeBytes),
			storedResultCell(o.Result, label)))
	}

	return sb.String()
}

// storedResultCell colors a result string read back from the ledger.
func storedResultCell(result, label string) string {
	switch result {
	case "removed":
		return colorize(colorGreen, label)
	case "failed":
		return colorize(colorRed, label)
	case "refused":
		return colorize(colorYellow, label)
	default:
		return colorize(colorGray, label)
	}
}

// countNoun formats a count with a pluralized noun, e.g. "1 item",
// "3 items".
func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// formatSize converts bytes to human-readable size (GB, MB, KB).
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.0f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.0f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	case diff < 365*24*time.Hour:
		months := int(diff.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := int(diff.Hours() / 24 / 365)
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
