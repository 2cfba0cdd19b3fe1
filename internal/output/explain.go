package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/sysx/internal/cleanup"
	"github.com/blackwell-systems/sysx/internal/rules"
)

// RenderExplanation renders the verdict for one explained path: entry
// facts, every matching rule with its threshold status, and whether a
// clean run would touch it.
func RenderExplanation(e *cleanup.Explanation) string {
	var sb strings.Builder

	writeHeader(&sb, e.Path)
	if e.Exists {
		kind := "file"
		if e.IsDir {
			kind = "directory"
		}
		writeKV(&sb, "Exists", "yes ("+kind+")")
		writeKV(&sb, "Size", formatSize(e.Size))
		writeKV(&sb, "Modified", formatRelativeTime(e.ModTime))
	} else {
		writeKV(&sb, "Exists", "no")
	}
	if e.Resolved != e.Path {
		writeKV(&sb, "Resolves to", e.Resolved)
	}
	if e.Protected {
		writeKV(&sb, "Protected", colorize(colorRed, "yes"))
	} else {
		writeKV(&sb, "Protected", "no")
	}
	if e.Exists && len(e.Matches) > 0 {
		risk := riskCell(e.Risk)
		if e.Reason != "" {
			risk = fmt.Sprintf("%s (%s)", risk, e.Reason)
		}
		writeKV(&sb, "Risk", risk)
	}

	sb.WriteString("\n")
	writeHeader(&sb, "Matching rules")
	if len(e.Matches) == 0 {
		sb.WriteString("  No rule covers this path.\n")
	} else {
		sb.WriteString(fmt.Sprintf("  %-18s %-38s %s\n", "Category", "Pattern", "Thresholds"))
		for _, m := range e.Matches {
			sb.WriteString(fmt.Sprintf("  %-18s %-38s %s\n",
				m.Category, truncate(m.Pattern, 38), thresholdCell(m, e.Exists)))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(verdictLine(e))
	sb.WriteString("\n")

	return sb.String()
}

// thresholdCell summarizes a rule's age/size gates for one match row.
func thresholdCell(m cleanup.RuleMatch, exists bool) string {
	if m.MinAge == 0 && m.MinSize == 0 {
		return "none"
	}
	if !exists {
		var parts []string
		if m.MinAge > 0 {
			parts = append(parts, "min age "+shortDuration(m.MinAge))
		}
		if m.MinSize > 0 {
			parts = append(parts, "min size "+formatSize(m.MinSize))
		}
		return strings.Join(parts, ", ")
	}
	if m.Eligible {
		return colorize(colorGreen, "cleared")
	}
	var parts []string
	if !m.AgeOK {
		parts = append(parts, "newer than "+shortDuration(m.MinAge))
	}
	if !m.SizeOK {
		parts = append(parts, "smaller than "+formatSize(m.MinSize))
	}
	return colorize(colorYellow, strings.Join(parts, ", "))
}

// verdictLine states the one-line conclusion a user is actually after.
func verdictLine(e *cleanup.Explanation) string {
	switch {
	case !e.Exists && len(e.Matches) == 0:
		return "Path does not exist and no rule covers it."
	case !e.Exists:
		return fmt.Sprintf("Path does not exist; %s would cover it once present.", e.Matches[0].Category)
	case len(e.Matches) == 0:
		return "Not cleanable: no rule covers this path."
	case e.Risk == cleanup.RiskDangerous:
		return colorize(colorRed, fmt.Sprintf("Not cleanable: %s.", e.Reason))
	case !e.Cleanable():
		return colorize(colorYellow, "Not cleanable yet: matched rules have unmet thresholds.")
	case e.Risk == cleanup.RiskCaution:
		return colorize(colorYellow, fmt.Sprintf(
			"Cleanable with review: 'sysx clean --categories %s' will ask before removing it.", owningCategory(e)))
	default:
		return colorize(colorGreen, fmt.Sprintf(
			"Cleanable: 'sysx clean --categories %s' would remove it.", owningCategory(e)))
	}
}

// owningCategory picks the category a plan would file the entry under:
// the first eligible match, in declaration order.
func owningCategory(e *cleanup.Explanation) rules.Category {
	for _, m := range e.Matches {
		if m.Eligible {
			return m.Category
		}
	}
	return e.Matches[0].Category
}

// shortDuration drops zero-valued trailing components, so a week-long
// threshold reads "168h" rather than "168h0m0s".
func shortDuration(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}
