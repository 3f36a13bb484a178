// SPDX-License-Identifier: MPL-2.0

// Package report renders analysis results for humans (styled terminal
// text) and for machines (a JSON record of every finding).
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"deckscope/internal/opc"
	"deckscope/pkg/finding"
)

// Color palette - hex colors for severity-graded terminal output,
// designed for dark terminal backgrounds with good contrast.
const (
	// ColorCritical is red - used for critical findings and failures.
	ColorCritical = lipgloss.Color("#EF4444")

	// ColorHigh is amber - used for high-severity findings.
	ColorHigh = lipgloss.Color("#F59E0B")

	// ColorHeading is purple - used for section headings and rules.
	ColorHeading = lipgloss.Color("#7C3AED")

	// ColorDetail is blue - used for paths, rIds, and targets.
	ColorDetail = lipgloss.Color("#3B82F6")

	// ColorMuted is gray - used for empty-section placeholders.
	ColorMuted = lipgloss.Color("#6B7280")
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeading)

	criticalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCritical)

	highStyle = lipgloss.NewStyle().
			Foreground(ColorHigh)

	detailStyle = lipgloss.NewStyle().
			Foreground(ColorDetail)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

const rule = "======================================================================"

// Input bundles everything the text report draws from.
type Input struct {
	Corrupt        *opc.Model
	Repaired       *opc.Model
	CorruptIssues  []finding.Issue
	RepairedIssues []finding.Issue
	Diffs          []finding.Diff
	Hypotheses     []finding.Hypothesis
}

// Text renders the full comparison report. Section order is fixed so two
// runs over the same packages produce byte-identical output.
func Text(in Input) string {
	var b strings.Builder

	heading(&b, "PPTX DEEP COMPARISON REPORT")
	fmt.Fprintf(&b, "\nCorrupt:  %s\n", in.Corrupt.Path)
	fmt.Fprintf(&b, "Repaired: %s\n", in.Repaired.Path)
	fmt.Fprintf(&b, "\nCorrupt files:  %d\n", len(in.Corrupt.PartNames))
	fmt.Fprintf(&b, "Repaired files: %d\n", len(in.Repaired.PartNames))

	b.WriteString("\n")
	heading(&b, "ISSUES IN CORRUPT FILE")
	if len(in.CorruptIssues) == 0 {
		b.WriteString(mutedStyle.Render("  (none detected)") + "\n")
	}
	for _, issue := range in.CorruptIssues {
		fmt.Fprintf(&b, "  %s %s\n", criticalStyle.Render("["+string(issue.Kind)+"]"), issue.Message)
	}

	diffSection(&b, "DIFFERENCES (CRITICAL)", severityDiffs(in.Diffs, finding.SeverityCritical), criticalStyle)
	diffSection(&b, "DIFFERENCES (HIGH)", severityDiffs(in.Diffs, finding.SeverityHigh), highStyle)

	b.WriteString("\n")
	heading(&b, "FILES REMOVED BY REPAIR")
	removed := kindDiffs(in.Diffs, func(k finding.DiffKind) bool { return k == finding.DiffFileRemoved })
	if len(removed) == 0 {
		b.WriteString(mutedStyle.Render("  (none)") + "\n")
	}
	for _, d := range removed {
		if file, ok := d.Fields["file"].(string); ok {
			fmt.Fprintf(&b, "  - %s\n", detailStyle.Render(file))
		}
	}

	diffSection(&b, "SECTION DIFFERENCES", kindDiffs(in.Diffs, containsFn("SECTION")), highStyle)
	diffSection(&b, "NOTESLIDE DIFFERENCES", kindDiffs(in.Diffs, containsFn("NOTESLIDE")), highStyle)
	diffSection(&b, "APP PROPERTIES DIFFERENCES", kindDiffs(in.Diffs, containsFn("APP_")), highStyle)
	diffSection(&b, "COMMENT DIFFERENCES", kindDiffs(in.Diffs, containsFn("COMMENT")), highStyle)

	presRelsSection(&b, in)
	hypothesesSection(&b, in.Hypotheses)

	return b.String()
}

// presRelsSection gives the presentation.xml.rels findings their own
// section with per-relation detail lines, since misplaced relations are
// the most common corruption signature.
func presRelsSection(b *strings.Builder, in Input) {
	b.WriteString("\n")
	heading(b, "PRESENTATION.XML.RELS ANALYSIS")

	var issues []finding.Issue
	for _, issue := range in.CorruptIssues {
		if strings.Contains(string(issue.Kind), "PRES_RELS") ||
			issue.Kind == finding.IssueInvalidPresentationRels {
			issues = append(issues, issue)
		}
	}
	diffs := kindDiffs(in.Diffs, containsFn("PRES_RELS"))

	if len(issues) == 0 && len(diffs) == 0 {
		b.WriteString(mutedStyle.Render("  (no issues detected)") + "\n")
		return
	}

	if len(issues) > 0 {
		b.WriteString("  ISSUES IN CORRUPT FILE:\n")
		for _, issue := range issues {
			fmt.Fprintf(b, "    %s %s\n", criticalStyle.Render("["+string(issue.Kind)+"]"), issue.Message)
			rels, _ := issue.Fields["invalid_relations"].([]map[string]any)
			shown := rels
			if len(shown) > 10 {
				shown = shown[:10]
			}
			for _, rel := range shown {
				fmt.Fprintf(b, "      - %v: %v -> %s\n",
					rel["rid"], rel["type"], detailStyle.Render(fmt.Sprint(rel["target"])))
				fmt.Fprintf(b, "        Reason: %v\n", rel["reason"])
			}
			if len(rels) > 10 {
				fmt.Fprintf(b, "      ... and %d more\n", len(rels)-10)
			}
		}
	}

	if len(diffs) > 0 {
		b.WriteString("\n  DIFFERENCES VS REPAIRED:\n")
		for _, d := range diffs {
			fmt.Fprintf(b, "    %s %s\n", styleFor(d.Severity).Render("["+string(d.Kind)+"]"), d.Message)
			writeTargetList(b, "Corrupt targets", d.Fields["corrupt_targets"])
			writeTargetList(b, "Repaired targets", d.Fields["repaired_targets"])
		}
	}
}

func hypothesesSection(b *strings.Builder, hypotheses []finding.Hypothesis) {
	b.WriteString("\n")
	heading(b, "ROOT CAUSE HYPOTHESES")
	for i, h := range hypotheses {
		title := h.Title
		if strings.HasPrefix(title, "CRITICAL") {
			title = criticalStyle.Render(title)
		} else {
			title = highStyle.Render(title)
		}
		fmt.Fprintf(b, "\n%d. %s\n", i+1, title)
		fmt.Fprintf(b, "   Evidence: %s\n", h.Evidence)
		fmt.Fprintf(b, "   Fix: %s\n", h.Fix)
	}
}

func heading(b *strings.Builder, title string) {
	b.WriteString(headingStyle.Render(rule) + "\n")
	b.WriteString(headingStyle.Render(title) + "\n")
	b.WriteString(headingStyle.Render(rule) + "\n")
}

func diffSection(b *strings.Builder, title string, diffs []finding.Diff, style lipgloss.Style) {
	b.WriteString("\n")
	heading(b, title)
	if len(diffs) == 0 {
		b.WriteString(mutedStyle.Render("  (none)") + "\n")
		return
	}
	for _, d := range diffs {
		fmt.Fprintf(b, "  %s %s\n", style.Render("["+string(d.Kind)+"]"), d.Message)
	}
}

func writeTargetList(b *strings.Builder, label string, v any) {
	targets, ok := v.([]string)
	if !ok || len(targets) == 0 {
		return
	}
	ellipsis := ""
	if len(targets) > 5 {
		targets = targets[:5]
		ellipsis = "..."
	}
	fmt.Fprintf(b, "      %s: %v%s\n", label, targets, ellipsis)
}

func severityDiffs(diffs []finding.Diff, sev finding.Severity) []finding.Diff {
	var out []finding.Diff
	for _, d := range diffs {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

func kindDiffs(diffs []finding.Diff, match func(finding.DiffKind) bool) []finding.Diff {
	var out []finding.Diff
	for _, d := range diffs {
		if match(d.Kind) {
			out = append(out, d)
		}
	}
	return out
}

func containsFn(sub string) func(finding.DiffKind) bool {
	return func(k finding.DiffKind) bool { return strings.Contains(string(k), sub) }
}

func styleFor(sev finding.Severity) lipgloss.Style {
	switch sev {
	case finding.SeverityCritical:
		return criticalStyle
	case finding.SeverityHigh:
		return highStyle
	default:
		return detailStyle
	}
}

// MinSeverity filters diffs below the given severity. Unknown severities
// on either side disable filtering for that diff so nothing silently
// disappears.
func MinSeverity(diffs []finding.Diff, min finding.Severity) []finding.Diff {
	floor := min.Rank()
	if floor <= 0 {
		return diffs
	}
	var out []finding.Diff
	for _, d := range diffs {
		if r := d.Severity.Rank(); r < 0 || r >= floor {
			out = append(out, d)
		}
	}
	return out
}
