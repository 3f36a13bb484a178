// SPDX-License-Identifier: MPL-2.0

// Package hypothesis maps the corrupt package's issues and the
// corrupt-vs-repaired diff list to ranked root-cause explanations. Each
// rule pattern-matches the finding lists and, when triggered, contributes
// one hypothesis; the misplaced-presentation-relations rule is always
// surfaced first because it is the most actionable signal. The generator
// is deterministic: the same findings always produce the same hypotheses
// in the same order.
package hypothesis

import (
	"fmt"
	"sort"
	"strings"

	"deckscope/pkg/finding"
)

// Generate derives root-cause hypotheses from the corrupt model's issues
// and the diff list. When no rule triggers, a single fallback hypothesis
// notes that the differences may be non-semantic.
func Generate(issues []finding.Issue, diffs []finding.Diff) []finding.Hypothesis {
	var hypotheses []finding.Hypothesis

	if dupRIDs := issuesOfKind(issues, finding.IssueDuplicateRID); len(dupRIDs) > 0 {
		hypotheses = append(hypotheses, finding.Hypothesis{
			Title:    "CRITICAL: Duplicate rId in .rels files",
			Evidence: fmt.Sprintf("%d duplicate rId found: %v", len(dupRIDs), stringFields(dupRIDs, "rid", 3)),
			Fix:      "Remap rId when merging to avoid collisions (use incremental counter per .rels file)",
		})
	}

	dupIDs := len(issuesOfKind(issues, finding.IssueDuplicateSlideID)) +
		len(issuesOfKind(issues, finding.IssueDuplicateMasterID))
	if dupIDs > 0 {
		hypotheses = append(hypotheses, finding.Hypothesis{
			Title:    "CRITICAL: Duplicate slideId/slideMasterId in presentation.xml",
			Evidence: fmt.Sprintf("%d duplicate ID issues", dupIDs),
			Fix:      "Generate unique IDs when merging (use max existing ID + offset)",
		})
	}

	if noMaster := issuesOfKind(issues, finding.IssueLayoutNoMaster); len(noMaster) > 0 {
		hypotheses = append(hypotheses, finding.Hypothesis{
			Title:    "SlideLayout missing slideMaster relation",
			Evidence: fmt.Sprintf("%d layouts without master: %v", len(noMaster), stringFields(noMaster, "part", 3)),
			Fix:      "Ensure slideLayout .rels always includes relation to its slideMaster",
		})
	}

	if orphans := diffsOfKind(diffs, finding.DiffFileRemoved); len(orphans) > 0 {
		hypotheses = append(hypotheses, finding.Hypothesis{
			Title:    "Orphan Parts (unreferenced files)",
			Evidence: fmt.Sprintf("%d files removed: %v", len(orphans), diffStringFields(orphans, "file", 5)),
			Fix:      "After merge, scan all files and remove any not referenced in .rels",
		})
	}

	if broken := issuesOfKind(issues, finding.IssueBrokenRef); len(broken) > 0 {
		hypotheses = append(hypotheses, finding.Hypothesis{
			Title:    "Broken Relations (rId points to non-existent part)",
			Evidence: fmt.Sprintf("%d broken refs detected", len(broken)),
			Fix:      "After adding parts, validate all relations resolve to existing files",
		})
	}

	if n := countDiffs(diffs, func(d finding.Diff) bool {
		return strings.Contains(string(d.Kind), "RELATION")
	}); n > 0 {
		hypotheses = append(hypotheses, finding.Hypothesis{
			Title:    "Invalid Relations Structure",
			Evidence: fmt.Sprintf("%d relation differences", n),
			Fix:      "Ensure rId remapping is consistent across all XML files",
		})
	}

	if len(diffsOfKind(diffs, finding.DiffSlideIDListChanged)) > 0 {
		hypotheses = append(hypotheses, finding.Hypothesis{
			Title:    "Inconsistent slideIdList",
			Evidence: "slideIdList in presentation.xml differs",
			Fix:      "Ensure slideId values are unique and rId references match .rels",
		})
	}

	noteIssues := countIssues(issues, func(i finding.Issue) bool {
		return strings.Contains(string(i.Kind), "NOTESLIDE")
	})
	noteDiffs := countDiffs(diffs, func(d finding.Diff) bool {
		return strings.Contains(string(d.Kind), "NOTESLIDE") && isSevere(d.Severity)
	})
	if noteIssues > 0 || noteDiffs > 0 {
		hypotheses = append(hypotheses, finding.Hypothesis{
			Title:    "NoteSlide Reference Issues",
			Evidence: fmt.Sprintf("%d issues in corrupt, %d differences with repaired", noteIssues, noteDiffs),
			Fix:      "Ensure bidirectional Slide <-> NoteSlide references are updated when cloning/renaming",
		})
	}

	sectionIssues := countIssues(issues, func(i finding.Issue) bool {
		return strings.Contains(string(i.Kind), "SECTION")
	})
	sectionDiffs := countDiffs(diffs, func(d finding.Diff) bool {
		return strings.Contains(string(d.Kind), "SECTION") && isSevere(d.Severity)
	})
	if sectionIssues > 0 || sectionDiffs > 0 {
		hypotheses = append(hypotheses, finding.Hypothesis{
			Title:    "Section Reference Issues",
			Evidence: fmt.Sprintf("%d issues in corrupt, %d differences with repaired", sectionIssues, sectionDiffs),
			Fix:      "Update section slideId references after merge when slide IDs are renumbered",
		})
	}

	appIssues := countIssues(issues, func(i finding.Issue) bool {
		return strings.HasPrefix(string(i.Kind), "APP_")
	})
	appDiffs := countDiffs(diffs, func(d finding.Diff) bool {
		return strings.HasPrefix(string(d.Kind), "APP_") && isSevere(d.Severity)
	})
	if appIssues > 0 || appDiffs > 0 {
		hypotheses = append(hypotheses, finding.Hypothesis{
			Title:    "App Properties Count Mismatch",
			Evidence: fmt.Sprintf("%d issues in corrupt, %d differences with repaired", appIssues, appDiffs),
			Fix:      "Update docProps/app.xml slide and note counts after merge",
		})
	}

	if n := countIssues(issues, func(i finding.Issue) bool {
		return strings.Contains(string(i.Kind), "NOTESMASTER")
	}); n > 0 {
		hypotheses = append(hypotheses, finding.Hypothesis{
			Title:    "NotesMaster Missing or Invalid",
			Evidence: fmt.Sprintf("%d notesMaster issues detected", n),
			Fix:      "Ensure notesMaster is properly referenced in presentation.xml and all notesSlides",
		})
	}

	if h, ok := misplacedRelsHypothesis(issues, diffs); ok {
		hypotheses = append([]finding.Hypothesis{h}, hypotheses...)
	}

	if len(hypotheses) == 0 {
		hypotheses = append(hypotheses, finding.Hypothesis{
			Title:    "No obvious issues detected",
			Evidence: "Differences may be formatting or optional elements",
			Fix:      "Check XML content diffs in detail",
		})
	}
	return hypotheses
}

// misplacedRelsHypothesis builds the strongest signal: relationship kinds
// that belong to slide/layout/master descriptors sitting directly in the
// presentation's descriptor. It is inserted ahead of every other
// hypothesis when triggered.
func misplacedRelsHypothesis(issues []finding.Issue, diffs []finding.Diff) (finding.Hypothesis, bool) {
	var invalidIssues []finding.Issue
	for _, i := range issues {
		if i.Kind == finding.IssueInvalidPresentationRels ||
			strings.HasPrefix(string(i.Kind), finding.PresRelsInvalidKindPrefix) {
			invalidIssues = append(invalidIssues, i)
		}
	}
	var countDiffList []finding.Diff
	for _, d := range diffs {
		if d.Kind == finding.DiffPresRelsTypeCountChanged && d.Severity == finding.SeverityCritical {
			countDiffList = append(countDiffList, d)
		}
	}
	if len(invalidIssues) == 0 && len(countDiffList) == 0 {
		return finding.Hypothesis{}, false
	}

	misplaced := map[string]bool{}
	for _, i := range invalidIssues {
		rels, _ := i.Fields["invalid_relations"].([]map[string]any)
		for _, rel := range rels {
			if name, _ := rel["type"].(string); name != "" {
				misplaced[name] = true
			}
		}
	}
	for _, d := range countDiffList {
		cCount, _ := d.Fields["corrupt_count"].(int)
		rCount, _ := d.Fields["repaired_count"].(int)
		if cCount > rCount {
			if name, _ := d.Fields["rel_type"].(string); name != "" {
				misplaced[name] = true
			}
		}
	}
	kinds := make([]string, 0, len(misplaced))
	for k := range misplaced {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	return finding.Hypothesis{
		Title: "CRITICAL: Misplaced relations in presentation.xml.rels",
		Evidence: fmt.Sprintf("Found %d invalid relation types: %v. "+
			"These relations should be in their respective container .rels files, not presentation.xml.rels.",
			len(invalidIssues), kinds),
		Fix: "Fix the merge step that clones resources so relations land in the correct .rels file:\n" +
			"   - Images -> slide/layout/master .rels\n" +
			"   - SlideLayouts -> slideMaster .rels\n" +
			"   - NotesSlides -> slide .rels",
	}, true
}

func issuesOfKind(issues []finding.Issue, kind finding.IssueKind) []finding.Issue {
	var out []finding.Issue
	for _, i := range issues {
		if i.Kind == kind {
			out = append(out, i)
		}
	}
	return out
}

func diffsOfKind(diffs []finding.Diff, kind finding.DiffKind) []finding.Diff {
	var out []finding.Diff
	for _, d := range diffs {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func countIssues(issues []finding.Issue, match func(finding.Issue) bool) int {
	n := 0
	for _, i := range issues {
		if match(i) {
			n++
		}
	}
	return n
}

func countDiffs(diffs []finding.Diff, match func(finding.Diff) bool) int {
	n := 0
	for _, d := range diffs {
		if match(d) {
			n++
		}
	}
	return n
}

func isSevere(s finding.Severity) bool {
	return s == finding.SeverityCritical || s == finding.SeverityHigh
}

// stringFields collects a string field from up to limit issues.
func stringFields(issues []finding.Issue, field string, limit int) []string {
	var out []string
	for _, i := range issues {
		if len(out) == limit {
			break
		}
		if v, ok := i.Fields[field].(string); ok {
			out = append(out, v)
		}
	}
	return out
}

// diffStringFields collects a string field from up to limit diffs.
func diffStringFields(diffs []finding.Diff, field string, limit int) []string {
	var out []string
	for _, d := range diffs {
		if len(out) == limit {
			break
		}
		if v, ok := d.Fields[field].(string); ok {
			out = append(out, v)
		}
	}
	return out
}
