// SPDX-License-Identifier: MPL-2.0

package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckscope/internal/compare"
	"deckscope/internal/hypothesis"
	"deckscope/internal/opc"
	"deckscope/internal/report"
	"deckscope/internal/testutil"
	"deckscope/internal/validate"
	"deckscope/pkg/finding"
)

// analyze runs the full pipeline over two fixture packages.
func analyze(t *testing.T, corruptEntries, repairedEntries map[string]string) report.Input {
	t.Helper()

	corrupt, err := opc.Load(testutil.MustWritePackage(t, corruptEntries))
	require.NoError(t, err)
	repaired, err := opc.Load(testutil.MustWritePackage(t, repairedEntries))
	require.NoError(t, err)

	corruptIssues := validate.Run(corrupt)
	diffs := compare.Packages(corrupt, repaired)
	return report.Input{
		Corrupt:        corrupt,
		Repaired:       repaired,
		CorruptIssues:  corruptIssues,
		RepairedIssues: validate.Run(repaired),
		Diffs:          diffs,
		Hypotheses:     hypothesis.Generate(corruptIssues, diffs),
	}
}

func TestTextCleanComparison(t *testing.T) {
	t.Parallel()

	in := analyze(t, testutil.BasicPackageEntries(), testutil.BasicPackageEntries())
	text := report.Text(in)

	assert.Contains(t, text, "PPTX DEEP COMPARISON REPORT")
	assert.Contains(t, text, "ISSUES IN CORRUPT FILE")
	assert.Contains(t, text, "(none detected)")
	assert.Contains(t, text, "DIFFERENCES (CRITICAL)")
	assert.Contains(t, text, "PRESENTATION.XML.RELS ANALYSIS")
	assert.Contains(t, text, "(no issues detected)")
	assert.Contains(t, text, "ROOT CAUSE HYPOTHESES")
	assert.Contains(t, text, "1. No obvious issues detected")
}

func TestTextMisplacedRelations(t *testing.T) {
	t.Parallel()

	corruptEntries := testutil.BasicPackageEntries()
	corruptEntries["ppt/_rels/presentation.xml.rels"] = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster" Target="notesMasters/notesMaster1.xml"/>
  <Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="slides/slide1.xml"/>
</Relationships>`

	in := analyze(t, corruptEntries, testutil.BasicPackageEntries())
	text := report.Text(in)

	assert.Contains(t, text, "[INVALID_PRESENTATION_RELS]")
	assert.Contains(t, text, "- rId4: image -> ")
	assert.Contains(t, text, "Reason: Images should be in slide/layout/master .rels")
	assert.Contains(t, text, "DIFFERENCES VS REPAIRED:")
	assert.Contains(t, text, "[PRES_RELS_TYPE_COUNT_CHANGED]")
	assert.Contains(t, text, "1. CRITICAL: Misplaced relations in presentation.xml.rels")
}

func TestTextReportsRemovedFiles(t *testing.T) {
	t.Parallel()

	corruptEntries := testutil.BasicPackageEntries()
	corruptEntries["ppt/media/orphan.bin"] = "payload"

	in := analyze(t, corruptEntries, testutil.BasicPackageEntries())
	// The orphan has no content type, so the corrupt side carries an issue.
	require.NotEmpty(t, in.CorruptIssues)

	text := report.Text(in)
	assert.Contains(t, text, "FILES REMOVED BY REPAIR")
	assert.Contains(t, text, "ppt/media/orphan.bin")
	assert.Contains(t, text, "[MISSING_CONTENT_TYPE]")
}

func TestMinSeverity(t *testing.T) {
	t.Parallel()

	diffs := []finding.Diff{
		{Kind: finding.DiffFileAdded, Severity: finding.SeverityMedium},
		{Kind: finding.DiffFileRemoved, Severity: finding.SeverityHigh},
		{Kind: finding.DiffRenamedIdenticalContent, Severity: finding.SeverityInfo},
	}

	assert.Len(t, report.MinSeverity(diffs, finding.SeverityInfo), 3)

	high := report.MinSeverity(diffs, finding.SeverityHigh)
	require.Len(t, high, 1)
	assert.Equal(t, finding.DiffFileRemoved, high[0].Kind)
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := report.Record{
		CorruptIssues: []finding.Issue{
			{Kind: finding.IssueBrokenRef, Message: "broken", Fields: map[string]any{"rid": "rId1"}},
		},
		RepairedIssues: []finding.Issue{},
		Diffs: []finding.Diff{
			{Kind: finding.DiffFileRemoved, Severity: finding.SeverityHigh, Message: "gone"},
		},
	}

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, report.WriteJSON(path, rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	issues, ok := decoded["corrupt_issues"].([]any)
	require.True(t, ok)
	require.Len(t, issues, 1)
	issue := issues[0].(map[string]any)
	assert.Equal(t, "BROKEN_REF", issue["type"])
	assert.Equal(t, "broken", issue["msg"])
	assert.Equal(t, "rId1", issue["rid"])

	diffsList, ok := decoded["diffs"].([]any)
	require.True(t, ok)
	diff := diffsList[0].(map[string]any)
	assert.Equal(t, "FILE_REMOVED", diff["type"])
	assert.Equal(t, "HIGH", diff["severity"])

	// Indented output ends with a newline for POSIX-friendly files.
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}
