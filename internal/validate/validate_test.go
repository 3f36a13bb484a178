// SPDX-License-Identifier: MPL-2.0

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckscope/internal/opc"
	"deckscope/internal/testutil"
	"deckscope/internal/validate"
	"deckscope/pkg/finding"
)

// loadPackage builds a package from the entries and loads its model.
func loadPackage(t *testing.T, entries map[string]string) *opc.Model {
	t.Helper()
	path := testutil.MustWritePackage(t, entries)
	m, err := opc.Load(path)
	require.NoError(t, err)
	return m
}

// kindsOf extracts the issue kinds in order.
func kindsOf(issues []finding.Issue) []finding.IssueKind {
	kinds := make([]finding.IssueKind, 0, len(issues))
	for _, i := range issues {
		kinds = append(kinds, i.Kind)
	}
	return kinds
}

func TestRunCleanPackage(t *testing.T) {
	t.Parallel()

	m := loadPackage(t, testutil.BasicPackageEntries())
	assert.Empty(t, validate.Run(m))
}

func TestRunIdempotent(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	entries["ppt/slides/_rels/slide1.xml.rels"] = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/missing.xml"/>
</Relationships>`
	m := loadPackage(t, entries)

	first := validate.Run(m)
	second := validate.Run(m)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestRunSurfacesModelDefectsFirst(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	entries["ppt/slides/_rels/slide1.xml.rels"] = "<Relationships><broken"
	m := loadPackage(t, entries)

	issues := validate.Run(m)
	require.NotEmpty(t, issues)
	assert.Equal(t, finding.IssueInvalidXML, issues[0].Kind)
}

func TestDuplicateRelIDs(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	entries["ppt/slides/_rels/slide1.xml.rels"] = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide1.xml"/>
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>
</Relationships>`
	m := loadPackage(t, entries)

	issues := validate.Run(m)
	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, finding.IssueDuplicateRID, issue.Kind)
	assert.Equal(t, "Duplicate rId 'rId1' in relations for: ppt/slides/slide1.xml", issue.Message)
	assert.Equal(t, "rId1", issue.Fields["rid"])
	assert.Equal(t, 3, issue.Fields["count"])
	assert.Equal(t, "ppt/slides/slide1.xml", issue.Fields["source"])
}

func TestBrokenRefs(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	entries["ppt/slides/_rels/slide1.xml.rels"] = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout9.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide1.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/gone" TargetMode="External"/>
</Relationships>`
	m := loadPackage(t, entries)

	issues := validate.Run(m)
	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, finding.IssueBrokenRef, issue.Kind)
	assert.Equal(t, "ppt/slideLayouts/slideLayout9.xml", issue.Fields["target"])
	assert.Equal(t, "rId1", issue.Fields["rid"])
}

func TestContentTypeCoverage(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	// No Default for png and no Override for the part.
	entries["ppt/media/image1.png"] = "\x89PNG fake payload"
	m := loadPackage(t, entries)

	issues := validate.Run(m)
	require.Len(t, issues, 1)
	assert.Equal(t, finding.IssueMissingContentType, issues[0].Kind)
	assert.Equal(t, "No content type for: ppt/media/image1.png", issues[0].Message)
}

func TestLayoutMasterChain(t *testing.T) {
	t.Parallel()

	t.Run("missing rels descriptor", func(t *testing.T) {
		t.Parallel()
		entries := testutil.BasicPackageEntries()
		delete(entries, "ppt/slideLayouts/_rels/slideLayout1.xml.rels")
		m := loadPackage(t, entries)

		issues := validate.Run(m)
		require.Len(t, issues, 1)
		assert.Equal(t, finding.IssueMissingLayoutRels, issues[0].Kind)
		assert.Equal(t, "ppt/slideLayouts/slideLayout1.xml", issues[0].Fields["part"])
	})

	t.Run("no slideMaster relation", func(t *testing.T) {
		t.Parallel()
		entries := testutil.BasicPackageEntries()
		entries["ppt/slideLayouts/_rels/slideLayout1.xml.rels"] = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>
</Relationships>`
		entries["ppt/theme/theme1.xml"] = `<?xml version="1.0"?><theme/>`
		m := loadPackage(t, entries)

		issues := validate.Run(m)
		require.Len(t, issues, 1)
		assert.Equal(t, finding.IssueLayoutNoMaster, issues[0].Kind)
	})
}

func TestDuplicatePresentationIDs(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	entries["ppt/presentation.xml"] = `<?xml version="1.0"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:sldMasterIdLst>
    <p:sldMasterId id="2147483648" r:id="rId1"/>
    <p:sldMasterId id="2147483648" r:id="rId1"/>
  </p:sldMasterIdLst>
  <p:notesMasterIdLst>
    <p:notesMasterId r:id="rId3"/>
  </p:notesMasterIdLst>
  <p:sldIdLst>
    <p:sldId id="256" r:id="rId2"/>
    <p:sldId id="256" r:id="rId2"/>
  </p:sldIdLst>
</p:presentation>`
	m := loadPackage(t, entries)

	issues := validate.Run(m)
	assert.Equal(t, []finding.IssueKind{
		finding.IssueDuplicateSlideID,
		finding.IssueDuplicateMasterID,
	}, kindsOf(issues))
	assert.Equal(t, []string{"256"}, issues[0].Fields["ids"])
}

func TestMisplacedPresentationRels(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	entries["ppt/_rels/presentation.xml.rels"] = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster" Target="notesMasters/notesMaster1.xml"/>
  <Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="slides/slide1.xml"/>
  <Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="notesSlides/notesSlide1.xml"/>
</Relationships>`
	m := loadPackage(t, entries)

	issues := validate.Run(m)
	require.Len(t, issues, 3)

	aggregate := issues[0]
	assert.Equal(t, finding.IssueInvalidPresentationRels, aggregate.Kind)
	assert.Equal(t, "presentation.xml.rels contains 2 invalid relation types", aggregate.Message)
	invalid, ok := aggregate.Fields["invalid_relations"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, invalid, 2)
	assert.Equal(t, "rId4", invalid[0]["rid"])
	assert.Equal(t, "image", invalid[0]["type"])

	// Per-kind issues follow the fixed kind order: image before notesSlide.
	assert.Equal(t, finding.IssueKind("PRES_RELS_INVALID_IMAGE"), issues[1].Kind)
	assert.Equal(t, 1, issues[1].Fields["count"])
	assert.Equal(t, []string{"rId4"}, issues[1].Fields["rids"])
	assert.Equal(t, finding.IssueKind("PRES_RELS_INVALID_NOTESSLIDE"), issues[2].Kind)
}

func TestSectionInvalidSlideRef(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	entries["ppt/presentation.xml"] = `<?xml version="1.0"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:sldMasterIdLst>
    <p:sldMasterId id="2147483648" r:id="rId1"/>
  </p:sldMasterIdLst>
  <p:notesMasterIdLst>
    <p:notesMasterId r:id="rId3"/>
  </p:notesMasterIdLst>
  <p:sldIdLst>
    <p:sldId id="256" r:id="rId2"/>
  </p:sldIdLst>
  <p:extLst>
    <p:ext>
      <p:sectionLst>
        <p:section name="Intro" id="{A}">
          <p:sldIdLst>
            <p:sldId id="256"/>
            <p:sldId id="999"/>
          </p:sldIdLst>
        </p:section>
      </p:sectionLst>
    </p:ext>
  </p:extLst>
</p:presentation>`
	m := loadPackage(t, entries)

	issues := validate.Run(m)
	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, finding.IssueSectionInvalidSlideRef, issue.Kind)
	assert.Equal(t, "Section 'Intro' references non-existent slideId: 999", issue.Message)
	assert.Equal(t, "999", issue.Fields["slideId"])
}

func TestNotesMasterMissingRelation(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	entries["ppt/presentation.xml"] = `<?xml version="1.0"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:sldMasterIdLst>
    <p:sldMasterId id="2147483648" r:id="rId1"/>
  </p:sldMasterIdLst>
  <p:notesMasterIdLst>
    <p:notesMasterId r:id="rId9"/>
  </p:notesMasterIdLst>
  <p:sldIdLst>
    <p:sldId id="256" r:id="rId2"/>
  </p:sldIdLst>
</p:presentation>`
	m := loadPackage(t, entries)

	issues := validate.Run(m)
	require.Len(t, issues, 1)
	assert.Equal(t, finding.IssueMissingNotesMasterRel, issues[0].Kind)
	assert.Equal(t, "rId9", issues[0].Fields["rid"])
}

func TestNotesSlideChecks(t *testing.T) {
	t.Parallel()

	t.Run("color map override cites unknown relation", func(t *testing.T) {
		t.Parallel()
		entries := testutil.BasicPackageEntries()
		entries["ppt/notesSlides/notesSlide1.xml"] = `<?xml version="1.0"?>
<p:notes xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:clrMapOvr r:id="rId9"/>
</p:notes>`
		m := loadPackage(t, entries)

		issues := validate.Run(m)
		require.Len(t, issues, 1)
		assert.Equal(t, finding.IssueNotesSlideMissingRef, issues[0].Kind)
		assert.Equal(t, "rId9", issues[0].Fields["rid"])
	})

	t.Run("no notesMaster relation", func(t *testing.T) {
		t.Parallel()
		entries := testutil.BasicPackageEntries()
		entries["ppt/notesSlides/_rels/notesSlide1.xml.rels"] = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="../slides/slide1.xml"/>
</Relationships>`
		m := loadPackage(t, entries)

		issues := validate.Run(m)
		require.Len(t, issues, 1)
		assert.Equal(t, finding.IssueNotesSlideNoMaster, issues[0].Kind)
		assert.Equal(t, "ppt/notesSlides/notesSlide1.xml", issues[0].Fields["noteslide"])
	})
}

func TestAppPropertiesCounts(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	entries["docProps/app.xml"] = `<?xml version="1.0"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">
  <Slides>5</Slides>
  <Notes>0</Notes>
</Properties>`
	m := loadPackage(t, entries)

	issues := validate.Run(m)
	assert.Equal(t, []finding.IssueKind{
		finding.IssueAppSlideCountMismatch,
		finding.IssueAppNoteCountMismatch,
	}, kindsOf(issues))
	assert.Equal(t, 5, issues[0].Fields["declared"])
	assert.Equal(t, 1, issues[0].Fields["actual"])
}

func TestCommentChecks(t *testing.T) {
	t.Parallel()

	t.Run("unknown author id", func(t *testing.T) {
		t.Parallel()
		entries := testutil.BasicPackageEntries()
		entries["ppt/commentAuthors.xml"] = `<?xml version="1.0"?>
<p:cmAuthorLst xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:cmAuthor id="0" name="Reviewer" initials="R"/>
</p:cmAuthorLst>`
		entries["ppt/comments/comment1.xml"] = `<?xml version="1.0"?>
<p:cmLst xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:cm authorId="0" dt="2024-01-01T00:00:00" idx="1"/>
  <p:cm authorId="7" dt="2024-01-02T00:00:00" idx="2"/>
</p:cmLst>`
		m := loadPackage(t, entries)

		issues := validate.Run(m)
		require.Len(t, issues, 1)
		issue := issues[0]
		assert.Equal(t, finding.IssueCommentInvalidAuthorID, issue.Kind)
		assert.Equal(t, "7", issue.Fields["author_id"])
		assert.Equal(t, "ppt/comments/comment1.xml", issue.Fields["file"])
	})

	t.Run("malformed author table short-circuits", func(t *testing.T) {
		t.Parallel()
		entries := testutil.BasicPackageEntries()
		entries["ppt/commentAuthors.xml"] = "<p:cmAuthorLst><broken"
		entries["ppt/comments/comment1.xml"] = `<?xml version="1.0"?>
<p:cmLst xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:cm authorId="7"/>
</p:cmLst>`
		m := loadPackage(t, entries)

		issues := validate.Run(m)
		require.Len(t, issues, 1)
		assert.Equal(t, finding.IssueInvalidCommentAuthors, issues[0].Kind)
	})
}
