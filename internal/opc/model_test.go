// SPDX-License-Identifier: MPL-2.0

package opc_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckscope/internal/opc"
	"deckscope/internal/testutil"
	"deckscope/pkg/finding"
	"deckscope/pkg/partpath"
)

func TestLoadBasicPackage(t *testing.T) {
	t.Parallel()

	path := testutil.MustWritePackage(t, testutil.BasicPackageEntries())
	m, err := opc.Load(path)
	require.NoError(t, err)

	assert.Empty(t, m.Defects)
	assert.Equal(t, path, m.Path)
	assert.Len(t, m.PartNames, 14)

	// PartNames is sorted and mirrors the Parts map.
	for i := 1; i < len(m.PartNames); i++ {
		assert.Less(t, string(m.PartNames[i-1]), string(m.PartNames[i]))
	}
	for _, name := range m.PartNames {
		assert.True(t, m.HasPart(name))
	}

	mediaType, ok := m.ContentTypes.MediaType(partpath.Presentation)
	require.True(t, ok)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml", mediaType)

	// .rels parts fall back to the extension default.
	mediaType, ok = m.ContentTypes.MediaType(partpath.RootRels)
	require.True(t, ok)
	assert.Equal(t, "application/vnd.openxmlformats-package.relationships+xml", mediaType)

	require.NotNil(t, m.Presentation)
	require.Len(t, m.Presentation.SlideIDs, 1)
	assert.Equal(t, "256", m.Presentation.SlideIDs[0].ID)
	assert.Equal(t, "rId2", m.Presentation.SlideIDs[0].RID)
	require.Len(t, m.Presentation.MasterIDs, 1)
	require.Len(t, m.Presentation.NotesMasterIDs, 1)
	assert.Equal(t, "rId3", m.Presentation.NotesMasterIDs[0].RID)

	assert.True(t, m.AppProps.Present)
	assert.Equal(t, 1, m.AppProps.Slides)
	assert.Equal(t, 1, m.AppProps.Notes)
	assert.Equal(t, 0, m.AppProps.HiddenSlides)

	note, ok := m.NotesSlides[partpath.PartPath("ppt/notesSlides/notesSlide1.xml")]
	require.True(t, ok)
	assert.True(t, note.HasClrMapOvr)
	assert.Empty(t, note.ClrMapOvrRID)
	assert.Equal(t, partpath.PartPath("ppt/slides/slide1.xml"), note.SlideTarget)
	assert.Equal(t, partpath.PartPath("ppt/notesMasters/notesMaster1.xml"), note.MasterTarget)
	assert.True(t, note.HasMasterRel)

	slide, ok := m.SlideInfos[partpath.PartPath("ppt/slides/slide1.xml")]
	require.True(t, ok)
	assert.Equal(t, 2, slide.ShapeCount)
	assert.False(t, slide.HasClrMapOvr)

	master, ok := m.MasterInfos[partpath.PartPath("ppt/slideMasters/slideMaster1.xml")]
	require.True(t, ok)
	assert.Equal(t, 1, master.LayoutCount)

	layout, ok := m.LayoutInfos[partpath.PartPath("ppt/slideLayouts/slideLayout1.xml")]
	require.True(t, ok)
	assert.Equal(t, "title", layout.Type)
}

func TestLoadRelationshipResolution(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	entries["ppt/slides/_rels/slide1.xml.rels"] = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide1.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/x" TargetMode="External"/>
</Relationships>`
	path := testutil.MustWritePackage(t, entries)

	m, err := opc.Load(path)
	require.NoError(t, err)

	rels := m.Rels[partpath.PartPath("ppt/slides/slide1.xml")]
	require.Len(t, rels, 3)

	assert.Equal(t, partpath.PartPath("ppt/slideLayouts/slideLayout1.xml"), rels[0].Resolved)
	assert.Equal(t, "slideLayout", rels[0].TypeName())
	assert.True(t, rels[0].IsInternal())

	// External targets never resolve to a part path.
	assert.Equal(t, opc.ModeExternal, rels[2].Mode)
	assert.False(t, rels[2].IsInternal())
	assert.Empty(t, rels[2].Resolved)

	// Root relationships resolve against the package root.
	rootRels := m.Rels[partpath.PartPath("")]
	require.Len(t, rootRels, 2)
	assert.Equal(t, partpath.PartPath("ppt/presentation.xml"), rootRels[0].Resolved)
}

func TestLoadMissingManifest(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	delete(entries, "[Content_Types].xml")
	path := testutil.MustWritePackage(t, entries)

	m, err := opc.Load(path)
	require.NoError(t, err)

	require.Len(t, m.Defects, 1)
	assert.Equal(t, finding.IssueMissingContentTypesXML, m.Defects[0].Kind)
	assert.Equal(t, "Missing [Content_Types].xml", m.Defects[0].Message)

	_, ok := m.ContentTypes.MediaType(partpath.Presentation)
	assert.False(t, ok)
}

func TestLoadMalformedRels(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	entries["ppt/_rels/presentation.xml.rels"] = "<Relationships><broken"
	path := testutil.MustWritePackage(t, entries)

	m, err := opc.Load(path)
	require.NoError(t, err)

	require.Len(t, m.Defects, 1)
	assert.Equal(t, finding.IssueInvalidXML, m.Defects[0].Kind)
	assert.Equal(t, "ppt/_rels/presentation.xml.rels", m.Defects[0].Fields["part"])

	// The source still appears in RelSources with an empty set, so the
	// relationship rules see the descriptor as present but unusable.
	assert.Contains(t, m.RelSources, partpath.Presentation)
	assert.Nil(t, m.Rels[partpath.Presentation])
}

func TestLoadUnreadableArchive(t *testing.T) {
	t.Parallel()

	_, err := opc.Load(filepath.Join(t.TempDir(), "missing.pptx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, opc.ErrArchive))

	var archiveErr *opc.ArchiveError
	require.True(t, errors.As(err, &archiveErr))
	assert.NotEmpty(t, archiveErr.Path)
}

func TestFingerprintIndexGroupsIdenticalContent(t *testing.T) {
	t.Parallel()

	entries := testutil.BasicPackageEntries()
	entries["ppt/media/image1.png"] = "\x89PNG fake payload"
	entries["ppt/media/image2.png"] = "\x89PNG fake payload"
	path := testutil.MustWritePackage(t, entries)

	m, err := opc.Load(path)
	require.NoError(t, err)

	fp := m.Fingerprints[partpath.PartPath("ppt/media/image1.png")]
	assert.Equal(t, fp, m.Fingerprints[partpath.PartPath("ppt/media/image2.png")])
	assert.Equal(t, []partpath.PartPath{
		"ppt/media/image1.png",
		"ppt/media/image2.png",
	}, m.FingerprintIndex[fp])

	// Display form is a truncated hex prefix of the full digest.
	assert.Len(t, fp.Display(), 16)
	assert.Len(t, fp.String(), 64)
}

func TestPartsOfKind(t *testing.T) {
	t.Parallel()

	path := testutil.MustWritePackage(t, testutil.BasicPackageEntries())
	m, err := opc.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []partpath.PartPath{"ppt/slides/slide1.xml"}, m.PartsOfKind(partpath.KindSlide))
	assert.Equal(t, []partpath.PartPath{"ppt/notesSlides/notesSlide1.xml"}, m.PartsOfKind(partpath.KindNotesSlide))
	assert.Empty(t, m.PartsOfKind(partpath.KindComment))
}
