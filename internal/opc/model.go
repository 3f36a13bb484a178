// SPDX-License-Identifier: MPL-2.0

// Package opc builds the semantic model of an OPC presentation package:
// the loaded part set with content fingerprints, the content-type table,
// the relationship graph with resolved internal targets, and the
// structural extracts (presentation id lists, app properties, notes
// slides, comments) the integrity rules and the comparison engine consume.
//
// A Model is built once per analyzed file and is read-only afterwards.
// Only the container failing to open or read is fatal; every problem
// inside the content degrades to an empty structure plus a recorded
// defect, because the whole point is to characterize broken input.
package opc

import (
	"fmt"
	"sort"

	"deckscope/pkg/finding"
	"deckscope/pkg/partpath"
)

// Model is the fully built package model.
type Model struct {
	// Path is the filesystem path of the analyzed container.
	Path string

	// PartNames lists every loaded part in sorted order; Parts and
	// Fingerprints are keyed by the same names. Iterating PartNames keeps
	// every downstream pass deterministic.
	PartNames    []partpath.PartPath
	Parts        map[partpath.PartPath][]byte
	Fingerprints map[partpath.PartPath]Fingerprint

	// FingerprintIndex maps each content fingerprint to the sorted names
	// carrying it, for duplicate-content and rename detection.
	FingerprintIndex map[Fingerprint][]partpath.PartPath

	ContentTypes ContentTypeTable

	// Rels maps each source part (empty path for the package root) to its
	// ordered relationship set; RelSources is the sorted key list.
	Rels       map[partpath.PartPath][]Relationship
	RelSources []partpath.PartPath

	// Defects are the problems recorded while building the model: missing
	// or malformed manifest, malformed relationship descriptors. The
	// validator surfaces them ahead of its own findings.
	Defects []finding.Issue

	// Presentation is nil when ppt/presentation.xml is absent or does not
	// parse; rules over it are skipped in that case.
	Presentation *PresentationData

	AppProps AppProperties

	// NotesSlides holds the extract of every notes-slide part whose XML
	// parses; NotesSlideNames is the sorted key list.
	NotesSlides     map[partpath.PartPath]NotesSlideData
	NotesSlideNames []partpath.PartPath

	Comments CommentsData

	// Per-kind structural extracts for the targeted content comparison.
	// Parts whose XML does not parse have no entry.
	SlideInfos  map[partpath.PartPath]SlideInfo
	MasterInfos map[partpath.PartPath]MasterInfo
	LayoutInfos map[partpath.PartPath]LayoutInfo
}

// Load opens the container at path and builds the package model. It fails
// only when the archive itself cannot be opened or read (ArchiveError);
// everything else is recorded in Model.Defects and the corresponding
// structure degrades to empty.
func Load(path string) (*Model, error) {
	entries, err := readArchive(path)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Path:             path,
		Parts:            make(map[partpath.PartPath][]byte, len(entries)),
		Fingerprints:     make(map[partpath.PartPath]Fingerprint, len(entries)),
		FingerprintIndex: make(map[Fingerprint][]partpath.PartPath),
		Rels:             make(map[partpath.PartPath][]Relationship),
		NotesSlides:      make(map[partpath.PartPath]NotesSlideData),
		SlideInfos:       make(map[partpath.PartPath]SlideInfo),
		MasterInfos:      make(map[partpath.PartPath]MasterInfo),
		LayoutInfos:      make(map[partpath.PartPath]LayoutInfo),
	}

	for _, entry := range entries {
		m.Parts[entry.name] = entry.data
		fp := FingerprintBytes(entry.data)
		m.Fingerprints[entry.name] = fp
		m.PartNames = append(m.PartNames, entry.name)
	}
	sort.Slice(m.PartNames, func(i, j int) bool { return m.PartNames[i] < m.PartNames[j] })
	for _, name := range m.PartNames {
		fp := m.Fingerprints[name]
		m.FingerprintIndex[fp] = append(m.FingerprintIndex[fp], name)
	}

	m.buildContentTypes()
	m.buildRels()
	m.buildPresentation()
	m.buildAppProperties()
	m.buildNotesSlides()
	m.buildComments()
	m.buildStructInfos()

	return m, nil
}

// HasPart reports whether the part is in the loaded set. Membership is
// strict: no case folding, no decoding.
func (m *Model) HasPart(p partpath.PartPath) bool {
	_, ok := m.Parts[p]
	return ok
}

// PartsOfKind returns the sorted part names classified as kind.
func (m *Model) PartsOfKind(kind partpath.PartKind) []partpath.PartPath {
	var out []partpath.PartPath
	for _, name := range m.PartNames {
		if name.Kind() == kind {
			out = append(out, name)
		}
	}
	return out
}

func (m *Model) defect(kind finding.IssueKind, msg string, fields map[string]any) {
	m.Defects = append(m.Defects, finding.Issue{Kind: kind, Message: msg, Fields: fields})
}

func (m *Model) buildContentTypes() {
	data, ok := m.Parts[partpath.ContentTypes]
	if !ok {
		m.ContentTypes = emptyContentTypeTable()
		m.defect(finding.IssueMissingContentTypesXML, "Missing [Content_Types].xml", nil)
		return
	}
	table, err := parseContentTypes(data)
	m.ContentTypes = table
	if err != nil {
		m.defect(finding.IssueInvalidXML,
			fmt.Sprintf("Invalid XML in %s: %v", partpath.ContentTypes, err),
			map[string]any{"part": string(partpath.ContentTypes)})
	}
}

func (m *Model) buildRels() {
	for _, name := range m.PartNames {
		if !name.IsRels() {
			continue
		}
		source, ok := partpath.SourceOf(name)
		if !ok {
			continue
		}
		rels, err := parseRels(source, m.Parts[name])
		if err != nil {
			m.defect(finding.IssueInvalidXML,
				fmt.Sprintf("Invalid XML in %s: %v", name, err),
				map[string]any{"part": string(name)})
			m.Rels[source] = nil
			m.RelSources = append(m.RelSources, source)
			continue
		}
		m.Rels[source] = rels
		m.RelSources = append(m.RelSources, source)
	}
	sort.Slice(m.RelSources, func(i, j int) bool { return m.RelSources[i] < m.RelSources[j] })
}

func (m *Model) buildPresentation() {
	data, ok := m.Parts[partpath.Presentation]
	if !ok {
		return
	}
	pres, err := parsePresentation(data)
	if err != nil {
		return
	}
	m.Presentation = pres
}

func (m *Model) buildAppProperties() {
	data, ok := m.Parts[partpath.AppProperties]
	if !ok {
		return
	}
	props, err := parseAppProperties(data)
	if err != nil {
		return
	}
	m.AppProps = props
}

func (m *Model) buildNotesSlides() {
	for _, name := range m.PartsOfKind(partpath.KindNotesSlide) {
		note, err := parseNotesSlide(m.Parts[name])
		if err != nil {
			continue
		}
		for _, rel := range m.Rels[name] {
			switch rel.TypeName() {
			case "slide":
				if rel.IsInternal() && note.SlideTarget == "" {
					note.SlideTarget = rel.Resolved
				}
			case "notesMaster":
				note.HasMasterRel = true
				if note.MasterTarget == "" {
					note.MasterTarget = rel.Resolved
				}
			}
		}
		m.NotesSlides[name] = note
		m.NotesSlideNames = append(m.NotesSlideNames, name)
	}
}

func (m *Model) buildComments() {
	m.Comments.Files = make(map[partpath.PartPath][]Comment)

	if data, ok := m.Parts[partpath.CommentAuthors]; ok {
		m.Comments.AuthorsPresent = true
		authors, err := parseCommentAuthors(data)
		if err != nil {
			m.Comments.AuthorsMalformed = true
		} else {
			m.Comments.Authors = authors
		}
	}

	for _, name := range m.PartsOfKind(partpath.KindComment) {
		comments, err := parseComments(m.Parts[name])
		if err != nil {
			m.Comments.Malformed = append(m.Comments.Malformed, name)
			continue
		}
		m.Comments.Files[name] = comments
		m.Comments.FileNames = append(m.Comments.FileNames, name)
	}
}

func (m *Model) buildStructInfos() {
	for _, name := range m.PartsOfKind(partpath.KindSlide) {
		if info, err := parseSlideInfo(m.Parts[name]); err == nil {
			m.SlideInfos[name] = info
		}
	}
	for _, name := range m.PartsOfKind(partpath.KindSlideMaster) {
		if info, err := parseMasterInfo(m.Parts[name]); err == nil {
			m.MasterInfos[name] = info
		}
	}
	for _, name := range m.PartsOfKind(partpath.KindSlideLayout) {
		if info, err := parseLayoutInfo(m.Parts[name]); err == nil {
			m.LayoutInfos[name] = info
		}
	}
}
