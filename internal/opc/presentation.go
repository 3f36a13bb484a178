// SPDX-License-Identifier: MPL-2.0

package opc

import (
	"strconv"

	"deckscope/pkg/partpath"
)

type (
	// IDRef pairs a numeric identifier attribute with the relationship id
	// that carries it (sldId, sldMasterId, notesMasterId elements).
	IDRef struct {
		ID  string
		RID string
	}

	// Section is one named section of the presentation with the slide ids
	// it groups.
	Section struct {
		Name     string
		ID       string
		SlideIDs []IDRef
	}

	// PresentationData is the structural extract of ppt/presentation.xml
	// that the id-uniqueness, section and notes-master rules consume.
	PresentationData struct {
		SlideIDs       []IDRef
		MasterIDs      []IDRef
		NotesMasterIDs []IDRef
		Sections       []Section
	}

	// AppProperties carries the declared counts from docProps/app.xml.
	AppProperties struct {
		Present      bool
		Slides       int
		Notes        int
		HiddenSlides int
	}
)

// SlideIDSet returns the set of slide id values declared in the slide id
// list, for section reference checks.
func (p *PresentationData) SlideIDSet() map[string]bool {
	set := make(map[string]bool, len(p.SlideIDs))
	for _, ref := range p.SlideIDs {
		if ref.ID != "" {
			set[ref.ID] = true
		}
	}
	return set
}

// parsePresentation extracts the id lists and sections. The top-level
// slide and master id lists are read as direct children of the
// presentation root so a section's own nested sldIdLst never leaks into
// them; sections themselves are searched anywhere in the tree (they live
// inside an extension list).
func parsePresentation(data []byte) (*PresentationData, error) {
	root, err := parseXML(data)
	if err != nil {
		return nil, err
	}

	pres := &PresentationData{}
	if lst := root.child(nsPresentationML, "sldIdLst"); lst != nil {
		for _, el := range lst.childAll(nsPresentationML, "sldId") {
			pres.SlideIDs = append(pres.SlideIDs, idRefOf(el))
		}
	}
	if lst := root.child(nsPresentationML, "sldMasterIdLst"); lst != nil {
		for _, el := range lst.childAll(nsPresentationML, "sldMasterId") {
			pres.MasterIDs = append(pres.MasterIDs, idRefOf(el))
		}
	}
	if lst := root.child(nsPresentationML, "notesMasterIdLst"); lst != nil {
		for _, el := range lst.childAll(nsPresentationML, "notesMasterId") {
			pres.NotesMasterIDs = append(pres.NotesMasterIDs, idRefOf(el))
		}
	}

	for _, lst := range root.findAll(nsPresentationML, "sectionLst") {
		for _, sect := range lst.childAll(nsPresentationML, "section") {
			section := Section{
				Name: sect.attr("", "name"),
				ID:   sect.attr("", "id"),
			}
			if ids := sect.find(nsPresentationML, "sldIdLst"); ids != nil {
				for _, el := range ids.childAll(nsPresentationML, "sldId") {
					section.SlideIDs = append(section.SlideIDs, idRefOf(el))
				}
			}
			pres.Sections = append(pres.Sections, section)
		}
	}
	return pres, nil
}

func idRefOf(el *element) IDRef {
	return IDRef{
		ID:  el.attr("", "id"),
		RID: el.attr(nsDocRelationships, "id"),
	}
}

// parseAppProperties extracts the declared slide, notes and hidden-slide
// counts. Missing or non-numeric elements count as zero, matching how a
// consumer application would treat them.
func parseAppProperties(data []byte) (AppProperties, error) {
	root, err := parseXML(data)
	if err != nil {
		return AppProperties{}, err
	}

	props := AppProperties{Present: true}
	props.Slides = intText(root.find(nsExtendedProps, "Slides"))
	props.Notes = intText(root.find(nsExtendedProps, "Notes"))
	props.HiddenSlides = intText(root.find(nsExtendedProps, "HiddenSlides"))
	return props, nil
}

func intText(el *element) int {
	if el == nil {
		return 0
	}
	n, err := strconv.Atoi(el.text)
	if err != nil {
		return 0
	}
	return n
}

// NotesSlideData is the structural extract of one notes-slide part plus
// the targets its relationship set provides.
type NotesSlideData struct {
	// HasClrMapOvr and ClrMapOvrRID capture the color-map override and the
	// relationship id it cites, when present.
	HasClrMapOvr bool
	ClrMapOvrRID string
	// SlideTarget and MasterTarget are the resolved targets of the slide
	// and notesMaster relationships, empty when the relationship is
	// missing.
	SlideTarget  partpath.PartPath
	MasterTarget partpath.PartPath
	// HasMasterRel reports whether a notesMaster relationship exists at
	// all, independent of its target.
	HasMasterRel bool
}

// parseNotesSlide extracts the color-map override of one notes-slide part.
// Relationship-derived fields are filled in by the model builder.
func parseNotesSlide(data []byte) (NotesSlideData, error) {
	root, err := parseXML(data)
	if err != nil {
		return NotesSlideData{}, err
	}

	note := NotesSlideData{}
	if ovr := root.find(nsPresentationML, "clrMapOvr"); ovr != nil {
		note.HasClrMapOvr = true
		note.ClrMapOvrRID = ovr.attr(nsDocRelationships, "id")
	}
	return note, nil
}

type (
	// CommentAuthor is one row of the comment author table.
	CommentAuthor struct {
		ID       string
		Name     string
		Initials string
	}

	// Comment is one comment entry of a comment part.
	Comment struct {
		AuthorID string
		DT       string
		Idx      string
	}

	// CommentsData aggregates the author table and the per-part comment
	// lists, plus which comment XML failed to parse so the validator can
	// report it instead of the builder aborting.
	CommentsData struct {
		AuthorsPresent   bool
		AuthorsMalformed bool
		Authors          []CommentAuthor
		Files            map[partpath.PartPath][]Comment
		FileNames        []partpath.PartPath
		Malformed        []partpath.PartPath
	}
)

// AuthorIDSet returns the set of declared author ids.
func (c *CommentsData) AuthorIDSet() map[string]bool {
	set := make(map[string]bool, len(c.Authors))
	for _, a := range c.Authors {
		if a.ID != "" {
			set[a.ID] = true
		}
	}
	return set
}

// parseCommentAuthors extracts the author table.
func parseCommentAuthors(data []byte) ([]CommentAuthor, error) {
	root, err := parseXML(data)
	if err != nil {
		return nil, err
	}

	var authors []CommentAuthor
	for _, el := range root.findAll(nsPresentationML, "cmAuthor") {
		authors = append(authors, CommentAuthor{
			ID:       el.attr("", "id"),
			Name:     el.attr("", "name"),
			Initials: el.attr("", "initials"),
		})
	}
	return authors, nil
}

// parseComments extracts the comment entries of one comment part.
func parseComments(data []byte) ([]Comment, error) {
	root, err := parseXML(data)
	if err != nil {
		return nil, err
	}

	var comments []Comment
	for _, el := range root.findAll(nsPresentationML, "cm") {
		comments = append(comments, Comment{
			AuthorID: el.attr("", "authorId"),
			DT:       el.attr("", "dt"),
			Idx:      el.attr("", "idx"),
		})
	}
	return comments, nil
}
