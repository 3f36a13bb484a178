// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"fmt"
	"strings"

	"deckscope/internal/opc"
	"deckscope/pkg/finding"
	"deckscope/pkg/partpath"
)

// checkDuplicateRelIDs reports every relationship id that appears more
// than once within one source's relationship set.
func checkDuplicateRelIDs(m *opc.Model) []finding.Issue {
	var issues []finding.Issue
	for _, source := range m.RelSources {
		counts := map[string]int{}
		var order []string
		for _, rel := range m.Rels[source] {
			if counts[rel.ID] == 0 {
				order = append(order, rel.ID)
			}
			counts[rel.ID]++
		}
		for _, rid := range order {
			if counts[rid] > 1 {
				issues = append(issues, finding.Issue{
					Kind:    finding.IssueDuplicateRID,
					Message: fmt.Sprintf("Duplicate rId '%s' in relations for: %s", rid, source),
					Fields: map[string]any{
						"source": string(source),
						"rid":    rid,
						"count":  counts[rid],
					},
				})
			}
		}
	}
	return issues
}

// checkBrokenRefs reports every internal relationship whose resolved
// target is not in the loaded part set. The membership test is strict, so
// resolution must already be canonical.
func checkBrokenRefs(m *opc.Model) []finding.Issue {
	var issues []finding.Issue
	for _, source := range m.RelSources {
		for _, rel := range m.Rels[source] {
			if !rel.IsInternal() || rel.Resolved == "" {
				continue
			}
			if !m.HasPart(rel.Resolved) {
				issues = append(issues, finding.Issue{
					Kind:    finding.IssueBrokenRef,
					Message: fmt.Sprintf("Broken reference: %s -> %s (rId=%s)", source, rel.Resolved, rel.ID),
					Fields: map[string]any{
						"source": string(source),
						"target": string(rel.Resolved),
						"rid":    rel.ID,
					},
				})
			}
		}
	}
	return issues
}

// checkContentTypeCoverage reports every part, other than relationship
// descriptors and the manifest itself, with neither an override nor an
// extension default.
func checkContentTypeCoverage(m *opc.Model) []finding.Issue {
	var issues []finding.Issue
	for _, part := range m.PartNames {
		if strings.HasPrefix(string(part), "_rels/") || part.IsRels() || part == partpath.ContentTypes {
			continue
		}
		if _, ok := m.ContentTypes.MediaType(part); !ok {
			issues = append(issues, finding.Issue{
				Kind:    finding.IssueMissingContentType,
				Message: fmt.Sprintf("No content type for: %s", part),
				Fields:  map[string]any{"part": string(part)},
			})
		}
	}
	return issues
}

// checkLayoutMasterChain verifies that every slide layout has its own
// relationship descriptor and that the descriptor points at a slide
// master.
func checkLayoutMasterChain(m *opc.Model) []finding.Issue {
	var issues []finding.Issue
	for _, layout := range m.PartsOfKind(partpath.KindSlideLayout) {
		if !m.HasPart(layout.RelsFor()) {
			issues = append(issues, finding.Issue{
				Kind:    finding.IssueMissingLayoutRels,
				Message: fmt.Sprintf("SlideLayout missing .rels file: %s", layout),
				Fields:  map[string]any{"part": string(layout)},
			})
			continue
		}
		hasMaster := false
		for _, rel := range m.Rels[layout] {
			if rel.TypeName() == "slideMaster" {
				hasMaster = true
				break
			}
		}
		if !hasMaster {
			issues = append(issues, finding.Issue{
				Kind:    finding.IssueLayoutNoMaster,
				Message: fmt.Sprintf("SlideLayout has no slideMaster relation: %s", layout),
				Fields:  map[string]any{"part": string(layout)},
			})
		}
	}
	return issues
}

// checkPresentationIDs reports duplicate values in the presentation's
// slide-id and slide-master-id lists.
func checkPresentationIDs(m *opc.Model) []finding.Issue {
	if m.Presentation == nil {
		return nil
	}
	var issues []finding.Issue
	if dups := duplicateIDs(m.Presentation.SlideIDs); len(dups) > 0 {
		issues = append(issues, finding.Issue{
			Kind:    finding.IssueDuplicateSlideID,
			Message: fmt.Sprintf("Duplicate slideId values: %v", dups),
			Fields:  map[string]any{"ids": dups},
		})
	}
	if dups := duplicateIDs(m.Presentation.MasterIDs); len(dups) > 0 {
		issues = append(issues, finding.Issue{
			Kind:    finding.IssueDuplicateMasterID,
			Message: fmt.Sprintf("Duplicate slideMasterId values: %v", dups),
			Fields:  map[string]any{"ids": dups},
		})
	}
	return issues
}

// duplicateIDs returns the id values appearing more than once, in
// first-occurrence order.
func duplicateIDs(refs []opc.IDRef) []string {
	counts := map[string]int{}
	var order []string
	for _, ref := range refs {
		if ref.ID == "" {
			continue
		}
		if counts[ref.ID] == 0 {
			order = append(order, ref.ID)
		}
		counts[ref.ID]++
	}
	var dups []string
	for _, id := range order {
		if counts[id] > 1 {
			dups = append(dups, id)
		}
	}
	return dups
}

// misplacedPresRelKinds lists the relationship kinds that belong in a
// slide, layout or master descriptor and must never appear directly in the
// presentation's own descriptor, with the reason reported per occurrence.
// Order fixes the per-kind aggregate issue order.
var misplacedPresRelKinds = []struct {
	name   string
	reason string
}{
	{"image", "Images should be in slide/layout/master .rels, not presentation.xml.rels"},
	{"slideLayout", "SlideLayouts should be in slideMaster .rels, not presentation.xml.rels"},
	{"notesSlide", "NotesSlides should be in slide .rels, not presentation.xml.rels"},
	{"audio", "Audio should be in slide .rels, not presentation.xml.rels"},
	{"video", "Video should be in slide .rels, not presentation.xml.rels"},
	{"chart", "Charts should be in slide .rels, not presentation.xml.rels"},
	{"oleObject", "OLE objects should be in slide .rels, not presentation.xml.rels"},
}

// checkPresentationRels reports relationship kinds misplaced into the
// presentation's descriptor: one aggregate issue listing every offender,
// plus one per-kind count issue.
func checkPresentationRels(m *opc.Model) []finding.Issue {
	reasons := make(map[string]string, len(misplacedPresRelKinds))
	for _, k := range misplacedPresRelKinds {
		reasons[k.name] = k.reason
	}

	var invalid []map[string]any
	byKind := map[string][]opc.Relationship{}
	for _, rel := range m.Rels[partpath.Presentation] {
		name := rel.TypeName()
		reason, bad := reasons[name]
		if !bad {
			continue
		}
		invalid = append(invalid, map[string]any{
			"rid":    rel.ID,
			"type":   name,
			"target": rel.Target,
			"reason": reason,
		})
		byKind[name] = append(byKind[name], rel)
	}
	if len(invalid) == 0 {
		return nil
	}

	issues := []finding.Issue{{
		Kind:    finding.IssueInvalidPresentationRels,
		Message: fmt.Sprintf("presentation.xml.rels contains %d invalid relation types", len(invalid)),
		Fields:  map[string]any{"invalid_relations": invalid},
	}}

	for _, k := range misplacedPresRelKinds {
		rels := byKind[k.name]
		if len(rels) == 0 {
			continue
		}
		rids := make([]string, 0, len(rels))
		targets := make([]string, 0, len(rels))
		for _, rel := range rels {
			rids = append(rids, rel.ID)
			targets = append(targets, rel.Target)
		}
		shown := rids
		ellipsis := ""
		if len(shown) > 5 {
			shown = shown[:5]
			ellipsis = "..."
		}
		issues = append(issues, finding.Issue{
			Kind:    finding.IssueKind(finding.PresRelsInvalidKindPrefix + strings.ToUpper(k.name)),
			Message: fmt.Sprintf("%d %s relations incorrectly in presentation.xml.rels: %v%s", len(rels), k.name, shown, ellipsis),
			Fields: map[string]any{
				"count":   len(rels),
				"rids":    rids,
				"targets": targets,
			},
		})
	}
	return issues
}

// checkSections verifies that every slide id referenced inside a named
// section exists in the presentation's slide-id list.
func checkSections(m *opc.Model) []finding.Issue {
	if m.Presentation == nil {
		return nil
	}
	known := m.Presentation.SlideIDSet()
	var issues []finding.Issue
	for _, section := range m.Presentation.Sections {
		for _, ref := range section.SlideIDs {
			if ref.ID == "" || known[ref.ID] {
				continue
			}
			issues = append(issues, finding.Issue{
				Kind:    finding.IssueSectionInvalidSlideRef,
				Message: fmt.Sprintf("Section '%s' references non-existent slideId: %s", section.Name, ref.ID),
				Fields: map[string]any{
					"section": section.Name,
					"slideId": ref.ID,
				},
			})
		}
	}
	return issues
}

// checkNotesMaster verifies that a declared notes master cites a
// relationship id present in the presentation's relationship set.
func checkNotesMaster(m *opc.Model) []finding.Issue {
	if m.Presentation == nil || len(m.Presentation.NotesMasterIDs) == 0 {
		return nil
	}
	rid := m.Presentation.NotesMasterIDs[0].RID
	if rid == "" {
		return nil
	}
	for _, rel := range m.Rels[partpath.Presentation] {
		if rel.ID == rid {
			return nil
		}
	}
	return []finding.Issue{{
		Kind:    finding.IssueMissingNotesMasterRel,
		Message: fmt.Sprintf("notesMaster references rId %s but relation not found", rid),
		Fields:  map[string]any{"rid": rid},
	}}
}

// checkNotesSlides verifies both directions of the notes-slide linkage: a
// color-map override must cite an existing slide relationship, and every
// notes slide must relate to a notes master.
func checkNotesSlides(m *opc.Model) []finding.Issue {
	var issues []finding.Issue
	for _, name := range m.NotesSlideNames {
		note := m.NotesSlides[name]

		if note.HasClrMapOvr && note.ClrMapOvrRID != "" {
			found := false
			for _, rel := range m.Rels[name] {
				if rel.ID == note.ClrMapOvrRID && rel.TypeName() == "slide" {
					found = true
					break
				}
			}
			if !found {
				issues = append(issues, finding.Issue{
					Kind:    finding.IssueNotesSlideMissingRef,
					Message: fmt.Sprintf("NoteSlide %s references slide rId %s but relation not found", name, note.ClrMapOvrRID),
					Fields: map[string]any{
						"noteslide": string(name),
						"rid":       note.ClrMapOvrRID,
					},
				})
			}
		}

		if !note.HasMasterRel {
			issues = append(issues, finding.Issue{
				Kind:    finding.IssueNotesSlideNoMaster,
				Message: fmt.Sprintf("NoteSlide %s has no notesMaster relation", name),
				Fields:  map[string]any{"noteslide": string(name)},
			})
		}
	}
	return issues
}

// checkAppProperties compares the declared slide and notes counts against
// the parts actually present.
func checkAppProperties(m *opc.Model) []finding.Issue {
	if !m.AppProps.Present {
		return nil
	}
	var issues []finding.Issue
	actualSlides := len(m.PartsOfKind(partpath.KindSlide))
	actualNotes := len(m.PartsOfKind(partpath.KindNotesSlide))

	if m.AppProps.Slides != actualSlides {
		issues = append(issues, finding.Issue{
			Kind:    finding.IssueAppSlideCountMismatch,
			Message: fmt.Sprintf("app.xml declares %d slides but found %d", m.AppProps.Slides, actualSlides),
			Fields: map[string]any{
				"declared": m.AppProps.Slides,
				"actual":   actualSlides,
			},
		})
	}
	if m.AppProps.Notes != actualNotes {
		issues = append(issues, finding.Issue{
			Kind:    finding.IssueAppNoteCountMismatch,
			Message: fmt.Sprintf("app.xml declares %d notes but found %d", m.AppProps.Notes, actualNotes),
			Fields: map[string]any{
				"declared": m.AppProps.Notes,
				"actual":   actualNotes,
			},
		})
	}
	return issues
}

// checkComments verifies that every comment cites a declared author. The
// rule needs the author table, so it only runs when the author part
// exists; malformed XML on either side is reported, not fatal.
func checkComments(m *opc.Model) []finding.Issue {
	if !m.Comments.AuthorsPresent {
		return nil
	}
	if m.Comments.AuthorsMalformed {
		return []finding.Issue{{
			Kind:    finding.IssueInvalidCommentAuthors,
			Message: "commentAuthors.xml is not valid XML",
		}}
	}

	malformed := make(map[partpath.PartPath]bool, len(m.Comments.Malformed))
	for _, name := range m.Comments.Malformed {
		malformed[name] = true
	}

	authorIDs := m.Comments.AuthorIDSet()
	var issues []finding.Issue
	for _, name := range m.PartsOfKind(partpath.KindComment) {
		if malformed[name] {
			issues = append(issues, finding.Issue{
				Kind:    finding.IssueInvalidCommentXML,
				Message: fmt.Sprintf("Invalid XML in %s", name),
				Fields:  map[string]any{"file": string(name)},
			})
			continue
		}
		for _, comment := range m.Comments.Files[name] {
			if comment.AuthorID == "" || authorIDs[comment.AuthorID] {
				continue
			}
			issues = append(issues, finding.Issue{
				Kind:    finding.IssueCommentInvalidAuthorID,
				Message: fmt.Sprintf("%s references invalid authorId: %s", name, comment.AuthorID),
				Fields: map[string]any{
					"file":      string(name),
					"author_id": comment.AuthorID,
				},
			})
		}
	}
	return issues
}
