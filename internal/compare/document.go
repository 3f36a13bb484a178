// SPDX-License-Identifier: MPL-2.0

package compare

import (
	"fmt"

	"deckscope/internal/opc"
	"deckscope/pkg/finding"
	"deckscope/pkg/partpath"
)

// compareNotesSlides reports notes-slide parts the repair dropped or
// added, and for surviving ones, changes to the slide and master targets
// their relationship sets resolve to. A changed slide target detaches the
// notes from its slide, which is why it rates CRITICAL.
func compareNotesSlides(corrupt, repaired *opc.Model) []finding.Diff {
	var diffs []finding.Diff
	for _, name := range corrupt.NotesSlideNames {
		if _, ok := repaired.NotesSlides[name]; !ok {
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffNotesSlideRemoved,
				Severity: finding.SeverityHigh,
				Message:  fmt.Sprintf("NoteSlide removed by repair: %s", name),
				Fields:   map[string]any{"noteslide": string(name)},
			})
		}
	}
	for _, name := range repaired.NotesSlideNames {
		if _, ok := corrupt.NotesSlides[name]; !ok {
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffNotesSlideAdded,
				Severity: finding.SeverityMedium,
				Message:  fmt.Sprintf("NoteSlide added by repair: %s", name),
				Fields:   map[string]any{"noteslide": string(name)},
			})
		}
	}
	for _, name := range corrupt.NotesSlideNames {
		cNote := corrupt.NotesSlides[name]
		rNote, ok := repaired.NotesSlides[name]
		if !ok {
			continue
		}
		if cNote.SlideTarget != rNote.SlideTarget {
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffNotesSlideSlideRefChanged,
				Severity: finding.SeverityCritical,
				Message: fmt.Sprintf("NoteSlide %s slide reference changed: %s -> %s",
					name, cNote.SlideTarget, rNote.SlideTarget),
				Fields: map[string]any{
					"noteslide":      string(name),
					"corrupt_slide":  string(cNote.SlideTarget),
					"repaired_slide": string(rNote.SlideTarget),
				},
			})
		}
		if cNote.MasterTarget != rNote.MasterTarget {
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffNotesSlideMasterRefChanged,
				Severity: finding.SeverityHigh,
				Message:  fmt.Sprintf("NoteSlide %s master reference changed", name),
				Fields: map[string]any{
					"noteslide":       string(name),
					"corrupt_master":  string(cNote.MasterTarget),
					"repaired_master": string(rNote.MasterTarget),
				},
			})
		}
	}
	return diffs
}

// compareAppProperties reports declared-count divergence in the extended
// application properties.
func compareAppProperties(corrupt, repaired *opc.Model) []finding.Diff {
	var diffs []finding.Diff
	if corrupt.AppProps.Slides != repaired.AppProps.Slides {
		diffs = append(diffs, finding.Diff{
			Kind:     finding.DiffAppSlideCountChanged,
			Severity: finding.SeverityHigh,
			Message: fmt.Sprintf("app.xml slide count changed: %d -> %d",
				corrupt.AppProps.Slides, repaired.AppProps.Slides),
			Fields: map[string]any{
				"corrupt":  corrupt.AppProps.Slides,
				"repaired": repaired.AppProps.Slides,
			},
		})
	}
	if corrupt.AppProps.Notes != repaired.AppProps.Notes {
		diffs = append(diffs, finding.Diff{
			Kind:     finding.DiffAppNoteCountChanged,
			Severity: finding.SeverityHigh,
			Message: fmt.Sprintf("app.xml note count changed: %d -> %d",
				corrupt.AppProps.Notes, repaired.AppProps.Notes),
			Fields: map[string]any{
				"corrupt":  corrupt.AppProps.Notes,
				"repaired": repaired.AppProps.Notes,
			},
		})
	}
	if corrupt.AppProps.HiddenSlides != repaired.AppProps.HiddenSlides {
		diffs = append(diffs, finding.Diff{
			Kind:     finding.DiffAppHiddenSlideCountChanged,
			Severity: finding.SeverityMedium,
			Message: fmt.Sprintf("app.xml hidden slide count changed: %d -> %d",
				corrupt.AppProps.HiddenSlides, repaired.AppProps.HiddenSlides),
			Fields: map[string]any{
				"corrupt":  corrupt.AppProps.HiddenSlides,
				"repaired": repaired.AppProps.HiddenSlides,
			},
		})
	}
	return diffs
}

// compareComments reports author-table divergence, comment parts the
// repair dropped or added, and per-part comment-count changes.
func compareComments(corrupt, repaired *opc.Model) []finding.Diff {
	var diffs []finding.Diff

	cAuthors := corrupt.Comments.AuthorIDSet()
	rAuthors := repaired.Comments.AuthorIDSet()
	if !stringSetsEqual(cAuthors, rAuthors) {
		diffs = append(diffs, finding.Diff{
			Kind:     finding.DiffCommentAuthorsChanged,
			Severity: finding.SeverityMedium,
			Message:  fmt.Sprintf("Comment authors changed: %d -> %d", len(cAuthors), len(rAuthors)),
			Fields: map[string]any{
				"corrupt":  sortedStrings(cAuthors),
				"repaired": sortedStrings(rAuthors),
			},
		})
	}

	for _, file := range corrupt.Comments.FileNames {
		if _, ok := repaired.Comments.Files[file]; !ok {
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffCommentFileRemoved,
				Severity: finding.SeverityMedium,
				Message:  fmt.Sprintf("Comment file removed by repair: %s", file),
				Fields:   map[string]any{"file": string(file)},
			})
		}
	}
	for _, file := range repaired.Comments.FileNames {
		if _, ok := corrupt.Comments.Files[file]; !ok {
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffCommentFileAdded,
				Severity: finding.SeverityLow,
				Message:  fmt.Sprintf("Comment file added by repair: %s", file),
				Fields:   map[string]any{"file": string(file)},
			})
		}
	}
	for _, file := range corrupt.Comments.FileNames {
		rComments, ok := repaired.Comments.Files[file]
		if !ok {
			continue
		}
		cCount := len(corrupt.Comments.Files[file])
		rCount := len(rComments)
		if cCount != rCount {
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffCommentCountChanged,
				Severity: finding.SeverityMedium,
				Message:  fmt.Sprintf("Comment count in %s: %d -> %d", file, cCount, rCount),
				Fields: map[string]any{
					"file":     string(file),
					"corrupt":  cCount,
					"repaired": rCount,
				},
			})
		}
	}
	return diffs
}

// compareXMLContent walks every XML part present in both packages and, on
// a fingerprint mismatch, runs the targeted structural comparison for the
// part kinds this tool models; everything else falls back to a generic
// content-changed diff tagged with both fingerprints. The presentation
// part is skipped here because comparePresentation already covers it in
// detail.
func compareXMLContent(corrupt, repaired *opc.Model) []finding.Diff {
	var diffs []finding.Diff
	for _, name := range corrupt.PartNames {
		if !isXMLPart(name) || !repaired.HasPart(name) {
			continue
		}
		cFP := corrupt.Fingerprints[name]
		rFP := repaired.Fingerprints[name]
		if cFP == rFP {
			continue
		}

		switch name.Kind() {
		case partpath.KindSlide:
			diffs = append(diffs, compareSlideXML(name, corrupt, repaired)...)
		case partpath.KindSlideMaster:
			diffs = append(diffs, compareMasterXML(name, corrupt, repaired)...)
		case partpath.KindSlideLayout:
			diffs = append(diffs, compareLayoutXML(name, corrupt, repaired)...)
		case partpath.KindPresentation:
			// covered by comparePresentation
		default:
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffXMLContentChanged,
				Severity: finding.SeverityMedium,
				Message:  fmt.Sprintf("XML content differs: %s", name),
				Fields: map[string]any{
					"file":          string(name),
					"corrupt_hash":  cFP.Display(),
					"repaired_hash": rFP.Display(),
				},
			})
		}
	}
	return diffs
}

func compareSlideXML(name partpath.PartPath, corrupt, repaired *opc.Model) []finding.Diff {
	cInfo, cOK := corrupt.SlideInfos[name]
	rInfo, rOK := repaired.SlideInfos[name]
	if !cOK || !rOK {
		return nil
	}

	var diffs []finding.Diff
	if cInfo.HasClrMapOvr && rInfo.HasClrMapOvr && cInfo.ClrMapOvrRID != rInfo.ClrMapOvrRID {
		diffs = append(diffs, finding.Diff{
			Kind:     finding.DiffSlideClrMapOvrRIDChanged,
			Severity: finding.SeverityHigh,
			Message: fmt.Sprintf("Slide %s: clrMapOvr rId changed from %s to %s",
				name, cInfo.ClrMapOvrRID, rInfo.ClrMapOvrRID),
			Fields: map[string]any{
				"file":         string(name),
				"corrupt_rid":  cInfo.ClrMapOvrRID,
				"repaired_rid": rInfo.ClrMapOvrRID,
			},
		})
	}
	if cInfo.ShapeCount != rInfo.ShapeCount {
		diffs = append(diffs, finding.Diff{
			Kind:     finding.DiffSlideShapeCountChanged,
			Severity: finding.SeverityLow,
			Message: fmt.Sprintf("Slide %s: shape count changed from %d to %d",
				name, cInfo.ShapeCount, rInfo.ShapeCount),
			Fields: map[string]any{
				"file":     string(name),
				"corrupt":  cInfo.ShapeCount,
				"repaired": rInfo.ShapeCount,
			},
		})
	}
	return diffs
}

func compareMasterXML(name partpath.PartPath, corrupt, repaired *opc.Model) []finding.Diff {
	cInfo, cOK := corrupt.MasterInfos[name]
	rInfo, rOK := repaired.MasterInfos[name]
	if !cOK || !rOK || cInfo.LayoutCount == rInfo.LayoutCount {
		return nil
	}
	return []finding.Diff{{
		Kind:     finding.DiffSlideMasterLayoutCountChanged,
		Severity: finding.SeverityHigh,
		Message: fmt.Sprintf("SlideMaster %s: layout count changed from %d to %d",
			name, cInfo.LayoutCount, rInfo.LayoutCount),
		Fields: map[string]any{
			"file":     string(name),
			"corrupt":  cInfo.LayoutCount,
			"repaired": rInfo.LayoutCount,
		},
	}}
}

func compareLayoutXML(name partpath.PartPath, corrupt, repaired *opc.Model) []finding.Diff {
	cInfo, cOK := corrupt.LayoutInfos[name]
	rInfo, rOK := repaired.LayoutInfos[name]
	if !cOK || !rOK || cInfo.Type == rInfo.Type {
		return nil
	}
	return []finding.Diff{{
		Kind:     finding.DiffSlideLayoutTypeChanged,
		Severity: finding.SeverityHigh,
		Message: fmt.Sprintf("SlideLayout %s: type changed from '%s' to '%s'",
			name, cInfo.Type, rInfo.Type),
		Fields: map[string]any{
			"file":     string(name),
			"corrupt":  cInfo.Type,
			"repaired": rInfo.Type,
		},
	}}
}

// compareRenames surfaces content that survived the repair under a
// different name: a fingerprint present in both packages whose name sets
// differ is rename evidence, not damage.
func compareRenames(corrupt, repaired *opc.Model) []finding.Diff {
	var diffs []finding.Diff
	seen := map[opc.Fingerprint]bool{}
	for _, name := range corrupt.PartNames {
		fp := corrupt.Fingerprints[name]
		if seen[fp] {
			continue
		}
		seen[fp] = true

		rNames, ok := repaired.FingerprintIndex[fp]
		if !ok {
			continue
		}
		cNames := corrupt.FingerprintIndex[fp]
		if partSetsEqual(cNames, rNames) {
			continue
		}
		diffs = append(diffs, finding.Diff{
			Kind:     finding.DiffRenamedIdenticalContent,
			Severity: finding.SeverityInfo,
			Message: fmt.Sprintf("Same content, different names: %v vs %v",
				partsToStrings(cNames), partsToStrings(rNames)),
			Fields: map[string]any{
				"hash":           fp.Display(),
				"corrupt_files":  partsToStrings(cNames),
				"repaired_files": partsToStrings(rNames),
			},
		})
	}
	return diffs
}

// partSetsEqual compares two sorted part-name slices as sets.
func partSetsEqual(a, b []partpath.PartPath) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
