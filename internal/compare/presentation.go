// SPDX-License-Identifier: MPL-2.0

package compare

import (
	"fmt"
	"reflect"
	"sort"

	"deckscope/internal/opc"
	"deckscope/pkg/finding"
	"deckscope/pkg/partpath"
)

// criticalPresRelKinds are the relationship kinds whose count changing in
// the presentation descriptor is the signature of the misplaced-relations
// corruption pattern.
var criticalPresRelKinds = map[string]bool{
	"image":       true,
	"slideLayout": true,
	"notesSlide":  true,
}

// comparePresentation reports slide-id-list divergence and the detailed
// per-kind relationship counts of the presentation's own descriptor.
func comparePresentation(corrupt, repaired *opc.Model) []finding.Diff {
	var diffs []finding.Diff

	cSlides := slideIDMap(corrupt.Presentation)
	rSlides := slideIDMap(repaired.Presentation)
	if !reflect.DeepEqual(cSlides, rSlides) {
		diffs = append(diffs, finding.Diff{
			Kind:     finding.DiffSlideIDListChanged,
			Severity: finding.SeverityCritical,
			Message:  "slideIdList differs between corrupt and repaired",
			Fields: map[string]any{
				"corrupt":  cSlides,
				"repaired": rSlides,
			},
		})
	}

	diffs = append(diffs, comparePresentationRels(corrupt, repaired)...)
	return diffs
}

// slideIDMap maps relationship id to slide id for the presentation's
// slide-id list; empty for a missing or unparseable presentation part.
func slideIDMap(pres *opc.PresentationData) map[string]string {
	out := map[string]string{}
	if pres == nil {
		return out
	}
	for _, ref := range pres.SlideIDs {
		out[ref.RID] = ref.ID
	}
	return out
}

// comparePresentationRels counts the presentation descriptor's
// relationships per kind on both sides and reports every kind whose count
// changed, plus the total. Kinds that should never be there at all rate
// CRITICAL when their counts diverge.
func comparePresentationRels(corrupt, repaired *opc.Model) []finding.Diff {
	cRels := corrupt.Rels[partpath.Presentation]
	rRels := repaired.Rels[partpath.Presentation]

	cByKind := groupByTypeName(cRels)
	rByKind := groupByTypeName(rRels)

	kinds := map[string]bool{}
	for k := range cByKind {
		kinds[k] = true
	}
	for k := range rByKind {
		kinds[k] = true
	}
	sortedKinds := make([]string, 0, len(kinds))
	for k := range kinds {
		sortedKinds = append(sortedKinds, k)
	}
	sort.Strings(sortedKinds)

	var diffs []finding.Diff
	for _, kind := range sortedKinds {
		cCount := len(cByKind[kind])
		rCount := len(rByKind[kind])
		if cCount == rCount {
			continue
		}
		severity := finding.SeverityHigh
		if criticalPresRelKinds[kind] {
			severity = finding.SeverityCritical
		}
		diffs = append(diffs, finding.Diff{
			Kind:     finding.DiffPresRelsTypeCountChanged,
			Severity: severity,
			Message:  fmt.Sprintf("presentation.xml.rels %s count: %d -> %d", kind, cCount, rCount),
			Fields: map[string]any{
				"rel_type":         kind,
				"corrupt_count":    cCount,
				"repaired_count":   rCount,
				"corrupt_targets":  targetsOf(cByKind[kind]),
				"repaired_targets": targetsOf(rByKind[kind]),
			},
		})
	}

	if len(cRels) != len(rRels) {
		diffs = append(diffs, finding.Diff{
			Kind:     finding.DiffPresRelsTotalCountChanged,
			Severity: finding.SeverityHigh,
			Message:  fmt.Sprintf("Total presentation.xml.rels count: %d -> %d", len(cRels), len(rRels)),
			Fields: map[string]any{
				"corrupt_count":  len(cRels),
				"repaired_count": len(rRels),
			},
		})
	}
	return diffs
}

func groupByTypeName(rels []opc.Relationship) map[string][]opc.Relationship {
	byKind := map[string][]opc.Relationship{}
	for _, rel := range rels {
		name := rel.TypeName()
		byKind[name] = append(byKind[name], rel)
	}
	return byKind
}

func targetsOf(rels []opc.Relationship) []string {
	out := make([]string, len(rels))
	for i, rel := range rels {
		out[i] = rel.Target
	}
	return out
}

// compareSections reports named sections the repair dropped or added and,
// for surviving sections, changes to the slide-id set they group.
func compareSections(corrupt, repaired *opc.Model) []finding.Diff {
	cSections := sectionsByName(corrupt.Presentation)
	rSections := sectionsByName(repaired.Presentation)

	var diffs []finding.Diff
	for _, name := range sortedKeys(cSections) {
		if _, ok := rSections[name]; !ok {
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffSectionRemoved,
				Severity: finding.SeverityHigh,
				Message:  fmt.Sprintf("Section '%s' was removed by repair", name),
				Fields:   map[string]any{"section_name": name},
			})
		}
	}
	for _, name := range sortedKeys(rSections) {
		if _, ok := cSections[name]; !ok {
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffSectionAdded,
				Severity: finding.SeverityMedium,
				Message:  fmt.Sprintf("Section '%s' was added by repair", name),
				Fields:   map[string]any{"section_name": name},
			})
		}
	}
	for _, name := range sortedKeys(cSections) {
		rSect, ok := rSections[name]
		if !ok {
			continue
		}
		cIDs := sectionIDSet(cSections[name])
		rIDs := sectionIDSet(rSect)
		if !stringSetsEqual(cIDs, rIDs) {
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffSectionSlidesChanged,
				Severity: finding.SeverityHigh,
				Message:  fmt.Sprintf("Section '%s' slide references changed", name),
				Fields: map[string]any{
					"section_name":    name,
					"corrupt_slides":  sortedStrings(cIDs),
					"repaired_slides": sortedStrings(rIDs),
				},
			})
		}
	}
	return diffs
}

func sectionsByName(pres *opc.PresentationData) map[string]opc.Section {
	out := map[string]opc.Section{}
	if pres == nil {
		return out
	}
	for _, sect := range pres.Sections {
		out[sect.Name] = sect
	}
	return out
}

func sectionIDSet(sect opc.Section) map[string]bool {
	set := map[string]bool{}
	for _, ref := range sect.SlideIDs {
		if ref.ID != "" {
			set[ref.ID] = true
		}
	}
	return set
}
