// SPDX-License-Identifier: MPL-2.0

// Package compare diffs two fully built package models, conventionally
// the corrupt original and its machine-repaired version, into a list of
// severity-tagged structural differences. Every sub-comparison is a pure
// function of the two read-only models; Packages concatenates them in a
// fixed order, and within each sub-comparison keys are visited sorted, so
// the diff list is deterministic. Consumers needing priority order sort by
// severity rank.
package compare

import (
	"deckscope/internal/opc"
	"deckscope/pkg/finding"
)

// compareFunc is one independent sub-comparison of the two models.
type compareFunc func(corrupt, repaired *opc.Model) []finding.Diff

// comparisons is the ordered sub-comparison registry.
var comparisons = []compareFunc{
	compareFileSets,
	compareContentTypes,
	compareRelations,
	comparePresentation,
	compareSections,
	compareNotesSlides,
	compareAppProperties,
	compareComments,
	compareXMLContent,
	compareRenames,
}

// Packages diffs the corrupt model against the repaired one. Neither
// model is mutated; order is discovery order.
func Packages(corrupt, repaired *opc.Model) []finding.Diff {
	var diffs []finding.Diff
	for _, cmp := range comparisons {
		diffs = append(diffs, cmp(corrupt, repaired)...)
	}
	return diffs
}
