// SPDX-License-Identifier: MPL-2.0

// Package validate runs the integrity-rule battery over a built package
// model. Every check is a pure function from the model to a list of
// issues; Run concatenates them in registration order. Checks never
// short-circuit each other and never mutate the model, so validating the
// same model twice yields the identical issue list.
package validate

import (
	"deckscope/internal/opc"
	"deckscope/pkg/finding"
)

// checkFunc is one independent integrity rule.
type checkFunc func(*opc.Model) []finding.Issue

// checks is the ordered rule registry. New rules are added here; nothing
// else needs to change.
var checks = []checkFunc{
	checkDuplicateRelIDs,
	checkBrokenRefs,
	checkContentTypeCoverage,
	checkLayoutMasterChain,
	checkPresentationIDs,
	checkPresentationRels,
	checkSections,
	checkNotesMaster,
	checkNotesSlides,
	checkAppProperties,
	checkComments,
}

// Run validates the model: the defects recorded while building it come
// first, then each rule's findings in registration order.
func Run(m *opc.Model) []finding.Issue {
	issues := append([]finding.Issue(nil), m.Defects...)
	for _, check := range checks {
		issues = append(issues, check(m)...)
	}
	return issues
}
