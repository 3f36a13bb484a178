// SPDX-License-Identifier: MPL-2.0

package finding

import "encoding/json"

// IssueKind identifies one class of structural defect found while
// validating a single package.
type IssueKind string

// Issue kinds, in rough discovery order of the validator battery. The
// identifiers are stable: they appear verbatim in rendered reports and in
// the exported JSON record.
const (
	IssueMissingContentTypesXML  IssueKind = "CRITICAL"
	IssueInvalidXML              IssueKind = "ERROR"
	IssueDuplicateRID            IssueKind = "DUPLICATE_RID"
	IssueBrokenRef               IssueKind = "BROKEN_REF"
	IssueMissingContentType      IssueKind = "MISSING_CONTENT_TYPE"
	IssueMissingLayoutRels       IssueKind = "MISSING_LAYOUT_RELS"
	IssueLayoutNoMaster          IssueKind = "LAYOUT_NO_MASTER"
	IssueDuplicateSlideID        IssueKind = "DUPLICATE_SLIDE_ID"
	IssueDuplicateMasterID       IssueKind = "DUPLICATE_MASTER_ID"
	IssueInvalidPresentationRels IssueKind = "INVALID_PRESENTATION_RELS"
	IssueSectionInvalidSlideRef  IssueKind = "SECTION_INVALID_SLIDE_REF"
	IssueMissingNotesMasterRel   IssueKind = "MISSING_NOTESMASTER_REL"
	IssueNotesSlideMissingRef    IssueKind = "NOTESLIDE_MISSING_SLIDE_REF"
	IssueNotesSlideNoMaster      IssueKind = "NOTESLIDE_NO_MASTER"
	IssueAppSlideCountMismatch   IssueKind = "APP_SLIDE_COUNT_MISMATCH"
	IssueAppNoteCountMismatch    IssueKind = "APP_NOTE_COUNT_MISMATCH"
	IssueInvalidCommentAuthors   IssueKind = "INVALID_COMMENT_AUTHORS_XML"
	IssueInvalidCommentXML       IssueKind = "INVALID_COMMENT_XML"
	IssueCommentInvalidAuthorID  IssueKind = "COMMENT_INVALID_AUTHOR_ID"
)

// PresRelsInvalidKindPrefix prefixes the per-kind aggregate issues emitted
// alongside IssueInvalidPresentationRels (e.g. "PRES_RELS_INVALID_IMAGE").
const PresRelsInvalidKindPrefix = "PRES_RELS_INVALID_"

// Issue is a structural violation detected during validation of one
// package. Fields carries kind-specific structured data (offending part,
// relationship id, counts); its keys are stable per kind.
type Issue struct {
	Kind    IssueKind
	Message string
	Fields  map[string]any
}

// MarshalJSON flattens Fields into the top-level object so the exported
// record reads {"type": ..., "msg": ..., <kind-specific fields>}.
func (i Issue) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.Fields)+2)
	for k, v := range i.Fields {
		out[k] = v
	}
	out["type"] = string(i.Kind)
	out["msg"] = i.Message
	return json.Marshal(out)
}
