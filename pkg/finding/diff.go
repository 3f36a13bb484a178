// SPDX-License-Identifier: MPL-2.0

package finding

import "encoding/json"

// DiffKind identifies one class of structural difference between the
// corrupt and repaired versions of a package.
type DiffKind string

// Diff kinds, grouped by the sub-comparison that produces them.
const (
	DiffFileRemoved DiffKind = "FILE_REMOVED"
	DiffFileAdded   DiffKind = "FILE_ADDED"

	DiffContentTypeRemoved DiffKind = "CONTENT_TYPE_REMOVED"
	DiffContentTypeChanged DiffKind = "CONTENT_TYPE_CHANGED"

	DiffRelationRemoved       DiffKind = "RELATION_REMOVED"
	DiffRelationTargetChanged DiffKind = "RELATION_TARGET_CHANGED"

	DiffSlideIDListChanged        DiffKind = "SLIDE_ID_LIST_CHANGED"
	DiffPresRelsTypeCountChanged  DiffKind = "PRES_RELS_TYPE_COUNT_CHANGED"
	DiffPresRelsTotalCountChanged DiffKind = "PRES_RELS_TOTAL_COUNT_CHANGED"

	DiffSectionRemoved       DiffKind = "SECTION_REMOVED"
	DiffSectionAdded         DiffKind = "SECTION_ADDED"
	DiffSectionSlidesChanged DiffKind = "SECTION_SLIDES_CHANGED"

	DiffNotesSlideRemoved          DiffKind = "NOTESLIDE_REMOVED"
	DiffNotesSlideAdded            DiffKind = "NOTESLIDE_ADDED"
	DiffNotesSlideSlideRefChanged  DiffKind = "NOTESLIDE_SLIDE_REF_CHANGED"
	DiffNotesSlideMasterRefChanged DiffKind = "NOTESLIDE_MASTER_REF_CHANGED"

	DiffAppSlideCountChanged       DiffKind = "APP_SLIDE_COUNT_CHANGED"
	DiffAppNoteCountChanged        DiffKind = "APP_NOTE_COUNT_CHANGED"
	DiffAppHiddenSlideCountChanged DiffKind = "APP_HIDDEN_SLIDE_COUNT_CHANGED"

	DiffCommentAuthorsChanged DiffKind = "COMMENT_AUTHORS_CHANGED"
	DiffCommentFileRemoved    DiffKind = "COMMENT_FILE_REMOVED"
	DiffCommentFileAdded      DiffKind = "COMMENT_FILE_ADDED"
	DiffCommentCountChanged   DiffKind = "COMMENT_COUNT_CHANGED"

	DiffXMLContentChanged             DiffKind = "XML_CONTENT_CHANGED"
	DiffSlideClrMapOvrRIDChanged      DiffKind = "SLIDE_CLRMAPOVR_RID_CHANGED"
	DiffSlideShapeCountChanged        DiffKind = "SLIDE_SHAPE_COUNT_CHANGED"
	DiffSlideMasterLayoutCountChanged DiffKind = "SLIDEMASTER_LAYOUT_COUNT_CHANGED"
	DiffSlideLayoutTypeChanged        DiffKind = "SLIDELAYOUT_TYPE_CHANGED"

	DiffRenamedIdenticalContent DiffKind = "RENAMED_IDENTICAL_CONTENT"
)

// Diff is a structural difference detected between two package versions.
// Produced by pure comparison; order is discovery order, so consumers
// needing priority order must sort by Severity.Rank().
type Diff struct {
	Kind     DiffKind
	Severity Severity
	Message  string
	Fields   map[string]any
}

// MarshalJSON flattens Fields into the top-level object so the exported
// record reads {"type": ..., "severity": ..., "msg": ..., <fields>}.
func (d Diff) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+3)
	for k, v := range d.Fields {
		out[k] = v
	}
	out["type"] = string(d.Kind)
	out["severity"] = string(d.Severity)
	out["msg"] = d.Message
	return json.Marshal(out)
}
