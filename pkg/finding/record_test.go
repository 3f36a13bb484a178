// SPDX-License-Identifier: MPL-2.0

package finding

import (
	"encoding/json"
	"testing"
)

func TestIssue_MarshalJSON_FlattensFields(t *testing.T) {
	t.Parallel()

	issue := Issue{
		Kind:    IssueDuplicateRID,
		Message: "Duplicate rId 'rId2' in relations for: ppt/presentation.xml",
		Fields: map[string]any{
			"source": "ppt/presentation.xml",
			"rid":    "rId2",
			"count":  2,
		},
	}

	raw, err := json.Marshal(issue)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["type"] != "DUPLICATE_RID" {
		t.Errorf("type = %v, want DUPLICATE_RID", out["type"])
	}
	if out["rid"] != "rId2" {
		t.Errorf("rid = %v, want rId2 (fields must be flattened to top level)", out["rid"])
	}
}

func TestDiff_MarshalJSON_IncludesSeverity(t *testing.T) {
	t.Parallel()

	diff := Diff{
		Kind:     DiffFileRemoved,
		Severity: SeverityHigh,
		Message:  "File in corrupt but removed by repair: ppt/media/image9.png",
		Fields:   map[string]any{"file": "ppt/media/image9.png"},
	}

	raw, err := json.Marshal(diff)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["severity"] != "HIGH" {
		t.Errorf("severity = %v, want HIGH", out["severity"])
	}
	if out["file"] != "ppt/media/image9.png" {
		t.Errorf("file = %v, want flattened field value", out["file"])
	}
}
