// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"
	"fmt"
	"os"

	"deckscope/pkg/finding"
)

// Record is the machine-readable companion to the text report. Field
// names match the keys downstream tooling already parses.
type Record struct {
	CorruptIssues  []finding.Issue `json:"corrupt_issues"`
	RepairedIssues []finding.Issue `json:"repaired_issues"`
	Diffs          []finding.Diff  `json:"diffs"`
}

// WriteJSON marshals the record with two-space indentation and writes it
// to path, creating or truncating the file.
func WriteJSON(path string, rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
