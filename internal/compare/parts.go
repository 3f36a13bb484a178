// SPDX-License-Identifier: MPL-2.0

package compare

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"deckscope/internal/opc"
	"deckscope/pkg/finding"
	"deckscope/pkg/partpath"
)

// compareFileSets reports the symmetric difference of the two part sets.
// A part the repair dropped is stronger corruption evidence than one it
// synthesized, hence the severity asymmetry.
func compareFileSets(corrupt, repaired *opc.Model) []finding.Diff {
	var diffs []finding.Diff
	for _, name := range corrupt.PartNames {
		if !repaired.HasPart(name) {
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffFileRemoved,
				Severity: finding.SeverityHigh,
				Message:  fmt.Sprintf("File in corrupt but removed by repair: %s", name),
				Fields:   map[string]any{"file": string(name)},
			})
		}
	}
	for _, name := range repaired.PartNames {
		if !corrupt.HasPart(name) {
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffFileAdded,
				Severity: finding.SeverityMedium,
				Message:  fmt.Sprintf("File added by repair: %s", name),
				Fields:   map[string]any{"file": string(name)},
			})
		}
	}
	return diffs
}

// compareContentTypes reports overrides the repair removed or rewrote.
func compareContentTypes(corrupt, repaired *opc.Model) []finding.Diff {
	var diffs []finding.Diff
	for _, part := range sortedKeys(corrupt.ContentTypes.Overrides) {
		ctype := corrupt.ContentTypes.Overrides[part]
		rtype, ok := repaired.ContentTypes.Overrides[part]
		switch {
		case !ok:
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffContentTypeRemoved,
				Severity: finding.SeverityHigh,
				Message:  fmt.Sprintf("Content type override removed: %s", part),
				Fields:   map[string]any{"part": string(part)},
			})
		case rtype != ctype:
			diffs = append(diffs, finding.Diff{
				Kind:     finding.DiffContentTypeChanged,
				Severity: finding.SeverityMedium,
				Message:  fmt.Sprintf("Content type changed: %s", part),
				Fields: map[string]any{
					"part":     string(part),
					"corrupt":  ctype,
					"repaired": rtype,
				},
			})
		}
	}
	return diffs
}

// compareRelations reports, per source part, relationship ids the repair
// removed and ids whose target changed.
func compareRelations(corrupt, repaired *opc.Model) []finding.Diff {
	sources := map[partpath.PartPath]bool{}
	for _, s := range corrupt.RelSources {
		sources[s] = true
	}
	for _, s := range repaired.RelSources {
		sources[s] = true
	}

	var diffs []finding.Diff
	for _, source := range sortedKeys(sources) {
		cIDs, cByID := relsByID(corrupt.Rels[source])
		_, rByID := relsByID(repaired.Rels[source])

		for _, rid := range cIDs {
			rel := cByID[rid]
			other, ok := rByID[rid]
			switch {
			case !ok:
				diffs = append(diffs, finding.Diff{
					Kind:     finding.DiffRelationRemoved,
					Severity: finding.SeverityHigh,
					Message:  fmt.Sprintf("Relation removed: %s %s -> %s", source, rid, rel.Target),
					Fields: map[string]any{
						"source": string(source),
						"rid":    rid,
						"target": rel.Target,
					},
				})
			case other.Target != rel.Target:
				diffs = append(diffs, finding.Diff{
					Kind:     finding.DiffRelationTargetChanged,
					Severity: finding.SeverityHigh,
					Message:  fmt.Sprintf("Relation target changed: %s %s", source, rid),
					Fields: map[string]any{
						"source":          string(source),
						"rid":             rid,
						"corrupt_target":  rel.Target,
						"repaired_target": other.Target,
					},
				})
			}
		}
	}
	return diffs
}

// relsByID indexes a relationship set by id (last occurrence wins, ids
// returned in first-occurrence order).
func relsByID(rels []opc.Relationship) ([]string, map[string]opc.Relationship) {
	byID := make(map[string]opc.Relationship, len(rels))
	var order []string
	for _, rel := range rels {
		if _, seen := byID[rel.ID]; !seen {
			order = append(order, rel.ID)
		}
		byID[rel.ID] = rel
	}
	return order, byID
}

// sortedKeys returns the sorted keys of a map keyed by PartPath or
// string-like types.
func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// sortedStrings returns a sorted copy of the set's members.
func sortedStrings(set map[string]bool) []string {
	out := maps.Keys(set)
	slices.Sort(out)
	return out
}

// stringSetsEqual reports whether two string sets have the same members.
func stringSetsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for s := range a {
		if !b[s] {
			return false
		}
	}
	return true
}

// partsToStrings converts part names for diff fields.
func partsToStrings(parts []partpath.PartPath) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = string(p)
	}
	return out
}

// isXMLPart reports whether the part participates in the whole-part
// byte-identity comparison.
func isXMLPart(p partpath.PartPath) bool {
	return strings.HasSuffix(string(p), ".xml")
}
