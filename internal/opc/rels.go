// SPDX-License-Identifier: MPL-2.0

package opc

import (
	"strings"

	"deckscope/pkg/partpath"
)

// TargetMode distinguishes targets inside the package from external
// resources (URLs, linked files).
type TargetMode string

const (
	// ModeInternal targets are package parts; they resolve to a canonical
	// part path. This is the default when the descriptor omits the mode.
	ModeInternal TargetMode = "Internal"
	// ModeExternal targets are addressed outside the package; they never
	// resolve to a part path.
	ModeExternal TargetMode = "External"
)

// Relationship type URIs referenced by the integrity rules.
const (
	RelTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	RelTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	RelTypeNotesMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster"
	RelTypeNotesSlide  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	RelTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
)

// Relationship is one typed edge from a source part to a target. ID is
// unique only within its owning descriptor; the validator reports
// duplicates rather than the parser rejecting them.
type Relationship struct {
	ID     string
	Type   string
	Target string
	Mode   TargetMode
	// Resolved is the canonical part path of an internal target; empty for
	// external targets.
	Resolved partpath.PartPath
}

// TypeName returns the last segment of the relationship type URI
// ("slide", "image", ...), the short name the placement rules and the
// per-kind diff counters key on.
func (r Relationship) TypeName() string {
	idx := strings.LastIndexByte(r.Type, '/')
	if idx < 0 {
		return r.Type
	}
	return r.Type[idx+1:]
}

// IsInternal reports whether the relationship targets a package part.
func (r Relationship) IsInternal() bool { return r.Mode != ModeExternal }

// parseRels parses one relationship descriptor into the edges owned by
// source. Internal targets are resolved against the source part.
func parseRels(source partpath.PartPath, data []byte) ([]Relationship, error) {
	root, err := parseXML(data)
	if err != nil {
		return nil, err
	}

	var rels []Relationship
	for _, el := range root.childAll(nsRelationships, "Relationship") {
		rel := Relationship{
			ID:     el.attr("", "Id"),
			Type:   el.attr("", "Type"),
			Target: el.attr("", "Target"),
			Mode:   TargetMode(el.attr("", "TargetMode")),
		}
		if rel.Mode == "" {
			rel.Mode = ModeInternal
		}
		if rel.IsInternal() {
			rel.Resolved = partpath.Resolve(source, rel.Target)
		}
		rels = append(rels, rel)
	}
	return rels, nil
}
