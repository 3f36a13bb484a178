// SPDX-License-Identifier: MPL-2.0

package opc

import (
	"strings"

	"deckscope/pkg/partpath"
)

// ContentTypeTable is the parsed content-type manifest: media types by
// extension (Default elements) and by explicit part name (Override
// elements). The invariant that every non-descriptor, non-manifest part
// resolves through one of the two maps is enforced by the validator, not
// here.
type ContentTypeTable struct {
	Defaults  map[string]string
	Overrides map[partpath.PartPath]string
}

// emptyContentTypeTable is the degraded table used when the manifest is
// missing or malformed; model construction never aborts over it.
func emptyContentTypeTable() ContentTypeTable {
	return ContentTypeTable{
		Defaults:  map[string]string{},
		Overrides: map[partpath.PartPath]string{},
	}
}

// parseContentTypes parses [Content_Types].xml. Only direct children of
// the Types root are considered, per the OPC schema.
func parseContentTypes(data []byte) (ContentTypeTable, error) {
	root, err := parseXML(data)
	if err != nil {
		return emptyContentTypeTable(), err
	}

	table := emptyContentTypeTable()
	for _, def := range root.childAll(nsContentTypes, "Default") {
		ext := def.attr("", "Extension")
		if ext == "" {
			continue
		}
		table.Defaults[ext] = def.attr("", "ContentType")
	}
	for _, override := range root.childAll(nsContentTypes, "Override") {
		part := strings.TrimLeft(override.attr("", "PartName"), "/")
		if part == "" {
			continue
		}
		table.Overrides[partpath.PartPath(part)] = override.attr("", "ContentType")
	}
	return table, nil
}

// MediaType resolves the declared media type for a part: an explicit
// override wins, otherwise the extension default applies. ok is false when
// neither covers the part.
func (t ContentTypeTable) MediaType(p partpath.PartPath) (string, bool) {
	if mt, found := t.Overrides[p]; found {
		return mt, true
	}
	if mt, found := t.Defaults[p.Extension()]; found {
		return mt, true
	}
	return "", false
}
