// SPDX-License-Identifier: MPL-2.0

package opc

import (
	"bytes"
	"encoding/xml"
	"io"
)

// XML namespaces of the OPC and PresentationML vocabularies this tool
// reads.
const (
	nsContentTypes     = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationships    = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsPresentationML   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDocRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsExtendedProps    = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
)

type (
	// element is a node in the minimal DOM built from the token stream.
	// Only what the analyzers need is kept: names, attributes, children.
	element struct {
		space    string
		local    string
		attrs    []xml.Attr
		text     string
		children []*element
	}
)

// parseXML decodes a whole document into the minimal DOM and returns its
// root element.
func parseXML(data []byte) (*element, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var stack []*element
	var root *element

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			elem := &element{
				space: t.Name.Space,
				local: t.Name.Local,
				attrs: append([]xml.Attr(nil), t.Attr...),
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, elem)
			} else if root == nil {
				root = elem
			}
			stack = append(stack, elem)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.text += string(t)
			}
		}
	}
	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return root, nil
}

// attr returns the value of the attribute with the given namespace and
// local name, "" when absent. Pass space "" for unprefixed attributes.
func (e *element) attr(space, local string) string {
	for _, a := range e.attrs {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value
		}
	}
	return ""
}

// hasAttr reports whether the attribute is present, distinguishing an
// absent attribute from an empty one.
func (e *element) hasAttr(space, local string) bool {
	for _, a := range e.attrs {
		if a.Name.Local == local && a.Name.Space == space {
			return true
		}
	}
	return false
}

// childAll returns the direct children matching namespace and local name.
func (e *element) childAll(space, local string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.space == space && c.local == local {
			out = append(out, c)
		}
	}
	return out
}

// child returns the first direct child matching namespace and local name.
func (e *element) child(space, local string) *element {
	for _, c := range e.children {
		if c.space == space && c.local == local {
			return c
		}
	}
	return nil
}

// find returns the first element matching namespace and local name in a
// depth-first walk that includes e itself.
func (e *element) find(space, local string) *element {
	if e.space == space && e.local == local {
		return e
	}
	for _, c := range e.children {
		if m := c.find(space, local); m != nil {
			return m
		}
	}
	return nil
}

// findAll returns every element matching namespace and local name in a
// depth-first walk that includes e itself.
func (e *element) findAll(space, local string) []*element {
	var out []*element
	if e.space == space && e.local == local {
		out = append(out, e)
	}
	for _, c := range e.children {
		out = append(out, c.findAll(space, local)...)
	}
	return out
}

// countAll returns the number of matching descendants including e itself.
func (e *element) countAll(space, local string) int {
	n := 0
	if e.space == space && e.local == local {
		n++
	}
	for _, c := range e.children {
		n += c.countAll(space, local)
	}
	return n
}
