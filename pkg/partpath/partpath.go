// SPDX-License-Identifier: MPL-2.0

// Package partpath provides the typed part-name algebra for OPC packages:
// relative-target resolution, relationship-descriptor ownership derivation,
// and exact-grammar classification of the presentation part names this tool
// understands.
//
// This package is a leaf dependency: it imports only the standard library.
package partpath

import "strings"

// PartPath is a posix-style part name inside an OPC package, without a
// leading slash. The zero value ("") denotes the package root, which owns
// the package-level relationship descriptor.
type PartPath string

// Well-known part names fixed by the OPC and PresentationML conventions.
const (
	// ContentTypes is the content-type manifest, required in every package.
	ContentTypes PartPath = "[Content_Types].xml"
	// RootRels is the package-level relationship descriptor.
	RootRels PartPath = "_rels/.rels"
	// Presentation is the presentation root part.
	Presentation PartPath = "ppt/presentation.xml"
	// AppProperties is the extended application properties part.
	AppProperties PartPath = "docProps/app.xml"
	// CommentAuthors is the comment author table part.
	CommentAuthors PartPath = "ppt/commentAuthors.xml"
)

// String returns the string representation of the PartPath.
func (p PartPath) String() string { return string(p) }

// Dir returns the containing directory of the part, "" for top-level parts
// and for the package root.
func (p PartPath) Dir() PartPath {
	idx := strings.LastIndexByte(string(p), '/')
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// Base returns the file name of the part without its directory.
func (p PartPath) Base() string {
	idx := strings.LastIndexByte(string(p), '/')
	return string(p[idx+1:])
}

// RelsFor returns the conventional relationship-descriptor path for the
// part (the inverse of SourceOf for non-root parts).
func (p PartPath) RelsFor() PartPath {
	dir := p.Dir()
	if dir == "" {
		return PartPath("_rels/" + p.Base() + ".rels")
	}
	return PartPath(string(dir) + "/_rels/" + p.Base() + ".rels")
}

// IsRels reports whether the part is a relationship descriptor.
func (p PartPath) IsRels() bool {
	return strings.HasSuffix(string(p), ".rels")
}

// Resolve maps a relationship target, as written in a descriptor owned by
// source, to the canonical part path the validator can test for membership
// in the part set. No percent-decoding and no case normalization happen
// here: membership tests are strict.
//
// An absolute target (leading '/') resolves to itself minus the slash. A
// root-level source has no directory context, so the target passes through
// unchanged. Otherwise the target is joined to the source's directory and
// normalized segment by segment: ".." pops the last accumulated segment
// (and is absorbed when nothing is left to pop), "." and empty segments
// are dropped.
func Resolve(source PartPath, target string) PartPath {
	if strings.HasPrefix(target, "/") {
		return PartPath(strings.TrimLeft(target, "/"))
	}
	if source == "" {
		return PartPath(target)
	}
	base := source.Dir()
	if base == "" {
		return PartPath(target)
	}
	segments := strings.Split(string(base)+"/"+target, "/")
	resolved := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "..":
			if len(resolved) > 0 {
				resolved = resolved[:len(resolved)-1]
			}
		case "", ".":
			// dropped
		default:
			resolved = append(resolved, seg)
		}
	}
	return PartPath(strings.Join(resolved, "/"))
}

// SourceOf derives the part that owns a relationship descriptor. The
// package-root descriptor maps to the empty path. Every other descriptor
// lives in a "_rels" directory next to its owner: stripping the "_rels"
// segment and the ".rels" suffix recovers the sibling part
// (e.g. "ppt/_rels/presentation.xml.rels" -> "ppt/presentation.xml").
//
// Only the first "_rels" segment is considered; packages with nested
// "_rels" directories at multiple depths are outside the grammar this tool
// models. ok is false when rels is not a descriptor path at all.
func SourceOf(rels PartPath) (source PartPath, ok bool) {
	if rels == RootRels {
		return "", true
	}
	name, hasSuffix := strings.CutSuffix(string(rels), ".rels")
	if !hasSuffix {
		return "", false
	}
	segments := strings.Split(name, "/")
	relsIdx := -1
	for i, seg := range segments {
		if seg == "_rels" {
			relsIdx = i
			break
		}
	}
	if relsIdx < 0 {
		return "", false
	}
	base := strings.Join(segments[:relsIdx], "/")
	filename := segments[len(segments)-1]
	if base == "" {
		return PartPath(filename), true
	}
	return PartPath(base + "/" + filename), true
}

// Extension returns the part's file extension without the dot, "" when the
// name carries none.
func (p PartPath) Extension() string {
	s := string(p)
	dot := strings.LastIndexByte(s, '.')
	if dot < 0 || dot < strings.LastIndexByte(s, '/') {
		return ""
	}
	return s[dot+1:]
}
