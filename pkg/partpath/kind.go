// SPDX-License-Identifier: MPL-2.0

package partpath

import "strings"

const (
	// KindOther covers parts this tool has no structural model for.
	KindOther PartKind = iota
	// KindSlide matches ppt/slides/slide<n>.xml.
	KindSlide
	// KindSlideLayout matches ppt/slideLayouts/slideLayout<n>.xml.
	KindSlideLayout
	// KindSlideMaster matches ppt/slideMasters/slideMaster<n>.xml.
	KindSlideMaster
	// KindNotesSlide matches ppt/notesSlides/notesSlide<n>.xml.
	KindNotesSlide
	// KindComment matches ppt/comments/comment<n>.xml.
	KindComment
	// KindPresentation is the presentation root part.
	KindPresentation
	// KindAppProperties is the extended properties part.
	KindAppProperties
	// KindCommentAuthors is the comment author table part.
	KindCommentAuthors
)

// PartKind is the closed classification of part names the validator and
// comparator dispatch on.
type PartKind int

// numberedTemplates maps each numbered part-name family to its fixed
// directory-plus-stem prefix. Matching is exact: prefix, one or more ASCII
// digits, ".xml". Unexpected casing or stray characters classify as
// KindOther rather than silently matching.
var numberedTemplates = []struct {
	prefix string
	kind   PartKind
}{
	{"ppt/slides/slide", KindSlide},
	{"ppt/slideLayouts/slideLayout", KindSlideLayout},
	{"ppt/slideMasters/slideMaster", KindSlideMaster},
	{"ppt/notesSlides/notesSlide", KindNotesSlide},
	{"ppt/comments/comment", KindComment},
}

// Kind classifies the part name against the fixed templates of the
// presentation grammar.
func (p PartPath) Kind() PartKind {
	switch p {
	case Presentation:
		return KindPresentation
	case AppProperties:
		return KindAppProperties
	case CommentAuthors:
		return KindCommentAuthors
	}
	for _, t := range numberedTemplates {
		if matchNumbered(string(p), t.prefix) {
			return t.kind
		}
	}
	return KindOther
}

// matchNumbered reports whether name is exactly prefix + digits + ".xml".
func matchNumbered(name, prefix string) bool {
	rest, found := strings.CutPrefix(name, prefix)
	if !found {
		return false
	}
	digits, found := strings.CutSuffix(rest, ".xml")
	if !found || digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

// String returns the template family name for the PartKind.
func (k PartKind) String() string {
	switch k {
	case KindSlide:
		return "slide"
	case KindSlideLayout:
		return "slideLayout"
	case KindSlideMaster:
		return "slideMaster"
	case KindNotesSlide:
		return "notesSlide"
	case KindComment:
		return "comment"
	case KindPresentation:
		return "presentation"
	case KindAppProperties:
		return "appProperties"
	case KindCommentAuthors:
		return "commentAuthors"
	}
	return "other"
}
