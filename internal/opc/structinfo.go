// SPDX-License-Identifier: MPL-2.0

package opc

type (
	// SlideInfo is the targeted structural extract of a slide part used by
	// the content comparison: the color-map override link back to the
	// layout/master chain, and a coarse shape count.
	SlideInfo struct {
		HasClrMapOvr bool
		ClrMapOvrRID string
		ShapeCount   int
	}

	// MasterInfo is the targeted structural extract of a slide-master part.
	MasterInfo struct {
		LayoutCount int
	}

	// LayoutInfo is the targeted structural extract of a slide-layout part.
	LayoutInfo struct {
		Type string
	}
)

func parseSlideInfo(data []byte) (SlideInfo, error) {
	root, err := parseXML(data)
	if err != nil {
		return SlideInfo{}, err
	}

	info := SlideInfo{ShapeCount: root.countAll(nsPresentationML, "sp")}
	if ovr := root.find(nsPresentationML, "clrMapOvr"); ovr != nil {
		info.HasClrMapOvr = true
		info.ClrMapOvrRID = ovr.attr(nsDocRelationships, "id")
	}
	return info, nil
}

func parseMasterInfo(data []byte) (MasterInfo, error) {
	root, err := parseXML(data)
	if err != nil {
		return MasterInfo{}, err
	}

	info := MasterInfo{}
	if lst := root.find(nsPresentationML, "sldLayoutIdLst"); lst != nil {
		info.LayoutCount = len(lst.childAll(nsPresentationML, "sldLayoutId"))
	}
	return info, nil
}

func parseLayoutInfo(data []byte) (LayoutInfo, error) {
	root, err := parseXML(data)
	if err != nil {
		return LayoutInfo{}, err
	}
	return LayoutInfo{Type: root.attr("", "type")}, nil
}
