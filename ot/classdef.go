package ot

import "sort"

// GlyphClass is the GDEF glyph classification (GlyphClassDef table):
// BaseGlyph, LigatureGlyph, MarkGlyph, ComponentGlyph, or 0 if
// unclassified.
type GlyphClass uint16

const (
	ClassUnclassified   GlyphClass = 0
	ClassBaseGlyph      GlyphClass = 1
	ClassLigatureGlyph  GlyphClass = 2
	ClassMarkGlyph      GlyphClass = 3
	ClassComponentGlyph GlyphClass = 4
)

// ClassDef is an OpenType Class Definition table (format 1 or 2):
// a binary-search map from glyph ID to a small integer class. Class 0
// always means "not covered by any explicit range".
type ClassDef struct {
	view   TableView
	format uint16
}

// ParseClassDef reads a ClassDef table from the start of view. An absent
// or malformed table parses to a ClassDef that always returns class 0.
func ParseClassDef(view TableView) ClassDef {
	if view.Len() < 2 {
		return ClassDef{}
	}
	format := view.U16At(0)
	if format != 1 && format != 2 {
		errFormatShared("unsupported ClassDef format")
		return ClassDef{}
	}
	return ClassDef{view: view, format: format}
}

// Lookup returns the class of glyph g, or 0 if g falls outside every
// range the table defines.
func (cd ClassDef) Lookup(g GlyphIndex) int {
	switch cd.format {
	case 1:
		return cd.lookupFormat1(g)
	case 2:
		return cd.lookupFormat2(g)
	}
	return 0
}

// format 1: startGlyphID (u16), glyphCount (u16), classValue[glyphCount] (u16 each).
func (cd ClassDef) lookupFormat1(g GlyphIndex) int {
	start := GlyphIndex(cd.view.U16At(2))
	count := int(cd.view.U16At(4))
	if g < start || int(g-start) >= count {
		return 0
	}
	return int(cd.view.U16At(6 + int(g-start)*2))
}

// format 2: classRangeCount (u16), ClassRangeRecord[classRangeCount]
// { startGlyphID, endGlyphID, class } sorted by startGlyphID.
func (cd ClassDef) lookupFormat2(g GlyphIndex) int {
	n := int(cd.view.U16At(2))
	i := sort.Search(n, func(i int) bool {
		return GlyphIndex(cd.view.U16At(4+i*6+2)) >= g // end of range i
	})
	if i >= n {
		return 0
	}
	start := GlyphIndex(cd.view.U16At(4 + i*6))
	end := GlyphIndex(cd.view.U16At(4 + i*6 + 2))
	if g < start || g > end {
		return 0
	}
	return int(cd.view.U16At(4 + i*6 + 4))
}
