package ot

// GDEF is the Glyph Definition table: glyph classification, mark
// attachment classification, and mark filtering sets, all of which the
// lookup driver consults to decide which glyphs a lookup flag should
// skip over.
//
// A zero-value GDEF (no table present in the font) answers every glyph
// with class 0 and every mark filtering set as empty, which is exactly
// the behavior a font without a GDEF table should get.
type GDEF struct {
	glyphClass      ClassDef
	markAttachClass ClassDef
	markGlyphSets   []Coverage
}

// ParseGDEF reads a GDEF table from its raw bytes. An empty or malformed
// view yields a usable zero-value GDEF.
func ParseGDEF(view TableView) GDEF {
	if view.Len() < 12 {
		return GDEF{}
	}
	major := view.U16At(0)
	minor := view.U16At(2)
	if major != 1 {
		errFormat(T("GDEF"), "unsupported GDEF major version")
		return GDEF{}
	}
	var g GDEF
	if off := view.U16At(4); off != 0 {
		g.glyphClass = ParseClassDef(view.SubviewFrom(int(off)))
	}
	// attachListOffset (byte 6) and ligCaretListOffset (byte 8) are not
	// consulted by the shaping core.
	if off := view.U16At(10); off != 0 {
		g.markAttachClass = ParseClassDef(view.SubviewFrom(int(off)))
	}
	if minor >= 2 && view.Len() >= 14 {
		if off := view.U16At(12); off != 0 {
			g.markGlyphSets = parseMarkGlyphSetsDef(view.SubviewFrom(int(off)))
		}
	}
	return g
}

// GlyphClass returns the GDEF glyph class of g (ClassBaseGlyph,
// ClassLigatureGlyph, ClassMarkGlyph, ClassComponentGlyph, or
// ClassUnclassified if the font carries no classification for g).
func (g GDEF) GlyphClass(glyph GlyphIndex) GlyphClass {
	return GlyphClass(g.glyphClass.Lookup(glyph))
}

// MarkAttachClass returns the mark attachment class of g, used to
// interpret a lookup's MARK_ATTACHMENT_TYPE flag bits. 0 means no class.
func (g GDEF) MarkAttachClass(glyph GlyphIndex) int {
	return g.markAttachClass.Lookup(glyph)
}

// MarkFilteringSetContains reports whether glyph is a member of the
// numbered mark glyph set. An out-of-range set index never matches.
func (g GDEF) MarkFilteringSetContains(set uint16, glyph GlyphIndex) bool {
	if int(set) >= len(g.markGlyphSets) {
		return false
	}
	return g.markGlyphSets[set].Contains(glyph)
}

// MarkGlyphSetCount reports how many mark glyph sets the table defines.
func (g GDEF) MarkGlyphSetCount() int {
	return len(g.markGlyphSets)
}

// MarkGlyphSetsDef table: format (u16, must be 1), markGlyphSetCount (u16),
// coverageOffset[markGlyphSetCount] (u32 each, relative to the table start).
func parseMarkGlyphSetsDef(view TableView) []Coverage {
	if view.Len() < 4 || view.U16At(0) != 1 {
		return nil
	}
	count := int(view.U16At(2))
	sets := make([]Coverage, 0, count)
	for i := 0; i < count; i++ {
		off := view.U32At(4 + i*4)
		if off == 0 {
			sets = append(sets, Coverage{})
			continue
		}
		sets = append(sets, ParseCoverage(view.SubviewFrom(int(off))))
	}
	return sets
}
