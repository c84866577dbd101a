package otshape

import "github.com/glyphforge/otshape/ot"

// putU16/putI16 append big-endian integers — mirrors otlayout's test
// helpers, kept package-local since Go test helpers don't export across
// packages.

func putU16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func putI16(b []byte, v int16) []byte {
	return putU16(b, uint16(v))
}

// coverageFmt1 builds a format-1 Coverage table listing glyphs in order.
func coverageFmt1(glyphs ...ot.GlyphIndex) []byte {
	b := putU16(nil, 1)
	b = putU16(b, uint16(len(glyphs)))
	for _, g := range glyphs {
		b = putU16(b, uint16(g))
	}
	return b
}

// buildLayoutTable assembles a minimal, complete GSUB/GPOS table byte
// blob: one script (tag DFLT) with only a default LangSys, one feature
// (tag featureTag) activating lookup 0, and one lookup of the given type
// wrapping a single subtable. It mirrors the header layout BuildPattern
// and lookupListOf navigate (ot/layout.go).
func buildLayoutTable(featureTag ot.Tag, lookupType, lookupFlag uint16, subtable []byte) []byte {
	// defaultLangSys: lookupOrderOffset, requiredFeatureIndex, featureIndexCount=1, featureIndices[0]=0
	langSys := putU16(nil, 0)
	langSys = putU16(langSys, 0xFFFF)
	langSys = putU16(langSys, 1)
	langSys = putU16(langSys, 0)

	// scriptTable: defaultLangSysOffset=4 (right after this 4-byte header), langSysCount=0
	scriptTable := putU16(nil, 4)
	scriptTable = putU16(scriptTable, 0)

	// scriptList: scriptCount=1, ScriptRecord{DFLT, offset=8 (right after the 8-byte scriptList header)}
	scriptList := putU16(nil, 1)
	scriptList = putTag(scriptList, ot.T("DFLT"))
	scriptList = putU16(scriptList, 8)

	// featureTable: featureParamsOffset=0, lookupIndexCount=1, lookupListIndices[0]=0
	featureTable := putU16(nil, 0)
	featureTable = putU16(featureTable, 1)
	featureTable = putU16(featureTable, 0)

	// featureList: featureCount=1, FeatureRecord{featureTag, offset=8}
	featureList := putU16(nil, 1)
	featureList = putTag(featureList, featureTag)
	featureList = putU16(featureList, 8)

	// lookupTable: lookupType, lookupFlag, subtableCount=1, subtableOffsets[0]=8
	lookupTable := putU16(nil, lookupType)
	lookupTable = putU16(lookupTable, lookupFlag)
	lookupTable = putU16(lookupTable, 1)
	lookupTable = putU16(lookupTable, 8)
	lookupTable = append(lookupTable, subtable...)

	// lookupList: lookupCount=1, lookupOffsets[0]=4
	lookupList := putU16(nil, 1)
	lookupList = putU16(lookupList, 4)
	lookupList = append(lookupList, lookupTable...)

	scriptListOff := 10
	scriptListRegionLen := len(scriptList) + len(scriptTable) + len(langSys)
	featureListOff := scriptListOff + scriptListRegionLen
	featureListRegionLen := len(featureList) + len(featureTable)
	lookupListOff := featureListOff + featureListRegionLen

	header := putU16(nil, 1) // majorVersion
	header = putU16(header, 0)
	header = putU16(header, uint16(scriptListOff))
	header = putU16(header, uint16(featureListOff))
	header = putU16(header, uint16(lookupListOff))

	out := append([]byte{}, header...)
	out = append(out, scriptList...)
	out = append(out, scriptTable...)
	out = append(out, langSys...)
	out = append(out, featureList...)
	out = append(out, featureTable...)
	out = append(out, lookupList...)
	return out
}

func putTag(b []byte, t ot.Tag) []byte {
	return append(b, byte(t>>24), byte(t>>16), byte(t>>8), byte(t))
}

// buildGSUBSingleTable builds a complete GSUB table with one feature
// activating a single-substitution lookup (format 1, delta-based) from
// glyph g to g+delta.
func buildGSUBSingleTable(featureTag ot.Tag, g ot.GlyphIndex, delta int16) []byte {
	cov := coverageFmt1(g)
	sub := putU16(nil, 1) // format
	sub = putU16(sub, 6)  // coverageOffset, right after this 6-byte header
	sub = putI16(sub, delta)
	sub = append(sub, cov...)
	return buildLayoutTable(featureTag, 1, 0, sub)
}

// buildGPOSSingleTable builds a complete GPOS table with one feature
// activating a single-adjustment lookup (format 1, xAdvance only) for
// glyph g.
func buildGPOSSingleTable(featureTag ot.Tag, g ot.GlyphIndex, xAdvance int16) []byte {
	cov := coverageFmt1(g)
	sub := putU16(nil, 1) // format
	sub = putU16(sub, 8)  // coverageOffset, right after this 8-byte header
	sub = putU16(sub, 0x0004) // valueFormat: XAdvance only
	sub = putI16(sub, xAdvance)
	sub = append(sub, cov...)
	return buildLayoutTable(featureTag, 1, 0, sub)
}

// buildGDEFWithGlyphClass builds a minimal GDEF table (major.minor 1.0)
// whose GlyphClassDef classifies exactly one glyph, via a format-1
// ClassDef covering a single-glyph range.
func buildGDEFWithGlyphClass(g ot.GlyphIndex, class uint16) []byte {
	// ClassDef format 1: startGlyphID, glyphCount=1, classValue[0]=class
	classDef := putU16(nil, 1)
	classDef = putU16(classDef, uint16(g))
	classDef = putU16(classDef, 1)
	classDef = putU16(classDef, class)

	// GDEF header: majorVersion, minorVersion, glyphClassDefOffset=12
	// (right after this 12-byte header), attachListOffset=0,
	// ligCaretListOffset=0, markAttachClassDefOffset=0.
	header := putU16(nil, 1)
	header = putU16(header, 0)
	header = putU16(header, 12)
	header = putU16(header, 0)
	header = putU16(header, 0)
	header = putU16(header, 0)
	return append(header, classDef...)
}

// mockFont is a minimal Font implementation for tests: a fixed rune to
// glyph map, a fixed default advance, and raw GDEF/GSUB/GPOS bytes.
type mockFont struct {
	runes   map[rune]ot.GlyphIndex
	advance int32
	gdef    ot.TableView
	gsub    ot.TableView
	gpos    ot.TableView
}

func (f *mockFont) GDEF() ot.TableView { return f.gdef }
func (f *mockFont) GSUB() ot.TableView { return f.gsub }
func (f *mockFont) GPOS() ot.TableView { return f.gpos }

func (f *mockFont) GlyphForRune(r rune) ot.GlyphIndex {
	if g, ok := f.runes[r]; ok {
		return g
	}
	return 0
}

func (f *mockFont) AdvanceForGlyph(orient Orientation, g ot.GlyphIndex) int32 {
	return f.advance
}

// stringRuneSource walks a Go string's runes in order.
type stringRuneSource struct {
	runes []rune
	pos   int
}

func newStringRuneSource(s string) *stringRuneSource {
	return &stringRuneSource{runes: []rune(s)}
}

func (s *stringRuneSource) NextRune() (rune, bool) {
	if s.pos >= len(s.runes) {
		return 0, false
	}
	r := s.runes[s.pos]
	s.pos++
	return r, true
}
