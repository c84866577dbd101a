package otlayout

import "github.com/glyphforge/otshape/ot"

// putU16/putI16/putU32 append big-endian integers — small helpers for
// building synthetic subtable bytes in tests, mirroring the byte layout
// that ParseCoverage/ParseClassDef/Parse* read back.

func putU16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func putI16(b []byte, v int16) []byte {
	return putU16(b, uint16(v))
}

func putU32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
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
