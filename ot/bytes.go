/*
Package ot provides bounds-checked access to the binary tables of an
OpenType font (GDEF, GSUB, GPOS) and the Coverage/ClassDef structures used
throughout them.

Package ot does not parse a font file; it only knows how to navigate the
bytes of the three layout tables once a caller (the font facade) has
handed them over as raw byte slices. This keeps the package usable both
against a fully parsed font and against a font loaded by any other means.
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("otshape.ot")
}

// GlyphIndex is a 16-bit glyph identifier.
type GlyphIndex uint16

// Tag is a 4-byte OpenType tag (script, language, feature, table).
type Tag uint32

// T constructs a Tag from its 4-character string form, e.g. T("GSUB").
func T(s string) Tag {
	var b [4]byte
	copy(b[:], s+"    ")
	return Tag(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

func (t Tag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// TableView is a bounds-checked, read-only view over a segment of an
// OpenType table's binary data. All reads outside the view's bounds
// return zero (for integer reads) or an empty view (for Subview); no
// read ever panics, matching the "malformed table degrades to false"
// error policy of the shaping core.
//
// TableView is the only type in this module that touches raw font bytes.
type TableView []byte

// Empty reports whether the view carries no bytes.
func (v TableView) Empty() bool {
	return len(v) == 0
}

// Len returns the view's length in bytes.
func (v TableView) Len() int {
	return len(v)
}

// U8At returns the byte at offset, or 0 if out of range.
func (v TableView) U8At(offset int) uint8 {
	if offset < 0 || offset >= len(v) {
		return 0
	}
	return v[offset]
}

// U16At returns the big-endian uint16 at offset, or 0 if out of range.
func (v TableView) U16At(offset int) uint16 {
	if offset < 0 || offset+2 > len(v) {
		return 0
	}
	return uint16(v[offset])<<8 | uint16(v[offset+1])
}

// I16At returns the big-endian int16 at offset, or 0 if out of range.
func (v TableView) I16At(offset int) int16 {
	return int16(v.U16At(offset))
}

// U32At returns the big-endian uint32 at offset, or 0 if out of range.
func (v TableView) U32At(offset int) uint32 {
	if offset < 0 || offset+4 > len(v) {
		return 0
	}
	return uint32(v[offset])<<24 | uint32(v[offset+1])<<16 | uint32(v[offset+2])<<8 | uint32(v[offset+3])
}

// Subview returns a new view of n bytes starting at offset. An
// out-of-range request returns an empty view rather than panicking.
func (v TableView) Subview(offset, n int) TableView {
	if offset < 0 || n < 0 || offset+n > len(v) {
		return nil
	}
	return v[offset : offset+n]
}

// SubviewFrom returns a new view of all remaining bytes starting at offset.
func (v TableView) SubviewFrom(offset int) TableView {
	if offset < 0 || offset > len(v) {
		return nil
	}
	return v[offset:]
}

// At16Offset follows a 16-bit offset stored at `at`, relative to `base`,
// and returns the view from `base+offset` to the end of `base`'s view.
// An offset of 0 conventionally means "no table present" in OpenType and
// yields an empty view.
func (v TableView) At16Offset(at int) TableView {
	off := int(v.U16At(at))
	if off == 0 {
		return nil
	}
	return v.SubviewFrom(off)
}

// At32Offset is the 32-bit counterpart of At16Offset.
func (v TableView) At32Offset(at int) TableView {
	off := int(v.U32At(at))
	if off == 0 {
		return nil
	}
	return v.SubviewFrom(off)
}
