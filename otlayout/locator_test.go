package otlayout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glyphforge/otshape/album"
	"github.com/glyphforge/otshape/ot"
)

// classDefFmt1 builds a format-1 ClassDef: startGlyph, then one class
// value per glyph from startGlyph up to startGlyph+len(classes)-1.
func classDefFmt1(start ot.GlyphIndex, classes ...uint16) []byte {
	b := putU16(nil, 1)
	b = putU16(b, uint16(start))
	b = putU16(b, uint16(len(classes)))
	for _, c := range classes {
		b = putU16(b, c)
	}
	return b
}

func TestLocatorSkipsMarksWhenFlagSet(t *testing.T) {
	// glyph 5 is a mark (class 3), glyph 6 is a base (class 1)
	gdefBytes := putU16(nil, 1) // majorVersion
	gdefBytes = putU16(gdefBytes, 0) // minorVersion
	gdefBytes = putU16(gdefBytes, 12) // glyphClassDefOffset
	gdefBytes = putU16(gdefBytes, 0)  // attachListOffset
	gdefBytes = putU16(gdefBytes, 0)  // ligCaretListOffset
	gdefBytes = putU16(gdefBytes, 0)  // markAttachClassDefOffset
	gdefBytes = append(gdefBytes, classDefFmt1(5, 3, 1)...)
	g := ot.ParseGDEF(ot.TableView(gdefBytes))

	alb := album.New(0)
	alb.BeginFilling()
	alb.AddGlyph(5, album.Mark, []int{0})
	alb.AddGlyph(6, album.Base, []int{1})
	alb.EndFilling()

	loc := NewLocator(alb, g)
	loc.SetLookupFlag(ot.LookupFlagIgnoreMarks)

	assert.True(t, loc.Skip(0))
	assert.False(t, loc.Skip(1))

	next, ok := loc.MoveNext(0)
	assert.True(t, ok)
	assert.Equal(t, 1, next)
}

func TestLocatorMovePreviousReturnsFromWhenNothingIsSkipped(t *testing.T) {
	alb := album.New(0)
	alb.BeginFilling()
	alb.AddGlyph(1, album.Base, []int{0})
	alb.AddGlyph(2, album.Mark, []int{1})
	alb.AddGlyph(3, album.Base, []int{2})
	alb.EndFilling()

	loc := NewLocator(alb, ot.GDEF{})
	loc.SetLookupFlag(0)

	prev, ok := loc.MovePrevious(1)
	assert.True(t, ok)
	assert.Equal(t, 1, prev)
}
