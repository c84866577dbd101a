package album

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glyphforge/otshape/ot"
)

func TestBeginFillingAddGlyph(t *testing.T) {
	a := New(4)
	a.BeginFilling()
	a.AddGlyph(ot.GlyphIndex(5), Base, []int{0})
	a.AddGlyph(ot.GlyphIndex(6), Mark, []int{1})
	a.EndFilling()

	assert.Equal(t, 2, a.GlyphCount())
	assert.Equal(t, ot.GlyphIndex(5), a.Glyphs[0])
	assert.Equal(t, Mark, a.Traits[1])
	assert.Equal(t, []int{1}, a.Associations[1])
}

func TestBeginArrangingInitializesAttachTo(t *testing.T) {
	a := New(0)
	a.BeginFilling()
	a.AddGlyph(ot.GlyphIndex(1), Base, []int{0})
	a.AddGlyph(ot.GlyphIndex(2), Mark, []int{0})
	a.EndFilling()
	a.BeginArranging()

	assert.Len(t, a.Anchors, 2)
	for _, anc := range a.Anchors {
		assert.Equal(t, int32(-1), anc.AttachTo)
		assert.Equal(t, AttachNone, anc.Kind)
	}
	assert.Len(t, a.Position, 2)
	assert.Len(t, a.Advance, 2)
}

func TestInsertReplacesRangeAndKeepsAlignment(t *testing.T) {
	a := New(0)
	a.BeginFilling()
	a.AddGlyph(ot.GlyphIndex(10), Base, []int{0})
	a.AddGlyph(ot.GlyphIndex(11), Base, []int{1})
	a.AddGlyph(ot.GlyphIndex(12), Base, []int{2})
	a.EndFilling()

	// ligature: collapse glyphs 0 and 1 into a single ligature glyph
	a.Insert(0, 2, []ot.GlyphIndex{99}, []Traits{Ligature}, [][]int{{0, 1}})

	assert.Equal(t, 2, a.GlyphCount())
	assert.Equal(t, ot.GlyphIndex(99), a.Glyphs[0])
	assert.Equal(t, Ligature, a.Traits[0])
	assert.Equal(t, []int{0, 1}, a.Associations[0])
	assert.Equal(t, ot.GlyphIndex(12), a.Glyphs[1])
}

func TestInsertRejectsInvalidRange(t *testing.T) {
	a := New(0)
	a.BeginFilling()
	a.AddGlyph(ot.GlyphIndex(1), Base, []int{0})
	a.EndFilling()

	before := append([]ot.GlyphIndex(nil), a.Glyphs...)
	a.Insert(1, 0, nil, nil, nil) // to < from
	assert.Equal(t, before, a.Glyphs)
}

func TestWrapUpClosesPhases(t *testing.T) {
	a := New(0)
	a.BeginFilling()
	a.AddGlyph(ot.GlyphIndex(1), Base, []int{0})
	a.EndFilling()
	a.BeginArranging()
	a.WrapUp()

	assert.False(t, a.arranging)
	assert.False(t, a.filling)
}
