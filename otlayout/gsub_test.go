package otlayout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glyphforge/otshape/album"
	"github.com/glyphforge/otshape/ot"
)

func newAlbum(glyphs ...ot.GlyphIndex) *album.Album {
	a := album.New(len(glyphs))
	a.BeginFilling()
	for i, g := range glyphs {
		a.AddGlyph(g, album.Base, []int{i})
	}
	a.EndFilling()
	return a
}

func newLocator(alb *album.Album) *Locator {
	return NewLocator(alb, ot.GDEF{})
}

func TestGSubSingleFmt1AppliesDelta(t *testing.T) {
	alb := newAlbum(10, 20)
	cov := coverageFmt1(10)
	sub := putU16(nil, 1) // format
	sub = putU16(sub, 6)  // coverage offset
	sub = putI16(sub, 5)  // delta
	sub = append(sub, cov...)

	next, ok := gsubApplySingle(newLocator(alb), alb, ot.TableView(sub), 0)
	assert.True(t, ok)
	assert.Equal(t, 1, next)
	assert.Equal(t, ot.GlyphIndex(15), alb.Glyphs[0])
}

func TestGSubSingleFmt1NoMatchLeavesAlbumUnchanged(t *testing.T) {
	alb := newAlbum(11, 20)
	cov := coverageFmt1(10)
	sub := putU16(nil, 1)
	sub = putU16(sub, 6)
	sub = putI16(sub, 5)
	sub = append(sub, cov...)

	_, ok := gsubApplySingle(newLocator(alb), alb, ot.TableView(sub), 0)
	assert.False(t, ok)
	assert.Equal(t, ot.GlyphIndex(11), alb.Glyphs[0])
}

func TestGSubSingleFmt2ExplicitSubstitute(t *testing.T) {
	alb := newAlbum(10)
	cov := coverageFmt1(10)
	sub := putU16(nil, 2) // format
	sub = putU16(sub, 8)  // coverage offset
	sub = putU16(sub, 1)  // glyphCount
	sub = putU16(sub, 99) // substitute glyph for coverage index 0
	sub = append(sub, cov...)

	next, ok := gsubApplySingle(newLocator(alb), alb, ot.TableView(sub), 0)
	assert.True(t, ok)
	assert.Equal(t, 1, next)
	assert.Equal(t, ot.GlyphIndex(99), alb.Glyphs[0])
}

func TestGSubMultipleExpandsOneGlyphIntoSequence(t *testing.T) {
	alb := newAlbum(5)
	cov := coverageFmt1(5)
	sub := putU16(nil, 1) // format
	sub = putU16(sub, 8)  // coverage offset
	sub = putU16(sub, 1)  // sequenceCount
	sub = putU16(sub, uint16(8+len(cov)))
	seq := putU16(nil, 2) // glyphCount
	seq = putU16(seq, 101)
	seq = putU16(seq, 102)
	sub = append(sub, cov...)
	sub = append(sub, seq...)

	next, ok := gsubApplyMultiple(newLocator(alb), alb, ot.TableView(sub), 0)
	assert.True(t, ok)
	assert.Equal(t, 2, next)
	assert.Equal(t, 2, alb.GlyphCount())
	assert.Equal(t, ot.GlyphIndex(101), alb.Glyphs[0])
	assert.Equal(t, ot.GlyphIndex(102), alb.Glyphs[1])
}

func TestGSubLigatureAbsorbsComponentsAsPlaceholders(t *testing.T) {
	alb := newAlbum(30, 31, 32)
	cov := coverageFmt1(30)
	sub := putU16(nil, 1) // format
	sub = putU16(sub, 8)  // coverage offset
	sub = putU16(sub, 1)  // ligSetCount
	sub = putU16(sub, uint16(8+len(cov)))
	set := putU16(nil, 1) // ligCount
	set = putU16(set, 4)  // ligature offset within set
	lig := putU16(nil, 200) // ligature glyph
	lig = putU16(lig, 3)    // componentCount
	lig = putU16(lig, 31)   // component[1]
	lig = putU16(lig, 32)   // component[2]
	sub = append(sub, cov...)
	sub = append(sub, set...)
	sub = append(sub, lig...)

	next, ok := gsubApplyLigature(newLocator(alb), alb, ot.TableView(sub), 0)
	assert.True(t, ok)
	assert.Equal(t, 3, next)
	// glyph_count visible to positioning stays 3: the components are
	// absorbed as placeholders, never spliced away (spec.md §8 scenario 5).
	assert.Equal(t, 3, alb.GlyphCount())
	assert.Equal(t, ot.GlyphIndex(200), alb.Glyphs[0])
	assert.Equal(t, album.Ligature, alb.Traits[0])
	assert.Equal(t, album.Placeholder, alb.Traits[1])
	assert.Equal(t, album.Placeholder, alb.Traits[2])
	assert.Equal(t, []int{0, 1, 2}, alb.Associations[0])
	assert.Equal(t, []int{0, 1, 2}, alb.Associations[1])
	assert.Equal(t, []int{0, 1, 2}, alb.Associations[2])
}

func TestGSubLigatureNoMatchWhenComponentsDontFollow(t *testing.T) {
	alb := newAlbum(30, 99, 32)
	cov := coverageFmt1(30)
	sub := putU16(nil, 1)
	sub = putU16(sub, 8)
	sub = putU16(sub, 1)
	sub = putU16(sub, uint16(8+len(cov)))
	set := putU16(nil, 1)
	set = putU16(set, 4)
	lig := putU16(nil, 200)
	lig = putU16(lig, 3)
	lig = putU16(lig, 31)
	lig = putU16(lig, 32)
	sub = append(sub, cov...)
	sub = append(sub, set...)
	sub = append(sub, lig...)

	_, ok := gsubApplyLigature(newLocator(alb), alb, ot.TableView(sub), 0)
	assert.False(t, ok)
	assert.Equal(t, 3, alb.GlyphCount())
}
