package otlayout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glyphforge/otshape/album"
	"github.com/glyphforge/otshape/ot"
)

func newArrangingAlbum(glyphs ...ot.GlyphIndex) *album.Album {
	alb := newAlbum(glyphs...)
	alb.BeginArranging()
	return alb
}

func TestGPosSingleFmt1AppliesUniformAdjustment(t *testing.T) {
	alb := newArrangingAlbum(10)
	cov := coverageFmt1(10)
	sub := putU16(nil, 1)                                  // format
	sub = putU16(sub, 8)                                    // coverage offset
	sub = putU16(sub, uint16(ValueFormatXAdvance))          // valueFormat
	sub = putI16(sub, 250)                                  // xAdvance
	sub = append(sub, cov...)

	ok := gposApplySingle(alb, ot.TableView(sub), 0)
	assert.True(t, ok)
	assert.Equal(t, int32(250), alb.Advance[0].X)
}

func TestGPosPairFmt1AdjustsBothGlyphs(t *testing.T) {
	alb := newArrangingAlbum(10, 20)
	cov := coverageFmt1(10)
	format1 := ValueFormat(ValueFormatXAdvance)
	format2 := ValueFormat(0)

	header := putU16(nil, 1) // format
	header = putU16(header, 12) // coverage offset (right after the 12-byte header)
	header = putU16(header, uint16(format1))
	header = putU16(header, uint16(format2))
	header = putU16(header, 1)             // pairSetCount
	header = putU16(header, uint16(12+len(cov))) // pairSetOffsets[0]

	pairSet := putU16(nil, 1) // pairValueCount
	pairSet = putU16(pairSet, 20) // secondGlyph
	pairSet = putI16(pairSet, -30) // value1.xAdvance

	sub := append(header, cov...)
	sub = append(sub, pairSet...)

	loc := newLocator(alb)
	next, ok := gposApplyPair(loc, alb, ot.TableView(sub), 0)
	assert.True(t, ok)
	assert.Equal(t, 1, next)
	assert.Equal(t, int32(-30), alb.Advance[0].X)
}

func TestGPosMarkToBaseRecordsAnchorAndOffset(t *testing.T) {
	alb := newArrangingAlbum(1, 2) // 1=base, 2=mark
	markCov := coverageFmt1(2)
	baseCov := coverageFmt1(1)

	markArray := putU16(nil, 1) // markCount
	markArray = putU16(markArray, 0) // markRecord[0].class
	markArray = putU16(markArray, 6) // markRecord[0].anchorOffset (anchor table starts right after this 6-byte header)
	markAnchor := putU16(nil, 1) // anchor format
	markAnchor = putI16(markAnchor, 0) // x
	markAnchor = putI16(markAnchor, 0) // y
	markArray = append(markArray, markAnchor...)

	baseArray := putU16(nil, 1) // baseCount
	baseArray = putU16(baseArray, 4) // baseRecord[0].baseAnchors[class0] (anchor table starts right after this 4-byte header)
	baseAnchor := putU16(nil, 1)
	baseAnchor = putI16(baseAnchor, 100)
	baseAnchor = putI16(baseAnchor, 200)
	baseArray = append(baseArray, baseAnchor...)

	header := putU16(nil, 1)                      // format
	markCovOffset := 12
	header = putU16(header, uint16(markCovOffset)) // markCoverageOffset
	baseCovOffset := markCovOffset + len(markCov)
	header = putU16(header, uint16(baseCovOffset))
	header = putU16(header, 1) // markClassCount
	markArrayOffset := baseCovOffset + len(baseCov)
	header = putU16(header, uint16(markArrayOffset))
	baseArrayOffset := markArrayOffset + len(markArray)
	header = putU16(header, uint16(baseArrayOffset))

	sub := append(header, markCov...)
	sub = append(sub, baseCov...)
	sub = append(sub, markArray...)
	sub = append(sub, baseArray...)

	loc := newLocator(alb)
	ok := gposApplyMarkToBase(loc, alb, ot.TableView(sub), 1)
	assert.True(t, ok)
	assert.Equal(t, album.AttachMarkToBase, alb.Anchors[1].Kind)
	assert.Equal(t, int32(0), alb.Anchors[1].AttachTo)
	assert.Equal(t, int32(100), alb.Offset[1].X)
	assert.Equal(t, int32(200), alb.Offset[1].Y)
}
