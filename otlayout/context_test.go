package otlayout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glyphforge/otshape/ot"
)

func TestMatchSequenceContextFmt1MatchesRuleAndRecord(t *testing.T) {
	alb := newAlbum(5, 6, 7)
	cov := coverageFmt1(5)

	rule := putU16(nil, 2) // glyphCount (including the first, covered, glyph)
	rule = putU16(rule, 1) // seqLookupCount
	rule = putU16(rule, 6) // input[0]: glyph 6
	rule = putU16(rule, 1) // seqLookupRecord[0].sequenceIndex
	rule = putU16(rule, 0) // seqLookupRecord[0].lookupIndex

	ruleSet := putU16(nil, 1) // ruleCount
	ruleSet = putU16(ruleSet, 4) // rule[0] offset, right after ruleCount+ruleOffsets
	ruleSet = append(ruleSet, rule...)

	header := putU16(nil, 1)   // format
	header = putU16(header, 8) // coverageOffset, right after this 8-byte header
	header = putU16(header, 1) // ruleSetCount
	header = putU16(header, uint16(8+len(cov))) // ruleSetOffsets[0]

	sub := append(header, cov...)
	sub = append(sub, ruleSet...)

	loc := newLocator(alb)
	match, ok := MatchSequenceContext(loc, albumAdapter{alb}, ot.TableView(sub), 0)
	assert.True(t, ok)
	assert.Equal(t, []int{0, 1}, match.Positions)
	assert.Equal(t, []SeqRecord{{SequenceIndex: 1, LookupIndex: 0}}, match.Records)
}

func TestMatchSequenceContextFmt1NoMatchWhenInputDiffers(t *testing.T) {
	alb := newAlbum(5, 99, 7)
	cov := coverageFmt1(5)

	rule := putU16(nil, 2)
	rule = putU16(rule, 1)
	rule = putU16(rule, 6)
	rule = putU16(rule, 1)
	rule = putU16(rule, 0)

	ruleSet := putU16(nil, 1)
	ruleSet = putU16(ruleSet, 4)
	ruleSet = append(ruleSet, rule...)

	header := putU16(nil, 1)
	header = putU16(header, 8)
	header = putU16(header, 1)
	header = putU16(header, uint16(8+len(cov)))

	sub := append(header, cov...)
	sub = append(sub, ruleSet...)

	loc := newLocator(alb)
	_, ok := MatchSequenceContext(loc, albumAdapter{alb}, ot.TableView(sub), 0)
	assert.False(t, ok)
}

func TestMatchChainedSequenceContextFmt3MatchesBacktrackInputLookahead(t *testing.T) {
	alb := newAlbum(1, 2, 3, 4, 5)
	backtrackCov := coverageFmt1(2)
	inputCov := coverageFmt1(3)
	lookaheadCov := coverageFmt1(4)

	sub := putU16(nil, 3) // format
	sub = putU16(sub, 1)  // backtrackGlyphCount
	backtrackOffsetPos := len(sub)
	sub = putU16(sub, 0) // backtrackCoverageOffsets[0], patched below
	sub = putU16(sub, 1) // inputGlyphCount
	inputOffsetPos := len(sub)
	sub = putU16(sub, 0) // inputCoverageOffsets[0], patched below
	sub = putU16(sub, 1) // lookaheadGlyphCount
	lookaheadOffsetPos := len(sub)
	sub = putU16(sub, 0) // lookaheadCoverageOffsets[0], patched below
	sub = putU16(sub, 1) // seqLookupCount
	sub = putU16(sub, 0) // seqLookupRecord[0].sequenceIndex
	sub = putU16(sub, 2) // seqLookupRecord[0].lookupIndex

	backtrackOff := len(sub)
	sub = append(sub, backtrackCov...)
	inputOff := len(sub)
	sub = append(sub, inputCov...)
	lookaheadOff := len(sub)
	sub = append(sub, lookaheadCov...)

	patchU16 := func(at, v int) {
		sub[at] = byte(v >> 8)
		sub[at+1] = byte(v)
	}
	patchU16(backtrackOffsetPos, backtrackOff)
	patchU16(inputOffsetPos, inputOff)
	patchU16(lookaheadOffsetPos, lookaheadOff)

	loc := newLocator(alb)
	match, ok := MatchChainedSequenceContext(loc, albumAdapter{alb}, ot.TableView(sub), 2)
	assert.True(t, ok)
	assert.Equal(t, []int{2}, match.Positions)
	assert.Equal(t, []SeqRecord{{SequenceIndex: 0, LookupIndex: 2}}, match.Records)
}

func TestMatchChainedSequenceContextFmt3FailsWhenLookaheadMissing(t *testing.T) {
	alb := newAlbum(1, 2, 3, 99, 5)
	backtrackCov := coverageFmt1(2)
	inputCov := coverageFmt1(3)
	lookaheadCov := coverageFmt1(4)

	sub := putU16(nil, 3)
	sub = putU16(sub, 1)
	backtrackOffsetPos := len(sub)
	sub = putU16(sub, 0)
	sub = putU16(sub, 1)
	inputOffsetPos := len(sub)
	sub = putU16(sub, 0)
	sub = putU16(sub, 1)
	lookaheadOffsetPos := len(sub)
	sub = putU16(sub, 0)
	sub = putU16(sub, 1)
	sub = putU16(sub, 0)
	sub = putU16(sub, 2)

	backtrackOff := len(sub)
	sub = append(sub, backtrackCov...)
	inputOff := len(sub)
	sub = append(sub, inputCov...)
	lookaheadOff := len(sub)
	sub = append(sub, lookaheadCov...)

	patchU16 := func(at, v int) {
		sub[at] = byte(v >> 8)
		sub[at+1] = byte(v)
	}
	patchU16(backtrackOffsetPos, backtrackOff)
	patchU16(inputOffsetPos, inputOff)
	patchU16(lookaheadOffsetPos, lookaheadOff)

	loc := newLocator(alb)
	_, ok := MatchChainedSequenceContext(loc, albumAdapter{alb}, ot.TableView(sub), 2)
	assert.False(t, ok)
}
