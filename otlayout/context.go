package otlayout

import "github.com/glyphforge/otshape/ot"

// Contextual and chained-contextual lookups (GSUB types 5/6, GPOS types
// 7/8) share the same two subtable family shapes — SequenceContext and
// ChainSequenceContext, each in formats 1 (glyph-specific rules), 2
// (class-based rules), and 3 (coverage-based, no rule sets). This file
// matches those shapes against the album and returns which nested
// lookups apply at which input positions; applying the nested lookups
// themselves is the driver's job; it owns the full LookupList.

// SeqRecord is a SequenceLookupRecord: apply the lookup at LookupIndex
// to the input glyph at SequenceIndex (0-based into the matched input
// sequence).
type SeqRecord struct {
	SequenceIndex int
	LookupIndex   int
}

// ContextMatch is the result of matching a contextual subtable: the
// album positions of the matched input sequence (Positions[0] is the
// position the lookup was invoked at) and the nested lookups to apply.
type ContextMatch struct {
	Positions []int
	Records   []SeqRecord
}

func parseSeqRecords(view ot.TableView, offset, count int) []SeqRecord {
	recs := make([]SeqRecord, count)
	for i := 0; i < count; i++ {
		recs[i] = SeqRecord{
			SequenceIndex: int(view.U16At(offset + i*4)),
			LookupIndex:   int(view.U16At(offset + i*4 + 2)),
		}
	}
	return recs
}

// matchGlyphSeq matches an explicit glyph-ID sequence starting at album
// position from (inclusive), skipping glyphs the locator would skip.
func matchGlyphSeq(loc *Locator, alb albumGlyphs, from int, seq []ot.GlyphIndex) ([]int, bool) {
	positions := make([]int, 0, len(seq))
	cur := from
	for _, want := range seq {
		next, ok := loc.MoveNext(cur)
		if !ok || alb.glyphAt(next) != want {
			return nil, false
		}
		positions = append(positions, next)
		cur = next + 1
	}
	return positions, true
}

// matchClassSeq matches a sequence of ClassDef classes the same way.
func matchClassSeq(loc *Locator, alb albumGlyphs, cd ot.ClassDef, from int, classes []int) ([]int, bool) {
	positions := make([]int, 0, len(classes))
	cur := from
	for _, want := range classes {
		next, ok := loc.MoveNext(cur)
		if !ok || cd.Lookup(alb.glyphAt(next)) != want {
			return nil, false
		}
		positions = append(positions, next)
		cur = next + 1
	}
	return positions, true
}

// matchCoverageSeq matches a forward sequence of Coverage tables,
// starting at from (inclusive) — used for input (fmt3) and lookahead
// sequences.
func matchCoverageSeq(loc *Locator, alb albumGlyphs, from int, covs []ot.Coverage) ([]int, bool) {
	positions := make([]int, 0, len(covs))
	cur := from
	for _, cov := range covs {
		next, ok := loc.MoveNext(cur)
		if !ok || !cov.Contains(alb.glyphAt(next)) {
			return nil, false
		}
		positions = append(positions, next)
		cur = next + 1
	}
	return positions, true
}

// matchCoverageSeqBackward matches a backtrack Coverage sequence,
// walking backward from before the first input glyph.
func matchCoverageSeqBackward(loc *Locator, alb albumGlyphs, before int, covs []ot.Coverage) bool {
	cur := before
	for _, cov := range covs {
		prev, ok := loc.MovePrevious(cur)
		if !ok || !cov.Contains(alb.glyphAt(prev)) {
			return false
		}
		cur = prev - 1
	}
	return true
}

// albumGlyphs is the minimal glyph-access surface context matching
// needs; it is implemented by *album.Album via the small adapter in
// driver.go, keeping this file free of an import cycle concern.
type albumGlyphs interface {
	glyphAt(i int) ot.GlyphIndex
}

// MatchSequenceContext dispatches a SequenceContext subtable (GSUB type
// 5 / GPOS type 7) by its format byte.
func MatchSequenceContext(loc *Locator, alb albumGlyphs, sub ot.TableView, pos int) (ContextMatch, bool) {
	switch sub.U16At(0) {
	case 1:
		return matchSequenceContextFmt1(loc, alb, sub, pos)
	case 2:
		return matchSequenceContextFmt2(loc, alb, sub, pos)
	case 3:
		return matchSequenceContextFmt3(loc, alb, sub, pos)
	}
	return ContextMatch{}, false
}

func matchSequenceContextFmt1(loc *Locator, alb albumGlyphs, sub ot.TableView, pos int) (ContextMatch, bool) {
	covOff := sub.U16At(2)
	cov := ot.ParseCoverage(sub.SubviewFrom(int(covOff)))
	inx, ok := cov.Match(alb.glyphAt(pos))
	if !ok {
		return ContextMatch{}, false
	}
	ruleSetCount := int(sub.U16At(4))
	if inx < 0 || inx >= ruleSetCount {
		return ContextMatch{}, false
	}
	ruleSetOff := sub.U16At(6 + inx*2)
	if ruleSetOff == 0 {
		return ContextMatch{}, false
	}
	ruleSet := sub.SubviewFrom(int(ruleSetOff))
	ruleCount := int(ruleSet.U16At(0))
	for r := 0; r < ruleCount; r++ {
		ruleOff := ruleSet.U16At(2 + r*2)
		rule := ruleSet.SubviewFrom(int(ruleOff))
		glyphCount := int(rule.U16At(0))
		seqLookupCount := int(rule.U16At(2))
		if glyphCount < 1 {
			continue
		}
		input := make([]ot.GlyphIndex, glyphCount-1)
		for i := range input {
			input[i] = ot.GlyphIndex(rule.U16At(4 + i*2))
		}
		rest, ok := matchGlyphSeq(loc, alb, pos+1, input)
		if !ok {
			continue
		}
		positions := append([]int{pos}, rest...)
		recOff := 4 + len(input)*2
		records := parseSeqRecords(rule, recOff, seqLookupCount)
		return ContextMatch{Positions: positions, Records: records}, true
	}
	return ContextMatch{}, false
}

func matchSequenceContextFmt2(loc *Locator, alb albumGlyphs, sub ot.TableView, pos int) (ContextMatch, bool) {
	covOff := sub.U16At(2)
	cov := ot.ParseCoverage(sub.SubviewFrom(int(covOff)))
	if !cov.Contains(alb.glyphAt(pos)) {
		return ContextMatch{}, false
	}
	classDefOff := sub.U16At(4)
	cd := ot.ParseClassDef(sub.SubviewFrom(int(classDefOff)))
	firstClass := cd.Lookup(alb.glyphAt(pos))
	ruleSetCount := int(sub.U16At(6))
	if firstClass < 0 || firstClass >= ruleSetCount {
		return ContextMatch{}, false
	}
	ruleSetOff := sub.U16At(8 + firstClass*2)
	if ruleSetOff == 0 {
		return ContextMatch{}, false
	}
	ruleSet := sub.SubviewFrom(int(ruleSetOff))
	ruleCount := int(ruleSet.U16At(0))
	for r := 0; r < ruleCount; r++ {
		ruleOff := ruleSet.U16At(2 + r*2)
		rule := ruleSet.SubviewFrom(int(ruleOff))
		glyphCount := int(rule.U16At(0))
		seqLookupCount := int(rule.U16At(2))
		if glyphCount < 1 {
			continue
		}
		classes := make([]int, glyphCount-1)
		for i := range classes {
			classes[i] = int(rule.U16At(4 + i*2))
		}
		rest, ok := matchClassSeq(loc, alb, cd, pos+1, classes)
		if !ok {
			continue
		}
		positions := append([]int{pos}, rest...)
		recOff := 4 + len(classes)*2
		records := parseSeqRecords(rule, recOff, seqLookupCount)
		return ContextMatch{Positions: positions, Records: records}, true
	}
	return ContextMatch{}, false
}

func matchSequenceContextFmt3(loc *Locator, alb albumGlyphs, sub ot.TableView, pos int) (ContextMatch, bool) {
	glyphCount := int(sub.U16At(2))
	seqLookupCount := int(sub.U16At(4))
	if glyphCount == 0 {
		return ContextMatch{}, false
	}
	covs := make([]ot.Coverage, glyphCount)
	for i := 0; i < glyphCount; i++ {
		off := sub.U16At(6 + i*2)
		covs[i] = ot.ParseCoverage(sub.SubviewFrom(int(off)))
	}
	positions, ok := matchCoverageSeq(loc, alb, pos, covs)
	if !ok {
		return ContextMatch{}, false
	}
	recOff := 6 + glyphCount*2
	records := parseSeqRecords(sub, recOff, seqLookupCount)
	return ContextMatch{Positions: positions, Records: records}, true
}

// MatchChainedSequenceContext dispatches a ChainSequenceContext subtable
// (GSUB type 6 / GPOS type 8) by its format byte.
func MatchChainedSequenceContext(loc *Locator, alb albumGlyphs, sub ot.TableView, pos int) (ContextMatch, bool) {
	switch sub.U16At(0) {
	case 1:
		return matchChainedFmt1(loc, alb, sub, pos)
	case 2:
		return matchChainedFmt2(loc, alb, sub, pos)
	case 3:
		return matchChainedFmt3(loc, alb, sub, pos)
	}
	return ContextMatch{}, false
}

func matchChainedFmt1(loc *Locator, alb albumGlyphs, sub ot.TableView, pos int) (ContextMatch, bool) {
	covOff := sub.U16At(2)
	cov := ot.ParseCoverage(sub.SubviewFrom(int(covOff)))
	inx, ok := cov.Match(alb.glyphAt(pos))
	if !ok {
		return ContextMatch{}, false
	}
	setCount := int(sub.U16At(4))
	if inx < 0 || inx >= setCount {
		return ContextMatch{}, false
	}
	setOff := sub.U16At(6 + inx*2)
	if setOff == 0 {
		return ContextMatch{}, false
	}
	set := sub.SubviewFrom(int(setOff))
	ruleCount := int(set.U16At(0))
	for r := 0; r < ruleCount; r++ {
		ruleOff := set.U16At(2 + r*2)
		rule := set.SubviewFrom(int(ruleOff))
		p := 0
		backtrackCount := int(rule.U16At(p))
		p += 2
		backtrack := make([]ot.GlyphIndex, backtrackCount)
		for i := 0; i < backtrackCount; i++ {
			backtrack[i] = ot.GlyphIndex(rule.U16At(p + i*2))
		}
		p += backtrackCount * 2
		inputGlyphCount := int(rule.U16At(p))
		p += 2
		input := make([]ot.GlyphIndex, 0)
		if inputGlyphCount > 0 {
			input = make([]ot.GlyphIndex, inputGlyphCount-1)
			for i := range input {
				input[i] = ot.GlyphIndex(rule.U16At(p + i*2))
			}
		}
		p += len(input) * 2
		lookaheadCount := int(rule.U16At(p))
		p += 2
		lookahead := make([]ot.GlyphIndex, lookaheadCount)
		for i := 0; i < lookaheadCount; i++ {
			lookahead[i] = ot.GlyphIndex(rule.U16At(p + i*2))
		}
		p += lookaheadCount * 2
		seqLookupCount := int(rule.U16At(p))
		p += 2

		if !matchBacktrackGlyphs(loc, alb, pos-1, backtrack) {
			continue
		}
		rest, ok := matchGlyphSeq(loc, alb, pos+1, input)
		if !ok {
			continue
		}
		inputPositions := append([]int{pos}, rest...)
		lookaheadStart := inputPositions[len(inputPositions)-1] + 1
		if _, ok := matchGlyphSeq(loc, alb, lookaheadStart, lookahead); !ok {
			continue
		}
		records := parseSeqRecords(rule, p, seqLookupCount)
		return ContextMatch{Positions: inputPositions, Records: records}, true
	}
	return ContextMatch{}, false
}

func matchBacktrackGlyphs(loc *Locator, alb albumGlyphs, before int, backtrack []ot.GlyphIndex) bool {
	cur := before
	for _, want := range backtrack {
		prev, ok := loc.MovePrevious(cur)
		if !ok || alb.glyphAt(prev) != want {
			return false
		}
		cur = prev - 1
	}
	return true
}

func matchBacktrackClasses(loc *Locator, alb albumGlyphs, cd ot.ClassDef, before int, backtrack []int) bool {
	cur := before
	for _, want := range backtrack {
		prev, ok := loc.MovePrevious(cur)
		if !ok || cd.Lookup(alb.glyphAt(prev)) != want {
			return false
		}
		cur = prev - 1
	}
	return true
}

func matchChainedFmt2(loc *Locator, alb albumGlyphs, sub ot.TableView, pos int) (ContextMatch, bool) {
	covOff := sub.U16At(2)
	cov := ot.ParseCoverage(sub.SubviewFrom(int(covOff)))
	if !cov.Contains(alb.glyphAt(pos)) {
		return ContextMatch{}, false
	}
	backtrackClassDefOff := sub.U16At(4)
	inputClassDefOff := sub.U16At(6)
	lookaheadClassDefOff := sub.U16At(8)
	backtrackCD := ot.ParseClassDef(sub.SubviewFrom(int(backtrackClassDefOff)))
	inputCD := ot.ParseClassDef(sub.SubviewFrom(int(inputClassDefOff)))
	lookaheadCD := ot.ParseClassDef(sub.SubviewFrom(int(lookaheadClassDefOff)))

	firstClass := inputCD.Lookup(alb.glyphAt(pos))
	setCount := int(sub.U16At(10))
	if firstClass < 0 || firstClass >= setCount {
		return ContextMatch{}, false
	}
	setOff := sub.U16At(12 + firstClass*2)
	if setOff == 0 {
		return ContextMatch{}, false
	}
	set := sub.SubviewFrom(int(setOff))
	ruleCount := int(set.U16At(0))
	for r := 0; r < ruleCount; r++ {
		ruleOff := set.U16At(2 + r*2)
		rule := set.SubviewFrom(int(ruleOff))
		p := 0
		backtrackCount := int(rule.U16At(p))
		p += 2
		backtrack := make([]int, backtrackCount)
		for i := 0; i < backtrackCount; i++ {
			backtrack[i] = int(rule.U16At(p + i*2))
		}
		p += backtrackCount * 2
		inputGlyphCount := int(rule.U16At(p))
		p += 2
		var input []int
		if inputGlyphCount > 0 {
			input = make([]int, inputGlyphCount-1)
			for i := range input {
				input[i] = int(rule.U16At(p + i*2))
			}
		}
		p += len(input) * 2
		lookaheadCount := int(rule.U16At(p))
		p += 2
		lookahead := make([]int, lookaheadCount)
		for i := 0; i < lookaheadCount; i++ {
			lookahead[i] = int(rule.U16At(p + i*2))
		}
		p += lookaheadCount * 2
		seqLookupCount := int(rule.U16At(p))
		p += 2

		if !matchBacktrackClasses(loc, alb, backtrackCD, pos-1, backtrack) {
			continue
		}
		rest, ok := matchClassSeq(loc, alb, inputCD, pos+1, input)
		if !ok {
			continue
		}
		inputPositions := append([]int{pos}, rest...)
		lookaheadStart := inputPositions[len(inputPositions)-1] + 1
		if _, ok := matchClassSeq(loc, alb, lookaheadCD, lookaheadStart, lookahead); !ok {
			continue
		}
		records := parseSeqRecords(rule, p, seqLookupCount)
		return ContextMatch{Positions: inputPositions, Records: records}, true
	}
	return ContextMatch{}, false
}

func matchChainedFmt3(loc *Locator, alb albumGlyphs, sub ot.TableView, pos int) (ContextMatch, bool) {
	p := 2 // skip the format field; dispatch already consumed it
	backtrackCount := int(sub.U16At(p))
	p += 2
	backtrackCovs := make([]ot.Coverage, backtrackCount)
	for i := 0; i < backtrackCount; i++ {
		off := sub.U16At(p + i*2)
		backtrackCovs[i] = ot.ParseCoverage(sub.SubviewFrom(int(off)))
	}
	p += backtrackCount * 2
	inputCount := int(sub.U16At(p))
	p += 2
	inputCovs := make([]ot.Coverage, inputCount)
	for i := 0; i < inputCount; i++ {
		off := sub.U16At(p + i*2)
		inputCovs[i] = ot.ParseCoverage(sub.SubviewFrom(int(off)))
	}
	p += inputCount * 2
	lookaheadCount := int(sub.U16At(p))
	p += 2
	lookaheadCovs := make([]ot.Coverage, lookaheadCount)
	for i := 0; i < lookaheadCount; i++ {
		off := sub.U16At(p + i*2)
		lookaheadCovs[i] = ot.ParseCoverage(sub.SubviewFrom(int(off)))
	}
	p += lookaheadCount * 2
	seqLookupCount := int(sub.U16At(p))
	p += 2

	if inputCount == 0 {
		return ContextMatch{}, false
	}
	if !matchCoverageSeqBackward(loc, alb, pos-1, backtrackCovs) {
		return ContextMatch{}, false
	}
	inputPositions, ok := matchCoverageSeq(loc, alb, pos, inputCovs)
	if !ok {
		return ContextMatch{}, false
	}
	lookaheadStart := inputPositions[len(inputPositions)-1] + 1
	if _, ok := matchCoverageSeq(loc, alb, lookaheadStart, lookaheadCovs); !ok {
		return ContextMatch{}, false
	}
	records := parseSeqRecords(sub, p, seqLookupCount)
	return ContextMatch{Positions: inputPositions, Records: records}, true
}
