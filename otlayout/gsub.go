package otlayout

import (
	"github.com/glyphforge/otshape/album"
	"github.com/glyphforge/otshape/ot"
)

// GSUB lookup-type handlers. Each handler receives the raw bytes of one
// subtable (starting at its format field) and the album position its
// lookup's coverage should be tested against; it reports whether the
// subtable matched and, if so, the album index to resume matching from.
//
// Subtable format fields are read directly from the subtable's bytes,
// per the dispatch signature the driver uses: handlers parse their own
// wire format rather than working from a pre-parsed payload.

const maxLigatureComponents = 16

// gsubApplySingle applies GSUB lookup type 1 (Single Substitution).
func gsubApplySingle(loc *Locator, alb *album.Album, sub ot.TableView, pos int) (int, bool) {
	format := sub.U16At(0)
	covOff := sub.U16At(2)
	cov := ot.ParseCoverage(sub.SubviewFrom(int(covOff)))
	g := alb.Glyphs[pos]
	inx, ok := cov.Match(g)
	if !ok {
		return pos, false
	}
	var out ot.GlyphIndex
	switch format {
	case 1:
		delta := sub.I16At(4)
		out = ot.GlyphIndex(int32(g) + int32(delta))
	case 2:
		out = ot.GlyphIndex(sub.U16At(6 + inx*2))
	default:
		return pos, false
	}
	alb.Insert(pos, pos+1, []ot.GlyphIndex{out}, []album.Traits{alb.Traits[pos]}, [][]int{alb.Associations[pos]})
	return pos + 1, true
}

// gsubApplyMultiple applies GSUB lookup type 2 (Multiple Substitution):
// one glyph expands into a sequence. The first replacement overwrites
// pos in place; any further replacements are opened up with Reserve and
// share the original association, per spec.md §4.E.
func gsubApplyMultiple(loc *Locator, alb *album.Album, sub ot.TableView, pos int) (int, bool) {
	covOff := sub.U16At(2)
	cov := ot.ParseCoverage(sub.SubviewFrom(int(covOff)))
	g := alb.Glyphs[pos]
	inx, ok := cov.Match(g)
	if !ok {
		return pos, false
	}
	seqCount := int(sub.U16At(4))
	if inx < 0 || inx >= seqCount {
		return pos, false
	}
	seqOff := sub.U16At(6 + inx*2)
	seq := sub.SubviewFrom(int(seqOff))
	glyphCount := int(seq.U16At(0))
	if glyphCount == 0 {
		// OpenType guidance: an empty sequence leaves the current entry
		// untouched rather than deleting it.
		return pos, true
	}

	origTraits, origAssoc := alb.Traits[pos], alb.Associations[pos]
	alb.Glyphs[pos] = ot.GlyphIndex(seq.U16At(2))

	if glyphCount > 1 {
		alb.Reserve(pos+1, glyphCount-1)
		for i := 1; i < glyphCount; i++ {
			idx := pos + i
			alb.Glyphs[idx] = ot.GlyphIndex(seq.U16At(2 + i*2))
			alb.Traits[idx] = origTraits | album.Component
			alb.Associations[idx] = origAssoc
		}
	}
	return pos + glyphCount, true
}

// gsubApplyAlternate applies GSUB lookup type 3 (Alternate Substitution).
// altIndex selects which alternate to use (typically 0, the default).
func gsubApplyAlternate(loc *Locator, alb *album.Album, sub ot.TableView, pos, altIndex int) (int, bool) {
	covOff := sub.U16At(2)
	cov := ot.ParseCoverage(sub.SubviewFrom(int(covOff)))
	g := alb.Glyphs[pos]
	inx, ok := cov.Match(g)
	if !ok {
		return pos, false
	}
	setCount := int(sub.U16At(4))
	if inx < 0 || inx >= setCount {
		return pos, false
	}
	setOff := sub.U16At(6 + inx*2)
	set := sub.SubviewFrom(int(setOff))
	altCount := int(set.U16At(0))
	if altIndex < 0 || altIndex >= altCount {
		return pos, false
	}
	out := ot.GlyphIndex(set.U16At(2 + altIndex*2))
	alb.Insert(pos, pos+1, []ot.GlyphIndex{out}, []album.Traits{alb.Traits[pos]}, [][]int{alb.Associations[pos]})
	return pos + 1, true
}

// gsubApplyLigature applies GSUB lookup type 4 (Ligature Substitution).
func gsubApplyLigature(loc *Locator, alb *album.Album, sub ot.TableView, pos int) (int, bool) {
	covOff := sub.U16At(2)
	cov := ot.ParseCoverage(sub.SubviewFrom(int(covOff)))
	g := alb.Glyphs[pos]
	inx, ok := cov.Match(g)
	if !ok {
		return pos, false
	}
	setCount := int(sub.U16At(4))
	if inx < 0 || inx >= setCount {
		return pos, false
	}
	setOff := sub.U16At(6 + inx*2)
	set := sub.SubviewFrom(int(setOff))
	ligCount := int(set.U16At(0))
	for i := 0; i < ligCount; i++ {
		ligOff := set.U16At(2 + i*2)
		lig := set.SubviewFrom(int(ligOff))
		ligGlyph := ot.GlyphIndex(lig.U16At(0))
		compCount := int(lig.U16At(2))
		if compCount == 0 || compCount > maxLigatureComponents {
			continue
		}
		cur := pos
		matched := true
		consumed := []int{pos}
		for c := 1; c < compCount; c++ {
			next, ok := loc.MoveNext(cur + 1)
			if !ok || alb.Glyphs[next] != ot.GlyphIndex(lig.U16At(4+(c-1)*2)) {
				matched = false
				break
			}
			cur = next
			consumed = append(consumed, next)
		}
		if !matched {
			continue
		}
		var merged []int
		for _, idx := range consumed {
			merged = append(merged, alb.Associations[idx]...)
		}
		// The component run is absorbed in place, never spliced away: the
		// ligature glyph overwrites pos, and every other consumed position
		// becomes a Placeholder sharing the merged association, keeping
		// glyph_count (and every later index) stable for positioning.
		alb.Glyphs[pos] = ligGlyph
		alb.Traits[pos] = album.Ligature
		alb.Associations[pos] = merged
		for _, idx := range consumed[1:] {
			alb.Traits[idx] = album.Placeholder
			alb.Associations[idx] = merged
		}
		return cur + 1, true
	}
	return pos, false
}

// gsubApplyReverseChain applies GSUB lookup type 8 (Reverse Chaining
// Contextual Single Substitution), format 1. This type is unique in
// OpenType: it is evaluated by traversing the album from its last glyph
// to its first, and a match substitutes a single glyph in place
// (it never changes the glyph count). The driver is responsible for the
// right-to-left traversal; this handler only evaluates one position.
func gsubApplyReverseChain(loc *Locator, alb *album.Album, sub ot.TableView, pos int) bool {
	backtrackCount := int(sub.U16At(4))
	backtrackCoverages := make([]ot.Coverage, backtrackCount)
	for i := 0; i < backtrackCount; i++ {
		off := sub.U16At(6 + i*2)
		backtrackCoverages[i] = ot.ParseCoverage(sub.SubviewFrom(int(off)))
	}
	afterBacktrack := 6 + backtrackCount*2
	lookaheadCount := int(sub.U16At(afterBacktrack))
	lookaheadCoverages := make([]ot.Coverage, lookaheadCount)
	for i := 0; i < lookaheadCount; i++ {
		off := sub.U16At(afterBacktrack + 2 + i*2)
		lookaheadCoverages[i] = ot.ParseCoverage(sub.SubviewFrom(int(off)))
	}
	afterLookahead := afterBacktrack + 2 + lookaheadCount*2
	glyphCount := int(sub.U16At(afterLookahead))
	substOff := afterLookahead + 2

	inputCov := ot.ParseCoverage(sub.SubviewFrom(int(sub.U16At(2))))
	g := alb.Glyphs[pos]
	inx, ok := inputCov.Match(g)
	if !ok || inx >= glyphCount {
		return false
	}

	cur := pos
	for i := 0; i < backtrackCount; i++ {
		prev, ok := loc.MovePrevious(cur - 1)
		if !ok || !backtrackCoverages[i].Contains(alb.Glyphs[prev]) {
			return false
		}
		cur = prev
	}
	cur = pos
	for i := 0; i < lookaheadCount; i++ {
		next, ok := loc.MoveNext(cur + 1)
		if !ok || !lookaheadCoverages[i].Contains(alb.Glyphs[next]) {
			return false
		}
		cur = next
	}
	out := ot.GlyphIndex(sub.U16At(substOff + inx*2))
	alb.Insert(pos, pos+1, []ot.GlyphIndex{out}, []album.Traits{alb.Traits[pos]}, [][]int{alb.Associations[pos]})
	return true
}
