package otlayout

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/glyphforge/otshape/album"
	"github.com/glyphforge/otshape/ot"
)

func tracer() tracing.Trace {
	return tracing.Select("otshape.layout")
}

const (
	gsubExtension    ot.LookupType = 7
	gsubReverseChain ot.LookupType = 8
	gposExtension    ot.LookupType = 9
)

type albumAdapter struct{ alb *album.Album }

func (a albumAdapter) glyphAt(i int) ot.GlyphIndex { return a.alb.Glyphs[i] }

// ApplyLookup runs a single GSUB or GPOS lookup over the whole album,
// honoring its flag and (for type 8) its right-to-left traversal order.
// lookups is the enclosing LookupList, needed so contextual lookups can
// invoke nested lookups by index.
func ApplyLookup(lookups ot.LookupList, lookupIndex int, alb *album.Album, gdef ot.GDEF, isGPos bool) {
	ApplyLookupFiltered(lookups, lookupIndex, alb, gdef, isGPos, nil)
}

// ApplyLookupFiltered is ApplyLookup restricted to album positions for
// which inRange returns true (nil means "everywhere"). This backs
// per-feature codepoint ranges (SPEC_FULL.md's Supplemented Features,
// FeatureRange), which spec.md itself does not describe.
func ApplyLookupFiltered(lookups ot.LookupList, lookupIndex int, alb *album.Album, gdef ot.GDEF, isGPos bool, inRange func(int) bool) {
	lookup := lookups.Lookup(lookupIndex)
	loc := NewLocator(alb, gdef)
	loc.SetLookupFlag(lookup.Flag())
	if lookup.Flag()&ot.LookupFlagUseMarkFilteringSet != 0 {
		loc.SetMarkFilteringSet(lookup.MarkFilteringSet())
	}

	lookupType := lookup.Type()
	if isGPos && lookupType == gposExtension || !isGPos && lookupType == gsubExtension {
		// Extension wraps a single subtable; every subtable of an
		// extension lookup shares the same real lookup type, so peek
		// at the first one to dispatch for the whole lookup.
		if lookup.SubtableCount() > 0 {
			_, real := unwrapExtension(lookup.Subtable(0))
			lookupType = real
		}
	}

	if !isGPos && lookupType == gsubReverseChain {
		applyReverseChainLookup(loc, alb, lookup)
		return
	}

	pos := 0
	for pos < alb.GlyphCount() {
		next, ok := loc.MoveNext(pos)
		if !ok {
			break
		}
		if inRange != nil && !inRange(next) {
			pos = next + 1
			continue
		}
		advanced := applyLookupAt(lookups, lookup, loc, alb, gdef, isGPos, next)
		if advanced > next {
			pos = advanced
		} else {
			pos = next + 1
		}
	}
}

// applyLookupAt tries every subtable of lookup at album position pos,
// in order, stopping at the first that matches (OpenType's "first
// matching subtable wins" rule). It returns the album index to resume
// scanning from.
func applyLookupAt(lookups ot.LookupList, lookup ot.Lookup, loc *Locator, alb *album.Album, gdef ot.GDEF, isGPos bool, pos int) int {
	for i := 0; i < lookup.SubtableCount(); i++ {
		sub := lookup.Subtable(i)
		lookupType := lookup.Type()
		if isGPos && lookupType == gposExtension || !isGPos && lookupType == gsubExtension {
			var real ot.LookupType
			sub, real = unwrapExtension(sub)
			lookupType = real
		}
		if advanced, ok := applySubtable(lookups, lookupType, sub, loc, alb, gdef, isGPos, pos); ok {
			return advanced
		}
	}
	return pos
}

// unwrapExtension reads an Extension subtable (format 1: posFormat u16,
// extensionLookupType u16, extensionOffset u32) and returns the wrapped
// subtable's bytes and its real lookup type.
func unwrapExtension(sub ot.TableView) (ot.TableView, ot.LookupType) {
	realType := ot.LookupType(sub.U16At(2))
	off := sub.U32At(4)
	return sub.SubviewFrom(int(off)), realType
}

// applySubtable dispatches one subtable by (isGPos, lookupType). It
// returns the album index to resume from and whether it matched.
func applySubtable(lookups ot.LookupList, lookupType ot.LookupType, sub ot.TableView, loc *Locator, alb *album.Album, gdef ot.GDEF, isGPos bool, pos int) (int, bool) {
	if !isGPos {
		switch lookupType {
		case 1:
			return gsubApplySingle(loc, alb, sub, pos)
		case 2:
			return gsubApplyMultiple(loc, alb, sub, pos)
		case 3:
			return gsubApplyAlternate(loc, alb, sub, pos, 0)
		case 4:
			return gsubApplyLigature(loc, alb, sub, pos)
		case 5:
			match, ok := MatchSequenceContext(loc, albumAdapter{alb}, sub, pos)
			return applyContextual(lookups, alb, gdef, isGPos, match, ok)
		case 6:
			match, ok := MatchChainedSequenceContext(loc, albumAdapter{alb}, sub, pos)
			return applyContextual(lookups, alb, gdef, isGPos, match, ok)
		}
		return pos, false
	}
	switch lookupType {
	case 1:
		if gposApplySingle(alb, sub, pos) {
			return pos + 1, true
		}
		return pos, false
	case 2:
		return gposApplyPair(loc, alb, sub, pos)
	case 3:
		if gposApplyCursive(loc, alb, sub, pos) {
			return pos + 1, true
		}
		return pos, false
	case 4:
		if gposApplyMarkToBase(loc, alb, sub, pos) {
			return pos + 1, true
		}
		return pos, false
	case 5:
		if gposApplyMarkToLigature(loc, alb, sub, pos) {
			return pos + 1, true
		}
		return pos, false
	case 6:
		if gposApplyMarkToMark(loc, alb, sub, pos) {
			return pos + 1, true
		}
		return pos, false
	case 7:
		match, ok := MatchSequenceContext(loc, albumAdapter{alb}, sub, pos)
		return applyContextual(lookups, alb, gdef, isGPos, match, ok)
	case 8:
		match, ok := MatchChainedSequenceContext(loc, albumAdapter{alb}, sub, pos)
		return applyContextual(lookups, alb, gdef, isGPos, match, ok)
	}
	return pos, false
}

// applyContextual takes a (ContextMatch, ok) pair as returned by
// MatchSequenceContext/MatchChainedSequenceContext, applies every
// nested lookup the match specifies at its target position, and
// reports where scanning should resume.
func applyContextual(lookups ot.LookupList, alb *album.Album, gdef ot.GDEF, isGPos bool, match ContextMatch, ok bool) (int, bool) {
	if !ok {
		return 0, false
	}
	base := match.Positions[0]
	for _, rec := range match.Records {
		if rec.SequenceIndex < 0 || rec.SequenceIndex >= len(match.Positions) {
			continue
		}
		target := match.Positions[rec.SequenceIndex]
		applyNestedLookup(lookups, rec.LookupIndex, alb, gdef, isGPos, target)
	}
	last := match.Positions[len(match.Positions)-1]
	if last+1 > base {
		return last + 1, true
	}
	return base + 1, true
}

// applyNestedLookup applies a single lookup at exactly one album
// position, used for SequenceLookupRecords invoked from within a
// contextual match. Unlike ApplyLookup, it does not scan the whole
// album — contextual lookups target specific positions their own match
// already identified.
func applyNestedLookup(lookups ot.LookupList, lookupIndex int, alb *album.Album, gdef ot.GDEF, isGPos bool, pos int) {
	lookup := lookups.Lookup(lookupIndex)
	loc := NewLocator(alb, gdef)
	loc.SetLookupFlag(lookup.Flag())
	if lookup.Flag()&ot.LookupFlagUseMarkFilteringSet != 0 {
		loc.SetMarkFilteringSet(lookup.MarkFilteringSet())
	}
	applyLookupAt(lookups, lookup, loc, alb, gdef, isGPos, pos)
}

// applyReverseChainLookup implements GSUB lookup type 8, the one
// lookup type OpenType specifies as traversing its input right-to-left.
func applyReverseChainLookup(loc *Locator, alb *album.Album, lookup ot.Lookup) {
	for pos := alb.GlyphCount() - 1; pos >= 0; pos-- {
		if loc.Skip(pos) {
			continue
		}
		for i := 0; i < lookup.SubtableCount(); i++ {
			if gsubApplyReverseChain(loc, alb, lookup.Subtable(i), pos) {
				break
			}
		}
	}
}
