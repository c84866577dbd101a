package otlayout

import (
	"github.com/glyphforge/otshape/album"
	"github.com/glyphforge/otshape/ot"
)

// Locator is a filtered cursor over an Album: it walks glyph positions
// while honoring a lookup's flag bits (IGNORE_BASE_GLYPHS,
// IGNORE_LIGATURES, IGNORE_MARKS, USE_MARK_FILTERING_SET, and the
// MARK_ATTACHMENT_TYPE mask), so that lookup-type handlers can match
// coverage sequences without re-deriving the skip logic themselves.
//
// A Locator is reset per-lookup (its flag and mark filtering set follow
// the lookup being applied) but reused across the subtables of that
// lookup.
type Locator struct {
	alb  *album.Album
	gdef ot.GDEF
	flag ot.LookupFlag
	mfs  uint16
}

// NewLocator creates a Locator bound to alb and gdef. Call SetLookupFlag
// before using it to match anything, so its skip rules reflect the
// lookup currently being applied.
func NewLocator(alb *album.Album, gdef ot.GDEF) *Locator {
	return &Locator{alb: alb, gdef: gdef}
}

// Reset rebinds the locator to a (possibly different) album, keeping the
// current flag/mark-filtering-set configuration.
func (loc *Locator) Reset(alb *album.Album) {
	loc.alb = alb
}

// SetLookupFlag configures which glyph classes this locator skips.
func (loc *Locator) SetLookupFlag(flag ot.LookupFlag) {
	loc.flag = flag
}

// SetMarkFilteringSet configures the mark filtering set index consulted
// when the USE_MARK_FILTERING_SET bit is set. Ignored otherwise.
func (loc *Locator) SetMarkFilteringSet(set uint16) {
	loc.mfs = set
}

// Len returns the glyph count of the bound album.
func (loc *Locator) Len() int {
	if loc.alb == nil {
		return 0
	}
	return loc.alb.GlyphCount()
}

// Skip reports whether the glyph at album index i should be skipped
// over per the locator's current lookup flag.
func (loc *Locator) Skip(i int) bool {
	if i < 0 || i >= loc.Len() {
		return false
	}
	g := loc.alb.Glyphs[i]
	class := loc.gdef.GlyphClass(g)
	switch {
	case loc.flag&ot.LookupFlagIgnoreBaseGlyphs != 0 && class == ot.ClassBaseGlyph:
		return true
	case loc.flag&ot.LookupFlagIgnoreLigatures != 0 && class == ot.ClassLigatureGlyph:
		return true
	case loc.flag&ot.LookupFlagIgnoreMarks != 0 && class == ot.ClassMarkGlyph:
		return true
	}
	if class == ot.ClassMarkGlyph {
		if loc.flag&ot.LookupFlagUseMarkFilteringSet != 0 {
			if !loc.gdef.MarkFilteringSetContains(loc.mfs, g) {
				return true
			}
		}
		if matype := loc.flag.MarkAttachType(); matype != 0 {
			if loc.gdef.MarkAttachClass(g) != matype {
				return true
			}
		}
	}
	return false
}

// MoveNext returns the next non-skipped album index at or after from, or
// (0, false) if none remains.
func (loc *Locator) MoveNext(from int) (int, bool) {
	for i := from; i < loc.Len(); i++ {
		if !loc.Skip(i) {
			return i, true
		}
	}
	return 0, false
}

// MovePrevious returns the previous non-skipped album index at or before
// from, or (0, false) if none remains. Used by the reverse-chained
// contextual lookup type, which traverses right-to-left.
func (loc *Locator) MovePrevious(from int) (int, bool) {
	for i := from; i >= 0; i-- {
		if !loc.Skip(i) {
			return i, true
		}
	}
	return 0, false
}

// PeekNext reports the glyph ID at the next non-skipped position at or
// after from, without consuming it.
func (loc *Locator) PeekNext(from int) (ot.GlyphIndex, int, bool) {
	i, ok := loc.MoveNext(from)
	if !ok {
		return 0, 0, false
	}
	return loc.alb.Glyphs[i], i, true
}

// JumpTo reports whether album index i is a valid, unskipped position.
func (loc *Locator) JumpTo(i int) bool {
	if i < 0 || i >= loc.Len() {
		return false
	}
	return !loc.Skip(i)
}
