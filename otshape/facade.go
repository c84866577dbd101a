package otshape

import (
	"github.com/glyphforge/otshape/album"
	"github.com/glyphforge/otshape/ot"
)

// Orientation selects which advance a Font reports for a glyph.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Font is the font facade this package consumes: raw table byte views and
// per-glyph metrics. Font I/O and table parsing beyond table offsets are
// out of scope here; a real implementation wraps something like
// golang.org/x/image/font/sfnt.
type Font interface {
	// GDEF, GSUB, GPOS return the raw bytes of the named table, or an
	// empty view if the font carries none.
	GDEF() ot.TableView
	GSUB() ot.TableView
	GPOS() ot.TableView

	// GlyphForRune maps a code point to a glyph index, or 0 (.notdef) if
	// the font has no mapping for it.
	GlyphForRune(r rune) ot.GlyphIndex

	// AdvanceForGlyph returns the font's default advance for g along the
	// given orientation, in font design units.
	AdvanceForGlyph(orient Orientation, g ot.GlyphIndex) int32
}

// RuneSource is the code-point source this package consumes: a
// synchronous cursor over the text being shaped. NextRune returns
// (0, false) once exhausted.
type RuneSource interface {
	NextRune() (r rune, ok bool)
}

// IsZeroWidth optionally reports whether the most recently returned rune
// is a zero-width code point (e.g. a joiner). A RuneSource that doesn't
// implement it is treated as never reporting zero-width runes; the exact
// set of zero-width code points is the source's business, not the core's
// (spec open question, documented in DESIGN.md).
type ZeroWidthReporter interface {
	IsZeroWidth() bool
}

// NOTDEF is the glyph index OpenType reserves for ".notdef".
const NOTDEF = ot.GlyphIndex(0)

// Result is the read-only, caller-facing view of a completed shaping run
// (spec.md §6's "Album consumed upstream as an opaque output"): callers
// outside this module see accessors, never the mutable Album itself.
type Result struct {
	album *album.Album
}

// GlyphCount reports how many glyph entries the shaped run produced.
func (r *Result) GlyphCount() int {
	return r.album.GlyphCount()
}

// Glyph returns the glyph index at album position i.
func (r *Result) Glyph(i int) ot.GlyphIndex {
	return r.album.Glyphs[i]
}

// Traits returns the classification bitset at album position i.
func (r *Result) Traits(i int) album.Traits {
	return r.album.Traits[i]
}

// Association returns the source rune-cluster indices entry i maps back to.
func (r *Result) Association(i int) []int {
	return r.album.Associations[i]
}

// Position returns the resolved (x, y) pen position of entry i, in font
// design units. Valid only once GPOS has run; zero-valued otherwise.
func (r *Result) Position(i int) (x, y int32) {
	if i >= len(r.album.Position) {
		return 0, 0
	}
	p := r.album.Position[i]
	return p.X, p.Y
}

// Advance returns the horizontal and vertical advance of entry i.
func (r *Result) Advance(i int) (x, y int32) {
	a := r.album.Advance[i]
	return a.X, a.Y
}
