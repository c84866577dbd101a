/*
Package album holds the mutable, struct-of-arrays workspace a shaping
run operates on: one entry per glyph, carrying its glyph index, a
classification bitset, the rune cluster it associates back to, and the
offset/position/advance a GPOS lookup accumulates for it.

An Album only ever grows or holds steady; it is never physically
shrunk. GSUB may replace one glyph with several (Insert, Reserve), and a
ligature collapses several input glyphs into one visible glyph by
absorbing the others as Placeholder-trait entries rather than deleting
them, so every association and back-link stays index-stable. The
positioning side arrays are allocated by BeginArranging and kept
aligned to the glyph count by Reserve.
*/
package album

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/glyphforge/otshape/ot"
)

func tracer() tracing.Trace {
	return tracing.Select("otshape.album")
}

// Traits is a per-glyph classification bitset, combining GDEF glyph
// class information with shaping-time bookkeeping flags.
type Traits uint16

const (
	None Traits = 0

	Base      Traits = 1 << 0
	Ligature  Traits = 1 << 1
	Mark      Traits = 1 << 2
	Component Traits = 1 << 3

	Placeholder        Traits = 1 << 4 // produced by a lookup with no visible output of its own (e.g. a component absorbed into a ligature)
	ZeroWidth          Traits = 1 << 5
	RightToLeft        Traits = 1 << 6 // this glyph was placed by a lookup with the RIGHT_TO_LEFT flag
	AttachedToPrevious Traits = 1 << 7 // mark/cursive attachment resolved relative to an earlier glyph
	Resolved           Traits = 1 << 8 // attachment resolver has folded this glyph's anchor into Position
)

// AttachKind records how a glyph's Position was (or will be) derived
// from another glyph's anchor, mirroring the GPOS attachment lookup
// types that can produce it.
type AttachKind uint8

const (
	AttachNone AttachKind = iota
	AttachMarkToBase
	AttachMarkToLigature
	AttachMarkToMark
	AttachCursive
)

// AnchorRef carries an attachment whose chain position is still
// unresolved: which glyph to attach to, by what kind, and (for cursive
// attachment) the already-decoded entry/exit anchor coordinates. The
// anchor coordinates themselves are resolved eagerly, at GPOS-apply time,
// because the subtable bytes they come from don't outlive that call; only
// composing them along a chain of cursively-linked glyphs waits for the
// attachment resolver (package otshape), which runs once per shaping call
// after every GPOS lookup has applied.
type AnchorRef struct {
	AttachTo     int32 // album index of the glyph attached to; -1 if none
	Kind         AttachKind
	MarkClass    uint16
	LigatureComp uint16 // which ligature component to attach to (AttachMarkToLigature)
	CursiveEntryX, CursiveEntryY int32
	CursiveExitX, CursiveExitY   int32
}

// Vec2 is a font-unit 2D quantity: an offset, a position, or an advance.
type Vec2 struct {
	X, Y int32
}

// Album is the struct-of-arrays glyph workspace for a single shaping
// run. Glyphs, Traits and Associations always share one length; Anchors,
// Offset, Position and Advance are nil until BeginArranging allocates
// them at the same length.
type Album struct {
	Glyphs       []ot.GlyphIndex
	Traits       []Traits
	Associations [][]int // which input rune cluster(s) each glyph maps back to
	Anchors      []AnchorRef
	Offset       []Vec2 // GPOS value-record offsets, relative
	Position     []Vec2 // resolved absolute pen position, filled in by the attachment resolver
	Advance      []Vec2

	filling    bool
	arranging  bool
}

// New creates an empty album with room for capacity glyphs.
func New(capacity int) *Album {
	if capacity < 0 {
		capacity = 0
	}
	return &Album{
		Glyphs: make([]ot.GlyphIndex, 0, capacity),
		Traits: make([]Traits, 0, capacity),
	}
}

// GlyphCount returns the number of glyphs currently in the album.
func (a *Album) GlyphCount() int {
	return len(a.Glyphs)
}

// BeginFilling prepares the album to receive glyphs from a GSUB/Discover
// pass, discarding any previous content but retaining capacity.
func (a *Album) BeginFilling() {
	a.Glyphs = a.Glyphs[:0]
	a.Traits = a.Traits[:0]
	a.Associations = a.Associations[:0]
	a.Anchors = nil
	a.Offset = nil
	a.Position = nil
	a.Advance = nil
	a.filling = true
	a.arranging = false
}

// AddGlyph appends a single glyph with its traits and rune-cluster
// association. It may only be called between BeginFilling and
// EndFilling.
func (a *Album) AddGlyph(g ot.GlyphIndex, traits Traits, association []int) {
	if !a.filling {
		tracer().Errorf("AddGlyph called outside BeginFilling/EndFilling")
	}
	a.Glyphs = append(a.Glyphs, g)
	a.Traits = append(a.Traits, traits)
	a.Associations = append(a.Associations, association)
}

// EndFilling closes the filling phase. The positioning side arrays
// (Anchors, Offset, Position, Advance) are not allocated here;
// BeginArranging does that once positioning begins.
func (a *Album) EndFilling() {
	a.filling = false
}

// BeginArranging allocates the positioning side arrays (Anchors, Offset,
// Position, Advance), sized to the current glyph count, ready for GPOS
// lookups to populate. Must be called after EndFilling.
func (a *Album) BeginArranging() {
	n := len(a.Glyphs)
	a.Anchors = make([]AnchorRef, n)
	for i := range a.Anchors {
		a.Anchors[i].AttachTo = -1
	}
	a.Offset = make([]Vec2, n)
	a.Position = make([]Vec2, n)
	a.Advance = make([]Vec2, n)
	a.arranging = true
}

// EndArranging closes the arranging phase.
func (a *Album) EndArranging() {
	a.arranging = false
}

// Reserve inserts count default entries at index, shifting entries at and
// after index to the right, so a subtable can expand the sequence in
// place (multiple substitution, decomposition) rather than only ever
// appending at the tail. The inserted entries carry glyph 0, no traits,
// and a nil association, ready for the caller to fill in by index.
func (a *Album) Reserve(index, count int) {
	if count <= 0 {
		return
	}
	if index < 0 || index > len(a.Glyphs) {
		tracer().Errorf("Reserve: index %d out of range for album of length %d", index, len(a.Glyphs))
		return
	}
	a.Glyphs = spliceGlyphs(a.Glyphs, index, index, make([]ot.GlyphIndex, count))
	a.Traits = spliceTraits(a.Traits, index, index, make([]Traits, count))
	a.Associations = spliceAssociations(a.Associations, index, index, make([][]int, count))
	if a.arranging {
		anchors := make([]AnchorRef, count)
		for i := range anchors {
			anchors[i].AttachTo = -1
		}
		a.Anchors = spliceAnchors(a.Anchors, index, index, anchors)
		a.Offset = spliceVec2s(a.Offset, index, index, make([]Vec2, count))
		a.Position = spliceVec2s(a.Position, index, index, make([]Vec2, count))
		a.Advance = spliceVec2s(a.Advance, index, index, make([]Vec2, count))
	}
}

// Insert replaces the glyph range [from:to) with the glyphs in
// replacement, along with matching traits and associations; the single,
// alternate and reverse-chaining substitutions build on it, while
// multiple substitution uses Reserve and ligature substitution rewrites
// entries in place. Position-side arrays, if allocated, must not
// exist yet when Insert is used — substitution always precedes
// positioning in the pipeline.
func (a *Album) Insert(from, to int, replacement []ot.GlyphIndex, traits []Traits, associations [][]int) {
	if from < 0 || to < from || to > len(a.Glyphs) {
		tracer().Errorf("Insert: invalid range [%d:%d) for album of length %d", from, to, len(a.Glyphs))
		return
	}
	if len(replacement) != len(traits) || len(replacement) != len(associations) {
		tracer().Errorf("Insert: mismatched replacement/traits/associations lengths")
		return
	}
	a.Glyphs = spliceGlyphs(a.Glyphs, from, to, replacement)
	a.Traits = spliceTraits(a.Traits, from, to, traits)
	a.Associations = spliceAssociations(a.Associations, from, to, associations)
}

func spliceGlyphs(s []ot.GlyphIndex, from, to int, repl []ot.GlyphIndex) []ot.GlyphIndex {
	out := make([]ot.GlyphIndex, 0, len(s)-(to-from)+len(repl))
	out = append(out, s[:from]...)
	out = append(out, repl...)
	out = append(out, s[to:]...)
	return out
}

func spliceTraits(s []Traits, from, to int, repl []Traits) []Traits {
	out := make([]Traits, 0, len(s)-(to-from)+len(repl))
	out = append(out, s[:from]...)
	out = append(out, repl...)
	out = append(out, s[to:]...)
	return out
}

func spliceAssociations(s [][]int, from, to int, repl [][]int) [][]int {
	out := make([][]int, 0, len(s)-(to-from)+len(repl))
	out = append(out, s[:from]...)
	out = append(out, repl...)
	out = append(out, s[to:]...)
	return out
}

func spliceAnchors(s []AnchorRef, from, to int, repl []AnchorRef) []AnchorRef {
	out := make([]AnchorRef, 0, len(s)-(to-from)+len(repl))
	out = append(out, s[:from]...)
	out = append(out, repl...)
	out = append(out, s[to:]...)
	return out
}

func spliceVec2s(s []Vec2, from, to int, repl []Vec2) []Vec2 {
	out := make([]Vec2, 0, len(s)-(to-from)+len(repl))
	out = append(out, s[:from]...)
	out = append(out, repl...)
	out = append(out, s[to:]...)
	return out
}

// WrapUp finalizes the album after positioning by closing the filling
// and arranging phases, nothing more: no glyph, trait or position is
// changed, and the RightToLeft trait is left as it is. Shaping never
// reorders glyphs itself; that is left to the caller's renderer.
func (a *Album) WrapUp() {
	a.arranging = false
	a.filling = false
}
