package otshape

import "github.com/glyphforge/otshape/album"

// resolveAttachments walks the album left-to-right, folding each entry's
// Offset and Advance into a final Position, and composing cursive/mark
// attachment chains along the way (spec.md §4.H). It is a single pass:
// every back-link an entry carries points to an earlier, already-resolved
// entry (the discovery/positioning invariant spec.md §3 states), so no
// entry is ever revisited. Re-running it on an already-resolved album
// recomputes Position from the same unchanged Offset/Advance/Anchors
// inputs and yields the same output — the idempotence property spec.md
// §8 requires.
func resolveAttachments(alb *album.Album, rightToLeft bool) {
	var pen int32
	for i := range alb.Glyphs {
		anchor := alb.Anchors[i]
		switch anchor.Kind {
		case album.AttachMarkToBase, album.AttachMarkToLigature, album.AttachMarkToMark:
			resolveMarkAttachment(alb, i, anchor)
		case album.AttachCursive:
			resolveCursiveAttachment(alb, i, anchor, pen, rightToLeft)
			pen += alb.Advance[i].X
		default:
			alb.Position[i].X = pen + alb.Offset[i].X
			alb.Position[i].Y = alb.Offset[i].Y
			pen += alb.Advance[i].X
		}
		alb.Traits[i] |= album.Resolved
	}
}

// resolveMarkAttachment places a mark at its base's resolved position
// plus the anchor delta GPOS already computed into Offset, and zeroes the
// mark's own advance — a mark never contributes to the pen (spec.md §4.H).
func resolveMarkAttachment(alb *album.Album, i int, anchor album.AnchorRef) {
	if anchor.AttachTo < 0 || int(anchor.AttachTo) >= len(alb.Position) {
		alb.Position[i] = alb.Offset[i]
		return
	}
	base := alb.Position[anchor.AttachTo]
	alb.Position[i].X = base.X + alb.Offset[i].X
	alb.Position[i].Y = base.Y + alb.Offset[i].Y
	alb.Advance[i] = album.Vec2{}
	alb.Traits[i] |= album.AttachedToPrevious
}

// resolveCursiveAttachment aligns the current glyph's entry anchor to the
// previous glyph's exit anchor: its y tracks the exit-to-entry delta
// relative to the previous glyph's already-resolved y, while its x
// advances normally along the pen (spec.md §4.H, §4.D RIGHT_TO_LEFT hint).
// In a right-to-left run the roles of entry and exit swap, since the
// logical "previous" glyph sits visually to the right.
func resolveCursiveAttachment(alb *album.Album, i int, anchor album.AnchorRef, pen int32, rightToLeft bool) {
	if anchor.AttachTo < 0 || int(anchor.AttachTo) >= len(alb.Position) {
		alb.Position[i].X = pen + alb.Offset[i].X
		alb.Position[i].Y = alb.Offset[i].Y
		return
	}
	base := alb.Position[anchor.AttachTo]
	entryY, exitY := anchor.CursiveEntryY, anchor.CursiveExitY
	if rightToLeft {
		entryY, exitY = exitY, entryY
	}
	alb.Position[i].X = pen + alb.Offset[i].X
	alb.Position[i].Y = base.Y + (exitY - entryY)
	alb.Traits[i] |= album.AttachedToPrevious
}
