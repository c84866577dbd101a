package otshape

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/glyphforge/otshape/album"
	"github.com/glyphforge/otshape/ot"
	"github.com/glyphforge/otshape/otlayout"
)

func tracer() tracing.Trace {
	return tracing.Select("otshape.shape")
}

// TextMode selects discovery direction. Only Forward is implemented; see
// DESIGN.md's Open Question decision on Backward.
type TextMode uint8

const (
	Forward TextMode = iota
	Backward
)

// ShapeOptions configures one Shape call.
type ShapeOptions struct {
	Mode           TextMode
	RightToLeft    bool // cursive-attachment direction hint (spec.md §4.D, §9)
	ZeroWidthMarks bool // zero the advance of every Mark-trait glyph after positioning
	SkipGPOS       bool // skip positioning entirely, even if the font carries a GPOS table (otconf.Config.ApplyGPOS)
}

// Shape drives the full pipeline: discover glyphs from src, substitute
// (GSUB), position (GPOS), resolve attachments, and wrap up. It never
// returns a font-format error — malformed tables degrade a phase to a
// no-op, per spec.md §7 — but it does reject Backward text mode, since
// this spec leaves that behaviour an open, undecided question (see
// DESIGN.md) rather than guess at one.
func Shape(font Font, src RuneSource, pattern Pattern, opts ShapeOptions) (*album.Album, error) {
	if opts.Mode == Backward {
		return nil, errShaper("backward text mode is not implemented")
	}

	gdef := ot.ParseGDEF(font.GDEF())

	alb := album.New(0)
	discover(alb, font, gdef, src)

	if gsub := font.GSUB(); !gsub.Empty() {
		lookups := lookupListOf(gsub)
		applyFeatureRange(lookups, pattern.SubstitutionUnits(), alb, gdef, false)
	}

	if gpos := font.GPOS(); !opts.SkipGPOS && !gpos.Empty() {
		alb.BeginArranging()
		for i, g := range alb.Glyphs {
			// Placeholders render nothing and never receive an advance
			// from font metrics (spec.md §8 "Placeholder advance";
			// original_source/Source/SFTextProcessor.c:147).
			if alb.Traits[i]&album.Placeholder != 0 {
				continue
			}
			alb.Advance[i].X = font.AdvanceForGlyph(Horizontal, g)
		}
		lookups := lookupListOf(gpos)
		applyFeatureRange(lookups, pattern.PositioningUnits(), alb, gdef, true)

		applyZeroWidth(alb, font)
		if opts.ZeroWidthMarks {
			zeroMarkAdvances(alb)
		}
		resolveAttachments(alb, opts.RightToLeft)
		alb.EndArranging()
	}

	alb.WrapUp()
	return alb, nil
}

// discover maps every code point from src to a glyph, in order, via
// font.GlyphForRune, appending one album entry per code point
// (spec.md §4.G step 1; the discovery-length-invariant property in §8).
// Each glyph's initial trait comes from the GDEF glyph classification,
// since that is the only source of Mark/Ligature/Component at this
// stage — substitution may later overwrite it (e.g. a ligature lookup
// always stamps album.Ligature on its output regardless of GDEF).
func discover(alb *album.Album, font Font, gdef ot.GDEF, src RuneSource) {
	alb.BeginFilling()
	cursor := 0
	zr, _ := src.(ZeroWidthReporter)
	for {
		r, ok := src.NextRune()
		if !ok {
			break
		}
		g := font.GlyphForRune(r)
		traits := traitsForGlyphClass(gdef.GlyphClass(g))
		if zr != nil && zr.IsZeroWidth() {
			traits |= album.ZeroWidth
		}
		alb.AddGlyph(g, traits, []int{cursor})
		cursor++
	}
	alb.EndFilling()
}

// traitsForGlyphClass maps a GDEF glyph classification to its album
// trait, defaulting unclassified glyphs to Base.
func traitsForGlyphClass(class ot.GlyphClass) album.Traits {
	switch class {
	case ot.ClassLigatureGlyph:
		return album.Ligature
	case ot.ClassMarkGlyph:
		return album.Mark
	case ot.ClassComponentGlyph:
		return album.Component
	default:
		return album.Base
	}
}

// applyFeatureRange applies every lookup of every feature unit in units,
// in order, restricting each unit to the album positions its FeatureRange
// covers (spec.md §4.F apply_feature_range, extended per SPEC_FULL.md's
// Supplemented Features with per-feature codepoint ranges).
func applyFeatureRange(lookups ot.LookupList, units []FeatureUnit, alb *album.Album, gdef ot.GDEF, isGPos bool) {
	for _, unit := range units {
		if !unit.Range.On {
			continue
		}
		inRange := unit.Range.Contains
		for _, lookupIndex := range unit.LookupIndexes {
			if lookupIndex < 0 || lookupIndex >= lookups.Count() {
				tracer().Debugf("feature %s: lookup index %d out of range", unit.Tag, lookupIndex)
				continue
			}
			otlayout.ApplyLookupFiltered(lookups, lookupIndex, alb, gdef, isGPos, inRange)
		}
	}
}

// lookupListOf resolves the LookupList of a GSUB or GPOS table from its
// header (version u16.u16, scriptListOffset, featureListOffset,
// lookupListOffset, all u16).
func lookupListOf(table ot.TableView) ot.LookupList {
	off := table.U16At(8)
	if off == 0 {
		return ot.LookupList{}
	}
	return ot.ParseLookupList(table.SubviewFrom(int(off)))
}

// applyZeroWidth replaces every ZeroWidth-trait glyph with the font's
// space glyph and zeroes its offset/position/advance, per spec.md §4.G
// step 3.
func applyZeroWidth(alb *album.Album, font Font) {
	space := font.GlyphForRune(' ')
	for i, t := range alb.Traits {
		if t&album.ZeroWidth == 0 {
			continue
		}
		alb.Glyphs[i] = space
		alb.Offset[i] = album.Vec2{}
		alb.Position[i] = album.Vec2{}
		alb.Advance[i] = album.Vec2{}
	}
}

// zeroMarkAdvances zeroes the advance of every Mark-trait glyph, leaving
// other advances untouched (spec.md §8, "Zero-width marks" property).
func zeroMarkAdvances(alb *album.Album) {
	for i, t := range alb.Traits {
		if t&album.Mark != 0 {
			alb.Advance[i] = album.Vec2{}
		}
	}
}
