package ot

import "sort"

// NotCovered is the sentinel Coverage index for a glyph that is not
// present in a Coverage table.
const NotCovered = -1

// Coverage is an OpenType Coverage table (format 1 or 2): a binary-search
// map from glyph ID to a zero-based coverage index. Coverage tables are
// used throughout GSUB/GPOS to list the glyphs a subtable applies to.
//
// Coverage is a thin view over the table's raw bytes; it never copies the
// glyph/range arrays out.
type Coverage struct {
	view   TableView
	format uint16
	count  uint16
}

// ParseCoverage reads a Coverage table from the start of view. A
// malformed or absent table yields a zero Coverage (format 0), whose
// Match always reports not-covered.
func ParseCoverage(view TableView) Coverage {
	if view.Len() < 4 {
		return Coverage{}
	}
	format := view.U16At(0)
	count := view.U16At(2)
	if format != 1 && format != 2 {
		errFormatShared("unsupported Coverage format")
		return Coverage{}
	}
	return Coverage{view: view, format: format, count: count}
}

// Match returns the Coverage index of glyph g, and true if it is listed.
func (c Coverage) Match(g GlyphIndex) (int, bool) {
	if c.format == 0 || c.count == 0 {
		return NotCovered, false
	}
	switch c.format {
	case 1:
		return c.matchFormat1(g)
	case 2:
		return c.matchFormat2(g)
	}
	return NotCovered, false
}

// Contains reports whether glyph g is listed in the coverage.
func (c Coverage) Contains(g GlyphIndex) bool {
	_, ok := c.Match(g)
	return ok
}

// format 1: sorted array of glyph IDs, starting at byte 4.
func (c Coverage) matchFormat1(g GlyphIndex) (int, bool) {
	n := int(c.count)
	i := sort.Search(n, func(i int) bool {
		return GlyphIndex(c.view.U16At(4+i*2)) >= g
	})
	if i < n && GlyphIndex(c.view.U16At(4+i*2)) == g {
		return i, true
	}
	return NotCovered, false
}

// format 2: sorted array of (start, end, startCoverageIndex) RangeRecords,
// 6 bytes each, starting at byte 4.
func (c Coverage) matchFormat2(g GlyphIndex) (int, bool) {
	n := int(c.count)
	i := sort.Search(n, func(i int) bool {
		return GlyphIndex(c.view.U16At(4+i*6+1*2)) >= g // end of range i
	})
	if i >= n {
		return NotCovered, false
	}
	start := GlyphIndex(c.view.U16At(4 + i*6))
	end := GlyphIndex(c.view.U16At(4 + i*6 + 2))
	if g < start || g > end {
		return NotCovered, false
	}
	startIndex := c.view.U16At(4 + i*6 + 4)
	return int(startIndex) + int(g-start), true
}
