package otlayout

import (
	"github.com/glyphforge/otshape/album"
	"github.com/glyphforge/otshape/ot"
)

// GPOS lookup-type handlers, mirroring the dispatch shape of gsub.go:
// each handler reads one subtable's raw bytes and adjusts the bound
// album's Offset/Advance/Anchors arrays in place.

// ValueFormat is the GPOS ValueRecord field-presence bitset.
type ValueFormat uint16

const (
	ValueFormatXPlacement ValueFormat = 0x0001
	ValueFormatYPlacement ValueFormat = 0x0002
	ValueFormatXAdvance   ValueFormat = 0x0004
	ValueFormatYAdvance   ValueFormat = 0x0008
	// Device table offsets (0x0010, 0x0020, 0x0040, 0x0080) are not
	// consulted: hinting-time device adjustment is out of scope here.
)

// valueRecordSize returns the byte size of a ValueRecord for the given
// format (2 bytes per set bit among the four placement/advance fields;
// device-table fields are skipped since we never read them).
func valueRecordSize(format ValueFormat) int {
	n := 0
	for _, bit := range []ValueFormat{ValueFormatXPlacement, ValueFormatYPlacement, ValueFormatXAdvance, ValueFormatYAdvance} {
		if format&bit != 0 {
			n += 2
		}
	}
	return n
}

// readValueRecord reads a ValueRecord at offset within view and returns
// its placement (XPlacement/YPlacement) delta; readValueRecordAdvance
// reads the advance fields of the same record.
func readValueRecord(view ot.TableView, offset int, format ValueFormat) album.Vec2 {
	var offs, adv album.Vec2
	p := offset
	if format&ValueFormatXPlacement != 0 {
		offs.X = int32(view.I16At(p))
		p += 2
	}
	if format&ValueFormatYPlacement != 0 {
		offs.Y = int32(view.I16At(p))
		p += 2
	}
	if format&ValueFormatXAdvance != 0 {
		adv.X = int32(view.I16At(p))
		p += 2
	}
	if format&ValueFormatYAdvance != 0 {
		adv.Y = int32(view.I16At(p))
		p += 2
	}
	_ = offs
	return album.Vec2{X: offs.X, Y: offs.Y}
}

func readValueRecordAdvance(view ot.TableView, offset int, format ValueFormat) album.Vec2 {
	var adv album.Vec2
	p := offset
	if format&ValueFormatXPlacement != 0 {
		p += 2
	}
	if format&ValueFormatYPlacement != 0 {
		p += 2
	}
	if format&ValueFormatXAdvance != 0 {
		adv.X = int32(view.I16At(p))
		p += 2
	}
	if format&ValueFormatYAdvance != 0 {
		adv.Y = int32(view.I16At(p))
		p += 2
	}
	return adv
}

// gposApplySingle applies GPOS lookup type 1 (Single Adjustment).
func gposApplySingle(alb *album.Album, sub ot.TableView, pos int) bool {
	format := sub.U16At(0)
	covOff := sub.U16At(2)
	cov := ot.ParseCoverage(sub.SubviewFrom(int(covOff)))
	g := alb.Glyphs[pos]
	inx, ok := cov.Match(g)
	if !ok {
		return false
	}
	valFormat := ValueFormat(sub.U16At(4))
	switch format {
	case 1:
		off := readValueRecord(sub, 6, valFormat)
		adv := readValueRecordAdvance(sub, 6, valFormat)
		alb.Offset[pos].X += off.X
		alb.Offset[pos].Y += off.Y
		alb.Advance[pos].X += adv.X
		alb.Advance[pos].Y += adv.Y
	case 2:
		size := valueRecordSize(valFormat)
		recOff := 6 + inx*size
		off := readValueRecord(sub, recOff, valFormat)
		adv := readValueRecordAdvance(sub, recOff, valFormat)
		alb.Offset[pos].X += off.X
		alb.Offset[pos].Y += off.Y
		alb.Advance[pos].X += adv.X
		alb.Advance[pos].Y += adv.Y
	default:
		return false
	}
	return true
}

// gposApplyPair applies GPOS lookup type 2 (Pair Adjustment). It
// operates on the pair (pos, next-matchable) and reports the index of
// the second glyph; the driver resumes scanning at that index, so the
// second glyph can also start the next pair.
func gposApplyPair(loc *Locator, alb *album.Album, sub ot.TableView, pos int) (int, bool) {
	format := sub.U16At(0)
	covOff := sub.U16At(2)
	cov := ot.ParseCoverage(sub.SubviewFrom(int(covOff)))
	g1 := alb.Glyphs[pos]
	inx, ok := cov.Match(g1)
	if !ok {
		return pos, false
	}
	next, ok := loc.MoveNext(pos + 1)
	if !ok {
		return pos, false
	}
	g2 := alb.Glyphs[next]
	valFormat1 := ValueFormat(sub.U16At(4))
	valFormat2 := ValueFormat(sub.U16At(6))
	rec1Size := valueRecordSize(valFormat1)
	rec2Size := valueRecordSize(valFormat2)

	switch format {
	case 1:
		pairSetCount := int(sub.U16At(8))
		if inx < 0 || inx >= pairSetCount {
			return pos, false
		}
		pairSetOff := sub.U16At(10 + inx*2)
		pairSet := sub.SubviewFrom(int(pairSetOff))
		pairValueCount := int(pairSet.U16At(0))
		recordSize := 2 + rec1Size + rec2Size
		for i := 0; i < pairValueCount; i++ {
			base := 2 + i*recordSize
			secondGlyph := ot.GlyphIndex(pairSet.U16At(base))
			if secondGlyph != g2 {
				continue
			}
			off1 := readValueRecord(pairSet, base+2, valFormat1)
			adv1 := readValueRecordAdvance(pairSet, base+2, valFormat1)
			off2 := readValueRecord(pairSet, base+2+rec1Size, valFormat2)
			adv2 := readValueRecordAdvance(pairSet, base+2+rec1Size, valFormat2)
			applyVec(alb, pos, off1, adv1)
			applyVec(alb, next, off2, adv2)
			return next, true
		}
		return pos, false
	case 2:
		classDef1Off := sub.U16At(8)
		classDef2Off := sub.U16At(10)
		class1Count := int(sub.U16At(12))
		class2Count := int(sub.U16At(14))
		cd1 := ot.ParseClassDef(sub.SubviewFrom(int(classDef1Off)))
		cd2 := ot.ParseClassDef(sub.SubviewFrom(int(classDef2Off)))
		c1 := cd1.Lookup(g1)
		c2 := cd2.Lookup(g2)
		if c1 < 0 || c1 >= class1Count || c2 < 0 || c2 >= class2Count {
			return pos, false
		}
		recordSize := rec1Size + rec2Size
		base := 16 + (c1*class2Count+c2)*recordSize
		off1 := readValueRecord(sub, base, valFormat1)
		adv1 := readValueRecordAdvance(sub, base, valFormat1)
		off2 := readValueRecord(sub, base+rec1Size, valFormat2)
		adv2 := readValueRecordAdvance(sub, base+rec1Size, valFormat2)
		applyVec(alb, pos, off1, adv1)
		applyVec(alb, next, off2, adv2)
		return next, true
	}
	return pos, false
}

func applyVec(alb *album.Album, idx int, off, adv album.Vec2) {
	alb.Offset[idx].X += off.X
	alb.Offset[idx].Y += off.Y
	alb.Advance[idx].X += adv.X
	alb.Advance[idx].Y += adv.Y
}

// anchorAt reads an Anchor table (format 1/2/3; device/variation data in
// format 3 is ignored) at the given offset, returning its (x, y).
func anchorAt(view ot.TableView, offset int) (album.Vec2, bool) {
	if offset == 0 {
		return album.Vec2{}, false
	}
	anchor := view.SubviewFrom(offset)
	if anchor.Len() < 6 {
		return album.Vec2{}, false
	}
	x := anchor.I16At(2)
	y := anchor.I16At(4)
	return album.Vec2{X: int32(x), Y: int32(y)}, true
}

// gposApplyCursive applies GPOS lookup type 3 (Cursive Attachment). It
// records an unresolved AttachCursive anchor reference; actual
// coordinate resolution happens once per run, after all lookups have
// applied, in the attachment resolver.
func gposApplyCursive(loc *Locator, alb *album.Album, sub ot.TableView, pos int) bool {
	covOff := sub.U16At(2)
	cov := ot.ParseCoverage(sub.SubviewFrom(int(covOff)))
	g := alb.Glyphs[pos]
	inx, ok := cov.Match(g)
	if !ok {
		return false
	}
	count := int(sub.U16At(4))
	if inx < 0 || inx >= count {
		return false
	}
	entryOff := sub.U16At(6 + inx*4)
	if entryOff == 0 {
		return false
	}
	entry, ok := anchorAt(sub, int(entryOff))
	if !ok {
		return false
	}
	prev, ok := loc.MovePrevious(pos - 1)
	if !ok {
		return false
	}
	// The previous glyph must itself expose an exit anchor in this same
	// subtable's coverage to attach cursively; we re-test its coverage.
	prevInx, ok := cov.Match(alb.Glyphs[prev])
	if !ok {
		return false
	}
	prevExitOff := sub.U16At(6 + prevInx*4 + 2)
	if prevExitOff == 0 {
		return false
	}
	prevExit, ok := anchorAt(sub, int(prevExitOff))
	if !ok {
		return false
	}
	alb.Anchors[pos] = album.AnchorRef{
		AttachTo:      int32(prev),
		Kind:          album.AttachCursive,
		CursiveEntryX: entry.X,
		CursiveEntryY: entry.Y,
		CursiveExitX:  prevExit.X,
		CursiveExitY:  prevExit.Y,
	}
	return true
}

// gposApplyMarkToBase applies GPOS lookup type 4.
func gposApplyMarkToBase(loc *Locator, alb *album.Album, sub ot.TableView, pos int) bool {
	markCovOff := sub.U16At(2)
	baseCovOff := sub.U16At(4)
	markClassCount := int(sub.U16At(6))
	markArrayOff := sub.U16At(8)
	baseArrayOff := sub.U16At(10)

	markCov := ot.ParseCoverage(sub.SubviewFrom(int(markCovOff)))
	markInx, ok := markCov.Match(alb.Glyphs[pos])
	if !ok {
		return false
	}
	baseCov := ot.ParseCoverage(sub.SubviewFrom(int(baseCovOff)))
	prev, ok := loc.MovePrevious(pos - 1)
	if !ok {
		return false
	}
	baseInx, ok := baseCov.Match(alb.Glyphs[prev])
	if !ok {
		return false
	}

	markArray := sub.SubviewFrom(int(markArrayOff))
	markClass, markAnchorOff, ok := readMarkRecord(markArray, markInx)
	if !ok || markClass >= markClassCount {
		return false
	}
	baseArray := sub.SubviewFrom(int(baseArrayOff))
	baseAnchorOff, ok := readBaseRecord(baseArray, baseInx, markClassCount, markClass)
	if !ok {
		return false
	}
	alb.Anchors[pos] = album.AnchorRef{
		AttachTo:  int32(prev),
		Kind:      album.AttachMarkToBase,
		MarkClass: uint16(markClass),
	}
	encodeAnchorOffsets(alb, pos, markArray, int(markAnchorOff), baseArray, int(baseAnchorOff))
	return true
}

// gposApplyMarkToLigature applies GPOS lookup type 5.
func gposApplyMarkToLigature(loc *Locator, alb *album.Album, sub ot.TableView, pos int) bool {
	markCovOff := sub.U16At(2)
	ligCovOff := sub.U16At(4)
	markClassCount := int(sub.U16At(6))
	markArrayOff := sub.U16At(8)
	ligArrayOff := sub.U16At(10)

	markCov := ot.ParseCoverage(sub.SubviewFrom(int(markCovOff)))
	markInx, ok := markCov.Match(alb.Glyphs[pos])
	if !ok {
		return false
	}
	ligCov := ot.ParseCoverage(sub.SubviewFrom(int(ligCovOff)))
	prev, ok := loc.MovePrevious(pos - 1)
	if !ok {
		return false
	}
	ligInx, ok := ligCov.Match(alb.Glyphs[prev])
	if !ok {
		return false
	}

	markArray := sub.SubviewFrom(int(markArrayOff))
	markClass, markAnchorOff, ok := readMarkRecord(markArray, markInx)
	if !ok || markClass >= markClassCount {
		return false
	}

	ligArray := sub.SubviewFrom(int(ligArrayOff))
	ligCount := int(ligArray.U16At(0))
	if ligInx < 0 || ligInx >= ligCount {
		return false
	}
	ligAttachOff := ligArray.U16At(2 + ligInx*2)
	ligAttach := ligArray.SubviewFrom(int(ligAttachOff))
	compCount := int(ligAttach.U16At(0))
	if compCount == 0 {
		return false
	}
	// No caret-position information is available here to pick the exact
	// component under the mark; attach to the last component, the
	// common case for a trailing combining mark.
	compIndex := compCount - 1
	baseAnchorOff := ligAttach.U16At(2 + (compIndex*markClassCount+markClass)*2)
	if baseAnchorOff == 0 {
		return false
	}
	alb.Anchors[pos] = album.AnchorRef{
		AttachTo:     int32(prev),
		Kind:         album.AttachMarkToLigature,
		MarkClass:    uint16(markClass),
		LigatureComp: uint16(compIndex),
	}
	encodeAnchorOffsets(alb, pos, markArray, int(markAnchorOff), ligAttach, int(baseAnchorOff))
	return true
}

// gposApplyMarkToMark applies GPOS lookup type 6.
func gposApplyMarkToMark(loc *Locator, alb *album.Album, sub ot.TableView, pos int) bool {
	mark1CovOff := sub.U16At(2)
	mark2CovOff := sub.U16At(4)
	markClassCount := int(sub.U16At(6))
	mark1ArrayOff := sub.U16At(8)
	mark2ArrayOff := sub.U16At(10)

	mark1Cov := ot.ParseCoverage(sub.SubviewFrom(int(mark1CovOff)))
	markInx, ok := mark1Cov.Match(alb.Glyphs[pos])
	if !ok {
		return false
	}
	mark2Cov := ot.ParseCoverage(sub.SubviewFrom(int(mark2CovOff)))
	prev, ok := loc.MovePrevious(pos - 1)
	if !ok {
		return false
	}
	base2Inx, ok := mark2Cov.Match(alb.Glyphs[prev])
	if !ok {
		return false
	}

	mark1Array := sub.SubviewFrom(int(mark1ArrayOff))
	markClass, markAnchorOff, ok := readMarkRecord(mark1Array, markInx)
	if !ok || markClass >= markClassCount {
		return false
	}
	mark2Array := sub.SubviewFrom(int(mark2ArrayOff))
	base2AnchorOff, ok := readBaseRecord(mark2Array, base2Inx, markClassCount, markClass)
	if !ok {
		return false
	}
	alb.Anchors[pos] = album.AnchorRef{
		AttachTo:  int32(prev),
		Kind:      album.AttachMarkToMark,
		MarkClass: uint16(markClass),
	}
	encodeAnchorOffsets(alb, pos, mark1Array, int(markAnchorOff), mark2Array, int(base2AnchorOff))
	return true
}

// readMarkRecord reads MarkArray.MarkRecords[i]: class (u16), anchorOffset (u16).
func readMarkRecord(markArray ot.TableView, i int) (class int, anchorOff uint16, ok bool) {
	count := int(markArray.U16At(0))
	if i < 0 || i >= count {
		return 0, 0, false
	}
	base := 2 + i*4
	return int(markArray.U16At(base)), markArray.U16At(base + 2), true
}

// readBaseRecord reads BaseArray.BaseRecords[i].BaseAnchors[class]: an
// array of markClassCount anchorOffsets (u16 each) per base record.
func readBaseRecord(baseArray ot.TableView, i, markClassCount, class int) (uint16, bool) {
	count := int(baseArray.U16At(0))
	if i < 0 || i >= count || class < 0 || class >= markClassCount {
		return 0, false
	}
	base := 2 + (i*markClassCount+class)*2
	off := baseArray.U16At(base)
	if off == 0 {
		return 0, false
	}
	return off, true
}

// encodeAnchorOffsets resolves both anchors immediately into the mark
// glyph's Offset, since unlike cursive attachment, mark attachment
// anchors are always relative to an already-positioned base and don't
// need a second pass over the album.
func encodeAnchorOffsets(alb *album.Album, markPos int, markArray ot.TableView, markAnchorOff int, baseArray ot.TableView, baseAnchorOff int) {
	markAnchor, ok1 := anchorAt(markArray, markAnchorOff)
	baseAnchor, ok2 := anchorAt(baseArray, baseAnchorOff)
	if !ok1 || !ok2 {
		return
	}
	alb.Offset[markPos].X += baseAnchor.X - markAnchor.X
	alb.Offset[markPos].Y += baseAnchor.Y - markAnchor.Y
}
