package ot

// This file navigates the shared skeleton of the GSUB and GPOS tables:
// ScriptList, FeatureList, and LookupList. Subtable bytes themselves are
// handed to callers as raw TableViews; parsing a subtable's fields is the
// job of the lookup-type handler that understands that specific format,
// not of this package.

// LookupFlag is the per-lookup flag word that controls which glyphs a
// traversal ignores and how a RIGHT_TO_LEFT hint is interpreted.
type LookupFlag uint16

const (
	LookupFlagRightToLeft         LookupFlag = 0x0001
	LookupFlagIgnoreBaseGlyphs    LookupFlag = 0x0002
	LookupFlagIgnoreLigatures     LookupFlag = 0x0004
	LookupFlagIgnoreMarks         LookupFlag = 0x0008
	LookupFlagUseMarkFilteringSet LookupFlag = 0x0010
	LookupFlagReserved            LookupFlag = 0x00E0
	LookupFlagMarkAttachTypeMask  LookupFlag = 0xFF00
)

// MarkAttachType extracts the mark attachment type from the upper byte
// of the flag word.
func (f LookupFlag) MarkAttachType() int {
	return int(f&LookupFlagMarkAttachTypeMask) >> 8
}

// LookupType identifies a lookup's subtable format family. GSUB and GPOS
// use independent, overlapping numbering (e.g. type 1 means "Single" in
// both, but has different subtable layouts); callers must know which
// table they are in.
type LookupType uint16

// ScriptList is the top-level ScriptList table of a GSUB or GPOS table:
// scriptCount (u16), ScriptRecord[scriptCount] { tag (Tag), offset (u16) }.
type ScriptList struct {
	view TableView
}

func ParseScriptList(view TableView) ScriptList {
	return ScriptList{view: view}
}

func (sl ScriptList) Count() int {
	if sl.view.Empty() {
		return 0
	}
	return int(sl.view.U16At(0))
}

// Tag returns the script tag of record i.
func (sl ScriptList) Tag(i int) Tag {
	return Tag(sl.view.U32At(2 + i*6))
}

// Script looks up a script by tag; ok is false if the script is absent.
func (sl ScriptList) Script(tag Tag) (Script, bool) {
	n := sl.Count()
	for i := 0; i < n; i++ {
		if sl.Tag(i) == tag {
			off := sl.view.U16At(2 + i*6 + 4)
			return Script{view: sl.view.SubviewFrom(int(off))}, true
		}
	}
	return Script{}, false
}

// Script is a ScriptTable: defaultLangSysOffset (u16), langSysCount (u16),
// LangSysRecord[langSysCount] { tag (Tag), offset (u16) }.
type Script struct {
	view TableView
}

func (s Script) HasDefaultLangSys() bool {
	return s.view.U16At(0) != 0
}

func (s Script) DefaultLangSys() LangSys {
	off := s.view.U16At(0)
	return LangSys{view: s.view.SubviewFrom(int(off))}
}

func (s Script) LangSysCount() int {
	return int(s.view.U16At(2))
}

func (s Script) LangSysTag(i int) Tag {
	return Tag(s.view.U32At(4 + i*6))
}

func (s Script) LangSys(tag Tag) (LangSys, bool) {
	n := s.LangSysCount()
	for i := 0; i < n; i++ {
		if s.LangSysTag(i) == tag {
			off := s.view.U16At(4 + i*6 + 4)
			return LangSys{view: s.view.SubviewFrom(int(off))}, true
		}
	}
	return LangSys{}, false
}

// LangSys is a LangSys table: lookupOrderOffset (u16, reserved=0),
// requiredFeatureIndex (u16, 0xFFFF if none), featureIndexCount (u16),
// featureIndices[featureIndexCount] (u16 each).
type LangSys struct {
	view TableView
}

const NoRequiredFeature = 0xFFFF

func (l LangSys) RequiredFeatureIndex() int {
	return int(l.view.U16At(2))
}

func (l LangSys) FeatureIndexCount() int {
	return int(l.view.U16At(4))
}

func (l LangSys) FeatureIndex(i int) int {
	return int(l.view.U16At(6 + i*2))
}

// FeatureList is the top-level FeatureList table: featureCount (u16),
// FeatureRecord[featureCount] { tag (Tag), offset (u16) }. Features are
// addressed by index (as produced by LangSys), not by tag, since a tag
// may legitimately repeat.
type FeatureList struct {
	view TableView
}

func ParseFeatureList(view TableView) FeatureList {
	return FeatureList{view: view}
}

func (fl FeatureList) Count() int {
	if fl.view.Empty() {
		return 0
	}
	return int(fl.view.U16At(0))
}

func (fl FeatureList) Tag(i int) Tag {
	return Tag(fl.view.U32At(2 + i*6))
}

func (fl FeatureList) Feature(i int) Feature {
	if i < 0 || i >= fl.Count() {
		return Feature{}
	}
	off := fl.view.U16At(2 + i*6 + 4)
	return Feature{view: fl.view.SubviewFrom(int(off))}
}

// Feature is a Feature table: featureParamsOffset (u16), lookupIndexCount
// (u16), lookupListIndices[lookupIndexCount] (u16 each).
type Feature struct {
	view TableView
}

func (f Feature) LookupIndexCount() int {
	if f.view.Empty() {
		return 0
	}
	return int(f.view.U16At(2))
}

func (f Feature) LookupIndex(i int) int {
	return int(f.view.U16At(4 + i*2))
}

// LookupList is the top-level LookupList table: lookupCount (u16),
// lookupOffsets[lookupCount] (u16 each, relative to the LookupList start).
type LookupList struct {
	view TableView
}

func ParseLookupList(view TableView) LookupList {
	return LookupList{view: view}
}

func (ll LookupList) Count() int {
	if ll.view.Empty() {
		return 0
	}
	return int(ll.view.U16At(0))
}

func (ll LookupList) Lookup(i int) Lookup {
	if i < 0 || i >= ll.Count() {
		return Lookup{}
	}
	off := ll.view.U16At(2 + i*2)
	return ParseLookup(ll.view.SubviewFrom(int(off)))
}

// Lookup is a Lookup table: lookupType (u16), lookupFlag (u16),
// subTableCount (u16), subtableOffsets[subTableCount] (u16 each), then
// optionally markFilteringSet (u16) if LookupFlagUseMarkFilteringSet is
// set.
type Lookup struct {
	view TableView
}

func ParseLookup(view TableView) Lookup {
	return Lookup{view: view}
}

func (l Lookup) Type() LookupType {
	return LookupType(l.view.U16At(0))
}

func (l Lookup) Flag() LookupFlag {
	return LookupFlag(l.view.U16At(2))
}

func (l Lookup) SubtableCount() int {
	return int(l.view.U16At(4))
}

// Subtable returns the raw bytes of subtable i, from the start of its own
// format field, ready for a lookup-type handler to parse.
func (l Lookup) Subtable(i int) TableView {
	if i < 0 || i >= l.SubtableCount() {
		return nil
	}
	off := l.view.U16At(6 + i*2)
	return l.view.SubviewFrom(int(off))
}

// MarkFilteringSet returns the lookup's mark filtering set index. Only
// meaningful when Flag() has LookupFlagUseMarkFilteringSet set.
func (l Lookup) MarkFilteringSet() uint16 {
	if l.Flag()&LookupFlagUseMarkFilteringSet == 0 {
		return 0
	}
	return l.view.U16At(6 + l.SubtableCount()*2)
}
