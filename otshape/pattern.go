package otshape

import "github.com/glyphforge/otshape/ot"

// FeatureRange restricts a FeatureUnit to a span of album indices
// (these equal code-point indices until a substitution changes the
// glyph count),
// grounded in the teacher's FeatureRange/mask-range system
// (otshape/lookups.go's applyFeatureRangesToMasks), reduced to the single
// on/off span this spec adds (see SPEC_FULL.md, Supplemented Features).
// Start==0 && End==0 means "unrestricted": the feature unit applies
// everywhere.
type FeatureRange struct {
	Start, End int
	On         bool
}

// Contains reports whether the range is on and album index i falls
// inside it; an unrestricted range that is on contains every index.
func (r FeatureRange) Contains(i int) bool {
	if r.Start == 0 && r.End == 0 {
		return r.On
	}
	return r.On && i >= r.Start && i < r.End
}

// FeatureUnit is one activation of one OpenType feature: its mask (for
// callers that want to track which feature produced a change) and the
// ordered lookup indices it contributes to the GSUB or GPOS LookupList.
type FeatureUnit struct {
	Tag           ot.Tag
	Mask          uint32
	LookupIndexes []int
	Range         FeatureRange
}

// Pattern is the immutable, precomputed plan a script/language "knowledge"
// service would normally produce: an ordered list of feature units, split
// between substitution (GSUB) and positioning (GPOS) units. Pattern is
// read-only once built; the pipeline never mutates it during shaping.
type Pattern struct {
	Units     []FeatureUnit
	GSUBCount int // Units[:GSUBCount] are substitution feature units
}

// SubstitutionUnits returns the GSUB-indexing feature units, in order.
func (p Pattern) SubstitutionUnits() []FeatureUnit {
	if p.GSUBCount > len(p.Units) {
		return p.Units
	}
	return p.Units[:p.GSUBCount]
}

// PositioningUnits returns the GPOS-indexing feature units, in order.
func (p Pattern) PositioningUnits() []FeatureUnit {
	if p.GSUBCount > len(p.Units) {
		return nil
	}
	return p.Units[p.GSUBCount:]
}

// BuildPattern constructs a minimal concrete Pattern for one font, script,
// and language, activating featureTags in the order given. It is grounded
// in the teacher's otlayout.FontFeatures and otshape/plan.go, drastically
// simplified: no per-script/per-language feature *selection* policy is
// implemented here (that remains the knowledge service's job per
// spec.md §1); BuildPattern only resolves tags the caller already chose
// into concrete lookup indices, which is enough to drive the CLI and
// tests.
//
// A feature absent from the language system (or absent from the font's
// FeatureList) is silently skipped, consistent with "no applicable
// coverage" being a normal, non-fatal outcome (spec.md §7).
func BuildPattern(font Font, script, lang ot.Tag, featureTags []ot.Tag) Pattern {
	var p Pattern
	gsubUnits := collectFeatureUnits(font.GSUB(), script, lang, featureTags)
	gposUnits := collectFeatureUnits(font.GPOS(), script, lang, featureTags)
	p.Units = append(p.Units, gsubUnits...)
	p.GSUBCount = len(gsubUnits)
	p.Units = append(p.Units, gposUnits...)
	return p
}

// collectFeatureUnits walks a single GSUB or GPOS table's
// ScriptList/FeatureList to build one FeatureUnit per requested tag that
// the language system actually activates.
func collectFeatureUnits(table ot.TableView, script, lang ot.Tag, featureTags []ot.Tag) []FeatureUnit {
	if table.Empty() {
		return nil
	}
	scriptListOff := table.U16At(4)
	featureListOff := table.U16At(6)
	lookupListOff := table.U16At(8)
	if scriptListOff == 0 || featureListOff == 0 || lookupListOff == 0 {
		return nil
	}
	scripts := ot.ParseScriptList(table.SubviewFrom(int(scriptListOff)))
	sc, ok := scripts.Script(script)
	if !ok {
		return nil
	}
	var langSys ot.LangSys
	ok = false
	if lang != 0 {
		langSys, ok = sc.LangSys(lang)
	}
	if !ok {
		if !sc.HasDefaultLangSys() {
			return nil
		}
		langSys = sc.DefaultLangSys()
	}
	features := ot.ParseFeatureList(table.SubviewFrom(int(featureListOff)))

	activeByTag := make(map[ot.Tag][]int, langSys.FeatureIndexCount())
	if req := langSys.RequiredFeatureIndex(); req != ot.NoRequiredFeature {
		f := features.Feature(req)
		tag := features.Tag(req)
		activeByTag[tag] = lookupIndexesOf(f)
	}
	for i := 0; i < langSys.FeatureIndexCount(); i++ {
		fi := langSys.FeatureIndex(i)
		tag := features.Tag(fi)
		f := features.Feature(fi)
		activeByTag[tag] = lookupIndexesOf(f)
	}

	var units []FeatureUnit
	for i, tag := range featureTags {
		lookups, ok := activeByTag[tag]
		if !ok || len(lookups) == 0 {
			continue
		}
		units = append(units, FeatureUnit{
			Tag:           tag,
			Mask:          uint32(1) << uint(i),
			LookupIndexes: lookups,
			Range:         FeatureRange{On: true},
		})
	}
	return units
}

func lookupIndexesOf(f ot.Feature) []int {
	n := f.LookupIndexCount()
	out := make([]int, n)
	for i := range out {
		out[i] = f.LookupIndex(i)
	}
	return out
}
