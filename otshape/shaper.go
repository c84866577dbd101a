package otshape

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"

	"github.com/glyphforge/otshape/ot"
)

// Params bundles font and segment metadata used to build a Pattern for
// one script/language/feature-set combination, grounded in the teacher's
// otshape.Params.
type Params struct {
	Font        Font            // Font is the font facade used for mapping and layout.
	Direction   bidi.Direction  // Direction is the segment writing direction.
	Script      language.Script // Script is the ISO 15924 script for feature-list lookup.
	Language    language.Tag    // Language is the BCP 47 language tag for language-system lookup.
	FeatureTags []ot.Tag        // FeatureTags requests features in priority order (see BuildPattern).
}

// Shaper bundles a Font with a precomputed Pattern, ready to shape
// multiple runs of the same script/language/feature combination without
// rebuilding the plan each time (spec.md §3's Pattern is immutable per
// font+script+language; Shaper is the convenience wrapper around it).
type Shaper struct {
	font    Font
	pattern Pattern
}

// NewShaper resolves p.Script/p.Language into OpenType tags and builds a
// Pattern once, up front.
func NewShaper(p Params) *Shaper {
	script := scriptTag(p.Script)
	lang := langSysTag(p.Language)
	return &Shaper{
		font:    p.Font,
		pattern: BuildPattern(p.Font, script, lang, p.FeatureTags),
	}
}

// Shape runs the full pipeline against src using the Shaper's precomputed
// Pattern.
func (s *Shaper) Shape(src RuneSource, opts ShapeOptions) (*Result, error) {
	alb, err := Shape(s.font, src, s.pattern, opts)
	if err != nil {
		return nil, err
	}
	return &Result{album: alb}, nil
}

// scriptTag maps an ISO 15924 script (e.g. "Latn") to its OpenType
// ScriptList tag. OpenType script tags are usually the lowercased ISO
// code; this is a minimal mapping good enough for the CLI and tests, not
// a complete ISO-15924-to-OpenType table.
func scriptTag(s language.Script) ot.Tag {
	str := s.String()
	if str == "" || str == "Zzzz" {
		return ot.T("DFLT")
	}
	return ot.T(strings.ToLower(str))
}

// langSysTag maps a BCP 47 language tag to an OpenType LangSys tag. Real
// OpenType language tags rarely match ISO 639 codes (e.g. "ENG" not
// "en"); this resolves only the common identity cases and otherwise
// falls back to the script's default LangSys, which BuildPattern already
// does when no entry matches.
func langSysTag(t language.Tag) ot.Tag {
	base, conf := t.Base()
	if conf == language.No {
		return 0
	}
	return ot.T(strings.ToUpper(base.String()))
}
