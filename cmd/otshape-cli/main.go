/*
Command otshape-cli shapes a line of text against a real font and prints
the resulting glyph run, grounded in the teacher's otcli/main.go (REPL
set-up, tracing, pterm output) and ot-tools' one-shot command style,
reworked into a single non-interactive pass over this module's own
Shaper rather than the teacher's table-navigating REPL.
*/
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"

	"github.com/glyphforge/otshape/ot"
	"github.com/glyphforge/otshape/otshape"
	"github.com/glyphforge/otshape/otshape/otconf"
)

func main() {
	fontPath := flag.String("font", "", "path to a TrueType/OpenType font file")
	text := flag.String("text", "", "text to shape")
	scriptName := flag.String("script", "Latn", "ISO 15924 script")
	langName := flag.String("lang", "en", "BCP 47 language")
	features := flag.String("features", "kern,liga", "comma-separated feature tags")
	traceLevel := flag.String("trace", "Info", "trace level [Debug|Info|Error]")
	applyGPOS := flag.Bool("gpos", true, "apply GPOS positioning")
	flag.Parse()

	if *fontPath == "" || *text == "" {
		pterm.Error.Println("both -font and -text are required")
		os.Exit(2)
	}

	cfg := otconf.Default()
	cfg.TraceLevel = *traceLevel
	cfg.ApplyGPOS = *applyGPOS
	if err := otconf.Configure(cfg); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	data, err := os.ReadFile(*fontPath)
	if err != nil {
		pterm.Error.Printf("reading font: %s\n", err)
		os.Exit(1)
	}
	f, err := newFontAdapter(data)
	if err != nil {
		pterm.Error.Printf("parsing font: %s\n", err)
		os.Exit(1)
	}

	sc, _ := language.ParseScript(*scriptName)
	lang, _ := language.Parse(*langName)
	shaper := otshape.NewShaper(otshape.Params{
		Font:        f,
		Direction:   bidi.LeftToRight,
		Script:      sc,
		Language:    lang,
		FeatureTags: parseTags(*features),
	})

	skipGPOS, zeroWidthMarks := cfg.ShapeOptionDefaults()
	src := newRuneSource(*text)
	result, err := shaper.Shape(src, otshape.ShapeOptions{
		ZeroWidthMarks: zeroWidthMarks,
		SkipGPOS:       skipGPOS,
	})
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	printResult(result)
}

func parseTags(s string) []ot.Tag {
	var tags []ot.Tag
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				tags = append(tags, ot.T(s[start:i]))
			}
			start = i + 1
		}
	}
	return tags
}

func printResult(r *otshape.Result) {
	pterm.DefaultHeader.Println("shaped glyph run")
	rows := [][]string{{"#", "glyph", "x", "y", "adv x"}}
	for i := 0; i < r.GlyphCount(); i++ {
		x, y := r.Position(i)
		ax, _ := r.Advance(i)
		rows = append(rows, []string{
			fmt.Sprint(i),
			fmt.Sprint(r.Glyph(i)),
			fmt.Sprint(x),
			fmt.Sprint(y),
			fmt.Sprint(ax),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	pterm.Println(table)
}

// runeSource walks a string's runes in order, satisfying otshape.RuneSource.
type runeSource struct {
	runes []rune
	pos   int
}

func newRuneSource(s string) *runeSource {
	return &runeSource{runes: []rune(s)}
}

func (s *runeSource) NextRune() (rune, bool) {
	if s.pos >= len(s.runes) {
		return 0, false
	}
	r := s.runes[s.pos]
	s.pos++
	return r, true
}

// fontAdapter satisfies otshape.Font over a real parsed SFNT font: table
// bytes come from the raw file's table directory (the sfnt package
// itself keeps tables private), metrics come from golang.org/x/image/font/sfnt.
type fontAdapter struct {
	raw  []byte
	sfnt *sfnt.Font
	buf  sfnt.Buffer
	ppem fixed.Int26_6
	gdef ot.TableView
	gsub ot.TableView
	gpos ot.TableView
}

func newFontAdapter(raw []byte) (*fontAdapter, error) {
	parsed, err := sfnt.Parse(raw)
	if err != nil {
		return nil, err
	}
	f := &fontAdapter{raw: raw, sfnt: parsed}
	unitsPerEm, err := parsed.UnitsPerEm()
	if err != nil {
		return nil, err
	}
	// Setting ppem equal to the font's own units-per-em makes
	// GlyphAdvance report advances in font design units rather than a
	// rasterized pixel size, since the two scale linearly.
	f.ppem = fixed.I(int(unitsPerEm))
	f.gdef = findTable(raw, "GDEF")
	f.gsub = findTable(raw, "GSUB")
	f.gpos = findTable(raw, "GPOS")
	return f, nil
}

func (f *fontAdapter) GDEF() ot.TableView { return f.gdef }
func (f *fontAdapter) GSUB() ot.TableView { return f.gsub }
func (f *fontAdapter) GPOS() ot.TableView { return f.gpos }

func (f *fontAdapter) GlyphForRune(r rune) ot.GlyphIndex {
	gi, err := f.sfnt.GlyphIndex(&f.buf, r)
	if err != nil {
		return 0
	}
	return ot.GlyphIndex(gi)
}

func (f *fontAdapter) AdvanceForGlyph(orient otshape.Orientation, g ot.GlyphIndex) int32 {
	if orient == otshape.Vertical {
		return 0 // vertical metrics are not read; every vertical advance is 0
	}
	adv, err := f.sfnt.GlyphAdvance(&f.buf, sfnt.GlyphIndex(g), f.ppem, font.HintingNone)
	if err != nil {
		return 0
	}
	return int32(adv.Round())
}

// findTable walks an SFNT file's table directory and returns the raw
// bytes of the table named tag, or nil if absent. The sfnt package
// parses tables it understands internally but doesn't expose arbitrary
// raw table bytes, so GDEF/GSUB/GPOS are located directly here instead.
func findTable(data []byte, tag string) ot.TableView {
	const headerLen = 12
	const recordLen = 16
	if len(data) < headerLen {
		return nil
	}
	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	for i := 0; i < numTables; i++ {
		rec := headerLen + i*recordLen
		if rec+recordLen > len(data) {
			break
		}
		if string(data[rec:rec+4]) != tag {
			continue
		}
		offset := binary.BigEndian.Uint32(data[rec+8 : rec+12])
		length := binary.BigEndian.Uint32(data[rec+12 : rec+16])
		end := uint64(offset) + uint64(length)
		if end > uint64(len(data)) {
			return nil
		}
		return ot.TableView(data[offset:end])
	}
	return nil
}
