package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/printforge/designer/internal/entity"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// FontSet resolves font families to parsed fonts. Families come from
// .ttf/.otf files in the configured fonts directory; anything unknown
// falls back to the embedded Go Regular face so a missing font never
// fails an export.
type FontSet struct {
	mu       sync.RWMutex
	families map[string]*sfnt.Font
	fallback *sfnt.Font
}

// NewFontSet parses the fallback face and loads every font file found
// in dir (empty dir means fallback only). Unreadable files are logged
// and skipped.
func NewFontSet(dir string) (*FontSet, error) {
	fallback, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse fallback font: %w", err)
	}
	fs := &FontSet{
		families: map[string]*sfnt.Font{},
		fallback: fallback,
	}
	if dir == "" {
		return fs, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		logrus.Warnf("fonts directory unreadable, using fallback only: %v", err)
		return fs, nil
	}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			logrus.Warnf("font %s unreadable: %v", e.Name(), err)
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			logrus.Warnf("font %s unparsable: %v", e.Name(), err)
			continue
		}
		family := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		fs.families[strings.ToLower(family)] = f
	}
	return fs, nil
}

func (fs *FontSet) lookup(family string) *sfnt.Font {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if f, ok := fs.families[strings.ToLower(family)]; ok {
		return f
	}
	return fs.fallback
}

// RenderText rasterizes text into a tight transparent buffer. Lines
// are split on newlines; RTL runs are reordered to visual order before
// drawing.
func (fs *FontSet) RenderText(text, family string, sizePx float64, hexColor string,
	direction entity.TextDirection, align string) (*image.NRGBA, error) {

	if sizePx < 1 {
		return nil, fmt.Errorf("font size %.2f too small", sizePx)
	}
	face, err := opentype.NewFace(fs.lookup(family), &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("face for %q: %w", family, err)
	}
	defer face.Close()

	col, err := ParseHexColor(hexColor)
	if err != nil {
		col = color.NRGBA{A: 255} // default black
	}

	lines := strings.Split(text, "\n")
	widths := make([]int, len(lines))
	maxWidth := 1
	for i, line := range lines {
		lines[i] = visualOrder(line, direction)
		widths[i] = font.MeasureString(face, lines[i]).Ceil()
		if widths[i] > maxWidth {
			maxWidth = widths[i]
		}
	}

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	if lineHeight < 1 {
		lineHeight = int(sizePx)
	}
	height := lineHeight * len(lines)

	dst := imaging.New(maxWidth, height, color.NRGBA{})
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
	}
	for i, line := range lines {
		x := lineX(align, direction, maxWidth, widths[i])
		drawer.Dot = fixed.Point26_6{
			X: fixed.I(x),
			Y: fixed.I(i*lineHeight) + metrics.Ascent,
		}
		drawer.DrawString(line)
	}
	return dst, nil
}

// lineX places one line inside the text block according to alignment.
// Unset alignment follows the writing direction.
func lineX(align string, direction entity.TextDirection, blockWidth, lineWidth int) int {
	if align == "" {
		if direction == entity.DirectionRTL {
			align = "right"
		} else {
			align = "left"
		}
	}
	switch align {
	case "center":
		return (blockWidth - lineWidth) / 2
	case "right":
		return blockWidth - lineWidth
	default:
		return 0
	}
}

// visualOrder reorders bidirectional text into visual order for
// left-to-right drawing.
func visualOrder(s string, direction entity.TextDirection) string {
	base := bidi.LeftToRight
	if direction == entity.DirectionRTL {
		base = bidi.RightToLeft
	}
	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(base)); err != nil {
		return s
	}
	ordering, err := p.Order()
	if err != nil {
		return s
	}
	var b strings.Builder
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		t := run.String()
		if run.Direction() == bidi.RightToLeft {
			t = reverseRunes(t)
		}
		b.WriteString(t)
	}
	return b.String()
}

func reverseRunes(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// ParseHexColor parses #rgb and #rrggbb colors.
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	switch len(s) {
	case 3:
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
		}
	default:
		return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
