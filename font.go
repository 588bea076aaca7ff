package lightbringer

import (
	"image"
	"strings"
	"unicode/utf8"
)

// GlyphTable maps characters to tile indexes of a font sheet: the glyph for
// character c is tile strings.IndexRune(GlyphTable, c). Fonts only carry
// upper-case letters.
const GlyphTable = "  ABCDEFGHIJKLMNOPQRSTUVWXYZ    " + "&|:;<>.,()[]\\/\"'0123456789-+@   "

// GlyphArrow is the tile index of the selection arrow glyph.
const GlyphArrow = 1

// Font draws text out of a sprite sheet laid out like GlyphTable. Each
// glyph advances by one tile width times the scale; lines are one tile
// height times the scale apart. The sheet's glyphs are drawn in black ink,
// other colors are produced by recoloring.
type Font struct {
	sheet        *SpriteSheet
	tileW, tileH int
}

// NewFont creates a font over sheet.
func NewFont(sheet *SpriteSheet) *Font {
	if sheet == nil {
		sheet = EmptySpriteSheet
	}
	w, h := sheet.TileSize()
	return &Font{sheet: sheet, tileW: w, tileH: h}
}

// GlyphIndex returns the tile index for r. Characters missing from the
// table map to the tile just past the first row of the sheet.
func (f *Font) GlyphIndex(r rune) int {
	if i := strings.IndexRune(GlyphTable, r); i >= 0 {
		return i
	}
	return f.sheet.Columns()
}

// Glyph returns the sprite for tile index i, or EmptySprite.
func (f *Font) Glyph(i int) *Sprite {
	s, _ := f.sheet.Sprite(i)
	return s
}

// GlyphColor returns a standalone copy of glyph i recolored to c.
func (f *Font) GlyphColor(i int, c Color) *Sprite {
	return Recolor(f.Glyph(i), c)
}

// MessageWidth returns the unscaled width of msg drawn on a single line.
func (f *Font) MessageWidth(msg string) int {
	return utf8.RuneCountInString(msg) * f.tileW
}

// MessageHeight returns the unscaled height of a single line.
func (f *Font) MessageHeight() int {
	return f.tileH
}

// Wrap breaks msg into lines no wider than blockWidth pixels when each
// character is drawn scale times the tile width.
func (f *Font) Wrap(msg string, blockWidth, scale int) []string {
	return Wrap(msg, blockWidth, f.tileW*scale)
}

// Draw draws msg at (x, y) wrapped to blockWidth pixels, in color c, with
// every glyph scaled by scale. A blockWidth of zero or less disables
// wrapping; newlines always break.
func (f *Font) Draw(s Surface, x, y int, msg string, blockWidth int, c Color, scale int) {
	if scale < 1 {
		logger.Warn("font scale below 1, nothing drawn", "scale", scale)
		return
	}
	lines := Wrap(strings.ToUpper(msg), blockWidth, f.tileW*scale)
	lh := f.tileH * scale
	if c == ColorBlack {
		for i, line := range lines {
			f.drawLine(s, x, y+i*lh, line, scale)
		}
		return
	}
	w := 0
	for _, line := range lines {
		w = max(w, utf8.RuneCountInString(line)*f.tileW*scale)
	}
	drawRecolored(s, x, y, w, lh*len(lines), c, func(l Surface) {
		for i, line := range lines {
			f.drawLine(l, 0, i*lh, line, scale)
		}
	})
}

// DrawLined draws msg on a single line with no wrapping.
func (f *Font) DrawLined(s Surface, x, y int, msg string, c Color, scale int) {
	if msg == "" {
		return
	}
	if scale < 1 {
		logger.Warn("font scale below 1, nothing drawn", "scale", scale)
		return
	}
	msg = strings.ToUpper(msg)
	if c == ColorBlack {
		f.drawLine(s, x, y, msg, scale)
		return
	}
	w := f.MessageWidth(msg) * scale
	drawRecolored(s, x, y, w, f.tileH*scale, c, func(l Surface) {
		f.drawLine(l, 0, 0, msg, scale)
	})
}

func (f *Font) drawLine(s Surface, x, y int, line string, scale int) {
	adv := f.tileW * scale
	i := 0
	for _, r := range line {
		f.Glyph(f.GlyphIndex(r)).DrawScaled(s, x+i*adv, y, scale)
		i++
	}
}

// CreateMessage rasterizes text once into a standalone sprite, for labels
// drawn every frame. Empty text yields EmptySprite.
func (f *Font) CreateMessage(text string) *Sprite {
	w, h := f.MessageWidth(text), f.tileH
	if w <= 0 || h <= 0 {
		return EmptySprite
	}
	layer := NewOffscreenSurface(w, h)
	f.drawLine(layer, 0, 0, strings.ToUpper(text), 1)
	return NewSprite(layer.Image())
}

// CreateMessageColor is CreateMessage recolored to c.
func (f *Font) CreateMessageColor(text string, c Color) *Sprite {
	return Recolor(f.CreateMessage(text), c)
}

// CreateMessageScaled is CreateMessage enlarged scale times.
func (f *Font) CreateMessageScaled(text string, scale int) *Sprite {
	return Scaled(f.CreateMessage(text), scale)
}

// CreateMessageScaledColor is CreateMessage recolored and enlarged.
func (f *Font) CreateMessageScaledColor(text string, c Color, scale int) *Sprite {
	return Scaled(f.CreateMessageColor(text, c), scale)
}

// Recolor rasterizes s into a new sprite where every visible pixel is
// painted c, keeping the original alpha.
func Recolor(s *Sprite, c Color) *Sprite {
	w, h := s.Width(), s.Height()
	if w <= 0 || h <= 0 {
		return EmptySprite
	}
	layer := NewOffscreenSurface(w, h)
	s.Draw(layer, 0, 0)
	layer.Fill(image.Rect(0, 0, w, h), c, BlendSourceIn)
	return NewSprite(layer.Image())
}

// drawRecolored renders draw into a w×h layer, replaces the color of its
// visible pixels with c, and composites the layer at (x, y).
func drawRecolored(s Surface, x, y, w, h int, c Color, draw func(Surface)) {
	if w <= 0 || h <= 0 {
		return
	}
	layer := s.NewLayer(w, h)
	defer layer.Dispose()
	draw(layer)
	layer.Fill(image.Rect(0, 0, w, h), c, BlendSourceIn)
	s.DrawImage(layer.Image(), image.Rect(x, y, x+w, y+h), image.Rect(0, 0, w, h))
}

// Wrap greedily breaks msg into lines for glyphs glyphWidth pixels wide so
// that no line is wider than blockWidth. Newlines always break. A space
// that arrives once the line is full ends the line and is dropped. A word
// that does not fit on the current line starts a new one, unless it is
// wider than the whole block, in which case it is split where it runs out
// of room. Trailing spaces are trimmed. A blockWidth of zero or less only
// breaks at newlines.
func Wrap(msg string, blockWidth, glyphWidth int) []string {
	text := []rune(msg)
	var lines []string
	var cur []rune
	flush := func() {
		lines = append(lines, strings.TrimRight(string(cur), " "))
		cur = cur[:0]
	}
	for i, ch := range text {
		width := len(cur) * glyphWidth
		if ch == '\n' {
			flush()
			continue
		}
		if ch == ' ' {
			if blockWidth > 0 && width >= blockWidth {
				flush()
			} else {
				cur = append(cur, ch)
			}
			continue
		}
		if blockWidth > 0 && len(cur) > 0 {
			word := (wordEnd(text, i) - i) * glyphWidth
			if width+word > blockWidth {
				if word > blockWidth && width+glyphWidth < blockWidth {
					cur = append(cur, ch)
					continue
				}
				flush()
			}
		}
		cur = append(cur, ch)
	}
	flush()
	return lines
}

// wordEnd returns the index of the first space or newline at or after i,
// or len(text).
func wordEnd(text []rune, i int) int {
	for j := i; j < len(text); j++ {
		if text[j] == ' ' || text[j] == '\n' {
			return j
		}
	}
	return len(text)
}
