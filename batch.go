package lightbringer

import "image"

// overlay is one sprite painted on top of a batch's base.
type overlay struct {
	sprite   *Sprite
	xOff     int
	yOff     int
	angleOff float64
}

// SpriteBatch paints a base sprite and then a list of overlays, offset from
// the base's top-left corner, in the order they were added. The batch itself
// is drawn through Sprite().
//
// With clear-after set the overlay list is emptied after every render, which
// suits per-frame decorations that are re-added each tick.
type SpriteBatch struct {
	base       *Sprite
	overlays   []overlay
	clearAfter bool
	self       Sprite
}

// NewSpriteBatch creates an empty batch over base.
func NewSpriteBatch(base *Sprite) *SpriteBatch {
	if base == nil {
		base = EmptySprite
	}
	b := &SpriteBatch{base: base}
	b.self = Sprite{kind: SpriteKindBatch, batch: b}
	return b
}

// Sprite returns the batch as a drawable Sprite. Its size is the base's size.
func (b *SpriteBatch) Sprite() *Sprite {
	return &b.self
}

// Base returns the base sprite.
func (b *SpriteBatch) Base() *Sprite {
	return b.base
}

// AddSprite adds s on top of the base with no offset.
func (b *SpriteBatch) AddSprite(s *Sprite) {
	b.AddSpriteRotated(s, 0, 0, 0)
}

// AddSpriteAt adds s at (xOff, yOff) from the base's top-left corner.
func (b *SpriteBatch) AddSpriteAt(s *Sprite, xOff, yOff int) {
	b.AddSpriteRotated(s, xOff, yOff, 0)
}

// AddSpriteRotated adds s at an offset with an extra rotation applied when
// the batch is drawn rotated.
func (b *SpriteBatch) AddSpriteRotated(s *Sprite, xOff, yOff int, angleOff float64) {
	if s == nil {
		s = EmptySprite
	}
	b.overlays = append(b.overlays, overlay{sprite: s, xOff: xOff, yOff: yOff, angleOff: angleOff})
}

// AddUniqueSprite adds s with no offset unless the very same sprite is
// already an overlay. It reports whether s was added.
func (b *SpriteBatch) AddUniqueSprite(s *Sprite) bool {
	for _, o := range b.overlays {
		if o.sprite == s {
			return false
		}
	}
	b.AddSprite(s)
	return true
}

// SetClearAfter makes every render drop the overlays once they are painted.
func (b *SpriteBatch) SetClearAfter(clear bool) {
	b.clearAfter = clear
}

// Clear removes all overlays.
func (b *SpriteBatch) Clear() {
	clear(b.overlays)
	b.overlays = b.overlays[:0]
}

// Len returns the number of overlays.
func (b *SpriteBatch) Len() int {
	return len(b.overlays)
}

func (b *SpriteBatch) render(s Surface, dst, src image.Rectangle) {
	b.base.Render(s, dst, src)
	for _, o := range b.overlays {
		o.sprite.Draw(s, dst.Min.X+o.xOff, dst.Min.Y+o.yOff)
	}
	if b.clearAfter {
		b.Clear()
	}
}

func (b *SpriteBatch) renderRotated(s Surface, x, y int, angle, xScale, yScale, pivotX, pivotY float64) {
	b.base.RenderRotated(s, x, y, angle, xScale, yScale, pivotX, pivotY)
	bw, bh := float64(b.base.Width()), float64(b.base.Height())
	for _, o := range b.overlays {
		// Overlays spin around the base's center, expressed in their own
		// local coordinates.
		px := bw/2 - float64(o.xOff)
		py := bh/2 - float64(o.yOff)
		o.sprite.RenderRotated(s, x+o.xOff, y+o.yOff, angle+o.angleOff, 1, 1, px, py)
	}
	if b.clearAfter {
		b.Clear()
	}
}
