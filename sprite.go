package lightbringer

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// SpriteKind distinguishes rendering behavior for a Sprite.
type SpriteKind uint8

const (
	SpriteKindEmpty    SpriteKind = iota // draws nothing, zero size
	SpriteKindBitmap                     // draws a region of an image
	SpriteKindCentered                   // bitmap drawn with its middle at the draw position
	SpriteKindProxy                      // forwards to the sprite returned by a SpriteSource
	SpriteKindRotated                    // forwards to another sprite with a fixed extra angle
	SpriteKindBatch                      // base sprite plus overlays, see SpriteBatch
)

// SpriteSource resolves the sprite a proxy forwards to. It is asked again on
// every call, so the answer may change between frames (Animation does this).
type SpriteSource interface {
	CurrentSprite() *Sprite
}

// sizer lets a SpriteSource report a fixed size instead of the size of the
// sprite it currently resolves to.
type sizer interface {
	Width() int
	Height() int
}

// Sprite is anything that can be drawn: an image region, a proxy, a rotated
// wrapper, a batch, or nothing at all. The zero value is an empty sprite.
//
// Sprites are value-like handles: they are created through constructors and
// shared by pointer. A nil *Sprite behaves like EmptySprite.
type Sprite struct {
	kind SpriteKind

	// bitmap / centered
	img    *ebiten.Image
	region image.Rectangle

	// proxy
	source SpriteSource

	// rotated
	target *Sprite
	angle  float64

	// batch
	batch *SpriteBatch
}

// EmptySprite draws nothing and reports a zero size. Lookups that miss
// return it instead of nil.
var EmptySprite = &Sprite{}

// NewSprite creates a bitmap sprite covering the whole image.
func NewSprite(img *ebiten.Image) *Sprite {
	if img == nil {
		return EmptySprite
	}
	return &Sprite{kind: SpriteKindBitmap, img: img, region: img.Bounds()}
}

// NewSpriteRegion creates a bitmap sprite covering region of img. The region
// is clipped to the image bounds.
func NewSpriteRegion(img *ebiten.Image, region image.Rectangle) *Sprite {
	if img == nil {
		return EmptySprite
	}
	return &Sprite{kind: SpriteKindBitmap, img: img, region: region.Intersect(img.Bounds())}
}

// NewCenteredSprite creates a bitmap sprite that is drawn with its middle,
// rather than its top-left corner, at the draw position.
func NewCenteredSprite(img *ebiten.Image) *Sprite {
	if img == nil {
		return EmptySprite
	}
	return &Sprite{kind: SpriteKindCentered, img: img, region: img.Bounds()}
}

// NewProxySprite creates a sprite that forwards every call to the sprite
// src currently resolves to.
func NewProxySprite(src SpriteSource) *Sprite {
	if src == nil {
		return EmptySprite
	}
	return &Sprite{kind: SpriteKindProxy, source: src}
}

// NewRotatedSprite creates a sprite that always draws s rotated by an extra
// angle (degrees), however it is called.
func NewRotatedSprite(s *Sprite, angle float64) *Sprite {
	return &Sprite{kind: SpriteKindRotated, target: s, angle: angle}
}

// Kind returns the sprite variant.
func (s *Sprite) Kind() SpriteKind {
	if s == nil {
		return SpriteKindEmpty
	}
	return s.kind
}

// Image returns the backing image of a bitmap sprite, or nil.
func (s *Sprite) Image() *ebiten.Image {
	if s == nil {
		return nil
	}
	return s.img
}

// Region returns the image region a bitmap sprite covers.
func (s *Sprite) Region() image.Rectangle {
	if s == nil {
		return image.Rectangle{}
	}
	return s.region
}

func (s *Sprite) resolve() *Sprite {
	if r := s.source.CurrentSprite(); r != nil {
		return r
	}
	return EmptySprite
}

// Width returns the sprite width in pixels.
func (s *Sprite) Width() int {
	if s == nil {
		return 0
	}
	switch s.kind {
	case SpriteKindBitmap, SpriteKindCentered:
		return s.region.Dx()
	case SpriteKindProxy:
		if sz, ok := s.source.(sizer); ok {
			return sz.Width()
		}
		return s.resolve().Width()
	case SpriteKindRotated:
		return s.target.Width()
	case SpriteKindBatch:
		return s.batch.base.Width()
	}
	return 0
}

// Height returns the sprite height in pixels.
func (s *Sprite) Height() int {
	if s == nil {
		return 0
	}
	switch s.kind {
	case SpriteKindBitmap, SpriteKindCentered:
		return s.region.Dy()
	case SpriteKindProxy:
		if sz, ok := s.source.(sizer); ok {
			return sz.Height()
		}
		return s.resolve().Height()
	case SpriteKindRotated:
		return s.target.Height()
	case SpriteKindBatch:
		return s.batch.base.Height()
	}
	return 0
}

// Bounds returns the sprite size as a rectangle at the origin.
func (s *Sprite) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width(), s.Height())
}

// Render draws the src rectangle of the sprite (in sprite-local pixels)
// stretched into the dst rectangle of surf.
func (s *Sprite) Render(surf Surface, dst, src image.Rectangle) {
	if s == nil {
		return
	}
	switch s.kind {
	case SpriteKindBitmap:
		surf.DrawImage(s.img, dst, src.Add(s.region.Min))
	case SpriteKindCentered:
		half := image.Pt(s.region.Dx()/2, s.region.Dy()/2)
		surf.DrawImage(s.img, dst.Sub(half), src.Add(s.region.Min))
	case SpriteKindProxy:
		s.resolve().Render(surf, dst, src)
	case SpriteKindRotated:
		sw, sh := absInt(src.Dx()), absInt(src.Dy())
		if sw == 0 || sh == 0 {
			return
		}
		xs := float64(absInt(dst.Dx())) / float64(sw)
		ys := float64(absInt(dst.Dy())) / float64(sh)
		s.DrawRotatedScaled(surf, dst.Min.X, dst.Min.Y, 0, xs, ys)
	case SpriteKindBatch:
		s.batch.render(surf, dst, src)
	}
}

// RenderRotated draws the whole sprite translated to (x, y), scaled by
// (xScale, yScale) and rotated by angle degrees around (pivotX, pivotY) in
// the sprite's local coordinates.
func (s *Sprite) RenderRotated(surf Surface, x, y int, angle, xScale, yScale, pivotX, pivotY float64) {
	if s == nil {
		return
	}
	switch s.kind {
	case SpriteKindBitmap:
		geom := rotationGeoM(float64(x), float64(y), angle, xScale, yScale, pivotX, pivotY)
		surf.DrawImageTransformed(s.img, s.region, geom)
	case SpriteKindCentered:
		// Centered sprites ignore the caller's scale and pivot and spin
		// around their middle.
		cx, cy := x-s.region.Dx()/2, y-s.region.Dy()/2
		geom := rotationGeoM(float64(cx), float64(cy), angle, 1, 1,
			float64(s.region.Dx())/2, float64(s.region.Dy())/2)
		surf.DrawImageTransformed(s.img, s.region, geom)
	case SpriteKindProxy:
		s.resolve().RenderRotated(surf, x, y, angle, xScale, yScale, pivotX, pivotY)
	case SpriteKindRotated:
		s.target.RenderRotated(surf, x, y, angle+s.angle, xScale, yScale, pivotX, pivotY)
	case SpriteKindBatch:
		s.batch.renderRotated(surf, x, y, angle, xScale, yScale, pivotX, pivotY)
	}
}

// Draw draws the sprite at its natural size with its top-left corner at (x, y).
func (s *Sprite) Draw(surf Surface, x, y int) {
	s.DrawSized(surf, x, y, s.Width(), s.Height())
}

// DrawSized draws the whole sprite stretched into a w×h rectangle at (x, y).
func (s *Sprite) DrawSized(surf Surface, x, y, w, h int) {
	s.Render(surf, image.Rect(x, y, x+w, y+h), s.Bounds())
}

// DrawScaled draws the sprite at an integer multiple of its natural size.
func (s *Sprite) DrawScaled(surf Surface, x, y, scale int) {
	s.DrawSized(surf, x, y, scale*s.Width(), scale*s.Height())
}

// DrawRotated draws the sprite rotated around its center.
func (s *Sprite) DrawRotated(surf Surface, x, y int, angle float64) {
	s.DrawRotatedScaled(surf, x, y, angle, 1, 1)
}

// DrawRotatedScaled draws the sprite scaled and rotated around its center.
func (s *Sprite) DrawRotatedScaled(surf Surface, x, y int, angle, xScale, yScale float64) {
	s.RenderRotated(surf, x, y, angle, xScale, yScale, float64(s.Width())/2, float64(s.Height())/2)
}

// DrawRotatedPivot draws the sprite unscaled, rotated around (pivotX, pivotY).
func (s *Sprite) DrawRotatedPivot(surf Surface, x, y int, angle, pivotX, pivotY float64) {
	s.RenderRotated(surf, x, y, angle, 1, 1, pivotX, pivotY)
}

// rotationGeoM builds translate(x, y) · scale · rotate-about-pivot, the
// order the transforms apply to a point read right to left.
func rotationGeoM(x, y, angle, xScale, yScale, pivotX, pivotY float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-pivotX, -pivotY)
	g.Rotate(angle * math.Pi / 180)
	g.Translate(pivotX, pivotY)
	g.Scale(xScale, yScale)
	g.Translate(x, y)
	return g
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Flip rasterizes s into a new bitmap sprite mirrored horizontally and/or
// vertically.
func Flip(s *Sprite, horizontal, vertical bool) *Sprite {
	w, h := s.Width(), s.Height()
	if w <= 0 || h <= 0 {
		return EmptySprite
	}
	dst := image.Rect(0, 0, w, h)
	if horizontal {
		dst.Min.X, dst.Max.X = w, 0
	}
	if vertical {
		dst.Min.Y, dst.Max.Y = h, 0
	}
	layer := NewOffscreenSurface(w, h)
	s.Render(layer, dst, s.Bounds())
	return NewSprite(layer.Image())
}

// Scaled rasterizes s at n times its natural size into a new bitmap sprite.
func Scaled(s *Sprite, n int) *Sprite {
	w, h := s.Width()*n, s.Height()*n
	if w <= 0 || h <= 0 {
		return EmptySprite
	}
	layer := NewOffscreenSurface(w, h)
	s.DrawScaled(layer, 0, 0, n)
	return NewSprite(layer.Image())
}
