package lightbringer

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Surface is a draw target. Sprites, batches and fonts only ever talk to a
// Surface, never to the window, so they can render into the back buffer, an
// offscreen layer, or a recording surface in tests.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// DrawImage stretches the src sub-rectangle of img into dst. Rectangles
	// are taken as given (Min is the first corner, Max the second), so a dst
	// with Max < Min flips the image.
	DrawImage(img *ebiten.Image, dst, src image.Rectangle)

	// DrawImageTransformed draws the src sub-rectangle of img with the
	// given transform applied to its local coordinates.
	DrawImageTransformed(img *ebiten.Image, src image.Rectangle, geom ebiten.GeoM)

	// Fill paints r with c using the given blend mode.
	Fill(r image.Rectangle, c Color, blend BlendMode)

	// NewLayer allocates a transparent offscreen surface.
	NewLayer(width, height int) Layer
}

// Layer is an offscreen Surface whose pixels can be drawn back onto another
// surface through Image.
type Layer interface {
	Surface
	Image() *ebiten.Image
	Dispose()
}

// ImageSurface is a Surface backed by an *ebiten.Image. The engine's back
// buffer, font recolor layers and cached message sprites all use it.
type ImageSurface struct {
	image *ebiten.Image
	w, h  int
}

// NewImageSurface wraps an existing image.
func NewImageSurface(img *ebiten.Image) *ImageSurface {
	b := img.Bounds()
	return &ImageSurface{image: img, w: b.Dx(), h: b.Dy()}
}

// NewOffscreenSurface creates a transparent offscreen surface of the given size.
func NewOffscreenSurface(w, h int) *ImageSurface {
	return &ImageSurface{
		image: ebiten.NewImage(w, h),
		w:     w,
		h:     h,
	}
}

// Image returns the underlying *ebiten.Image for direct manipulation.
func (s *ImageSurface) Image() *ebiten.Image {
	return s.image
}

// Size returns the surface size in pixels.
func (s *ImageSurface) Size() (int, int) {
	return s.w, s.h
}

// Clear fills the surface with transparent black.
func (s *ImageSurface) Clear() {
	s.image.Clear()
}

// DrawImage implements Surface.
func (s *ImageSurface) DrawImage(img *ebiten.Image, dst, src image.Rectangle) {
	sw, sh := src.Dx(), src.Dy()
	if img == nil || sw == 0 || sh == 0 {
		return
	}
	canon := src.Canon()
	sub := img.SubImage(canon).(*ebiten.Image)

	// The first src corner lands on the first dst corner; negative extents
	// on either side mirror the image.
	sx := float64(dst.Dx()) / float64(sw)
	sy := float64(dst.Dy()) / float64(sh)
	ax := float64(src.Min.X - canon.Min.X)
	ay := float64(src.Min.Y - canon.Min.Y)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(sx, sy)
	op.GeoM.Translate(float64(dst.Min.X)-ax*sx, float64(dst.Min.Y)-ay*sy)
	s.image.DrawImage(sub, &op)
}

// DrawImageTransformed implements Surface.
func (s *ImageSurface) DrawImageTransformed(img *ebiten.Image, src image.Rectangle, geom ebiten.GeoM) {
	if img == nil || src.Empty() {
		return
	}
	sub := img.SubImage(src).(*ebiten.Image)
	var op ebiten.DrawImageOptions
	op.GeoM = geom
	op.Filter = ebiten.FilterLinear
	s.image.DrawImage(sub, &op)
}

// Fill implements Surface by stretching WhitePixel over r.
func (s *ImageSurface) Fill(r image.Rectangle, c Color, blend BlendMode) {
	r = r.Canon()
	if r.Empty() {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	op.Blend = blend.EbitenBlend()
	s.image.DrawImage(WhitePixel, &op)
}

// NewLayer implements Surface.
func (s *ImageSurface) NewLayer(w, h int) Layer {
	return NewOffscreenSurface(w, h)
}

// Dispose deallocates the underlying image. The surface should not be used
// after calling Dispose.
func (s *ImageSurface) Dispose() {
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}
