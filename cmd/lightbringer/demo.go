package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/math/f64"

	"github.com/phanxgames/lightbringer"
)

var red = lightbringer.RGBA(255, 0, 0, 255)

// demo is the sample scene: the "test" sprite drawn
// plainly and rotated in the middle of the screen, a label, and a red box
// that rotates the sprite when clicked.
type demo struct {
	angle int
	// scale pulses between two sizes.
	scale f64.Vec2
	pivot f64.Vec2
	box   image.Rectangle

	test    *lightbringer.Sprite
	label   *lightbringer.Sprite
	badge   *lightbringer.SpriteBatch
	spinner *lightbringer.Animation

	testKey *lightbringer.Key
	exitKey *lightbringer.Key
}

func newDemo() *demo {
	return &demo{
		angle: 92,
		scale: f64.Vec2{1.2, 1.6},
		pivot: f64.Vec2{15, 16},
		box:   image.Rect(101, 201, 200, 400),
	}
}

func (d *demo) Load(e *lightbringer.Engine) error {
	d.test = e.Catalog.Sprite("test")
	if d.test.Kind() == lightbringer.SpriteKindEmpty {
		d.test = lightbringer.NewSprite(checker(32, color.RGBA{0x30, 0x60, 0xc0, 0xff}))
	}
	d.label = lightbringer.EmptySprite
	if e.Font != nil {
		d.label = e.Font.CreateMessage("A little example")
	}

	frames := e.Catalog.SpriteSheet("spinner").All()
	if len(frames) == 0 {
		for _, c := range []color.RGBA{{0xff, 0, 0, 0xff}, {0, 0xff, 0, 0xff}, {0, 0, 0xff, 0xff}} {
			frames = append(frames, lightbringer.NewSprite(checker(8, c)))
		}
	}
	spinner, err := lightbringer.NewAnimation(frames, lightbringer.AnimationConfig{
		TicksPerFrame: 8,
		Loop:          true,
		LoopDelay:     30,
		AutoStart:     true,
	})
	if err != nil {
		return err
	}
	d.spinner = spinner
	e.Animate(spinner)

	d.badge = lightbringer.NewSpriteBatch(d.test)
	d.badge.AddSpriteAt(spinner.AsSprite(), 4, 4)

	pulse := lightbringer.TweenPoint(&d.scale[0], &d.scale[1], 1.4, 1.8, 0.75, ease.InOutSine)
	pulse.Yoyo = true
	e.AddTween(pulse)

	d.testKey = e.Input.Key("test")
	if d.testKey == nil {
		d.testKey = e.Input.NewKey("test", ebiten.KeyA, ebiten.KeySpace)
	}
	d.exitKey = e.Input.Key("exit")
	if d.exitKey == nil {
		d.exitKey = e.Input.NewKey("exit", ebiten.KeyEscape)
	}

	return e.Sounds.PlayLoop("win", 0, false)
}

func (d *demo) Tick(e *lightbringer.Engine) error {
	if e.Input.MouseClicked(lightbringer.MouseButtonLeft) {
		x, y := e.Input.CursorPosition()
		if image.Pt(x, y).In(d.box) {
			d.angle = (d.angle + 15) % 360
		}
	}
	// Clicked holds for one tick per press.
	if d.testKey.Clicked() {
		d.angle = (d.angle - 12) % 360
	}
	if d.exitKey.Pressed() {
		e.Stop()
	}
	return nil
}

func (d *demo) Draw(e *lightbringer.Engine, s lightbringer.Surface) {
	w, h := s.Size()
	d.badge.Sprite().Draw(s, 0, 0)
	d.test.RenderRotated(s, w/2, h/2, float64(d.angle), d.scale[0], d.scale[1], d.pivot[0], d.pivot[1])
	d.label.Draw(s, 200, h-100)
	strokeRect(s, d.box.Inset(-1), red)
}

// strokeRect draws a 1px outline just inside r.
func strokeRect(s lightbringer.Surface, r image.Rectangle, c lightbringer.Color) {
	s.Fill(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c, lightbringer.BlendNormal)
	s.Fill(image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c, lightbringer.BlendNormal)
	s.Fill(image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c, lightbringer.BlendNormal)
	s.Fill(image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c, lightbringer.BlendNormal)
}

// checker builds a two-tone placeholder image for assets that are missing.
func checker(size int, c color.RGBA) *ebiten.Image {
	img := ebiten.NewImage(size, size)
	img.Fill(c)
	half := size / 2
	light := color.RGBA{0xff, 0xff, 0xff, 0xff}
	img.SubImage(image.Rect(0, 0, half, half)).(*ebiten.Image).Fill(light)
	img.SubImage(image.Rect(half, half, size, size)).(*ebiten.Image).Fill(light)
	return img
}
