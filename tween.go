package lightbringer

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 values together. Create one with
// TweenValue, TweenPoint or TweenColor and call Update(dt) each tick, or
// hand it to Engine.AddTween. Values are written back on every update.
//
// With Yoyo set the group runs back and forth forever instead of finishing.
type TweenGroup struct {
	tweens [4]*gween.Tween
	from   [4]float32
	to     [4]float32
	fields [4]*float64
	count  int
	dur    float32
	fn     ease.TweenFunc

	Yoyo bool
	Done bool
}

func newTweenGroup(duration float32, fn ease.TweenFunc, fields []*float64, targets []float64) *TweenGroup {
	g := &TweenGroup{count: len(fields), dur: duration, fn: fn}
	for i, f := range fields {
		g.fields[i] = f
		g.from[i] = float32(*f)
		g.to[i] = float32(targets[i])
		g.tweens[i] = gween.New(g.from[i], g.to[i], duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds and writes the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if !allDone {
		return
	}
	if !g.Yoyo {
		g.Done = true
		return
	}
	for i := 0; i < g.count; i++ {
		g.from[i], g.to[i] = g.to[i], g.from[i]
		g.tweens[i] = gween.New(g.from[i], g.to[i], g.dur, g.fn)
	}
}

// Stop ends the group where it is.
func (g *TweenGroup) Stop() {
	g.Done = true
}

// TweenValue animates *v to the target over duration seconds.
func TweenValue(v *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(duration, fn, []*float64{v}, []float64{to})
}

// TweenPoint animates *x and *y to (toX, toY).
func TweenPoint(x, y *float64, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(duration, fn, []*float64{x, y}, []float64{toX, toY})
}

// TweenColor animates all four components of *c to the target color.
func TweenColor(c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(duration, fn,
		[]*float64{&c.R, &c.G, &c.B, &c.A},
		[]float64{to.R, to.G, to.B, to.A})
}
