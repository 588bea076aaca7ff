// Package lightbringer is a small 2D game skeleton on top of [Ebitengine].
//
// It provides a fixed-timestep game loop, a sprite model with sheets,
// batches and animations, a bitmap font, named input keys with callbacks,
// and a sound handler that mixes categorized clips on background workers.
//
// # Quick start
//
// Load a [RunConfig], build an [Engine] and hand it a [Game]:
//
//	cfg, err := lightbringer.LoadConfig("")
//	if err != nil {
//		log.Fatal(err)
//	}
//	e, err := lightbringer.NewEngine(cfg, lightbringer.Options{
//		Assets: os.DirFS("assets"),
//		Audio:  lightbringer.NewEbitenAudio(44100),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := lightbringer.Run(e, myGame); err != nil {
//		log.Fatal(err)
//	}
//
// A Game implements Tick, called once per fixed step, and Draw, called
// after one or more ticks with the back buffer as a [Surface]. Games that
// also implement [Loader] get a Load call before the first tick.
//
// # Loop
//
// [Loop] runs tick at a fixed rate and renders at most once per batch of
// ticks. When it falls behind by more than the configured backlog the
// excess ticks are dropped with a warning. [Engine.RunHeadless] drives the
// same loop without a window, which is how the tests run it.
//
// # Sprites
//
// A [Sprite] is an image region, a centered image, a proxy that resolves
// through a [SpriteSource], a rotated wrapper, a [SpriteBatch] or nothing
// ([EmptySprite]). [SpriteSheet] slices a grid image into sprites and
// [Animation] steps through frames by tick count.
//
// # Assets
//
// The [Catalog] holds named sprites, sheets and sounds. It is filled from a
// YAML manifest read through an [io/fs.FS]. Lookups of missing names log a
// warning and return blanks rather than failing.
//
// # Sound
//
// [SoundHandler] plays [SoundData] by name through an [AudioDevice]. Each
// [SoundType] has its own volume; level sounds can be paused, resumed and
// stopped as a group.
//
// [Ebitengine]: https://ebitengine.org
package lightbringer
