package lightbringer

import (
	"errors"
	"fmt"
	_ "image/png"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"gopkg.in/yaml.v3"
)

// Default tile size for manifest sheets that do not give one.
const (
	DefaultTileWidth  = 32
	DefaultTileHeight = 32
)

// Catalog holds the named sprites and sprite sheets of a game, and looks
// sounds up in its SoundHandler. Lookups never fail: missing names log a
// warning and return EmptySprite or EmptySpriteSheet, so a missing asset
// shows up as blank space.
type Catalog struct {
	sprites map[string]*Sprite
	sheets  map[string]*SpriteSheet
	sounds  *SoundHandler
}

// NewCatalog creates an empty catalog. sounds may be nil.
func NewCatalog(sounds *SoundHandler) *Catalog {
	return &Catalog{
		sprites: make(map[string]*Sprite),
		sheets:  make(map[string]*SpriteSheet),
		sounds:  sounds,
	}
}

// AddSprite registers s under name.
func (c *Catalog) AddSprite(name string, s *Sprite) {
	if _, ok := c.sprites[name]; ok {
		logger.Warn("sprite overwritten", "name", name)
	}
	c.sprites[name] = s
}

// AddSpriteSheet registers ss under name.
func (c *Catalog) AddSpriteSheet(name string, ss *SpriteSheet) {
	if _, ok := c.sheets[name]; ok {
		logger.Warn("sprite sheet overwritten", "name", name)
	}
	c.sheets[name] = ss
}

// AddAtlas registers every region of a as a sprite named
// "<name>/<region>".
func (c *Catalog) AddAtlas(name string, a *Atlas) {
	for _, r := range a.Names() {
		if s, ok := a.Sprite(r); ok {
			c.AddSprite(name+"/"+r, s)
		}
	}
}

// HasSprite reports whether name is registered.
func (c *Catalog) HasSprite(name string) bool {
	_, ok := c.sprites[name]
	return ok
}

// Sprite returns the sprite registered under name, or EmptySprite.
func (c *Catalog) Sprite(name string) *Sprite {
	if s, ok := c.sprites[name]; ok {
		return s
	}
	logger.Warn("could not find sprite", "name", name)
	return EmptySprite
}

// SpriteSheet returns the sheet registered under name, or EmptySpriteSheet.
func (c *Catalog) SpriteSheet(name string) *SpriteSheet {
	if ss, ok := c.sheets[name]; ok {
		return ss
	}
	logger.Warn("could not find sprite sheet", "name", name)
	return EmptySpriteSheet
}

// Sound returns the sound registered under name with the SoundHandler.
func (c *Catalog) Sound(name string) (*SoundData, bool) {
	if c.sounds == nil {
		return nil, false
	}
	return c.sounds.Sound(name)
}

// SpriteNames returns the registered sprite names, sorted.
func (c *Catalog) SpriteNames() []string {
	names := make([]string, 0, len(c.sprites))
	for n := range c.sprites {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// --- Manifest ---

// Manifest lists the assets of a game. Paths are relative to the manifest.
//
//	sprites:
//	  test: images/test.png
//	sheets:
//	  font: {path: images/font.png, tile: 16x16}
//	atlases:
//	  ui: images/ui.json
//	sounds:
//	  win: {path: sounds/win.wav, type: sfx}
//
// Every region of an atlas is registered as a sprite named
// "<atlas>/<region>".
type Manifest struct {
	Sprites map[string]string        `yaml:"sprites"`
	Sheets  map[string]ManifestSheet `yaml:"sheets"`
	Atlases map[string]string        `yaml:"atlases"`
	Sounds  map[string]ManifestSound `yaml:"sounds"`
}

// ManifestSheet is a sprite sheet entry. Tile is "WxH".
type ManifestSheet struct {
	Path string `yaml:"path"`
	Tile string `yaml:"tile"`
}

// ManifestSound is a sound entry. Type is a sound category name and
// defaults to sfx.
type ManifestSound struct {
	Path string `yaml:"path"`
	Type string `yaml:"type"`
}

// LoadManifest reads the manifest at name in fsys and loads every asset it
// lists. Assets that fail to load are skipped and logged; their errors are
// joined into the returned error while the rest stay registered. Only an
// unreadable manifest leaves the catalog untouched.
func (c *Catalog) LoadManifest(fsys fs.FS, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("lightbringer: read manifest %s: %w", name, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("lightbringer: parse manifest %s: %w", name, err)
	}
	dir := path.Dir(name)

	var errs []error
	fail := func(kind, asset string, err error) {
		logger.Warn("could not load asset", "kind", kind, "name", asset, "err", err)
		errs = append(errs, fmt.Errorf("lightbringer: %s %q: %w", kind, asset, err))
	}

	for _, n := range sortedKeys(m.Sprites) {
		img, err := LoadImage(fsys, path.Join(dir, m.Sprites[n]))
		if err != nil {
			fail("sprite", n, err)
			continue
		}
		c.AddSprite(n, NewSprite(img))
	}

	for _, n := range sortedKeys(m.Sheets) {
		e := m.Sheets[n]
		tw, th, err := parseTileSize(e.Tile)
		if err != nil {
			fail("sheet", n, err)
			continue
		}
		img, err := LoadImage(fsys, path.Join(dir, e.Path))
		if err != nil {
			fail("sheet", n, err)
			continue
		}
		ss, err := NewSpriteSheet(img, tw, th)
		if err != nil {
			fail("sheet", n, err)
			continue
		}
		c.AddSpriteSheet(n, ss)
	}

	for _, n := range sortedKeys(m.Atlases) {
		a, err := LoadAtlas(fsys, path.Join(dir, m.Atlases[n]))
		if err != nil {
			fail("atlas", n, err)
			continue
		}
		c.AddAtlas(n, a)
	}

	for _, n := range sortedKeys(m.Sounds) {
		e := m.Sounds[n]
		typ := SoundSFX
		if e.Type != "" {
			t, ok := ParseSoundType(e.Type)
			if !ok {
				fail("sound", n, fmt.Errorf("unknown sound type %q", e.Type))
				continue
			}
			typ = t
		}
		if c.sounds == nil {
			fail("sound", n, errors.New("no sound handler"))
			continue
		}
		sd, err := loadSound(fsys, path.Join(dir, e.Path), typ)
		if err != nil {
			fail("sound", n, err)
			continue
		}
		c.sounds.AddSound(n, sd)
	}

	return errors.Join(errs...)
}

// LoadImage decodes the PNG at name in fsys into an Ebitengine image.
func LoadImage(fsys fs.FS, name string) (*ebiten.Image, error) {
	img, _, err := ebitenutil.NewImageFromFileSystem(fsys, name)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// LoadSpriteSheet loads the image at name and slices it into tiles.
func LoadSpriteSheet(fsys fs.FS, name string, tileW, tileH int) (*SpriteSheet, error) {
	img, err := LoadImage(fsys, name)
	if err != nil {
		return nil, err
	}
	return NewSpriteSheet(img, tileW, tileH)
}

func loadSound(fsys fs.FS, name string, typ SoundType) (*SoundData, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeSound(f, name, typ)
}

// parseTileSize parses "WxH"; empty means the default tile size.
func parseTileSize(s string) (int, int, error) {
	if s == "" {
		return DefaultTileWidth, DefaultTileHeight, nil
	}
	var w, h int
	if _, err := fmt.Sscanf(strings.ToLower(s), "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("tile size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("tile size %q: %w", s, ErrInvalidTileSize)
	}
	return w, h, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
