package lightbringer

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
)

// Atlas is a TexturePacker sprite atlas: named regions over one or more
// page images.
type Atlas struct {
	pages     []*ebiten.Image
	pageNames []string
	regions   map[string]atlasRegion
}

type atlasRegion struct {
	page int
	rect image.Rectangle
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// ParseAtlas parses TexturePacker JSON. Both the hash format (a single
// "frames" object, page named by meta.image) and the array format
// ("textures" with per-page frames) are accepted. Frames stored rotated are
// rejected. Pages are attached later with SetPages.
func ParseAtlas(data []byte) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage   `json:"frames"`
		Textures []jsonTexturePage `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("lightbringer: parse atlas: %w", err)
	}

	var pages []jsonTexturePage
	switch {
	case probe.Textures != nil:
		pages = probe.Textures
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("lightbringer: parse atlas frames: %w", err)
		}
		pages = []jsonTexturePage{{Image: probe.Meta.Image, Frames: frames}}
	default:
		return nil, errors.New("lightbringer: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	a := &Atlas{regions: make(map[string]atlasRegion)}
	for i, p := range pages {
		a.pageNames = append(a.pageNames, p.Image)
		for name, f := range p.Frames {
			if f.Rotated {
				return nil, fmt.Errorf("lightbringer: atlas frame %q: rotated frames are not supported", name)
			}
			r := f.Frame
			a.regions[name] = atlasRegion{page: i, rect: image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)}
		}
	}
	return a, nil
}

// LoadAtlas reads the atlas JSON at name in fsys and loads its page images,
// which are resolved relative to the JSON file.
func LoadAtlas(fsys fs.FS, name string) (*Atlas, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("lightbringer: read atlas %s: %w", name, err)
	}
	a, err := ParseAtlas(data)
	if err != nil {
		return nil, err
	}
	dir := path.Dir(name)
	pages := make([]*ebiten.Image, len(a.pageNames))
	for i, p := range a.pageNames {
		if p == "" {
			return nil, fmt.Errorf("lightbringer: atlas %s: page %d has no image", name, i)
		}
		img, err := LoadImage(fsys, path.Join(dir, p))
		if err != nil {
			return nil, fmt.Errorf("lightbringer: atlas %s: %w", name, err)
		}
		pages[i] = img
	}
	a.SetPages(pages)
	return a, nil
}

// SetPages attaches the page images, in the order the JSON lists them.
func (a *Atlas) SetPages(pages []*ebiten.Image) {
	a.pages = pages
}

// PageNames returns the page image file names from the JSON.
func (a *Atlas) PageNames() []string {
	return append([]string(nil), a.pageNames...)
}

// Names returns the region names, sorted.
func (a *Atlas) Names() []string {
	return sortedKeys(a.regions)
}

// Sprite returns the region called name as a bitmap sprite. It returns
// EmptySprite and false when the region or its page is missing.
func (a *Atlas) Sprite(name string) (*Sprite, bool) {
	r, ok := a.regions[name]
	if !ok || r.page >= len(a.pages) || a.pages[r.page] == nil {
		return EmptySprite, false
	}
	return NewSpriteRegion(a.pages[r.page], r.rect), true
}
