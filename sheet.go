package lightbringer

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrInvalidTileSize is returned when a sprite sheet is sliced with a
// non-positive tile width or height.
var ErrInvalidTileSize = errors.New("lightbringer: invalid tile size")

// SpriteSheet is an image sliced into a grid of equally sized bitmap
// sprites. Pixels past the last whole column or row are ignored.
type SpriteSheet struct {
	tiles        []*Sprite
	columns      int
	rows         int
	tileW, tileH int
}

// EmptySpriteSheet has no tiles. Catalog lookups that miss return it.
var EmptySpriteSheet = &SpriteSheet{}

// NewSpriteSheet slices img into tileW×tileH sprites. Tile i sits at column
// i%Columns() and row i/Columns().
func NewSpriteSheet(img *ebiten.Image, tileW, tileH int) (*SpriteSheet, error) {
	if tileW <= 0 || tileH <= 0 {
		return nil, fmt.Errorf("lightbringer: sprite sheet %dx%d: %w", tileW, tileH, ErrInvalidTileSize)
	}
	if img == nil {
		return nil, errors.New("lightbringer: sprite sheet: nil image")
	}
	b := img.Bounds()
	cols := b.Dx() / tileW
	rows := b.Dy() / tileH
	ss := &SpriteSheet{
		tiles:   make([]*Sprite, cols*rows),
		columns: cols,
		rows:    rows,
		tileW:   tileW,
		tileH:   tileH,
	}
	for x := 0; x+tileW <= b.Dx(); x += tileW {
		for y := 0; y+tileH <= b.Dy(); y += tileH {
			r := image.Rect(x, y, x+tileW, y+tileH).Add(b.Min)
			ss.tiles[x/tileW+(y/tileH)*cols] = &Sprite{kind: SpriteKindBitmap, img: img, region: r}
		}
	}
	return ss, nil
}

// Sprite returns tile i. The second result is false when i is out of range.
func (ss *SpriteSheet) Sprite(i int) (*Sprite, bool) {
	if ss == nil || i < 0 || i >= len(ss.tiles) {
		return EmptySprite, false
	}
	return ss.tiles[i], true
}

// At returns the tile at the given column and row, or EmptySprite.
func (ss *SpriteSheet) At(col, row int) *Sprite {
	if ss == nil || col < 0 || col >= ss.columns || row < 0 || row >= ss.rows {
		return EmptySprite
	}
	return ss.tiles[col+row*ss.columns]
}

// All returns every tile in index order. The slice is a copy.
func (ss *SpriteSheet) All() []*Sprite {
	if ss == nil {
		return nil
	}
	out := make([]*Sprite, len(ss.tiles))
	copy(out, ss.tiles)
	return out
}

// Range returns tiles [from, to) clipped to the sheet, for building
// animations out of a row of frames.
func (ss *SpriteSheet) Range(from, to int) []*Sprite {
	if ss == nil {
		return nil
	}
	from = max(from, 0)
	to = min(to, len(ss.tiles))
	if from >= to {
		return nil
	}
	out := make([]*Sprite, to-from)
	copy(out, ss.tiles[from:to])
	return out
}

func (ss *SpriteSheet) Columns() int { return ss.columns }
func (ss *SpriteSheet) Rows() int    { return ss.rows }
func (ss *SpriteSheet) Len() int     { return len(ss.tiles) }

// TileSize returns the tile width and height in pixels.
func (ss *SpriteSheet) TileSize() (int, int) {
	return ss.tileW, ss.tileH
}
