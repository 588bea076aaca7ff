package lightbringer

import (
	"errors"
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestNewSpriteSheetCounts(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		tw, th       int
		cols, rows   int
		wantLen      int
		wantTileSize image.Point
	}{
		{"exact", 64, 32, 16, 16, 4, 2, 8, image.Pt(16, 16)},
		{"remainder ignored", 70, 35, 16, 16, 4, 2, 8, image.Pt(16, 16)},
		{"single tile", 32, 32, 32, 32, 1, 1, 1, image.Pt(32, 32)},
		{"tile larger than image", 10, 10, 16, 16, 0, 0, 0, image.Pt(16, 16)},
		{"non-square", 30, 40, 10, 20, 3, 2, 6, image.Pt(10, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss, err := NewSpriteSheet(ebiten.NewImage(tt.w, tt.h), tt.tw, tt.th)
			if err != nil {
				t.Fatalf("NewSpriteSheet: %v", err)
			}
			if ss.Columns() != tt.cols || ss.Rows() != tt.rows {
				t.Errorf("grid = %dx%d, want %dx%d", ss.Columns(), ss.Rows(), tt.cols, tt.rows)
			}
			if ss.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", ss.Len(), tt.wantLen)
			}
			if w, h := ss.TileSize(); image.Pt(w, h) != tt.wantTileSize {
				t.Errorf("TileSize() = (%d, %d), want %v", w, h, tt.wantTileSize)
			}
		})
	}
}

func TestSpriteSheetTileRegions(t *testing.T) {
	img := ebiten.NewImage(64, 32)
	ss, err := NewSpriteSheet(img, 16, 16)
	if err != nil {
		t.Fatal(err)
	}

	// Index = column + row*columns.
	tests := []struct {
		index int
		want  image.Rectangle
	}{
		{0, image.Rect(0, 0, 16, 16)},
		{3, image.Rect(48, 0, 64, 16)},
		{4, image.Rect(0, 16, 16, 32)},
		{5, image.Rect(16, 16, 32, 32)},
		{7, image.Rect(48, 16, 64, 32)},
	}
	for _, tt := range tests {
		s, ok := ss.Sprite(tt.index)
		if !ok {
			t.Errorf("Sprite(%d) not found", tt.index)
			continue
		}
		if s.Region() != tt.want {
			t.Errorf("Sprite(%d).Region() = %v, want %v", tt.index, s.Region(), tt.want)
		}
		if s.Image() != img {
			t.Errorf("Sprite(%d) should share the sheet image", tt.index)
		}
	}

	if got := ss.At(1, 1).Region(); got != image.Rect(16, 16, 32, 32) {
		t.Errorf("At(1, 1).Region() = %v", got)
	}
}

func TestSpriteSheetOutOfRange(t *testing.T) {
	ss, err := NewSpriteSheet(ebiten.NewImage(32, 16), 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range []int{-1, 2, 100} {
		s, ok := ss.Sprite(i)
		if ok {
			t.Errorf("Sprite(%d) ok = true, want false", i)
		}
		if s != EmptySprite {
			t.Errorf("Sprite(%d) should return EmptySprite", i)
		}
	}
	if ss.At(2, 0) != EmptySprite || ss.At(0, 1) != EmptySprite || ss.At(-1, 0) != EmptySprite {
		t.Error("At out of range should return EmptySprite")
	}
}

func TestSpriteSheetInvalid(t *testing.T) {
	img := ebiten.NewImage(32, 32)
	for _, size := range [][2]int{{0, 16}, {16, 0}, {-4, 16}} {
		_, err := NewSpriteSheet(img, size[0], size[1])
		if !errors.Is(err, ErrInvalidTileSize) {
			t.Errorf("NewSpriteSheet(%dx%d) err = %v, want ErrInvalidTileSize", size[0], size[1], err)
		}
	}
	if _, err := NewSpriteSheet(nil, 16, 16); err == nil {
		t.Error("NewSpriteSheet(nil) should fail")
	}
}

func TestSpriteSheetAllAndRange(t *testing.T) {
	ss, err := NewSpriteSheet(ebiten.NewImage(64, 16), 16, 16)
	if err != nil {
		t.Fatal(err)
	}

	all := ss.All()
	if len(all) != 4 {
		t.Fatalf("len(All()) = %d, want 4", len(all))
	}
	all[0] = nil
	if s, _ := ss.Sprite(0); s == nil {
		t.Error("All() should return a copy")
	}

	tests := []struct {
		from, to int
		want     int
	}{
		{0, 4, 4},
		{1, 3, 2},
		{-5, 2, 2},
		{2, 99, 2},
		{3, 1, 0},
	}
	for _, tt := range tests {
		if got := len(ss.Range(tt.from, tt.to)); got != tt.want {
			t.Errorf("len(Range(%d, %d)) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestEmptySpriteSheet(t *testing.T) {
	if EmptySpriteSheet.Len() != 0 {
		t.Errorf("Len() = %d, want 0", EmptySpriteSheet.Len())
	}
	if s, ok := EmptySpriteSheet.Sprite(0); ok || s != EmptySprite {
		t.Error("Sprite(0) on an empty sheet should miss")
	}
	if len(EmptySpriteSheet.All()) != 0 {
		t.Error("All() on an empty sheet should be empty")
	}
}
