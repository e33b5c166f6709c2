package components

import (
	"github.com/automoto/tiledworld/assets"
	"github.com/yohamta/donburi"
)

// PlacedTile is one materialized tile: grid position, the texture index to
// draw, and the flip flags carried over from the source document.
type PlacedTile struct {
	X, Y         int
	TextureIndex uint32
	FlipH        bool
	FlipV        bool
	FlipD        bool
}

// TileStorage is a dense grid of placed tiles in render orientation: (0,0)
// is the bottom-left cell, Y grows upward. OriginX/OriginY record the shift
// applied to bring a chunked layer's minimum chunk to the grid origin, in
// tiles; zero for finite layers. The shift is recorded for callers, the grid
// itself is already rebased.
type TileStorage struct {
	Width, Height    int
	OriginX, OriginY int
	Count            int
	Tiles            []*PlacedTile
}

// NewTileStorage builds an empty grid of the given dimensions.
func NewTileStorage(width, height int) *TileStorage {
	return &TileStorage{
		Width:  width,
		Height: height,
		Tiles:  make([]*PlacedTile, width*height),
	}
}

// Set places a tile at grid coordinates (x, y). Out-of-bounds writes are
// dropped.
func (s *TileStorage) Set(x, y int, t *PlacedTile) {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return
	}
	if s.Tiles[y*s.Width+x] == nil && t != nil {
		s.Count++
	}
	s.Tiles[y*s.Width+x] = t
}

// At returns the tile at grid coordinates (x, y), nil for empty cells and
// out-of-bounds reads.
func (s *TileStorage) At(x, y int) *PlacedTile {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return nil
	}
	return s.Tiles[y*s.Width+x]
}

// Each visits every placed tile in row-major order, bottom row first.
func (s *TileStorage) Each(fn func(t *PlacedTile)) {
	for _, t := range s.Tiles {
		if t != nil {
			fn(t)
		}
	}
}

// TileLayerData is one (tileset, layer) slice of a spawned map: the tiles of
// one source layer that belong to one tileset, with the binding to draw them.
type TileLayerData struct {
	Name         string
	LayerIndex   int
	TilesetIndex int

	Storage *TileStorage
	Binding *assets.TilesetBinding

	// Grid cell size in pixels, from the owning document.
	TileWidth, TileHeight int

	// Z orders layer entities during rendering, lowest first.
	Z float64
}

var TileLayer = donburi.NewComponentType[TileLayerData]()
