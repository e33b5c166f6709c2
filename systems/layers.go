package systems

import (
	"github.com/automoto/tiledworld/assets"
	"github.com/automoto/tiledworld/components"
)

// The materializers convert one (layer, tileset) pair into a dense tile
// grid. A layer referencing tiles from several tilesets is materialized once
// per tileset; cells belonging to other tilesets are skipped, so the grids
// overlay without duplication. Both algorithms are pure functions of the
// document data and always recompute the full grid.

// MaterializeFinite builds the tile grid for a finite layer. The document's
// rows run top to bottom; the render grid runs bottom to top, so document
// row y lands on storage row height-1-y.
func MaterializeFinite(layer *assets.LayerInfo, tilesetIndex int, binding *assets.TilesetBinding) *components.TileStorage {
	grid := layer.Finite
	if grid == nil {
		return nil
	}
	storage := components.NewTileStorage(grid.Width, grid.Height)
	for y := 0; y < grid.Height; y++ {
		mappedY := grid.Height - 1 - y
		for x := 0; x < grid.Width; x++ {
			tile := grid.At(x, y)
			if tile.Nil || tile.TilesetIndex != tilesetIndex {
				continue
			}
			storage.Set(x, mappedY, &components.PlacedTile{
				X:            x,
				Y:            mappedY,
				TextureIndex: binding.TextureIndex(tile.ID),
				FlipH:        tile.FlipH,
				FlipV:        tile.FlipV,
				FlipD:        tile.FlipD,
			})
		}
	}
	return storage
}

// MaterializeInfinite builds the tile grid for a chunked layer. Chunk
// coordinates are signed; the grid size is derived from the chunk extent and
// every chunk is shifted so the minimum lands on (0,0). The negated
// pre-shift minimum is recorded on the storage as the origin offset for
// callers; the materializer itself never reads it back. The vertical
// inversion uses the computed grid height, since a chunked document declares
// no height of its own.
func MaterializeInfinite(layer *assets.LayerInfo, tilesetIndex int, binding *assets.TilesetBinding) *components.TileStorage {
	if len(layer.Chunks) == 0 {
		return nil
	}

	first := layer.Chunks[0]
	chunkW, chunkH := first.Width, first.Height
	minCX, minCY := first.X, first.Y
	maxCX, maxCY := first.X, first.Y
	for _, c := range layer.Chunks[1:] {
		minCX = min(minCX, c.X)
		minCY = min(minCY, c.Y)
		maxCX = max(maxCX, c.X)
		maxCY = max(maxCY, c.Y)
	}

	width := (maxCX - minCX + 1) * chunkW
	height := (maxCY - minCY + 1) * chunkH
	storage := components.NewTileStorage(width, height)
	storage.OriginX = -minCX * chunkW
	storage.OriginY = -minCY * chunkH

	for _, c := range layer.Chunks {
		baseX := (c.X - minCX) * chunkW
		baseY := (c.Y - minCY) * chunkH
		for ly := 0; ly < c.Height; ly++ {
			mappedY := height - 1 - (baseY + ly)
			for lx := 0; lx < c.Width; lx++ {
				tile := c.At(lx, ly)
				if tile.Nil || tile.TilesetIndex != tilesetIndex {
					continue
				}
				storage.Set(baseX+lx, mappedY, &components.PlacedTile{
					X:            baseX + lx,
					Y:            mappedY,
					TextureIndex: binding.TextureIndex(tile.ID),
					FlipH:        tile.FlipH,
					FlipV:        tile.FlipV,
					FlipD:        tile.FlipD,
				})
			}
		}
	}
	return storage
}

// Materialize dispatches on the layer's storage form.
func Materialize(doc *assets.MapDocument, layer *assets.LayerInfo, tilesetIndex int, binding *assets.TilesetBinding) *components.TileStorage {
	if doc.Infinite {
		return MaterializeInfinite(layer, tilesetIndex, binding)
	}
	return MaterializeFinite(layer, tilesetIndex, binding)
}
