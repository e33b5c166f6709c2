package systems

import (
	"reflect"
	"testing"

	"github.com/automoto/tiledworld/assets"
)

func atlasBinding(index int) *assets.TilesetBinding {
	return &assets.TilesetBinding{
		Index:               index,
		Texture:             &assets.AtlasBinding{},
		UsableForTilesLayer: true,
	}
}

func finiteLayer(width, height int, tiles []assets.TileData) *assets.LayerInfo {
	return &assets.LayerInfo{
		Kind: assets.LayerTiles,
		Finite: &assets.FiniteTileData{
			Width:  width,
			Height: height,
			Tiles:  tiles,
		},
	}
}

func TestMaterializeFiniteInvertsRows(t *testing.T) {
	// 2x2 layer, a single tile at document (0,0) with id 3 flipped
	// horizontally. It must land on storage row height-1-0 = 1.
	tiles := make([]assets.TileData, 4)
	for i := range tiles {
		tiles[i] = assets.TileData{Nil: true}
	}
	tiles[0] = assets.TileData{ID: 3, FlipH: true}

	storage := MaterializeFinite(finiteLayer(2, 2, tiles), 0, atlasBinding(0))
	if storage.Count != 1 {
		t.Fatalf("expected 1 placed tile, got %d", storage.Count)
	}
	placed := storage.At(0, 1)
	if placed == nil {
		t.Fatalf("expected tile at storage (0,1), grid: %+v", storage.Tiles)
	}
	if placed.TextureIndex != 3 {
		t.Errorf("expected texture index 3, got %d", placed.TextureIndex)
	}
	if !placed.FlipH || placed.FlipV || placed.FlipD {
		t.Errorf("expected flips (h,v,d) = (true,false,false), got (%v,%v,%v)",
			placed.FlipH, placed.FlipV, placed.FlipD)
	}
	if storage.At(0, 0) != nil {
		t.Errorf("expected storage (0,0) empty, got %+v", storage.At(0, 0))
	}
}

func TestMaterializeFiniteRoundTrip(t *testing.T) {
	// Every document row must land on storage row height-1-y, so
	// re-inverting the storage row recovers the document row.
	const width, height = 3, 4
	tiles := make([]assets.TileData, width*height)
	for i := range tiles {
		tiles[i] = assets.TileData{ID: uint32(i)}
	}

	storage := MaterializeFinite(finiteLayer(width, height, tiles), 0, atlasBinding(0))
	if storage.Count != width*height {
		t.Fatalf("expected %d placed tiles, got %d", width*height, storage.Count)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			placed := storage.At(x, height-1-y)
			if placed == nil {
				t.Fatalf("missing tile at storage (%d,%d)", x, height-1-y)
			}
			if want := uint32(y*width + x); placed.TextureIndex != want {
				t.Errorf("document (%d,%d): expected texture index %d, got %d", x, y, want, placed.TextureIndex)
			}
		}
	}
}

func TestMaterializeFiniteFiltersByTileset(t *testing.T) {
	tiles := []assets.TileData{
		{TilesetIndex: 0, ID: 1},
		{TilesetIndex: 1, ID: 2},
		{Nil: true},
		{TilesetIndex: 0, ID: 4},
	}
	layer := finiteLayer(2, 2, tiles)

	first := MaterializeFinite(layer, 0, atlasBinding(0))
	second := MaterializeFinite(layer, 1, atlasBinding(1))
	if first.Count != 2 {
		t.Fatalf("expected tileset 0 to materialize 2 tiles, got %d", first.Count)
	}
	if second.Count != 1 {
		t.Fatalf("expected tileset 1 to materialize 1 tile, got %d", second.Count)
	}
	if second.At(1, 1) == nil {
		t.Fatalf("expected tileset 1 tile at storage (1,1)")
	}
}

func TestMaterializeFiniteIdempotent(t *testing.T) {
	tiles := []assets.TileData{
		{ID: 1, FlipD: true},
		{Nil: true},
		{ID: 2, FlipV: true},
		{ID: 3},
	}
	layer := finiteLayer(2, 2, tiles)

	first := MaterializeFinite(layer, 0, atlasBinding(0))
	second := MaterializeFinite(layer, 0, atlasBinding(0))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical storage from repeated materialization:\n%+v\n%+v", first, second)
	}
}

func TestMaterializeFiniteVectorOffsets(t *testing.T) {
	binding := &assets.TilesetBinding{
		Texture:             &assets.VectorBinding{},
		TileImageOffsets:    map[uint32]uint32{7: 0, 9: 1},
		UsableForTilesLayer: true,
	}
	tiles := []assets.TileData{{ID: 9}}
	storage := MaterializeFinite(finiteLayer(1, 1, tiles), 0, binding)
	if placed := storage.At(0, 0); placed == nil || placed.TextureIndex != 1 {
		t.Fatalf("expected vector offset 1 for tile id 9, got %+v", placed)
	}
}

func TestMaterializeFiniteMissingOffsetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for tile id with no recorded image offset")
		}
	}()
	binding := &assets.TilesetBinding{
		Texture:             &assets.VectorBinding{},
		TileImageOffsets:    map[uint32]uint32{},
		UsableForTilesLayer: true,
	}
	MaterializeFinite(finiteLayer(1, 1, []assets.TileData{{ID: 5}}), 0, binding)
}

func chunkOf(x, y, size int, tiles []assets.TileData) assets.Chunk {
	return assets.Chunk{X: x, Y: y, Width: size, Height: size, Tiles: tiles}
}

func fullChunkTiles(size int, id uint32) []assets.TileData {
	tiles := make([]assets.TileData, size*size)
	for i := range tiles {
		tiles[i] = assets.TileData{ID: id}
	}
	return tiles
}

func TestMaterializeInfiniteDimensions(t *testing.T) {
	const size = 4
	layer := &assets.LayerInfo{
		Kind: assets.LayerTiles,
		Chunks: []assets.Chunk{
			chunkOf(-1, -2, size, fullChunkTiles(size, 1)),
			chunkOf(2, 1, size, fullChunkTiles(size, 2)),
		},
	}
	storage := MaterializeInfinite(layer, 0, atlasBinding(0))
	if storage.Width != (2-(-1)+1)*size || storage.Height != (1-(-2)+1)*size {
		t.Fatalf("expected %dx%d grid, got %dx%d", 4*size, 4*size, storage.Width, storage.Height)
	}
	if storage.OriginX != size || storage.OriginY != 2*size {
		t.Fatalf("expected origin offset (%d,%d), got (%d,%d)", size, 2*size, storage.OriginX, storage.OriginY)
	}
}

func TestMaterializeInfiniteSingleNegativeChunk(t *testing.T) {
	const size = 4
	layer := &assets.LayerInfo{
		Kind:   assets.LayerTiles,
		Chunks: []assets.Chunk{chunkOf(-2, -3, size, fullChunkTiles(size, 1))},
	}
	storage := MaterializeInfinite(layer, 0, atlasBinding(0))
	if storage.Width != size || storage.Height != size {
		t.Fatalf("expected %dx%d grid for a single chunk, got %dx%d", size, size, storage.Width, storage.Height)
	}
	if storage.OriginX != 2*size || storage.OriginY != 3*size {
		t.Fatalf("expected non-zero origin offset (%d,%d), got (%d,%d)",
			2*size, 3*size, storage.OriginX, storage.OriginY)
	}
	if storage.Count != size*size {
		t.Fatalf("expected a full chunk of %d tiles, got %d", size*size, storage.Count)
	}
}

func TestMaterializeInfiniteVerticalInversionUsesComputedHeight(t *testing.T) {
	// One 2x2 chunk at (0,0) with a single tile at chunk-local (1,0): the
	// grid height is 2, so the tile lands on storage row 2-1-0 = 1.
	tiles := []assets.TileData{
		{Nil: true}, {ID: 8},
		{Nil: true}, {Nil: true},
	}
	layer := &assets.LayerInfo{
		Kind:   assets.LayerTiles,
		Chunks: []assets.Chunk{{X: 0, Y: 0, Width: 2, Height: 2, Tiles: tiles}},
	}
	storage := MaterializeInfinite(layer, 0, atlasBinding(0))
	placed := storage.At(1, 1)
	if placed == nil || placed.TextureIndex != 8 {
		t.Fatalf("expected tile id 8 at storage (1,1), got %+v", placed)
	}
}

func TestMaterializeInfiniteIdempotent(t *testing.T) {
	const size = 4
	layer := &assets.LayerInfo{
		Kind: assets.LayerTiles,
		Chunks: []assets.Chunk{
			chunkOf(-1, 0, size, fullChunkTiles(size, 1)),
			chunkOf(0, 0, size, fullChunkTiles(size, 2)),
		},
	}
	first := MaterializeInfinite(layer, 0, atlasBinding(0))
	second := MaterializeInfinite(layer, 0, atlasBinding(0))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical storage from repeated materialization")
	}
}

func TestMaterializeInfiniteNoChunks(t *testing.T) {
	layer := &assets.LayerInfo{Kind: assets.LayerTiles}
	if storage := MaterializeInfinite(layer, 0, atlasBinding(0)); storage != nil {
		t.Fatalf("expected nil storage for a layer without chunks, got %+v", storage)
	}
}
