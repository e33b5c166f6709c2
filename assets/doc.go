// Package assets provides Tiled map and world loading: the resource
// resolver handed to the TMX parser, map and world asset builders, and the
// handle-based store that owns every loaded asset.
package assets

import (
	"path"

	"github.com/lafriks/go-tiled"
)

// Orientation is the document-level grid orientation flag.
type Orientation int

const (
	Orthogonal Orientation = iota
	Isometric
	Staggered
	Hexagonal
)

func parseOrientation(s string) Orientation {
	switch s {
	case "isometric":
		return Isometric
	case "staggered":
		return Staggered
	case "hexagonal":
		return Hexagonal
	default:
		return Orthogonal
	}
}

// LayerKind tags the layer types the materializer knows about. Anything
// that is not a tile layer is skipped with a log, not an error.
type LayerKind int

const (
	LayerTiles LayerKind = iota
	LayerOther
)

// MapDocument is the normalized form of a parsed map, shared by the finite
// (go-tiled) and infinite (chunked) decode paths. It is owned read-only by
// the MapAsset built from it.
type MapDocument struct {
	Source      string
	Orientation Orientation
	Infinite    bool

	// Declared grid size in tiles. Meaningless for infinite documents,
	// whose bounds are recomputed from chunk extents.
	Width, Height int

	TileWidth, TileHeight int

	Tilesets []*TilesetInfo
	Layers   []*LayerInfo
}

// BaseDir returns the directory relative image and tileset paths resolve
// against: the parent directory of the document itself.
func (d *MapDocument) BaseDir() string {
	return path.Dir(d.Source)
}

// TilesetInfo describes one tileset of a document. Index is the position
// in the document's tileset list and is stable within that document.
type TilesetInfo struct {
	Index    int
	Name     string
	FirstGID uint32

	TileWidth, TileHeight int
	Spacing, Margin       int
	TileCount             int

	// Image is the single shared image, nil for a collection-of-images
	// tileset whose per-tile images live in Tiles.
	Image *ImageRef
	Tiles []TileInfo
}

// ImageRef is a reference to an image file with its declared pixel size.
type ImageRef struct {
	Source string
	Width  int
	Height int
}

// TileInfo carries per-tile metadata of a tileset.
type TileInfo struct {
	ID    uint32
	Image *ImageRef
}

// LayerInfo is one layer of a document. Exactly one of Finite and Chunks
// is populated for a tile layer.
type LayerInfo struct {
	Index   int
	Name    string
	Kind    LayerKind
	OffsetX float64
	OffsetY float64

	Finite *FiniteTileData
	Chunks []Chunk
}

// TileData is one cell of a tile grid.
type TileData struct {
	Nil          bool
	TilesetIndex int
	ID           uint32 // tileset-local tile id
	FlipH        bool
	FlipV        bool
	FlipD        bool
}

// FiniteTileData is a dense row-major grid in document order (origin
// top-left, Y increasing downward).
type FiniteTileData struct {
	Width, Height int
	Tiles         []TileData
}

// At returns the cell at document coordinates (x, y).
func (f *FiniteTileData) At(x, y int) TileData {
	return f.Tiles[y*f.Width+x]
}

// Chunk is one fixed-size block of an infinite layer, addressed by signed
// chunk coordinates (in chunk units, not tiles).
type Chunk struct {
	X, Y          int
	Width, Height int
	Tiles         []TileData // row-major within the chunk
}

// At returns the cell at chunk-local coordinates (x, y).
func (c *Chunk) At(x, y int) TileData {
	return c.Tiles[y*c.Width+x]
}

// DocumentFromTiled converts a go-tiled map into the normalized document
// model. Object groups and image layers are appended as LayerOther entries
// so consumers can log-and-skip them the same way for both decode paths.
func DocumentFromTiled(source string, m *tiled.Map) *MapDocument {
	doc := &MapDocument{
		Source:      source,
		Orientation: parseOrientation(m.Orientation),
		Width:       m.Width,
		Height:      m.Height,
		TileWidth:   m.TileWidth,
		TileHeight:  m.TileHeight,
	}

	for i, ts := range m.Tilesets {
		info := &TilesetInfo{
			Index:      i,
			Name:       ts.Name,
			FirstGID:   ts.FirstGID,
			TileWidth:  ts.TileWidth,
			TileHeight: ts.TileHeight,
			Spacing:    ts.Spacing,
			Margin:     ts.Margin,
			TileCount:  ts.TileCount,
		}
		if ts.Image != nil {
			info.Image = &ImageRef{Source: ts.Image.Source, Width: ts.Image.Width, Height: ts.Image.Height}
		}
		for _, t := range ts.Tiles {
			ti := TileInfo{ID: t.ID}
			if t.Image != nil {
				ti.Image = &ImageRef{Source: t.Image.Source, Width: t.Image.Width, Height: t.Image.Height}
			}
			info.Tiles = append(info.Tiles, ti)
		}
		doc.Tilesets = append(doc.Tilesets, info)
	}

	index := 0
	for _, l := range m.Layers {
		grid := &FiniteTileData{
			Width:  m.Width,
			Height: m.Height,
			Tiles:  make([]TileData, m.Width*m.Height),
		}
		for i, lt := range l.Tiles {
			grid.Tiles[i] = layerTileData(m, lt)
		}
		doc.Layers = append(doc.Layers, &LayerInfo{
			Index:   index,
			Name:    l.Name,
			Kind:    LayerTiles,
			OffsetX: float64(l.OffsetX),
			OffsetY: float64(l.OffsetY),
			Finite:  grid,
		})
		index++
	}
	for _, og := range m.ObjectGroups {
		doc.Layers = append(doc.Layers, &LayerInfo{Index: index, Name: og.Name, Kind: LayerOther})
		index++
	}
	for _, il := range m.ImageLayers {
		doc.Layers = append(doc.Layers, &LayerInfo{Index: index, Name: il.Name, Kind: LayerOther})
		index++
	}

	return doc
}

func layerTileData(m *tiled.Map, lt *tiled.LayerTile) TileData {
	if lt == nil || lt.IsNil() {
		return TileData{Nil: true}
	}
	td := TileData{
		ID:           lt.ID,
		FlipH:        lt.HorizontalFlip,
		FlipV:        lt.VerticalFlip,
		FlipD:        lt.DiagonalFlip,
		TilesetIndex: -1,
	}
	for i, ts := range m.Tilesets {
		if ts == lt.Tileset {
			td.TilesetIndex = i
			break
		}
	}
	if td.TilesetIndex < 0 {
		// A decoded tile always belongs to one of the document's tilesets.
		return TileData{Nil: true}
	}
	return td
}
