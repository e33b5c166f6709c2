package assets

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	// Codecs for tileset images referenced from TMX documents.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// TextureBinding is the per-tileset texture capability, selected once at
// build time: a single atlas image sliced by a layout, or an ordered
// vector of independent per-tile images.
type TextureBinding interface {
	// TileImage returns the drawable image for a materialized texture
	// index, or nil when the binding cannot serve it.
	TileImage(index uint32) *ebiten.Image
}

// AtlasBinding is a texture binding backed by one shared image.
type AtlasBinding struct {
	Image  *ebiten.Image
	Layout *AtlasLayout
}

// TileImage slices the atlas cell for the given index.
func (b *AtlasBinding) TileImage(index uint32) *ebiten.Image {
	if b.Image == nil || b.Layout == nil {
		return nil
	}
	r := b.Layout.Rect(index)
	if !r.In(b.Image.Bounds()) {
		return nil
	}
	return b.Image.SubImage(r).(*ebiten.Image)
}

// VectorBinding is a texture binding backed by an ordered list of per-tile
// images, indexed by the offsets recorded during map build.
type VectorBinding struct {
	Images []*ebiten.Image
}

// TileImage returns the image at the given vector offset.
func (b *VectorBinding) TileImage(index uint32) *ebiten.Image {
	if int(index) >= len(b.Images) {
		return nil
	}
	return b.Images[index]
}

// AtlasLayout describes the regular grid an atlas image is sliced into.
// Registered in the store as a named sub-asset keyed by tileset name.
type AtlasLayout struct {
	TileWidth  int
	TileHeight int
	Columns    int
	Rows       int
	Spacing    int
	OffsetX    int
	OffsetY    int
}

// Rect returns the pixel rectangle of the cell at the given index.
func (l *AtlasLayout) Rect(index uint32) image.Rectangle {
	col := int(index) % l.Columns
	row := int(index) / l.Columns
	x := l.OffsetX + col*(l.TileWidth+l.Spacing)
	y := l.OffsetY + row*(l.TileHeight+l.Spacing)
	return image.Rect(x, y, x+l.TileWidth, y+l.TileHeight)
}

// TilesetBinding is the per-tileset output of the map asset builder.
type TilesetBinding struct {
	Index      int
	Name       string
	TileWidth  int
	TileHeight int
	Spacing    int
	Margin     int

	Texture TextureBinding

	// Layout is the atlas layout for single-image tilesets with at least
	// one computed column, nil otherwise.
	Layout *AtlasLayout

	// TileImageOffsets maps a tileset-local tile id to its offset in the
	// vector binding. Populated for collection tilesets only.
	TileImageOffsets map[uint32]uint32

	// UsableForTilesLayer is false when a collection tileset mixes image
	// sizes; the renderer's single-draw-call path needs a uniform size.
	UsableForTilesLayer bool
}

// IsVector reports whether the binding uses per-tile images.
func (b *TilesetBinding) IsVector() bool {
	_, ok := b.Texture.(*VectorBinding)
	return ok
}

// TextureIndex maps a tileset-local tile id to the index recorded on the
// placed tile: the id itself for atlas bindings, the vector offset for
// collection bindings. A missing offset means the builder and the layer
// materializer disagree about which tiles exist, which is a programming
// error, not a recoverable condition.
func (b *TilesetBinding) TextureIndex(id uint32) uint32 {
	if !b.IsVector() {
		return id
	}
	off, ok := b.TileImageOffsets[id]
	if !ok {
		panic("tiledworld: no image offset recorded for tile id during map build")
	}
	return off
}
