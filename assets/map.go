package assets

import (
	"fmt"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lafriks/go-tiled"
	"github.com/sirupsen/logrus"
)

// MapAsset is the normalized, immutable result of a map build: the owned
// document plus one texture binding per tileset index. It is re-created
// wholesale when the source document changes, never patched.
type MapAsset struct {
	Source   string
	Document *MapDocument

	// Map is the underlying go-tiled document for finite maps, kept for
	// consumers that need object groups or tile properties. Nil for
	// infinite documents.
	Map *tiled.Map

	Tilesets map[int]*TilesetBinding
}

// Tileset returns the binding for a tileset index, nil when the tileset
// was skipped during build.
func (a *MapAsset) Tileset(index int) *TilesetBinding {
	return a.Tilesets[index]
}

// BuildDeps are the collaborator callbacks a map build needs: texture
// loading and named sub-asset registration. Tests substitute no-op
// implementations.
type BuildDeps struct {
	LoadTexture    func(path string) (*ebiten.Image, error)
	RegisterLayout func(name string, layout *AtlasLayout)
}

// BuildMapAsset builds the normalized asset for a parsed document. Image
// paths resolve relative to the document's parent directory. An unresolved
// tileset image fails the whole map; no partial asset is produced.
func BuildMapAsset(doc *MapDocument, deps BuildDeps) (*MapAsset, error) {
	asset := &MapAsset{
		Source:   doc.Source,
		Document: doc,
		Tilesets: make(map[int]*TilesetBinding, len(doc.Tilesets)),
	}

	for _, ts := range doc.Tilesets {
		binding, err := buildTilesetBinding(doc, ts, deps)
		if err != nil {
			return nil, fmt.Errorf("tileset %q: %w", ts.Name, err)
		}
		asset.Tilesets[ts.Index] = binding
	}
	return asset, nil
}

func buildTilesetBinding(doc *MapDocument, ts *TilesetInfo, deps BuildDeps) (*TilesetBinding, error) {
	binding := &TilesetBinding{
		Index:      ts.Index,
		Name:       ts.Name,
		TileWidth:  ts.TileWidth,
		TileHeight: ts.TileHeight,
		Spacing:    ts.Spacing,
		Margin:     ts.Margin,
	}

	if ts.Image == nil {
		return buildVectorBinding(doc, ts, binding, deps)
	}

	img, err := deps.LoadTexture(path.Join(doc.BaseDir(), ts.Image.Source))
	if err != nil {
		return nil, fmt.Errorf("image %q: %w", ts.Image.Source, err)
	}

	columns := 0
	if ts.TileWidth+ts.Spacing > 0 {
		columns = (ts.Image.Width - ts.Margin + ts.Spacing) / (ts.TileWidth + ts.Spacing)
	}
	if columns > 0 {
		binding.Layout = &AtlasLayout{
			TileWidth:  ts.TileWidth,
			TileHeight: ts.TileHeight,
			Columns:    columns,
			Rows:       ts.TileCount / columns,
			Spacing:    ts.Spacing,
			OffsetX:    ts.Margin,
			OffsetY:    ts.Margin,
		}
		if deps.RegisterLayout != nil {
			deps.RegisterLayout(ts.Name, binding.Layout)
		}
	} else {
		logrus.WithFields(logrus.Fields{"map": doc.Source, "tileset": ts.Name}).
			Warn("tileset has no atlas columns, its layers will be skipped")
	}

	binding.Texture = &AtlasBinding{Image: img, Layout: binding.Layout}
	binding.UsableForTilesLayer = columns > 0
	return binding, nil
}

// buildVectorBinding handles a collection-of-images tileset: each referenced
// image is requested exactly once and assigned a sequential vector offset in
// encounter order. The binding stays usable for tile layers only while every
// encountered image shares the same declared pixel dimensions.
func buildVectorBinding(doc *MapDocument, ts *TilesetInfo, binding *TilesetBinding, deps BuildDeps) (*TilesetBinding, error) {
	vector := &VectorBinding{}
	binding.TileImageOffsets = make(map[uint32]uint32)
	binding.UsableForTilesLayer = true

	var size *ImageRef
	for _, tile := range ts.Tiles {
		if tile.Image == nil {
			continue
		}
		img, err := deps.LoadTexture(path.Join(doc.BaseDir(), tile.Image.Source))
		if err != nil {
			return nil, fmt.Errorf("tile %d image %q: %w", tile.ID, tile.Image.Source, err)
		}
		binding.TileImageOffsets[tile.ID] = uint32(len(vector.Images))
		vector.Images = append(vector.Images, img)

		if binding.UsableForTilesLayer {
			if size == nil {
				size = tile.Image
			} else if tile.Image.Width != size.Width || tile.Image.Height != size.Height {
				logrus.WithFields(logrus.Fields{"map": doc.Source, "tileset": ts.Name}).
					Debug("tileset has non constant image size and cannot be used for tiles layers")
				binding.UsableForTilesLayer = false
			}
		}
	}

	binding.Texture = vector
	return binding, nil
}
