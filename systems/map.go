package systems

import (
	"github.com/automoto/tiledworld/assets"
	"github.com/automoto/tiledworld/components"
	"github.com/automoto/tiledworld/config"
	"github.com/automoto/tiledworld/events"
	"github.com/automoto/tiledworld/systems/factory"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/math"
	"github.com/yohamta/donburi/features/transform"
)

// ProcessLoadedMaps drives every map entity against its handle's load
// state. Layers are (re)spawned whenever the stored asset version moves past
// the version the entity was spawned from, which covers both the first load
// and a modified source document.
func ProcessLoadedMaps(e *ecs.ECS) {
	store := assetStore(e)
	if store == nil {
		return
	}

	var entries []*donburi.Entry
	components.Map.Each(e.World, func(entry *donburi.Entry) {
		entries = append(entries, entry)
	})

	for _, entry := range entries {
		data := components.Map.Get(entry)
		asset, state := store.Map(data.Handle)
		version := store.MapVersion(data.Handle)

		switch state {
		case assets.Loaded:
			if version == data.SpawnedVersion {
				continue
			}
			removeLayers(e, entry)
			spawnLayers(e, entry, asset)
			data.SpawnedVersion = version
			events.MapCreated.Publish(e.World, events.MapCreatedData{
				Entity: entry.Entity(),
				Handle: data.Handle,
			})
		case assets.Failed:
			if version == data.SpawnedVersion {
				continue
			}
			logrus.WithError(store.MapError(data.Handle)).Error("map failed to load")
			removeLayers(e, entry)
			data.SpawnedVersion = version
		case assets.NotLoaded:
			if data.SpawnedVersion != 0 {
				removeLayers(e, entry)
				data.SpawnedVersion = 0
			}
		}
	}
}

func assetStore(e *ecs.ECS) *assets.Store {
	entry, ok := components.Assets.First(e.World)
	if !ok {
		return nil
	}
	return components.Assets.Get(entry).Store
}

// spawnLayers creates one layer entity per (layer, tileset) pair that
// materializes any tiles. Non-tile layers and unusable tilesets are skipped
// with a log, never treated as errors.
func spawnLayers(e *ecs.ECS, entry *donburi.Entry, asset *assets.MapAsset) {
	settings := components.MapSettings.Get(entry)
	storage := components.LayersStorage.Get(entry)
	doc := asset.Document

	var shift math.Vec2
	if settings.LayerPositioning == config.Centered {
		shift.X = -float64(doc.Width*doc.TileWidth) / 2
		shift.Y = -float64(doc.Height*doc.TileHeight) / 2
	}

	for _, layer := range doc.Layers {
		if layer.Kind != assets.LayerTiles {
			logrus.WithFields(logrus.Fields{"map": doc.Source, "layer": layer.Name}).
				Debug("not a tile layer, skipping")
			continue
		}
		for _, ts := range doc.Tilesets {
			binding := asset.Tileset(ts.Index)
			if binding == nil {
				continue
			}
			if !binding.UsableForTilesLayer {
				logrus.WithFields(logrus.Fields{"map": doc.Source, "tileset": ts.Name}).
					Debug("tileset not usable for tile layers, skipping")
				continue
			}
			grid := Materialize(doc, layer, ts.Index, binding)
			if grid == nil || grid.Count == 0 {
				continue
			}

			layerEntry := createLayerEntity(e, entry, layer, ts.Index, grid, binding, doc)
			t := transform.Transform.Get(layerEntry)
			// Tiled layer offsets are Y-down pixels.
			t.LocalPosition = math.Vec2{
				X: layer.OffsetX + shift.X,
				Y: -layer.OffsetY + shift.Y,
			}
			storage.Layers[components.LayerKey{Tileset: ts.Index, Layer: layer.Index}] = layerEntry.Entity()
		}
	}
}

func createLayerEntity(e *ecs.ECS, parent *donburi.Entry, layer *assets.LayerInfo, tilesetIndex int, grid *components.TileStorage, binding *assets.TilesetBinding, doc *assets.MapDocument) *donburi.Entry {
	layerEntry := factory.CreateTileLayer(e)
	components.TileLayer.Set(layerEntry, &components.TileLayerData{
		Name:         layer.Name,
		LayerIndex:   layer.Index,
		TilesetIndex: tilesetIndex,
		Storage:      grid,
		Binding:      binding,
		TileWidth:    doc.TileWidth,
		TileHeight:   doc.TileHeight,
		Z:            float64(layer.Index) * config.Map.LayerZStep,
	})
	transform.AppendChild(parent, layerEntry, false)
	return layerEntry
}

// removeLayers despawns every layer entity under a map entity and clears
// its layer index.
func removeLayers(e *ecs.ECS, entry *donburi.Entry) {
	storage := components.LayersStorage.Get(entry)
	if len(storage.Layers) == 0 {
		return
	}
	transform.RemoveChildrenRecursive(entry)
	storage.Layers = make(map[components.LayerKey]donburi.Entity)
}
