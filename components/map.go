package components

import (
	"github.com/automoto/tiledworld/assets"
	"github.com/automoto/tiledworld/config"
	"github.com/yohamta/donburi"
)

// MapData ties a map entity to its store handle. SpawnedVersion records the
// asset version the entity's layers were last built from; a lower value than
// the store's means the layers must be respawned.
type MapData struct {
	Handle         assets.MapHandle
	SpawnedVersion uint64
}

var Map = donburi.NewComponentType[MapData]()

// LayerKey identifies one spawned layer entity: a source layer can produce
// one entity per tileset it references, so the layer index alone is not
// unique.
type LayerKey struct {
	Tileset int
	Layer   int
}

// LayersStorageData indexes the layer entities spawned under a map entity.
type LayersStorageData struct {
	Layers map[LayerKey]donburi.Entity
}

var LayersStorage = donburi.NewComponentType[LayersStorageData]()

// MapSettingsData carries per-map spawn options, overriding the global
// defaults in config.
type MapSettingsData struct {
	LayerPositioning config.LayerPositioning
}

var MapSettings = donburi.NewComponentType[MapSettingsData]()
