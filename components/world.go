package components

import (
	"github.com/automoto/tiledworld/assets"
	"github.com/automoto/tiledworld/config"
	"github.com/yohamta/donburi"
)

// WorldData ties a world entity to its store handle. State mirrors the
// recursive load state observed last frame so transitions fire exactly once.
type WorldData struct {
	Handle         assets.WorldHandle
	State          assets.LoadState
	SpawnedVersion uint64
}

var World = donburi.NewComponentType[WorldData]()

// WorldStorageData tracks which child maps are currently spawned, keyed by
// their index in the world asset's map list.
type WorldStorageData struct {
	SpawnedMaps map[int]donburi.Entity
}

var WorldStorage = donburi.NewComponentType[WorldStorageData]()

// WorldSettingsData carries per-world spawn options.
type WorldSettingsData struct {
	// ChunkingRadius is the observer view box half extent. Values <= 0
	// disable chunking for this world.
	ChunkingRadius float64

	// LayerPositioning selects the world's anchor: its origin, or the
	// center of its bounding rectangle.
	LayerPositioning config.LayerPositioning
}

var WorldSettings = donburi.NewComponentType[WorldSettingsData]()
