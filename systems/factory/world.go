package factory

import (
	"github.com/automoto/tiledworld/archetypes"
	"github.com/automoto/tiledworld/assets"
	"github.com/automoto/tiledworld/components"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateWorld spawns a world entity bound to a store handle. Child maps are
// spawned by the world systems once the handle and its dependencies load.
func CreateWorld(ecs *ecs.ECS, handle assets.WorldHandle, settings components.WorldSettingsData) *donburi.Entry {
	entry := archetypes.World.Spawn(ecs)
	components.World.Set(entry, &components.WorldData{Handle: handle})
	components.WorldStorage.Set(entry, &components.WorldStorageData{
		SpawnedMaps: make(map[int]donburi.Entity),
	})
	components.WorldSettings.Set(entry, &settings)
	return entry
}
