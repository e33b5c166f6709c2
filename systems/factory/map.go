package factory

import (
	"github.com/automoto/tiledworld/archetypes"
	"github.com/automoto/tiledworld/assets"
	"github.com/automoto/tiledworld/components"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateMap spawns a map entity bound to a store handle. Its layers appear
// once the handle reaches the loaded state.
func CreateMap(ecs *ecs.ECS, handle assets.MapHandle, settings components.MapSettingsData) *donburi.Entry {
	entry := archetypes.Map.Spawn(ecs)
	components.Map.Set(entry, &components.MapData{Handle: handle})
	components.LayersStorage.Set(entry, &components.LayersStorageData{
		Layers: make(map[components.LayerKey]donburi.Entity),
	})
	components.MapSettings.Set(entry, &settings)
	return entry
}
