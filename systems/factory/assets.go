package factory

import (
	"github.com/automoto/tiledworld/archetypes"
	"github.com/automoto/tiledworld/assets"
	"github.com/automoto/tiledworld/components"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateAssets spawns the singleton entity carrying the asset store.
func CreateAssets(ecs *ecs.ECS, store *assets.Store) *donburi.Entry {
	entry := archetypes.Assets.Spawn(ecs)
	components.Assets.Set(entry, &components.AssetsData{Store: store})
	return entry
}
