package factory

import (
	"github.com/automoto/tiledworld/archetypes"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func CreateTileLayer(ecs *ecs.ECS) *donburi.Entry {
	return archetypes.TileLayer.Spawn(ecs)
}
