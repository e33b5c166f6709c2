package archetypes

import (
	"github.com/automoto/tiledworld/components"
	cfg "github.com/automoto/tiledworld/config"
	"github.com/automoto/tiledworld/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/transform"
)

var (
	World = newArchetype(
		tags.World,
		transform.Transform,
		components.World,
		components.WorldStorage,
		components.WorldSettings,
	)
	Map = newArchetype(
		tags.Map,
		transform.Transform,
		components.Map,
		components.LayersStorage,
		components.MapSettings,
	)
	TileLayer = newArchetype(
		tags.TileLayer,
		transform.Transform,
		components.TileLayer,
	)
	Camera = newArchetype(
		components.Camera,
	)
	Assets = newArchetype(
		components.Assets,
	)
	Space = newArchetype(
		components.Space,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}
