package factory

import (
	"github.com/automoto/tiledworld/archetypes"
	"github.com/automoto/tiledworld/components"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/math"
)

func CreateCamera(ecs *ecs.ECS, position math.Vec2) *donburi.Entry {
	camera := archetypes.Camera.Spawn(ecs)
	components.Camera.Set(camera, &components.CameraData{
		Position:   position,
		Zoom:       1,
		TargetZoom: 1,
	})
	return camera
}
