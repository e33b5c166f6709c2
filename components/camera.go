package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
)

// CameraData is an observer over the loaded world. Position is in world
// units, render convention (Y up).
type CameraData struct {
	Position math.Vec2
	Zoom     float64

	// ZoomTween eases towards the last requested zoom level, nil when idle.
	ZoomTween  *gween.Tween
	TargetZoom float64
}

var Camera = donburi.NewComponentType[CameraData]()
