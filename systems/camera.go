package systems

import (
	"github.com/automoto/tiledworld/components"
	"github.com/automoto/tiledworld/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi/ecs"
)

const (
	zoomStep     = 1.2
	zoomDuration = 0.25
	minZoom      = 0.1
	maxZoom      = 8.0
)

// UpdateCamera pans the camera with the arrow keys or WASD and eases the
// zoom level towards the mouse wheel target.
func UpdateCamera(e *ecs.ECS) {
	camEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	cam := components.Camera.Get(camEntry)
	dt := 1.0 / float64(ebiten.TPS())

	speed := config.C.CameraSpeed
	if cam.Zoom > 0 {
		speed /= cam.Zoom
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		cam.Position.X -= speed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		cam.Position.X += speed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		cam.Position.Y += speed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		cam.Position.Y -= speed * dt
	}

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		target := cam.TargetZoom
		if wheelY > 0 {
			target *= zoomStep
		} else {
			target /= zoomStep
		}
		if target < minZoom {
			target = minZoom
		}
		if target > maxZoom {
			target = maxZoom
		}
		cam.TargetZoom = target
		cam.ZoomTween = gween.New(float32(cam.Zoom), float32(target), zoomDuration, ease.OutQuad)
	}

	if cam.ZoomTween != nil {
		v, done := cam.ZoomTween.Update(float32(dt))
		cam.Zoom = float64(v)
		if done {
			cam.ZoomTween = nil
		}
	}
}
