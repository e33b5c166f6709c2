package systems

import (
	"fmt"
	"image/color"

	"github.com/automoto/tiledworld/assets"
	"github.com/automoto/tiledworld/components"
	"github.com/automoto/tiledworld/config"
	"github.com/automoto/tiledworld/shared/geom"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	chunkSpawnedColor = color.RGBA{0, 255, 0, 255}
	chunkIdleColor    = color.RGBA{100, 100, 100, 255}
	viewBoxColor      = color.RGBA{0, 255, 255, 255}
)

// DrawDebug overlays the world layout: every child map rectangle (green
// when spawned, grey otherwise) and each camera's chunking view box.
func DrawDebug(e *ecs.ECS, screen *ebiten.Image) {
	if !config.C.Debug {
		return
	}
	store := assetStore(e)
	if store == nil {
		return
	}
	camEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	cam := components.Camera.Get(camEntry)
	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	halfW, halfH := float64(w)/2, float64(h)/2

	toScreen := func(r geom.Rect) (x, y, rw, rh float32) {
		x = float32(halfW + (r.Min.X-cam.Position.X)*zoom)
		y = float32(halfH - (r.Max.Y-cam.Position.Y)*zoom)
		rw = float32(r.Width() * zoom)
		rh = float32(r.Height() * zoom)
		return
	}

	spawned := 0
	components.World.Each(e.World, func(entry *donburi.Entry) {
		data := components.World.Get(entry)
		asset, state := store.World(data.Handle)
		if state != assets.Loaded {
			return
		}
		storage := components.WorldStorage.Get(entry)
		anchor := worldAnchor(entry, asset)
		for i, m := range asset.Maps {
			c := chunkIdleColor
			if _, ok := storage.SpawnedMaps[i]; ok {
				c = chunkSpawnedColor
				spawned++
			}
			x, y, rw, rh := toScreen(m.Rect.Translate(anchor))
			drawRectOutline(screen, x, y, rw, rh, c)
		}

		settings := components.WorldSettings.Get(entry)
		if settings.ChunkingRadius > 0 {
			components.Camera.Each(e.World, func(camEntry *donburi.Entry) {
				pos := components.Camera.Get(camEntry).Position
				x, y, rw, rh := toScreen(geom.AabbAround(pos, settings.ChunkingRadius))
				drawRectOutline(screen, x, y, rw, rh, viewBoxColor)
			})
		}
	})

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"pos (%.0f, %.0f)  zoom %.2f  spawned %d", cam.Position.X, cam.Position.Y, cam.Zoom, spawned))
}

func drawRectOutline(screen *ebiten.Image, x, y, w, h float32, c color.Color) {
	vector.FillRect(screen, x, y, w, 1, c, false)     // Top
	vector.FillRect(screen, x, y+h-1, w, 1, c, false) // Bottom
	vector.FillRect(screen, x, y, 1, h, c, false)     // Left
	vector.FillRect(screen, x+w-1, y, 1, h, c, false) // Right
}
