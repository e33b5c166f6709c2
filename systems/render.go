package systems

import (
	stdmath "math"
	"sort"

	"github.com/automoto/tiledworld/components"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/transform"
)

var drawOp = &ebiten.DrawImageOptions{}

// DrawLayers renders every spawned tile layer, lowest Z first. Tiles are
// stored bottom-up in render coordinates; the screen is Y-down, so the
// vertical axis flips once more here and nowhere else.
func DrawLayers(e *ecs.ECS, screen *ebiten.Image) {
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

	var layers []*donburi.Entry
	components.TileLayer.Each(e.World, func(entry *donburi.Entry) {
		layers = append(layers, entry)
	})
	sort.SliceStable(layers, func(i, j int) bool {
		return components.TileLayer.Get(layers[i]).Z < components.TileLayer.Get(layers[j]).Z
	})

	const pad = 64.0
	for _, entry := range layers {
		layer := components.TileLayer.Get(entry)
		if layer.Storage == nil || layer.Binding == nil {
			continue
		}
		base := transform.WorldPosition(entry)
		tw, th := float64(layer.TileWidth), float64(layer.TileHeight)

		layer.Storage.Each(func(t *components.PlacedTile) {
			img := layer.Binding.Texture.TileImage(t.TextureIndex)
			if img == nil {
				return
			}
			// bottom-left of the tile in world space
			wx := base.X + float64(t.X)*tw
			wy := base.Y + float64(t.Y)*th
			sx := halfW + (wx-cam.Position.X)*zoom
			sy := halfH - (wy+th-cam.Position.Y)*zoom

			// Viewport culling
			if sx+tw*zoom < -pad || sx > float64(w)+pad || sy+th*zoom < -pad || sy > float64(h)+pad {
				return
			}

			drawOp.GeoM.Reset()
			drawOp.GeoM.Translate(-tw/2, -th/2)
			// Tiled applies the diagonal flip before the axis flips.
			if t.FlipD {
				drawOp.GeoM.Scale(1, -1)
				drawOp.GeoM.Rotate(stdmath.Pi / 2)
			}
			drawOp.GeoM.Scale(flipScale(t.FlipH), flipScale(t.FlipV))
			drawOp.GeoM.Translate(tw/2, th/2)
			drawOp.GeoM.Scale(zoom, zoom)
			drawOp.GeoM.Translate(sx, sy)
			screen.DrawImage(img, drawOp)
		})
	}
}

func flipScale(flipped bool) float64 {
	if flipped {
		return -1
	}
	return 1
}
