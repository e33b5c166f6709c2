package systems

import (
	"github.com/automoto/tiledworld/components"
	"github.com/automoto/tiledworld/config"
	"github.com/automoto/tiledworld/systems/factory"
	"github.com/automoto/tiledworld/tags"
	"github.com/sirupsen/logrus"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/transform"
)

// RebuildCollisionSpace rebuilds the collision space from every spawned
// tile layer whose name matches the configured collision layer. Each placed
// tile becomes one solid object. Coordinates are world render units with Y
// negated, since resolv spaces are Y-down and do not accept negative
// positions relative to their own origin.
func RebuildCollisionSpace(e *ecs.ECS) {
	if config.Map.CollisionLayer == "" {
		return
	}

	type placed struct {
		x, y, w, h float64
	}
	var objects []placed
	minX, maxY := 0.0, 0.0

	components.TileLayer.Each(e.World, func(entry *donburi.Entry) {
		layer := components.TileLayer.Get(entry)
		if layer.Name != config.Map.CollisionLayer || layer.Storage == nil {
			return
		}
		base := transform.WorldPosition(entry)
		tw, th := float64(layer.TileWidth), float64(layer.TileHeight)
		layer.Storage.Each(func(t *components.PlacedTile) {
			x := base.X + float64(t.X)*tw
			top := base.Y + float64(t.Y+1)*th
			objects = append(objects, placed{x: x, y: -top, w: tw, h: th})
			minX = min(minX, x)
			maxY = max(maxY, top)
		})
	})

	if spaceEntry, ok := components.Space.First(e.World); ok {
		e.World.Remove(spaceEntry.Entity())
	}
	if len(objects) == 0 {
		return
	}

	// Shift everything into the space's non-negative quadrant.
	shiftX, shiftY := -minX, maxY
	var spaceW, spaceH float64
	for _, o := range objects {
		spaceW = max(spaceW, o.x+shiftX+o.w)
		spaceH = max(spaceH, o.y+shiftY+o.h)
	}

	cellW, cellH := 16, 16
	spaceEntry := factory.CreateSpace(e, int(spaceW)+cellW, int(spaceH)+cellH, cellW, cellH)
	space := components.Space.Get(spaceEntry)
	for _, o := range objects {
		space.Add(resolv.NewObject(o.x+shiftX, o.y+shiftY, o.w, o.h, tags.ResolvSolid))
	}

	logrus.WithFields(logrus.Fields{
		"layer":   config.Map.CollisionLayer,
		"objects": len(objects),
	}).Debug("collision space rebuilt")
}
