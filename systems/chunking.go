package systems

import (
	stdmath "math"
	"sort"

	"github.com/automoto/tiledworld/assets"
	"github.com/automoto/tiledworld/components"
	"github.com/automoto/tiledworld/shared/geom"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/math"
	"github.com/yohamta/donburi/features/transform"
)

// UpdateChunking keeps each chunking world's spawned children in sync with
// the cameras. A child map is visible when its rectangle, carried through
// the world instance's own rotation and translation, intersects at least
// one camera's view box - union over cameras, not intersection. The visible
// set is diffed against the spawned set every pass: newly visible children
// spawn, no-longer-visible children despawn.
//
// With chunking enabled and no camera present nothing is visible, so every
// spawned child despawns; a world nobody observes fully unloads.
func UpdateChunking(e *ecs.ECS) {
	store := assetStore(e)
	if store == nil {
		return
	}

	var observers []math.Vec2
	components.Camera.Each(e.World, func(entry *donburi.Entry) {
		observers = append(observers, components.Camera.Get(entry).Position)
	})

	var worlds []*donburi.Entry
	components.World.Each(e.World, func(entry *donburi.Entry) {
		worlds = append(worlds, entry)
	})

	for _, entry := range worlds {
		data := components.World.Get(entry)
		if data.State != assets.Loaded {
			continue
		}
		settings := components.WorldSettings.Get(entry)
		if settings.ChunkingRadius <= 0 {
			continue
		}
		asset, state := store.World(data.Handle)
		if state != assets.Loaded {
			continue
		}

		evaluateWorldChunks(e, entry, asset, observers, settings.ChunkingRadius)
	}
}

func evaluateWorldChunks(e *ecs.ECS, entry *donburi.Entry, asset *assets.WorldAsset, observers []math.Vec2, radius float64) {
	iso := geom.Isometry{
		Translation: transform.WorldPosition(entry),
		Rotation:    transform.WorldRotation(entry) * stdmath.Pi / 180,
	}
	anchor := worldAnchor(entry, asset)

	visible := make(map[int]bool, len(asset.Maps))
	for i, m := range asset.Maps {
		box := iso.TransformRect(m.Rect.Translate(anchor))
		for _, obs := range observers {
			if geom.AabbAround(obs, radius).Intersects(box) {
				visible[i] = true
				break
			}
		}
	}

	storage := components.WorldStorage.Get(entry)

	var gone []int
	for i := range storage.SpawnedMaps {
		if !visible[i] {
			gone = append(gone, i)
		}
	}
	sort.Ints(gone)
	for _, i := range gone {
		despawnWorldMap(e, entry, i)
	}

	var fresh []int
	for i := range visible {
		if _, ok := storage.SpawnedMaps[i]; !ok {
			fresh = append(fresh, i)
		}
	}
	sort.Ints(fresh)
	for _, i := range fresh {
		spawnWorldMap(e, entry, asset, i)
	}
}
