package systems

import (
	"github.com/automoto/tiledworld/assets"
	"github.com/automoto/tiledworld/components"
	"github.com/automoto/tiledworld/config"
	"github.com/automoto/tiledworld/events"
	"github.com/automoto/tiledworld/systems/factory"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/math"
	"github.com/yohamta/donburi/features/transform"
)

// ProcessLoadedWorlds drives every world entity through its load state
// machine. The recursive state folds the world document with all of its
// child maps, so a world only counts as loaded once every child is.
//
// A failed dependency tears the world entity down entirely; there is no
// partial world. A version change on an already spawned world (the source
// document was modified and reloaded) tears down all spawned children and
// rebuilds from scratch - modified world layouts are never patched in place.
func ProcessLoadedWorlds(e *ecs.ECS) {
	store := assetStore(e)
	if store == nil {
		return
	}

	var entries []*donburi.Entry
	components.World.Each(e.World, func(entry *donburi.Entry) {
		entries = append(entries, entry)
	})

	for _, entry := range entries {
		data := components.World.Get(entry)
		state := store.RecursiveWorldState(data.Handle)
		version := store.WorldVersion(data.Handle)

		if state == assets.Loaded && data.State == assets.Loaded && version != data.SpawnedVersion {
			despawnAllMaps(e, entry)
			data.State = assets.Loading
		}

		switch {
		case state == assets.Failed && data.State != assets.Failed:
			logrus.WithError(store.WorldError(data.Handle)).Error("world failed to load, tearing down")
			data.State = assets.Failed
			despawnAllMaps(e, entry)
			transform.RemoveRecursive(entry)
		case state == assets.Loaded && data.State != assets.Loaded:
			data.State = assets.Loaded
			data.SpawnedVersion = version
			events.WorldCreated.Publish(e.World, events.WorldCreatedData{
				Entity: entry.Entity(),
				Handle: data.Handle,
			})

			settings := components.WorldSettings.Get(entry)
			if settings.ChunkingRadius > 0 {
				// chunking decides what spawns, every frame
				continue
			}
			storage := components.WorldStorage.Get(entry)
			if len(storage.SpawnedMaps) > 0 {
				continue
			}
			asset, _ := store.World(data.Handle)
			for i := range asset.Maps {
				spawnWorldMap(e, entry, asset, i)
			}
		case state == assets.Loading:
			data.State = assets.Loading
		}
	}
}

// worldAnchor returns the offset applied to every child rectangle: zero for
// origin-anchored worlds, minus the bounding box center for centered ones.
func worldAnchor(entry *donburi.Entry, asset *assets.WorldAsset) math.Vec2 {
	settings := components.WorldSettings.Get(entry)
	if settings.LayerPositioning != config.Centered {
		return math.Vec2{}
	}
	c := asset.Rect.Center()
	return math.Vec2{X: -c.X, Y: -c.Y}
}

// spawnWorldMap creates the child map entity for index i, parented to the
// world entity at the child rectangle's minimum corner. Children always use
// the document's own offsets; centering is a world-level decision.
func spawnWorldMap(e *ecs.ECS, entry *donburi.Entry, asset *assets.WorldAsset, i int) {
	storage := components.WorldStorage.Get(entry)
	if _, ok := storage.SpawnedMaps[i]; ok {
		return
	}
	anchor := worldAnchor(entry, asset)
	m := asset.Maps[i]

	mapEntry := factory.CreateMap(e, m.Handle, components.MapSettingsData{})
	transform.AppendChild(entry, mapEntry, false)
	t := transform.Transform.Get(mapEntry)
	t.LocalPosition = math.Vec2{X: m.Rect.Min.X + anchor.X, Y: m.Rect.Min.Y + anchor.Y}
	storage.SpawnedMaps[i] = mapEntry.Entity()
}

// despawnWorldMap removes the child map entity for index i along with all
// of its layers.
func despawnWorldMap(e *ecs.ECS, entry *donburi.Entry, i int) {
	storage := components.WorldStorage.Get(entry)
	entity, ok := storage.SpawnedMaps[i]
	if !ok {
		return
	}
	if e.World.Valid(entity) {
		transform.RemoveRecursive(e.World.Entry(entity))
	}
	delete(storage.SpawnedMaps, i)
}

// despawnAllMaps clears every spawned child of a world entity.
func despawnAllMaps(e *ecs.ECS, entry *donburi.Entry) {
	storage := components.WorldStorage.Get(entry)
	for i := range storage.SpawnedMaps {
		despawnWorldMap(e, entry, i)
	}
}

// RemoveWorld tears a world entity down unconditionally: all spawned
// children, the entity itself, and the store reference.
func RemoveWorld(e *ecs.ECS, entity donburi.Entity) {
	store := assetStore(e)
	if !e.World.Valid(entity) {
		return
	}
	entry := e.World.Entry(entity)
	data := components.World.Get(entry)
	despawnAllMaps(e, entry)
	transform.RemoveRecursive(entry)
	if store != nil {
		store.ReleaseWorld(data.Handle)
	}
}
