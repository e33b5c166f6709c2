// Package events defines the lifecycle notifications published while maps
// and worlds move through spawning.
package events

import (
	"github.com/automoto/tiledworld/assets"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// MapCreatedData fires once a map entity has all of its layers spawned.
type MapCreatedData struct {
	Entity donburi.Entity
	Handle assets.MapHandle
}

// WorldCreatedData fires once a world entity's asset is loaded, before any
// child map spawns.
type WorldCreatedData struct {
	Entity donburi.Entity
	Handle assets.WorldHandle
}

var (
	MapCreated   = events.NewEventType[MapCreatedData]()
	WorldCreated = events.NewEventType[WorldCreatedData]()
)
