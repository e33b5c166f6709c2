package systems

import (
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/events"
)

// UpdateAssets pumps the asset store's load queue once per frame.
func UpdateAssets(e *ecs.ECS) {
	if store := assetStore(e); store != nil {
		store.Update()
	}
}

// ProcessEvents delivers all queued world/map lifecycle events.
func ProcessEvents(e *ecs.ECS) {
	events.ProcessAllEvents(e.World)
}
