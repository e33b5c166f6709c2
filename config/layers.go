package config

import "github.com/yohamta/donburi/ecs"

// Default is the ECS layer every entity and renderer is registered on.
const Default = ecs.LayerID(0)
