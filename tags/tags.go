package tags

import "github.com/yohamta/donburi"

var (
	World     = donburi.NewTag().SetName("World")
	Map       = donburi.NewTag().SetName("Map")
	TileLayer = donburi.NewTag().SetName("TileLayer")
)

// Resolv tags for collision objects built from tile layers
const (
	ResolvSolid = "solid"
)
