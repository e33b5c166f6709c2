package components

import (
	"github.com/automoto/tiledworld/assets"
	"github.com/yohamta/donburi"
)

// AssetsData is the singleton wrapper around the asset store so that
// systems can reach it through the world.
type AssetsData struct {
	Store *assets.Store
}

var Assets = donburi.NewComponentType[AssetsData]()
