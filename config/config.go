package config

// LayerPositioning selects the anchor used when placing a map's layers.
type LayerPositioning int

const (
	// TiledOffset keeps the map origin where the source document puts it.
	TiledOffset LayerPositioning = iota
	// Centered shifts layers so the map's bounding box center sits on the
	// owning entity's origin.
	Centered
)

func (p LayerPositioning) String() string {
	switch p {
	case Centered:
		return "centered"
	default:
		return "tiled-offset"
	}
}

// MapConfig contains map spawning configuration
type MapConfig struct {
	LayerPositioning LayerPositioning

	// Z distance between two consecutive layers, used as the draw order
	// step when layer entities are sorted for rendering.
	LayerZStep float64

	// Name of the tile layer whose placed tiles become solid collision
	// objects. Empty disables collision space construction.
	CollisionLayer string
}

// WorldConfig contains world spawning configuration
type WorldConfig struct {
	// Half extent of an observer's view box. Values <= 0 disable
	// chunking: every child map is spawned once on load.
	ChunkingRadius float64
}

// Map is the global map configuration
var Map MapConfig

// World is the global world configuration
var World WorldConfig

func init() {
	Map = MapConfig{
		LayerPositioning: TiledOffset,
		LayerZStep:       1.0,
		CollisionLayer:   "collision",
	}
	World = WorldConfig{
		ChunkingRadius: 0,
	}
}
