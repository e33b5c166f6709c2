package scenes

import (
	"image/color"
	"os"
	"path"

	"github.com/automoto/tiledworld/assets"
	"github.com/automoto/tiledworld/components"
	"github.com/automoto/tiledworld/config"
	"github.com/automoto/tiledworld/events"
	"github.com/automoto/tiledworld/systems"
	"github.com/automoto/tiledworld/systems/factory"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/math"
)

const sessionSaveInterval = 120 // ticks

var backgroundColor = color.RGBA{30, 30, 40, 255}

// ViewerScene loads the configured map or world and lets the user fly a
// camera over it.
type ViewerScene struct {
	ecs   *ecs.ECS
	ticks int
}

func NewViewerScene() *ViewerScene {
	store := assets.NewStore(os.DirFS(config.C.AssetDir))
	world := donburi.NewWorld()
	e := ecs.NewECS(world)

	e.AddSystem(systems.UpdateAssets)
	e.AddSystem(systems.ProcessLoadedWorlds)
	e.AddSystem(systems.UpdateChunking)
	e.AddSystem(systems.ProcessLoadedMaps)
	e.AddSystem(systems.UpdateCamera)
	e.AddSystem(systems.ProcessEvents)
	e.AddRenderer(config.Default, systems.DrawLayers)
	e.AddRenderer(config.Default, systems.DrawDebug)

	factory.CreateAssets(e, store)

	position := math.Vec2{}
	zoom := 1.0
	if session := systems.LoadSession(); session != nil {
		position = math.Vec2{X: session.CameraX, Y: session.CameraY}
		if session.Zoom > 0 {
			zoom = session.Zoom
		}
	}
	camera := factory.CreateCamera(e, position)
	cam := components.Camera.Get(camera)
	cam.Zoom = zoom
	cam.TargetZoom = zoom

	positioning := config.TiledOffset
	if config.C.CenterLayers {
		positioning = config.Centered
	}

	switch path.Ext(config.C.World) {
	case ".world":
		handle := store.LoadWorld(config.C.World)
		factory.CreateWorld(e, handle, components.WorldSettingsData{
			ChunkingRadius:   config.C.ChunkingRadius,
			LayerPositioning: positioning,
		})
	default:
		handle := store.LoadMap(config.C.World)
		factory.CreateMap(e, handle, components.MapSettingsData{
			LayerPositioning: positioning,
		})
	}

	events.WorldCreated.Subscribe(world, func(w donburi.World, ev events.WorldCreatedData) {
		logrus.WithField("handle", ev.Handle).Info("world ready")
	})
	events.MapCreated.Subscribe(world, func(w donburi.World, ev events.MapCreatedData) {
		systems.RebuildCollisionSpace(e)
	})

	return &ViewerScene{ecs: e}
}

func (s *ViewerScene) Update() {
	s.ecs.Update()
	s.ticks++
	if s.ticks%sessionSaveInterval == 0 {
		systems.SaveSession(s.ecs)
	}
}

func (s *ViewerScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	s.ecs.Draw(screen)
}
