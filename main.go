package main

import (
	"image"

	"github.com/automoto/tiledworld/config"
	"github.com/automoto/tiledworld/scenes"
	"github.com/automoto/tiledworld/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

func NewGame() *Game {
	return &Game{
		bounds: image.Rectangle{},
		scene:  scenes.NewViewerScene(),
	}
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func main() {
	cfg, err := config.LoadViewerConfig()
	if err != nil {
		logrus.WithError(err).Fatal("could not load configuration")
	}
	config.C = *cfg

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if cfg.World == "" {
		logrus.Fatal("no map or world configured, set 'world' in tiledworld.yaml")
	}

	config.Map.CollisionLayer = cfg.CollisionLayer
	config.World.ChunkingRadius = cfg.ChunkingRadius
	if cfg.CenterLayers {
		config.Map.LayerPositioning = config.Centered
	}

	if err := systems.InitPersistence(); err != nil {
		logrus.WithError(err).Warn("persistence unavailable, sessions will not be saved")
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("tiledworld")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(NewGame()); err != nil {
		logrus.WithError(err).Fatal("viewer exited")
	}
}
