package systems

import (
	"encoding/json"

	"github.com/automoto/tiledworld/components"
	"github.com/quasilyte/gdata"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi/ecs"
)

// SavedSession is the viewer state stored on disk between runs.
type SavedSession struct {
	CameraX float64 `json:"cameraX"`
	CameraY float64 `json:"cameraY"`
	Zoom    float64 `json:"zoom"`
}

var gdataManager *gdata.Manager

// InitPersistence initializes the gdata manager for session storage.
func InitPersistence() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "tiledworld",
	})
	if err != nil {
		logrus.WithError(err).Warn("could not initialize persistence")
		return err
	}
	gdataManager = m
	return nil
}

// LoadSession loads the last saved viewer session, nil when none exists.
func LoadSession() *SavedSession {
	if gdataManager == nil {
		return nil
	}
	data, err := gdataManager.LoadItem("session")
	if err != nil || data == nil {
		return nil
	}
	var session SavedSession
	if err := json.Unmarshal(data, &session); err != nil {
		logrus.WithError(err).Warn("could not parse saved session")
		return nil
	}
	return &session
}

// SaveSession persists the current camera state.
func SaveSession(e *ecs.ECS) {
	if gdataManager == nil {
		return
	}
	camEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	cam := components.Camera.Get(camEntry)
	data, err := json.Marshal(&SavedSession{
		CameraX: cam.Position.X,
		CameraY: cam.Position.Y,
		Zoom:    cam.Zoom,
	})
	if err != nil {
		return
	}
	if err := gdataManager.SaveItem("session", data); err != nil {
		logrus.WithError(err).Warn("could not save session")
	}
}
