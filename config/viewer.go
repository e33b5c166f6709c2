package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ViewerConfig is the configuration surface of the viewer application.
// Values come from tiledworld.yaml in the working directory, overridable
// through TILEDWORLD_* environment variables.
type ViewerConfig struct {
	// Path of the document to open, relative to AssetDir. Either a .world
	// or a .tmx file.
	World string `mapstructure:"world"`

	// Root directory all asset paths resolve against.
	AssetDir string `mapstructure:"asset_dir"`

	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`

	ChunkingRadius float64 `mapstructure:"chunking_radius"`
	CenterLayers   bool    `mapstructure:"center_layers"`
	CollisionLayer string  `mapstructure:"collision_layer"`

	CameraSpeed float64 `mapstructure:"camera_speed"`
	Debug       bool    `mapstructure:"debug"`
	LogLevel    string  `mapstructure:"log_level"`
}

// C is the loaded viewer configuration, populated at startup.
var C ViewerConfig

// LoadViewerConfig reads the viewer configuration. A missing config file is
// not an error; defaults and environment variables still apply.
func LoadViewerConfig() (*ViewerConfig, error) {
	v := viper.New()
	v.SetConfigName("tiledworld")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("tiledworld")
	v.AutomaticEnv()

	v.SetDefault("world", "")
	v.SetDefault("asset_dir", ".")
	v.SetDefault("width", 1280)
	v.SetDefault("height", 720)
	v.SetDefault("chunking_radius", 0.0)
	v.SetDefault("center_layers", false)
	v.SetDefault("collision_layer", Map.CollisionLayer)
	v.SetDefault("camera_speed", 360.0)
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg ViewerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
