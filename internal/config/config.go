// Package config handles rectsync configuration loading and management.
package config

import "time"

// Config holds all rectsync settings.
type Config struct {
	Scene    SceneConfig    `yaml:"scene"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Playback PlaybackConfig `yaml:"playback"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SceneConfig describes the scene document and the rendering surface.
type SceneConfig struct {
	Path               string `yaml:"path"`                 // Path to scene YAML
	GroundPrimitives   bool   `yaml:"ground_primitives"`    // Surface can clamp to terrain
	MaterialsOnTerrain bool   `yaml:"materials_on_terrain"` // Non-color materials on terrain
}

// TerrainConfig holds terrain sampling settings.
type TerrainConfig struct {
	// MinimumHeight is used when the scene carries no heightmap.
	MinimumHeight float64 `yaml:"minimum_height"`
}

// PlaybackConfig controls the simulated clock.
type PlaybackConfig struct {
	Start    time.Time     `yaml:"start"` // Zero means the scene start
	Duration time.Duration `yaml:"duration"`
	Step     time.Duration `yaml:"step"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Scene: SceneConfig{
			Path:               "scene.yaml",
			GroundPrimitives:   true,
			MaterialsOnTerrain: false,
		},
		Terrain: TerrainConfig{
			MinimumHeight: -100000,
		},
		Playback: PlaybackConfig{
			Duration: 10 * time.Second,
			Step:     time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
