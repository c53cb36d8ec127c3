// Package main steps a rectangle scene through time and prints the geometry
// each frame would draw.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/rectsync/internal/config"
	"github.com/Faultbox/rectsync/internal/logger"
	"github.com/Faultbox/rectsync/internal/scene"
	"github.com/Faultbox/rectsync/internal/terrain"
	"github.com/Faultbox/rectsync/internal/updater"
	"github.com/Faultbox/rectsync/internal/visualizer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== rectsync ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path := config.SaveConfigPath(); path != "" {
		if err := writeConfig(cfg, path, os.Stdout); err != nil {
			logger.Error("save config failed", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, os.Stdout); err != nil {
		logger.Error("playback failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, out io.Writer) error {
	s, err := scene.Load(cfg.Scene.Path)
	if err != nil {
		return err
	}

	var sampler terrain.Sampler = terrain.Constant{Height: cfg.Terrain.MinimumHeight}
	if s.Terrain != nil {
		sampler = s.Terrain
	}

	v := visualizer.New(updater.Config{
		Scene: updater.StaticScene{
			GroundPrimitives:   cfg.Scene.GroundPrimitives,
			MaterialsOnTerrain: cfg.Scene.MaterialsOnTerrain,
		},
		Terrain: sampler,
	})
	defer v.Close()

	for _, e := range s.Entities {
		v.Add(e)
		u, _ := v.Updater(e.ID)
		fmt.Fprintf(out, "entity %-16s %-8s closed=%t\n", e.ID, u.Strategy(), u.IsClosed())
	}
	logger.Info("scene loaded",
		zap.String("path", cfg.Scene.Path),
		zap.Int("entities", len(s.Entities)),
		zap.Bool("terrain", s.Terrain != nil))

	start, stop, err := playbackRange(cfg.Playback, s)
	if err != nil {
		return err
	}

	for t := start; !t.After(stop); t = t.Add(cfg.Playback.Step) {
		frame, err := v.Update(t)
		if err != nil {
			return fmt.Errorf("frame %s: %w", t.Format(time.RFC3339), err)
		}
		fmt.Fprintf(out, "%s static=%d ground=%d dynamic=%d hidden=%d\n",
			t.Format(time.RFC3339Nano), len(frame.Static), len(frame.Ground), len(frame.Dynamic), frame.Hidden)
	}
	return nil
}

// writeConfig saves the effective config, after file and flag layering, to path.
func writeConfig(cfg *config.Config, path string, out io.Writer) error {
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintf(out, "config written to %s\n", path)
	logger.Info("config saved", zap.String("path", path))
	return nil
}

// playbackRange picks the clock range. The config start wins over the scene
// start; a zero duration plays to the scene stop.
func playbackRange(p config.PlaybackConfig, s *scene.Scene) (time.Time, time.Time, error) {
	start := p.Start
	if start.IsZero() {
		start = s.Start
	}
	if start.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("no playback start: set playback.start or the scene start")
	}

	stop := start.Add(p.Duration)
	if p.Duration == 0 && !s.Stop.IsZero() {
		stop = s.Stop
	}
	if stop.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("playback stop %v is before start %v", stop, start)
	}
	return start, stop, nil
}
