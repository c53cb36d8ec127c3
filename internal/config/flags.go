package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagScene    = flag.String("scene", "", "Path to scene file")
	flagStep     = flag.Duration("step", 0, "Playback step")
	flagDuration = flag.Duration("duration", 0, "Playback duration")
	flagNoGround = flag.Bool("no-ground", false, "Disable ground primitives")
	flagSave     = flag.String("save-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveConfigPath returns the --save-config destination, empty when unset.
func SaveConfigPath() string {
	return *flagSave
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	if *flagStep > 0 {
		cfg.Playback.Step = *flagStep
	}
	if *flagDuration > 0 {
		cfg.Playback.Duration = *flagDuration
	}
	if *flagNoGround {
		cfg.Scene.GroundPrimitives = false
	}
}
