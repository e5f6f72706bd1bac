package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window    WindowConfig    `toml:"window"`
	Game      GameConfig      `toml:"game"`
	Scripting ScriptingConfig `toml:"scripting"`
	Data      DataConfig      `toml:"data"`
	Logging   LoggingConfig   `toml:"logging"`
}

type WindowConfig struct {
	Width               int           `toml:"width"`  // 0 = fill the screen
	Height              int           `toml:"height"` // 0 = fill the screen
	Fullscreen          bool          `toml:"fullscreen"`
	TileSize            int           `toml:"tile_size"`
	OverscanLeft        int           `toml:"overscan_left"`
	OverscanTop         int           `toml:"overscan_top"`
	DisableDirectRender bool          `toml:"disable_direct_render"`
	FrameInterval       time.Duration `toml:"frame_interval"`
}

type GameConfig struct {
	StartLevel string `toml:"start_level"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type DataConfig struct {
	LevelDir string `toml:"level_dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "PYLAND_CONFIG"

// Load reads the config at path, or at $PYLAND_CONFIG when path is empty.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Window.TileSize <= 0 {
		return nil, fmt.Errorf("config %s: tile_size must be positive", path)
	}
	if cfg.Window.FrameInterval <= 0 {
		return nil, fmt.Errorf("config %s: frame_interval must be positive", path)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Width:         0,
			Height:        0,
			TileSize:      32,
			FrameInterval: 33 * time.Millisecond,
		},
		Game: GameConfig{
			StartLevel: "long_house",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Data: DataConfig{
			LevelDir: "levels",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
