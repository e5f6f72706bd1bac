package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
[window]
width = 800
height = 600
tile_size = 16
overscan_left = 24
overscan_top = 16
disable_direct_render = true
frame_interval = "16ms"

[game]
start_level = "ruins"

[logging]
level = "debug"
format = "json"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyland.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Fatalf("window size %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.TileSize != 16 || !cfg.Window.DisableDirectRender {
		t.Fatalf("window config %+v", cfg.Window)
	}
	if cfg.Window.FrameInterval != 16*time.Millisecond {
		t.Fatalf("frame interval %v", cfg.Window.FrameInterval)
	}
	if cfg.Game.StartLevel != "ruins" {
		t.Fatalf("start level %q", cfg.Game.StartLevel)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("logging %+v", cfg.Logging)
	}
	// Untouched sections keep their defaults.
	if cfg.Scripting.Dir != "scripts" || cfg.Data.LevelDir != "levels" {
		t.Fatalf("defaults lost: %+v %+v", cfg.Scripting, cfg.Data)
	}
}

func TestLoadWithoutPathYieldsDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.TileSize != 32 || cfg.Window.FrameInterval != 33*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg.Window)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "[window]\ntile_size = 64\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.TileSize != 64 {
		t.Fatalf("env config not applied: %+v", cfg.Window)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	if _, err := Load(writeConfig(t, "[window]\ntile_size = 0\n")); err == nil {
		t.Fatalf("expected error for zero tile_size")
	}
	if _, err := Load(writeConfig(t, "[window\n")); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing explicit path")
	}
}
