package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vinnievg/pyland/internal/config"
	"github.com/vinnievg/pyland/internal/core/object"
	coresys "github.com/vinnievg/pyland/internal/core/system"
	"github.com/vinnievg/pyland/internal/data"
	"github.com/vinnievg/pyland/internal/game"
	"github.com/vinnievg/pyland/internal/input"
	"github.com/vinnievg/pyland/internal/render"
	"github.com/vinnievg/pyland/internal/scripting"
	"github.com/vinnievg/pyland/internal/view"
	"github.com/vinnievg/pyland/internal/window"
	"github.com/vinnievg/pyland/internal/window/x11"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              Pyland  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        tile-world scripting game          \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Key bindings (X evdev keycodes) ────────────────────────────────

const (
	keyEscape uint32 = 9
	keyUp     uint32 = 111
	keyLeft   uint32 = 113
	keyRight  uint32 = 114
	keyDown   uint32 = 116
)

// flatShader stands in for a compiled GL program on the software device.
type flatShader struct{}

func (flatShader) Program() uint32 { return 1 }

func newComponent(kind, name string) render.Component {
	c := &render.BaseComponent{}
	c.SetShader(flatShader{})
	c.SetNumVerticesRender(6) // one textured quad
	return c
}

// ── Frame-loop systems ─────────────────────────────────────────────

type eventSystem struct {
	mgr *window.Manager
}

func (s *eventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }
func (s *eventSystem) Update(dt time.Duration) { s.mgr.Update() }

type renderSystem struct {
	v   *view.Viewer
	win *window.Window
}

func (s *renderSystem) Phase() coresys.Phase { return coresys.PhaseRender }

func (s *renderSystem) Update(dt time.Duration) {
	if s.win.State() != window.Live {
		return
	}
	s.v.Render()
	s.win.Present()
}

type cleanupSystem struct {
	mgr  *window.Manager
	win  *window.Window
	quit func()
}

func (s *cleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *cleanupSystem) Update(dt time.Duration) {
	if s.win.State() == window.Closed {
		return
	}
	if s.win.CheckClose() {
		s.mgr.DestroyWindow(s.win)
		s.quit()
	}
}

// ── Main game logic ────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := ""
	if _, err := os.Stat("config/pyland.toml"); err == nil {
		cfgPath = "config/pyland.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Load level data
	printSection("Data")

	levels, err := data.LoadLevelTable(cfg.Data.LevelDir)
	if err != nil {
		return fmt.Errorf("load levels: %w", err)
	}
	printStat("levels", levels.Count())

	startLevel := levels.Get(cfg.Game.StartLevel)
	if startLevel == nil {
		return fmt.Errorf("start level %q not found in %s", cfg.Game.StartLevel, cfg.Data.LevelDir)
	}

	// 4. Initialize Lua scripting engine
	luaEngine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("behaviour scripts loaded")
	fmt.Println()

	// 5. Open the game window
	printSection("Window")

	mgr := window.NewManager(x11.New(log), window.Options{
		Overscan: window.Overscan{
			Left: cfg.Window.OverscanLeft,
			Top:  cfg.Window.OverscanTop,
		},
		DisableDirectRender: cfg.Window.DisableDirectRender,
		NewInput: func(w *window.Window) window.InputHandler {
			return input.NewManager(log)
		},
	}, log)

	win, err := mgr.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Fullscreen)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	w, h := win.Size()
	printOK(fmt.Sprintf("window %dx%d (%s)", w, h, win.Surface().Kind()))

	// 6. Build registry, viewer, and the starting challenge
	reg := object.NewRegistry(log)
	dev := x11.NewDevice(win, log)
	viewer := view.NewViewer(win, reg, dev, float32(cfg.Window.TileSize), log)
	defer viewer.Close()

	challenge, err := game.NewChallenge(startLevel, reg, viewer, luaEngine, newComponent, log)
	if err != nil {
		return fmt.Errorf("start challenge: %w", err)
	}
	defer challenge.Close()
	printStat("entities", len(challenge.Spawned()))
	fmt.Println()

	// 7. Wire keyboard control
	keys, ok := win.Input().(*input.Manager)
	if !ok {
		return fmt.Errorf("window input is not an input manager")
	}
	keyLifeline := keys.OnKeyPress(func(kp input.KeyPress) {
		switch kp.Code {
		case keyUp:
			challenge.MoveFocus(0, -1)
		case keyDown:
			challenge.MoveFocus(0, 1)
		case keyLeft:
			challenge.MoveFocus(-1, 0)
		case keyRight:
			challenge.MoveFocus(1, 0)
		case keyEscape:
			win.RequestClose()
		}
	})
	defer keyLifeline.Release()

	// 8. Register frame-loop systems
	done := make(chan struct{})
	var quitOnce bool
	quit := func() {
		if !quitOnce {
			quitOnce = true
			close(done)
		}
	}

	runner := coresys.NewRunner()
	runner.Register(&eventSystem{mgr: mgr})
	runner.Register(challenge)
	runner.Register(&renderSystem{v: viewer, win: win})
	runner.Register(&cleanupSystem{mgr: mgr, win: win, quit: quit})

	// 9. Start frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Window.FrameInterval)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("level %q", startLevel.Info.Name))
	printReady(fmt.Sprintf("frame loop started (interval: %s)", cfg.Window.FrameInterval))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Window.FrameInterval)
		case <-done:
			log.Info("window closed")
			return nil
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			if win.State() != window.Closed {
				mgr.DestroyWindow(win)
			}
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
