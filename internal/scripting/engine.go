package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for entity behaviour scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm         *lua.LState
	log        *zap.Logger
	behaviours map[string]*lua.LTable
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. Scripts call register_behaviour(name, table) to attach
// on_spawn/on_tick hooks.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{
		vm:         vm,
		log:        log,
		behaviours: make(map[string]*lua.LTable),
	}
	vm.SetGlobal("register_behaviour", vm.NewFunction(e.registerBehaviour))

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load behaviour scripts: %w", err)
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString executes an inline script chunk.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

func (e *Engine) registerBehaviour(L *lua.LState) int {
	name := L.CheckString(1)
	tbl := L.CheckTable(2)
	e.behaviours[name] = tbl
	e.log.Debug("registered behaviour", zap.String("name", name))
	return 0
}

// HasBehaviour reports whether a behaviour table was registered under name.
func (e *Engine) HasBehaviour(name string) bool {
	_, ok := e.behaviours[name]
	return ok
}

// EntityContext holds pre-packed data passed to a behaviour hook.
type EntityContext struct {
	ID        int32
	Name      string
	Behaviour string
	X, Y      float32
	MapWidth  int
	MapHeight int
	Ticks     int64 // frames since the behaviour's entity spawned
}

// Command is a single action returned by a behaviour hook.
type Command struct {
	Type   string // "move", "say", "focus", "remove"
	DX, DY float32
	Text   string
}

// RunSpawn calls the behaviour's on_spawn hook, if present.
func (e *Engine) RunSpawn(ctx EntityContext) []Command {
	return e.callHook(ctx, "on_spawn")
}

// RunTick calls the behaviour's on_tick hook, if present.
func (e *Engine) RunTick(ctx EntityContext) []Command {
	return e.callHook(ctx, "on_tick")
}

func (e *Engine) callHook(ctx EntityContext, hook string) []Command {
	b := e.behaviours[ctx.Behaviour]
	if b == nil {
		return nil
	}
	fn := b.RawGetString(hook)
	if fn == lua.LNil {
		return nil
	}

	// Build context table
	t := e.vm.NewTable()
	t.RawSetString("id", lua.LNumber(ctx.ID))
	t.RawSetString("name", lua.LString(ctx.Name))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("map_width", lua.LNumber(ctx.MapWidth))
	t.RawSetString("map_height", lua.LNumber(ctx.MapHeight))
	t.RawSetString("ticks", lua.LNumber(ctx.Ticks))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua behaviour error",
			zap.String("behaviour", ctx.Behaviour),
			zap.String("hook", hook),
			zap.Error(err))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	// Parse commands array
	var cmds []Command
	rt.ForEach(func(_, v lua.LValue) {
		if row, ok := v.(*lua.LTable); ok {
			cmds = append(cmds, Command{
				Type: lStr(row, "type"),
				DX:   lFloat(row, "dx"),
				DY:   lFloat(row, "dy"),
				Text: lStr(row, "text"),
			})
		}
	})
	return cmds
}

// --- Lua helpers ---

// lFloat reads a float field from a Lua table.
func lFloat(t *lua.LTable, key string) float32 {
	return float32(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
