package scripting

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/shapesim/internal/geom"
)

// ErrNoFunction is returned when a zone names a spawn-point function no
// script defines.
var ErrNoFunction = errors.New("scripting: lua function not found")

// Engine wraps a single gopher-lua VM for spawn-point scripts.
// Single-goroutine access only (simulation loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger

	// rng backs the random helpers while a spawn-point function runs.
	rng *rand.Rand
	ctx *lua.LTable
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)

	// Load shared helpers first, then zone scripts
	for _, sub := range []string{"core", "zones"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	e.ctx = vm.NewTable()
	e.ctx.RawSetString("random", vm.NewFunction(e.luaRandom))
	e.ctx.RawSetString("range", vm.NewFunction(e.luaRange))
	return e
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

// LoadString runs a chunk of Lua source, typically defining functions.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// Has reports whether a global function with the given name is defined.
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// SpawnPoint calls a Lua spawn-point function. The function receives a
// context table with random() and range(lo, hi) helpers drawing from rng, and
// returns a table {x=, y=, z=} in the zone's local space.
func (e *Engine) SpawnPoint(name string, rng *rand.Rand) (geom.Vec3, error) {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return geom.Zero, fmt.Errorf("%w: %s", ErrNoFunction, name)
	}

	e.rng = rng
	defer func() { e.rng = nil }()

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, e.ctx); err != nil {
		return geom.Zero, fmt.Errorf("lua %s: %w", name, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return geom.Zero, fmt.Errorf("lua %s returned %s, want table", name, result.Type())
	}
	return geom.Vec3{
		X: lFloat(rt, "x"),
		Y: lFloat(rt, "y"),
		Z: lFloat(rt, "z"),
	}, nil
}

func (e *Engine) luaRandom(L *lua.LState) int {
	L.Push(lua.LNumber(e.rng.Float64()))
	return 1
}

func (e *Engine) luaRange(L *lua.LState) int {
	lo := float32(L.CheckNumber(1))
	hi := float32(L.CheckNumber(2))
	L.Push(lua.LNumber(geom.RangeFloat(e.rng, lo, hi)))
	return 1
}

// --- Lua helpers ---

// lFloat reads a number field from a Lua table.
func lFloat(t *lua.LTable, key string) float32 {
	return float32(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
