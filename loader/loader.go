package loader

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/roguecore/types"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	meta    *lua.LTable
	actions []rawDef
	presets []rawDef
	slots   []rawDef
	order   int
}

func (c *collector) nextSourceOrder() int {
	c.order++
	return c.order
}

// Option configures Load.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger that receives validation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Load reads all .lua files from dir, compiles them into content, validates
// it, and returns the result. The Lua VM is discarded after loading.
func Load(dir string, opts ...Option) (*types.Content, error) {
	o := &options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(o)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// Sort: content.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	L := newVM()
	defer L.Close()

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		path := filepath.Join(dir, f)
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	ve := &ValidationError{}
	content := compile(coll, ve)
	validate(content, ve)

	for _, w := range ve.Warnings {
		o.logger.Warn("content warning", "dir", dir, "warning", w)
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}

	o.logger.Debug("content loaded",
		"dir", dir,
		"files", len(luaFiles),
		"actions", len(content.Actions),
		"presets", len(content.Presets),
		"slots", len(content.SlotCapacity))
	return content, nil
}

// newVM creates a sandboxed Lua state with only the safe libraries open.
func newVM() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	return L
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Content must not reseed; runs are seeded by the engine.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
	}
}
