// Package engine provides the run manager that owns the catalog reference,
// the mutable run state and the notification bus, and wires together query
// resolution, weighted selection, acquisition and effects.
package engine

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/roguecore/engine/catalog"
	"github.com/nathoo/roguecore/engine/events"
	"github.com/nathoo/roguecore/engine/state"
	"github.com/nathoo/roguecore/types"
)

// Engine holds the catalog, the run state and the event bus.
// It is single-threaded: callers own synchronization.
type Engine struct {
	Catalog *catalog.Catalog
	State   *types.RunState
	Bus     *events.Bus

	logger *slog.Logger
	now    func() time.Time

	started    time.Time
	playOffset float64

	// Actions the run has referenced, so state lookups survive catalog changes.
	known map[string]*types.ActionDef

	checks    []preAcquireCheck
	nextCheck CheckHandle
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the time source used for acquisition timestamps and play time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithBus sets the notification bus. Defaults to a fresh bus.
func WithBus(b *events.Bus) Option {
	return func(e *Engine) {
		if b != nil {
			e.Bus = b
		}
	}
}

// New creates an engine over cat with an inactive run.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	if cat == nil {
		cat = catalog.New()
	}
	e := &Engine{
		Catalog: cat,
		State:   state.New(),
		Bus:     events.NewBus(),
		logger:  slog.Default(),
		now:     time.Now,
		known:   map[string]*types.ActionDef{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartRun begins a new run. An active run is ended first as not completed.
// A seed of 0 is recorded as-is; queries pick their own seeds.
func (e *Engine) StartRun(seed int64) {
	if e.State.Active {
		e.EndRun(false)
	}

	state.Reset(e.State)
	e.known = map[string]*types.ActionDef{}
	e.State.Active = true
	e.State.RunID = uuid.NewString()
	e.State.Seed = seed
	e.started = e.now()
	e.playOffset = 0

	e.logger.Debug("run started", "run_id", e.State.RunID, "seed", seed)
	e.Bus.Publish(types.Event{
		Type: types.EventRunStarted,
		Data: map[string]any{"run_id": e.State.RunID, "seed": seed},
	})
}

// EndRun marks the run inactive. No-op when no run is active.
// State is kept for inspection until the next StartRun.
func (e *Engine) EndRun(completed bool) {
	if !e.State.Active {
		return
	}
	e.playOffset = e.PlayTime()
	e.State.Active = false

	e.logger.Debug("run ended", "run_id", e.State.RunID, "completed", completed)
	e.Bus.Publish(types.Event{
		Type: types.EventRunEnded,
		Data: map[string]any{"run_id": e.State.RunID, "completed": completed},
	})
}

// IsRunActive reports whether a run is in progress.
func (e *Engine) IsRunActive() bool {
	return e.State.Active
}

// PlayTime returns the run's elapsed seconds, including time carried over
// from a restored snapshot. It stops advancing when the run ends.
func (e *Engine) PlayTime() float64 {
	if !e.State.Active {
		return e.playOffset
	}
	return e.playOffset + e.elapsed()
}

// Close ends an active run, drops the catalog and clears pre-acquire checks.
// The engine answers queries with empty results afterwards.
func (e *Engine) Close() {
	if e.State.Active {
		e.EndRun(false)
	}
	e.Catalog = catalog.New()
	e.checks = nil
}

// Resolve looks an action reference up in the catalog, falling back to
// actions the run has already referenced.
func (e *Engine) Resolve(id string) (*types.ActionDef, bool) {
	if a, ok := e.Catalog.Resolve(id); ok {
		return a, true
	}
	a, ok := e.known[id]
	return a, ok
}

func (e *Engine) lookup(id string) *types.ActionDef {
	a, _ := e.Resolve(id)
	return a
}

func (e *Engine) elapsed() float64 {
	if e.started.IsZero() {
		return 0
	}
	return e.now().Sub(e.started).Seconds()
}
