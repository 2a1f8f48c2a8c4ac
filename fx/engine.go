package fx

import (
	"image/color"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"
)

// AnimateSource supplies the host's "animate" flag, sampled every frame
type AnimateSource interface {
	Animating() bool
}

// AnimateFunc adapts a function to AnimateSource
type AnimateFunc func() bool

func (f AnimateFunc) Animating() bool { return f() }

// State is the frame loop's lifecycle state
type State int

const (
	StateIdle State = iota
	StateRunning
	StateUnmounted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateUnmounted:
		return "unmounted"
	}
	return "unknown"
}

// Options configures an engine instance
type Options struct {
	Config Config

	// Animate is sampled every frame; nil means always animating
	Animate AnimateSource

	// Pointer is the shared pointer record; nil disables pointer interaction
	Pointer PointerReader

	// TopOffset is a logical-pixel band at the top kept clear of particles
	TopOffset float64

	// Seed seeds the engine's random source; 0 derives one from the wall clock
	Seed int64

	Logger *log.Logger
}

// Stats is a snapshot of engine state for overlays and tests
type Stats struct {
	State     State
	Theme     string
	Particles int
	Ceiling   int
	Opacity   float64
	Frames    uint64
	Viewport  Viewport
}

// Engine runs one theme: a surface manager, a particle simulation, an opacity
// controller and a self-rescheduling frame loop.
type Engine struct {
	theme    Theme
	cfg      Config
	opts     Options
	logger   *log.Logger
	surfaces *SurfaceManager
	sim      *Simulation
	opacity  *Opacity
	rng      *rand.Rand

	// mu guards the lifecycle fields below
	mu         sync.Mutex
	state      State
	surface    Surface
	sched      Scheduler
	pending    FrameID
	hasPending bool

	// running is held for the duration of a frame callback
	running sync.Mutex

	// Frame-loop owned state
	viewport Viewport
	applied  uint64
	seeded   bool
	last     time.Time
	simTime  float64
	frames   uint64
}

// New creates an idle engine for theme
func New(theme Theme, opts Options) *Engine {
	cfg := opts.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		theme:    theme,
		cfg:      cfg,
		opts:     opts,
		logger:   logger,
		surfaces: NewSurfaceManager(),
		sim:      NewSimulation(theme),
		opacity:  NewOpacityFromConfig(cfg),
		rng:      rand.New(rand.NewSource(seed)),
		state:    StateIdle,
	}
	if raw := theme.Band(); raw != e.sim.Band() {
		logger.Printf("fx: %s: population band %+v clamped to %+v", theme.Name(), raw, e.sim.Band())
	}
	return e
}

// Theme returns the engine's theme
func (e *Engine) Theme() Theme {
	return e.theme
}

// Surfaces returns the engine's surface manager
func (e *Engine) Surfaces() *SurfaceManager {
	return e.surfaces
}

// Resize records a viewport change. It only swaps the coordinate transform; the
// next frame rebuilds topology and performs the first seed when needed.
func (e *Engine) Resize(width, height, deviceScale float64) {
	if e.surfaces.Resize(width, height, deviceScale) {
		e.logger.Printf("fx: %s: resize %.0fx%.0f @%.2fx", e.theme.Name(), width, height, deviceScale)
	}
}

// Mount starts the frame loop drawing to surface. A nil surface or scheduler
// leaves the engine idle and schedules nothing.
func (e *Engine) Mount(surface Surface, sched Scheduler) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		return
	}
	if surface == nil || sched == nil {
		e.logger.Printf("fx: %s: no drawing surface, staying idle", e.theme.Name())
		return
	}
	e.surface = surface
	e.sched = sched
	e.state = StateRunning
	e.pending = sched.RequestFrame(e.frame)
	e.hasPending = true
	e.logger.Printf("fx: %s: mounted", e.theme.Name())
}

// Unmount stops the frame loop. It is idempotent, safe with nothing pending,
// and waits for an in-flight frame so no callback runs after it returns. It must
// not be called from inside a frame callback.
func (e *Engine) Unmount() {
	e.mu.Lock()
	if e.state == StateUnmounted {
		e.mu.Unlock()
		return
	}
	wasRunning := e.state == StateRunning
	e.state = StateUnmounted
	if e.hasPending && e.sched != nil {
		e.sched.CancelFrame(e.pending)
	}
	e.hasPending = false
	e.mu.Unlock()

	e.running.Lock()
	e.sim.Pool().Reset()
	e.running.Unlock()

	if wasRunning {
		e.logger.Printf("fx: %s: unmounted", e.theme.Name())
	}
}

// State returns the lifecycle state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) frame(now time.Time) {
	e.running.Lock()
	defer e.running.Unlock()

	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return
	}
	e.hasPending = false
	surface := e.surface
	e.mu.Unlock()

	e.Advance(now)
	e.Render(surface)
	if p, ok := surface.(Presenter); ok {
		p.Present()
	}

	e.mu.Lock()
	if e.state == StateRunning {
		e.pending = e.sched.RequestFrame(e.frame)
		e.hasPending = true
	}
	e.mu.Unlock()
}

// Advance runs one frame of state: apply the viewport, smooth the opacity and,
// only while animating, step the simulation. Hosts that drive their own loop
// call Advance and Render directly instead of mounting.
func (e *Engine) Advance(now time.Time) {
	e.applyViewport()

	animate := e.animating()
	e.opacity.Advance(animate)

	var elapsed time.Duration
	if !e.last.IsZero() {
		elapsed = now.Sub(e.last)
	}
	e.last = now

	if !animate || e.viewport.Empty() {
		return
	}

	env := e.env(e.cfg.frameDelta(elapsed))
	e.sim.Step(&env)
	e.simTime += env.DT
	e.frames++
}

// Render draws the current scene. It never mutates simulation state.
func (e *Engine) Render(s Surface) {
	if s == nil {
		return
	}
	s.SetBlend(BlendNormal)
	s.Clear(hexColor(e.cfg.Background))
	if e.viewport.Empty() {
		return
	}

	alpha := e.opacity.Current()
	env := e.env(0)
	env.Rand = nil

	if b, ok := e.theme.(Backdrop); ok {
		b.DrawBackdrop(s, &env, alpha)
	}
	if c, ok := e.theme.(Composited); ok {
		s.SetBlend(c.Blend())
	}
	for _, p := range e.sim.Pool().Particles() {
		e.theme.Draw(s, &p, &env, alpha)
	}
	s.SetBlend(BlendNormal)
}

// Stats returns a snapshot of the engine. Call it from the goroutine driving frames.
func (e *Engine) Stats() Stats {
	return Stats{
		State:     e.State(),
		Theme:     e.theme.Name(),
		Particles: e.sim.Pool().Len(),
		Ceiling:   e.sim.Band().Ceiling,
		Opacity:   e.opacity.Current(),
		Frames:    e.frames,
		Viewport:  e.viewport,
	}
}

// Particles returns the live particles; valid until the next frame
func (e *Engine) Particles() []Particle {
	return e.sim.Pool().Particles()
}

func (e *Engine) applyViewport() {
	v, version := e.surfaces.Viewport()
	if version == e.applied {
		return
	}
	e.applied = version

	sizeChanged := v.Width != e.viewport.Width || v.Height != e.viewport.Height
	e.viewport = v
	if v.Empty() {
		// Hidden surface: keep state, skip topology and seeding
		return
	}

	if t, ok := e.theme.(Topology); ok && sizeChanged {
		t.Rebuild(v, e.rng)
		if r, ok := e.theme.(Retargeter); ok {
			r.Retarget(e.sim.Pool().Particles())
		}
		e.logger.Printf("fx: %s: topology rebuilt for %.0fx%.0f", e.theme.Name(), v.Width, v.Height)
	}
	if !e.seeded {
		env := e.env(1)
		n := e.sim.Seed(&env)
		e.seeded = true
		e.logger.Printf("fx: %s: seeded %d particles", e.theme.Name(), n)
	}
}

func (e *Engine) animating() bool {
	if e.opts.Animate == nil {
		return true
	}
	return e.opts.Animate.Animating()
}

func (e *Engine) env(dt float64) Env {
	env := Env{
		Viewport:  e.viewport,
		TopOffset: e.opts.TopOffset,
		DT:        dt,
		Time:      e.simTime,
		Frame:     e.frames,
		Rand:      e.rng,
	}
	if e.opts.Pointer != nil {
		env.Pointer = e.opts.Pointer.Pointer()
	}
	return env
}

func hexColor(rgb uint32) color.NRGBA {
	return color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 255}
}
