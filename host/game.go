// Package host runs ambientfx engines inside an ebiten window: it owns the
// frame queue flushed once per tick, the offscreen surface, the pointer and
// animate collaborators, theme switching, a debug overlay and FPS-drop profiling.
package host

import (
	"fmt"
	"image/color"
	"log"
	"runtime"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"ambientfx/fx"
	"ambientfx/fx/themes"
	"ambientfx/host/config"
	"ambientfx/render/ebitensurface"
)

// themeKeys pick the first nine registry entries directly
var themeKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// Game implements ebiten.Game around one engine at a time
type Game struct {
	config config.Config
	logger *log.Logger

	queue   *fx.FrameQueue
	surface *ebitensurface.Surface
	pointer *fx.PointerTracker
	input   *PointerInput
	animate *fx.AnimateFlag

	engine *fx.Engine
	names  []string
	theme  int

	viewport fx.Viewport

	stats    *FrameStats
	profiler *Profiler

	showDebug bool
}

// NewGame creates a game showing cfg.Theme
func NewGame(cfg config.Config, logger *log.Logger) (*Game, error) {
	if logger == nil {
		logger = log.Default()
	}
	pointer := fx.NewPointerTracker()
	g := &Game{
		config:   cfg,
		logger:   logger,
		queue:    fx.NewFrameQueue(),
		surface:  ebitensurface.New(0, 0, 1),
		pointer:  pointer,
		input:    NewPointerInput(pointer),
		animate:  fx.NewAnimateFlag(true),
		names:    themes.Names(),
		viewport: fx.Viewport{Scale: 1},
		stats:    NewFrameStats(cfg.FPSThreshold, cfg.Warmup, cfg.ProfileCooldown, time.Now()),
	}

	if cfg.Profile {
		p, err := NewProfiler(cfg.ProfilesDir, 5*time.Second, cfg.ProfileCooldown, logger)
		if err != nil {
			return nil, err
		}
		g.profiler = p
	}

	if err := g.SwitchTheme(cfg.Theme); err != nil {
		return nil, err
	}
	return g, nil
}

// SwitchTheme unmounts the current engine and mounts a fresh one for name.
// On error the current theme keeps running.
func (g *Game) SwitchTheme(name string) error {
	theme, err := themes.Lookup(name, g.config.Seed)
	if err != nil {
		return fmt.Errorf("switch theme: %w", err)
	}
	if g.engine != nil {
		g.engine.Unmount()
	}

	g.engine = fx.New(theme, fx.Options{
		Config:    g.config.Engine,
		Animate:   g.animate,
		Pointer:   g.pointer,
		TopOffset: g.config.TopOffset,
		Seed:      g.config.Seed,
		Logger:    g.logger,
	})
	g.engine.Resize(g.viewport.Width, g.viewport.Height, g.viewport.Scale)
	g.engine.Mount(g.surface, g.queue)
	g.theme = slices.Index(g.names, name)
	return nil
}

// cycleTheme moves through the registry by delta, wrapping at both ends
func (g *Game) cycleTheme(delta int) {
	n := len(g.names)
	next := ((g.theme+delta)%n + n) % n
	if err := g.SwitchTheme(g.names[next]); err != nil {
		g.logger.Printf("host: %v", err)
	}
}

// Theme returns the name of the running theme
func (g *Game) Theme() string {
	return g.engine.Theme().Name()
}

// Engine returns the running engine
func (g *Game) Engine() *fx.Engine {
	return g.engine
}

// Animate returns the shared animate flag
func (g *Game) Animate() *fx.AnimateFlag {
	return g.animate
}

// Close stops the running engine and waits for a pending profile capture
func (g *Game) Close() {
	if g.engine != nil {
		g.engine.Unmount()
	}
	if g.profiler != nil {
		g.profiler.Wait()
	}
}

// Update polls input and runs the frames queued for this tick
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleKeys()
	g.input.Update(g.viewport)
	g.step(time.Now())
	return nil
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showDebug = !g.showDebug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		on := g.animate.Toggle()
		g.logger.Printf("host: animate %v", on)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			g.cycleTheme(-1)
		} else {
			g.cycleTheme(1)
		}
	}
	for i, key := range themeKeys {
		if i < len(g.names) && inpututil.IsKeyJustPressed(key) {
			g.cycleTheme(i - g.theme)
		}
	}
	if g.profiler != nil && inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if err := g.profiler.CaptureProfile("manual"); err != nil {
			g.logger.Printf("host: %v", err)
		}
	}
}

// step flushes the frame queue and feeds the frame rate monitor
func (g *Game) step(now time.Time) {
	g.queue.Flush(now)

	if !g.stats.Tick(now) || g.profiler == nil {
		return
	}
	s := g.engine.Stats()
	reason := fmt.Sprintf("fps%.0f-%s-particles%d", g.stats.FPS(), s.Theme, s.Particles)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	g.logger.Printf("host: FPS drop detected (%.0f FPS), GC stats: NumGC=%d, PauseTotal=%v, HeapAlloc=%d KB",
		g.stats.FPS(), m.NumGC, time.Duration(m.PauseTotalNs), m.HeapAlloc/1024)
	if err := g.profiler.CaptureProfile(reason); err != nil {
		g.logger.Printf("host: failed to capture profile: %v", err)
	}
}

// Draw copies the engine's offscreen surface to the screen
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.surface.DrawTo(screen)
	if g.showDebug {
		ebitenutil.DebugPrint(screen, overlayText(g.engine.Stats(), g.stats.FPS(), g.animate.Animating()))
	}
}

// Layout reports the window in device pixels so the surface renders at the
// monitor's native density
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := 1.0
	if m := ebiten.Monitor(); m != nil {
		scale = m.DeviceScaleFactor()
	}
	g.resize(outsideWidth, outsideHeight, scale)
	return LayoutSize(outsideWidth, outsideHeight, scale)
}

func (g *Game) resize(width, height int, scale float64) {
	v := fx.Viewport{Width: float64(width), Height: float64(height), Scale: scale}
	if v == g.viewport {
		return
	}
	g.viewport = v
	g.surface.Resize(v)
	g.engine.Resize(v.Width, v.Height, v.Scale)
}

func overlayText(s fx.Stats, fps float64, animating bool) string {
	mode := "playing"
	if !animating {
		mode = "paused"
	}
	return fmt.Sprintf("%s [%s] %s\nparticles %d/%d  opacity %.2f\nfps %.1f  frames %d  %.0fx%.0f @%.1fx\n"+
		"space: pause  tab: next theme  1-9: pick  F1: hide",
		s.Theme, s.State, mode,
		s.Particles, s.Ceiling, s.Opacity,
		fps, s.Frames, s.Viewport.Width, s.Viewport.Height, s.Viewport.Scale)
}
