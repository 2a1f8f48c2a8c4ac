package fx_test

import (
	"bytes"
	"log"
	"math"
	"reflect"
	"strings"
	"testing"

	"ambientfx/fx"
	"ambientfx/render/record"
)

func newTestEngine(theme fx.Theme, animate *bool, ptr fx.PointerReader) *fx.Engine {
	opts := fx.Options{Seed: 42, Pointer: ptr}
	if animate != nil {
		opts.Animate = fx.AnimateFunc(func() bool { return *animate })
	}
	return fx.New(theme, opts)
}

func TestMountWithoutSurface(t *testing.T) {
	tests := []struct {
		name    string
		surface fx.Surface
		queue   bool
	}{
		{"Nil surface", nil, true},
		{"Nil scheduler", record.New(100, 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(&testTheme{band: fx.Band{Floor: 5, Ceiling: 10}}, nil, nil)
			q := fx.NewFrameQueue()
			if tt.queue {
				e.Mount(tt.surface, q)
			} else {
				e.Mount(tt.surface, nil)
			}
			if e.State() != fx.StateIdle {
				t.Errorf("Expected state idle, got %v", e.State())
			}
			if q.Pending() != 0 {
				t.Errorf("Expected no scheduled frames, got %d", q.Pending())
			}
			e.Unmount()
		})
	}
}

func TestEngineLifecycle(t *testing.T) {
	surface := record.New(800, 600)
	q := fx.NewFrameQueue()
	clk := newClock()
	e := newTestEngine(&testTheme{band: fx.Band{Floor: 10, Ceiling: 20}}, nil, nil)
	e.Resize(800, 600, 1)

	e.Mount(surface, q)
	if e.State() != fx.StateRunning {
		t.Fatalf("Expected running after mount, got %v", e.State())
	}
	if q.Pending() != 1 {
		t.Fatalf("Expected one pending frame after mount, got %d", q.Pending())
	}

	for i := 0; i < 5; i++ {
		if ran := q.Flush(clk.tick()); ran != 1 {
			t.Fatalf("Flush %d: expected 1 callback, got %d", i, ran)
		}
	}
	if surface.Frames() != 5 {
		t.Errorf("Expected 5 rendered frames, got %d", surface.Frames())
	}
	if surface.Presented() != 5 {
		t.Errorf("Expected every frame presented, got %d", surface.Presented())
	}
	if got := e.Stats().Frames; got != 5 {
		t.Errorf("Expected 5 simulated frames, got %d", got)
	}

	e.Unmount()
	if q.Pending() != 0 {
		t.Errorf("Expected no pending frames after unmount, got %d", q.Pending())
	}
	if len(e.Particles()) != 0 {
		t.Errorf("Expected pool released after unmount, got %d particles", len(e.Particles()))
	}
	if ran := q.Flush(clk.tick()); ran != 0 {
		t.Errorf("Expected no callbacks after unmount, got %d", ran)
	}
	if surface.Frames() != 5 {
		t.Errorf("Expected no frames drawn after unmount, got %d", surface.Frames())
	}

	// Idempotent
	e.Unmount()
	if e.State() != fx.StateUnmounted {
		t.Errorf("Expected unmounted, got %v", e.State())
	}

	// A stopped engine cannot be remounted
	e.Mount(surface, q)
	if q.Pending() != 0 {
		t.Errorf("Expected remount to be ignored, got %d pending", q.Pending())
	}
}

func TestUnmountBeforeMount(t *testing.T) {
	e := newTestEngine(&testTheme{band: fx.Band{Floor: 1, Ceiling: 2}}, nil, nil)
	e.Unmount()
	e.Unmount()
	if e.State() != fx.StateUnmounted {
		t.Errorf("Expected unmounted, got %v", e.State())
	}
}

func TestLazySeedOnFirstViewport(t *testing.T) {
	surface := record.New(0, 0)
	q := fx.NewFrameQueue()
	clk := newClock()
	theme := &testTheme{band: fx.Band{Floor: 12, Ceiling: 30}}
	e := newTestEngine(theme, nil, nil)
	e.Mount(surface, q)

	// Hidden surface: frames run but nothing is seeded or simulated
	for i := 0; i < 3; i++ {
		q.Flush(clk.tick())
	}
	if n := len(e.Particles()); n != 0 {
		t.Errorf("Expected no particles for an empty viewport, got %d", n)
	}
	if theme.rebuilds != 0 {
		t.Errorf("Expected no topology build for an empty viewport, got %d", theme.rebuilds)
	}

	e.Resize(400, 300, 2)
	q.Flush(clk.tick())
	if n := len(e.Particles()); n < 12 {
		t.Errorf("Expected at least the floor of 12 after the first real viewport, got %d", n)
	}
	if theme.rebuilds != 1 {
		t.Errorf("Expected 1 topology build, got %d", theme.rebuilds)
	}
	e.Unmount()
}

func TestResizeIdempotence(t *testing.T) {
	surface := record.New(800, 600)
	q := fx.NewFrameQueue()
	clk := newClock()
	theme := &testTheme{band: fx.Band{Floor: 15, Ceiling: 30}}
	animate := false
	e := newTestEngine(theme, &animate, nil)

	e.Resize(800, 600, 2)
	e.Mount(surface, q)
	q.Flush(clk.tick())

	before := append([]fx.Particle(nil), e.Particles()...)
	_, version := e.Surfaces().Viewport()

	e.Resize(800, 600, 2)
	q.Flush(clk.tick())

	if _, v := e.Surfaces().Viewport(); v != version {
		t.Errorf("Expected viewport version %d unchanged, got %d", version, v)
	}
	if theme.rebuilds != 1 {
		t.Errorf("Expected 1 topology build, got %d", theme.rebuilds)
	}
	if !reflect.DeepEqual(before, e.Particles()) {
		t.Errorf("Expected particles unchanged by an identical resize")
	}

	// A real resize swaps the transform and rebuilds topology but keeps particles
	e.Resize(1024, 768, 1)
	q.Flush(clk.tick())
	if theme.rebuilds != 2 {
		t.Errorf("Expected 2 topology builds, got %d", theme.rebuilds)
	}
	if theme.retargeted != len(before) {
		t.Errorf("Expected %d particles retargeted after the rebuild, got %d", len(before), theme.retargeted)
	}
	if !reflect.DeepEqual(before, e.Particles()) {
		t.Errorf("Expected particles preserved across resize while paused")
	}
	if got := e.Stats().Viewport; got.Width != 1024 || got.Height != 768 || got.Scale != 1 {
		t.Errorf("Expected viewport 1024x768@1, got %+v", got)
	}
	e.Unmount()
}

func TestPausedFramesDoNotStep(t *testing.T) {
	surface := record.New(320, 240)
	q := fx.NewFrameQueue()
	clk := newClock()
	animate := true
	e := newTestEngine(&testTheme{band: fx.Band{Floor: 8, Ceiling: 16}}, &animate, nil)
	e.Resize(320, 240, 1)
	e.Mount(surface, q)
	q.Flush(clk.tick())

	animate = false
	frozen := append([]fx.Particle(nil), e.Particles()...)
	prevOpacity := e.Stats().Opacity
	for i := 0; i < 30; i++ {
		q.Flush(clk.tick())
		op := e.Stats().Opacity
		if op > prevOpacity {
			t.Fatalf("Expected opacity to fade while paused, went %f -> %f", prevOpacity, op)
		}
		prevOpacity = op
	}
	if !reflect.DeepEqual(frozen, e.Particles()) {
		t.Errorf("Expected no simulation while paused")
	}
	if surface.Frames() != 31 {
		t.Errorf("Expected paused frames to keep drawing, got %d frames", surface.Frames())
	}

	animate = true
	q.Flush(clk.tick())
	if reflect.DeepEqual(frozen, e.Particles()) {
		t.Errorf("Expected simulation to resume")
	}
	e.Unmount()
}

func TestRenderIsPure(t *testing.T) {
	e := newTestEngine(&testTheme{band: fx.Band{Floor: 10, Ceiling: 20}}, nil, nil)
	e.Resize(200, 200, 1)
	clk := newClock()
	for i := 0; i < 10; i++ {
		e.Advance(clk.tick())
	}

	first, second := record.New(200, 200), record.New(200, 200)
	e.Render(first)
	e.Render(second)
	if !reflect.DeepEqual(first.Calls(), second.Calls()) {
		t.Errorf("Expected identical output from repeated renders")
	}
	if got := first.Count(record.OpFillCircle); got != len(e.Particles()) {
		t.Errorf("Expected %d particle draws, got %d", len(e.Particles()), got)
	}
	e.Render(nil)
}

func TestLongRunStaysFinite(t *testing.T) {
	tracker := fx.NewPointerTracker()
	theme := &testTheme{
		band:     fx.Band{Floor: 30, Ceiling: 60},
		policy:   &fx.RateSpawn{PerFrame: 0.5},
		lifetime: [2]float64{50, 500},
		field:    fx.PointerField{Radius: 150, Strength: 0.5, Falloff: fx.FalloffInverse, EventHorizon: 3},
	}
	e := newTestEngine(theme, nil, tracker)
	e.Resize(800, 600, 1)
	clk := newClock()

	for i := 0; i < 10000; i++ {
		if i%1000 == 500 {
			tracker.Move(400, 300)
		} else if i%1000 == 0 {
			tracker.Leave()
		}
		e.Advance(clk.tick())
	}
	for _, p := range e.Particles() {
		if !p.Finite() {
			t.Fatalf("Expected finite particles, got %+v", p)
		}
	}
	surface := record.New(800, 600)
	e.Render(surface)
	if surface.NonFinite() {
		t.Errorf("Expected only finite draw arguments")
	}
}

func TestEngineOpacityReachesIdle(t *testing.T) {
	animate := false
	e := newTestEngine(&testTheme{band: fx.Band{Floor: 1, Ceiling: 2}}, &animate, nil)
	clk := newClock()
	cfg := fx.DefaultConfig()

	for i := 0; i < 209; i++ {
		e.Advance(clk.tick())
	}
	if got := e.Stats().Opacity; math.Abs(got-cfg.IdleOpacity)/cfg.IdleOpacity > 0.01 {
		t.Errorf("Expected opacity within 1%% of %.2f, got %f", cfg.IdleOpacity, got)
	}
}

func TestEngineLogsLifecycle(t *testing.T) {
	var buf bytes.Buffer
	e := fx.New(&testTheme{band: fx.Band{Floor: 2, Ceiling: 500}}, fx.Options{
		Seed:   1,
		Logger: log.New(&buf, "", 0),
	})
	e.Resize(100, 100, 1)
	q := fx.NewFrameQueue()
	e.Mount(record.New(100, 100), q)
	q.Flush(newClock().tick())
	e.Unmount()

	for _, want := range []string{"clamped", "mounted", "seeded 2", "unmounted"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected log to mention %q, got:\n%s", want, buf.String())
		}
	}
}
