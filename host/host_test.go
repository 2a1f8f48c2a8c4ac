package host

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ambientfx/fx"
	"ambientfx/fx/themes"
	"ambientfx/host/config"
)

func TestFrameStats(t *testing.T) {
	start := time.Unix(1000, 0)
	frame := func(fps int) time.Duration { return time.Second / time.Duration(fps) }

	tests := []struct {
		name  string
		fps   int
		from  time.Duration
		ticks int
		drops int
	}{
		{"Healthy", 60, 5 * time.Second, 120, 0},
		{"Drop ignored during warmup", 30, 0, 60, 0},
		{"Drop reported once per cooldown", 30, 5 * time.Second, 90, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFrameStats(55, 3*time.Second, 10*time.Second, start)
			now := start.Add(tt.from)
			s.windowStart = now
			drops := 0
			for i := 0; i < tt.ticks; i++ {
				now = now.Add(frame(tt.fps))
				if s.Tick(now) {
					drops++
				}
			}
			if drops != tt.drops {
				t.Errorf("Expected %d drops, got %d", tt.drops, drops)
			}
			if got := s.FPS(); got < float64(tt.fps)-1 || got > float64(tt.fps)+1 {
				t.Errorf("Expected FPS near %d, got %f", tt.fps, got)
			}
		})
	}
}

func TestLayoutSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		scale        float64
		wantW, wantH int
	}{
		{"Unit", 800, 600, 1, 800, 600},
		{"Retina", 800, 600, 2, 1600, 1200},
		{"Minimised", 0, 0, 2, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := LayoutSize(tt.w, tt.h, tt.scale)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantW, tt.wantH, w, h)
			}
		})
	}
}

func TestOverlayText(t *testing.T) {
	text := overlayText(fx.Stats{Theme: "snow", State: fx.StateRunning, Particles: 42, Ceiling: 110}, 59.5, false)
	for _, want := range []string{"snow", "running", "paused", "42/110", "59.5"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected overlay to contain %q, got %q", want, text)
		}
	}
}

func TestGameSwitchTheme(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.Theme = "fireflies"
	cfg.Seed = 3
	g, err := NewGame(cfg, log.New(&buf, "", 0))
	if err != nil {
		t.Fatalf("Expected game to start, got %v", err)
	}
	defer g.Close()

	first := g.Engine()
	if g.Theme() != "fireflies" || first.State() != fx.StateRunning {
		t.Fatalf("Expected fireflies running, got %s %v", g.Theme(), first.State())
	}

	g.cycleTheme(1)
	if first.State() != fx.StateUnmounted {
		t.Errorf("Expected the previous engine unmounted, got %v", first.State())
	}
	names := themes.Names()
	want := names[(indexOf(names, "fireflies")+1)%len(names)]
	if g.Theme() != want {
		t.Errorf("Expected %s after cycling, got %s", want, g.Theme())
	}
	if g.queue.Pending() != 1 {
		t.Errorf("Expected exactly one pending frame, got %d", g.queue.Pending())
	}

	g.cycleTheme(-len(names))
	if g.Theme() != want {
		t.Errorf("Expected a full backwards cycle to wrap to %s, got %s", want, g.Theme())
	}

	current := g.Engine()
	if err := g.SwitchTheme("lava"); !errors.Is(err, themes.ErrUnknownTheme) {
		t.Errorf("Expected ErrUnknownTheme, got %v", err)
	}
	if g.Engine() != current || current.State() != fx.StateRunning {
		t.Errorf("Expected the running theme kept after a failed switch")
	}

	// Frames keep flowing on an empty window without a backing image
	now := time.Now()
	for i := 0; i < 3; i++ {
		now = now.Add(time.Second / 60)
		g.step(now)
	}
	if g.queue.Pending() != 1 {
		t.Errorf("Expected the loop to keep rescheduling, got %d pending", g.queue.Pending())
	}
	if !strings.Contains(buf.String(), "mounted") {
		t.Errorf("Expected lifecycle logs, got %q", buf.String())
	}
}

func TestNewGameUnknownTheme(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Theme = "nope"
	if _, err := NewGame(cfg, log.New(&bytes.Buffer{}, "", 0)); !errors.Is(err, themes.ErrUnknownTheme) {
		t.Errorf("Expected ErrUnknownTheme, got %v", err)
	}
}

func TestProfiler(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profiles")
	var buf bytes.Buffer
	p, err := NewProfiler(dir, 20*time.Millisecond, time.Hour, log.New(&buf, "", 0))
	if err != nil {
		t.Fatalf("Expected profiler, got %v", err)
	}

	if err := p.CaptureProfile("test"); err != nil {
		t.Fatalf("Expected capture to start, got %v", err)
	}
	if err := p.CaptureProfile("again"); !errors.Is(err, ErrProfileCooldown) {
		t.Errorf("Expected ErrProfileCooldown, got %v", err)
	}
	p.Wait()
	if p.IsProfiling() {
		t.Errorf("Expected capture finished after Wait")
	}

	for _, pattern := range []string{"*-test.cpu.prof", "*-test.trace"} {
		matches, _ := filepath.Glob(filepath.Join(dir, pattern))
		if len(matches) != 1 {
			t.Errorf("Expected one %s file, got %v", pattern, matches)
		}
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected profiles dir created, got %v", err)
	}
}

func TestProfilerBusy(t *testing.T) {
	p, err := NewProfiler(t.TempDir(), 50*time.Millisecond, 0, log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.CaptureProfile("first"); err != nil {
		t.Fatalf("Expected capture to start, got %v", err)
	}
	if err := p.CaptureProfile("second"); !errors.Is(err, ErrProfileBusy) {
		t.Errorf("Expected ErrProfileBusy, got %v", err)
	}
	p.Wait()
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
