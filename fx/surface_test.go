package fx

import (
	"image"
	"math"
	"testing"
)

func TestSurfaceManagerResize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, scale  float64
		changed      bool
		want         Viewport
		backW, backH int
	}{
		{"First size", 800, 600, 2, true, Viewport{800, 600, 2}, 1600, 1200},
		{"Same size", 800, 600, 2, false, Viewport{800, 600, 2}, 1600, 1200},
		{"Scale only", 800, 600, 1.5, true, Viewport{800, 600, 1.5}, 1200, 900},
		{"Fractional backing rounds up", 333.5, 100, 1.5, true, Viewport{333.5, 100, 1.5}, 501, 150},
		{"Invalid scale", 800, 600, 0, true, Viewport{800, 600, 1}, 800, 600},
		{"Hidden element", 0, 0, 1, true, Viewport{0, 0, 1}, 0, 0},
		{"Negative and NaN", -10, math.NaN(), 1, false, Viewport{0, 0, 1}, 0, 0},
	}

	m := NewSurfaceManager()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, before := m.Viewport()
			changed := m.Resize(tt.w, tt.h, tt.scale)
			if changed != tt.changed {
				t.Errorf("Expected changed to be %v, got %v", tt.changed, changed)
			}
			v, after := m.Viewport()
			if v != tt.want {
				t.Errorf("Expected viewport %+v, got %+v", tt.want, v)
			}
			if changed && after != before+1 || !changed && after != before {
				t.Errorf("Expected version to move with changes, %d -> %d", before, after)
			}
			if w, h := v.BackingSize(); w != tt.backW || h != tt.backH {
				t.Errorf("Expected backing %dx%d, got %dx%d", tt.backW, tt.backH, w, h)
			}
		})
	}
}

func TestViewportTransform(t *testing.T) {
	v := Viewport{Width: 400, Height: 300, Scale: 2}
	bx, by := v.ToBacking(10, 20)
	if bx != 20 || by != 40 {
		t.Errorf("Expected backing (20, 40), got (%f, %f)", bx, by)
	}
	lx, ly := v.ToLogical(bx, by)
	if lx != 10 || ly != 20 {
		t.Errorf("Expected logical (10, 20), got (%f, %f)", lx, ly)
	}
	if c := v.Center(); c != V(200, 150) {
		t.Errorf("Expected centre (200, 150), got %+v", c)
	}
}

func TestPointerTracker(t *testing.T) {
	bounds := image.Rect(100, 50, 500, 350)
	tr := NewPointerTracker()

	if tr.Pointer().Active {
		t.Fatalf("Expected a new tracker to be inactive")
	}

	tr.MoveClient(150, 80, bounds)
	if got := tr.Pointer(); got != (Pointer{X: 50, Y: 30, Active: true}) {
		t.Errorf("Expected local pointer (50, 30) active, got %+v", got)
	}

	tr.MoveClient(600, 80, bounds)
	if got := tr.Pointer(); got.Active || got.X != 50 || got.Y != 30 {
		t.Errorf("Expected leaving to deactivate and keep the last position, got %+v", got)
	}

	tr.Press(5, 6)
	tr.Leave()
	tr.Leave()
	if got := tr.Pointer(); got != (Pointer{X: 5, Y: 6}) {
		t.Errorf("Expected inactive pointer at (5, 6), got %+v", got)
	}
}

func TestPool(t *testing.T) {
	p := NewPool(4)
	for i := 0; i < 6; i++ {
		p.Add(Particle{Kind: i})
	}
	if p.Len() != 4 || !p.Full() {
		t.Fatalf("Expected a full pool of 4, got %d", p.Len())
	}

	removed := p.Filter(func(pt *Particle) bool { return pt.Kind%2 == 0 })
	if removed != 2 {
		t.Errorf("Expected 2 removed, got %d", removed)
	}
	got := p.Particles()
	if len(got) != 2 || got[0].Kind != 0 || got[1].Kind != 2 {
		t.Errorf("Expected kinds [0 2] in order, got %+v", got)
	}

	p.Reset()
	if p.Len() != 0 {
		t.Errorf("Expected empty pool after reset, got %d", p.Len())
	}
}

func TestBandNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Band
		want Band
	}{
		{"Valid", Band{10, 50}, Band{10, 50}},
		{"Zero ceiling", Band{10, 0}, Band{10, DefaultCeiling}},
		{"Above hard cap", Band{10, 500}, Band{10, HardPopulationCap}},
		{"Floor above ceiling", Band{80, 40}, Band{40, 40}},
		{"Negative floor", Band{-3, 20}, Band{0, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestGridNear(t *testing.T) {
	g := NewGrid(50)
	g.Rebuild(Viewport{Width: 200, Height: 200, Scale: 1})
	points := []Vec2{V(10, 10), V(40, 40), V(190, 190), V(500, 500)}
	for i, p := range points {
		g.Insert(i, p)
	}

	found := map[int]bool{}
	g.Near(V(20, 20), 30, func(i int) { found[i] = true })
	if !found[0] || !found[1] || found[2] {
		t.Errorf("Expected neighbours 0 and 1 only, got %v", found)
	}

	// Out-of-range points clamp into the edge cell
	found = map[int]bool{}
	g.Near(V(195, 195), 5, func(i int) { found[i] = true })
	if !found[2] || !found[3] {
		t.Errorf("Expected edge cell to hold 2 and 3, got %v", found)
	}

	g.Rebuild(Viewport{})
	g.Insert(0, V(1, 1))
	g.Near(V(1, 1), 100, func(i int) { t.Errorf("Expected an empty grid, got %d", i) })
}
