package fx

import (
	"math"
	"testing"
)

func TestOpacityFadeFollowsClosedForm(t *testing.T) {
	cfg := DefaultConfig()
	o := NewOpacityFromConfig(cfg)
	k := cfg.OpacitySmoothing

	prev := o.Current()
	for n := 1; n <= 100; n++ {
		got := o.Advance(false)
		if got >= prev {
			t.Fatalf("Step %d: expected strictly decreasing opacity, %f -> %f", n, prev, got)
		}
		prev = got
	}
	want := cfg.IdleOpacity + (cfg.ActiveOpacity-cfg.IdleOpacity)*math.Pow(1-k, 100)
	if math.Abs(prev-want)/want > 0.01 {
		t.Errorf("Expected opacity %f after 100 steps, got %f", want, prev)
	}

	for n := 101; n <= 209; n++ {
		prev = o.Advance(false)
	}
	if math.Abs(prev-cfg.IdleOpacity)/cfg.IdleOpacity > 0.01 {
		t.Errorf("Expected opacity within 1%% of %.2f after 209 steps, got %f", cfg.IdleOpacity, prev)
	}
}

func TestOpacityConverges(t *testing.T) {
	tests := []struct {
		name    string
		initial float64
		animate bool
		target  float64
	}{
		{"Resume from idle", 0.15, true, 1.0},
		{"Pause from active", 1.0, false, 0.15},
		{"Already at target", 1.0, true, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOpacity(tt.initial, 1.0, 0.15, 0.03)
			for i := 0; i < 2000; i++ {
				o.Advance(tt.animate)
			}
			if o.Current() != tt.target {
				t.Errorf("Expected opacity to settle exactly on %f, got %f", tt.target, o.Current())
			}
		})
	}
}

func TestOpacityResumeWithinOnePercent(t *testing.T) {
	o := NewOpacity(0.15, 1.0, 0.15, 0.03)
	for i := 0; i < 150; i++ {
		o.Advance(true)
	}
	if o.Current() < 0.99 {
		t.Errorf("Expected opacity >= 0.99 after 150 steps, got %f", o.Current())
	}
}

func TestOpacitySmoothingClamp(t *testing.T) {
	tests := []struct {
		name string
		k    float64
		want float64
	}{
		{"Zero", 0, 0.03},
		{"Negative", -1, 0.03},
		{"NaN", math.NaN(), 0.03},
		{"Above one", 4, 1},
		{"In range", 0.2, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOpacity(1, 1, 0.15, tt.k)
			if o.k != tt.want {
				t.Errorf("Expected k to be %f, got %f", tt.want, o.k)
			}
		})
	}
}

func TestFrameDelta(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name    string
		elapsed float64 // seconds
		want    float64
	}{
		{"First frame", 0, 1},
		{"Nominal frame", 1.0 / 60, 1},
		{"Slow frame", 1.0 / 30, 2},
		{"Tab was hidden", 5, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.frameDelta(seconds(tt.elapsed))
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Expected delta %f, got %f", tt.want, got)
			}
		})
	}
}
