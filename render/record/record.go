// Package record provides an fx.Surface that records draw calls instead of
// drawing them, for tests and headless dry runs
package record

import (
	"image"
	"image/color"
	"math"
	"sync"

	"ambientfx/fx"
)

// Op names a recorded drawing operation
type Op int

const (
	OpClear Op = iota
	OpBlend
	OpFillCircle
	OpStrokeCircle
	OpLine
	OpFillRect
	OpGlow
	OpSprite
)

func (o Op) String() string {
	switch o {
	case OpClear:
		return "clear"
	case OpBlend:
		return "blend"
	case OpFillCircle:
		return "fill-circle"
	case OpStrokeCircle:
		return "stroke-circle"
	case OpLine:
		return "line"
	case OpFillRect:
		return "fill-rect"
	case OpGlow:
		return "glow"
	case OpSprite:
		return "sprite"
	}
	return "unknown"
}

// Call is one recorded operation. Unused coordinates are zero.
type Call struct {
	Op    Op
	Blend fx.Blend
	X, Y  float64
	X2    float64
	Y2    float64
	R     float64 // radius, line width or sprite size
	Alpha float64
	Color color.Color
}

// Surface records calls against a fixed logical size
type Surface struct {
	mu     sync.Mutex
	width  float64
	height float64
	blend  fx.Blend
	calls  []Call
	shown  int
}

// New creates a recording surface of the given logical size
func New(width, height float64) *Surface {
	return &Surface{width: width, height: height}
}

func (s *Surface) Size() (float64, float64) {
	return s.width, s.height
}

func (s *Surface) record(c Call) {
	s.mu.Lock()
	c.Blend = s.blend
	s.calls = append(s.calls, c)
	s.mu.Unlock()
}

func (s *Surface) Clear(clr color.Color) {
	s.record(Call{Op: OpClear, Color: clr, Alpha: 1})
}

func (s *Surface) SetBlend(mode fx.Blend) {
	s.mu.Lock()
	s.blend = mode
	s.mu.Unlock()
	s.record(Call{Op: OpBlend})
}

func (s *Surface) FillCircle(cx, cy, r float64, clr color.Color, alpha float64) {
	s.record(Call{Op: OpFillCircle, X: cx, Y: cy, R: r, Color: clr, Alpha: alpha})
}

func (s *Surface) StrokeCircle(cx, cy, r, width float64, clr color.Color, alpha float64) {
	s.record(Call{Op: OpStrokeCircle, X: cx, Y: cy, R: r, X2: width, Color: clr, Alpha: alpha})
}

func (s *Surface) Line(x1, y1, x2, y2, width float64, clr color.Color, alpha float64) {
	s.record(Call{Op: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, R: width, Color: clr, Alpha: alpha})
}

func (s *Surface) FillRect(x, y, w, h float64, clr color.Color, alpha float64) {
	s.record(Call{Op: OpFillRect, X: x, Y: y, X2: x + w, Y2: y + h, Color: clr, Alpha: alpha})
}

func (s *Surface) Glow(cx, cy, r float64, clr color.Color, alpha float64) {
	s.record(Call{Op: OpGlow, X: cx, Y: cy, R: r, Color: clr, Alpha: alpha})
}

func (s *Surface) Sprite(img image.Image, cx, cy, size, alpha float64) {
	s.record(Call{Op: OpSprite, X: cx, Y: cy, R: size, Alpha: alpha})
}

// Calls returns a copy of the recorded calls
func (s *Surface) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Count returns how many calls of op were recorded
func (s *Surface) Count(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Present counts a flipped frame
func (s *Surface) Present() {
	s.mu.Lock()
	s.shown++
	s.mu.Unlock()
}

// Presented returns how many frames were flipped
func (s *Surface) Presented() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown
}

// Frames returns the number of frames drawn, counted by Clear calls
func (s *Surface) Frames() int {
	return s.Count(OpClear)
}

// MaxAlpha returns the largest alpha passed to a primitive, ignoring clears
func (s *Surface) MaxAlpha() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := 0.0
	for _, c := range s.calls {
		if c.Op == OpClear || c.Op == OpBlend {
			continue
		}
		best = math.Max(best, c.Alpha)
	}
	return best
}

// NonFinite reports whether any recorded coordinate, size or alpha was NaN or infinite
func (s *Surface) NonFinite() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		for _, v := range [...]float64{c.X, c.Y, c.X2, c.Y2, c.R, c.Alpha} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}

// Reset forgets the recorded calls
func (s *Surface) Reset() {
	s.mu.Lock()
	s.calls = s.calls[:0]
	s.blend = fx.BlendNormal
	s.shown = 0
	s.mu.Unlock()
}
