package fx

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Falloff selects how a field's strength decays with distance
type Falloff int

const (
	// FalloffLinear scales strength by (1 - d/radius)
	FalloffLinear Falloff = iota
	// FalloffInverse scales strength by 1/d, softened near the centre
	FalloffInverse
)

// Field is a point attractor or repeller
type Field struct {
	// Radius limits the field's reach; 0 means unbounded (inverse falloff only)
	Radius float64
	// Strength is the acceleration at full falloff, in px per frame^2
	Strength float64
	Falloff  Falloff
	// Repel pushes particles away instead of pulling them in
	Repel bool
	// EventHorizon is the distance below which an attracted particle is consumed
	EventHorizon float64
	// Softening is the minimum distance used by the inverse falloff
	Softening float64
}

// At returns the acceleration the field centred at centre exerts on pos, and
// whether the particle fell inside the event horizon and must be removed.
func (f Field) At(pos, centre Vec2) (Vec2, bool) {
	d := centre.Sub(pos)
	dist := d.Len()
	if !finite(dist) {
		return Vec2{}, false
	}
	if f.Radius > 0 && dist >= f.Radius {
		return Vec2{}, false
	}
	if !f.Repel && f.EventHorizon > 0 && dist < f.EventHorizon {
		return Vec2{}, true
	}
	if dist == 0 {
		// No direction to push along
		return Vec2{}, false
	}

	var mag float64
	switch f.Falloff {
	case FalloffInverse:
		soft := f.Softening
		if soft <= 0 {
			soft = 1
		}
		mag = f.Strength / math.Max(dist, soft)
	default:
		if f.Radius <= 0 {
			mag = f.Strength
		} else {
			mag = f.Strength * (1 - dist/f.Radius)
		}
	}
	if f.Repel {
		mag = -mag
	}
	return d.Scale(mag / dist), false
}

// PointerField applies a field centred on the pointer while it is active
type PointerField Field

// At returns the pointer's acceleration on pos and whether the particle was consumed
func (f PointerField) At(pos Vec2, ptr Pointer) (Vec2, bool) {
	if !ptr.Active {
		return Vec2{}, false
	}
	return Field(f).At(pos, ptr.Pos())
}

// Oscillate returns amp*sin(t*freq + phase)
func Oscillate(t, freq, phase, amp float64) float64 {
	return amp * math.Sin(t*freq+phase)
}

// Drag returns the deceleration for a linear drag coefficient k
func Drag(vel Vec2, k float64) Vec2 {
	return vel.Scale(-k)
}

// Gust produces slowly wandering wind impulses. Its target direction follows a
// Perlin random walk and the current value eases toward it.
type Gust struct {
	// Strength is the maximum impulse magnitude per axis
	Strength float64
	// Rate advances the noise domain per frame; smaller is slower
	Rate float64
	// Ease is the per-frame fraction of the gap closed toward the target
	Ease float64
	// Vertical scales the y component; 0 gives horizontal-only wind
	Vertical float64

	noise   *perlin.Perlin
	t       float64
	current Vec2
}

// NewGust creates a gust generator seeded deterministically
func NewGust(seed int64, strength, rate float64) *Gust {
	return &Gust{
		Strength: strength,
		Rate:     rate,
		Ease:     0.02,
		noise:    perlin.NewPerlin(2, 2, 3, seed),
		// Start off the integer lattice where 1D Perlin noise is always zero
		t: 0.5,
	}
}

// Advance steps the random walk by dt frames and returns the current impulse
func (g *Gust) Advance(dt float64) Vec2 {
	g.t += g.Rate * dt
	target := Vec2{
		X: Clamp(g.noise.Noise1D(g.t), -1, 1) * g.Strength,
		Y: Clamp(g.noise.Noise1D(g.t+73.31), -1, 1) * g.Strength * g.Vertical,
	}
	ease := Clamp(g.Ease*dt, 0, 1)
	g.current = g.current.Add(target.Sub(g.current).Scale(ease))
	return g.current
}

// Current returns the impulse computed by the last Advance
func (g *Gust) Current() Vec2 {
	return g.current
}

// FlowField samples a 2D Perlin field as a direction at each point
type FlowField struct {
	Scale float64
	noise *perlin.Perlin
}

// NewFlowField creates a flow field seeded deterministically
func NewFlowField(seed int64, scale float64) *FlowField {
	return &FlowField{Scale: scale, noise: perlin.NewPerlin(2, 2, 3, seed)}
}

// Dir returns a unit vector for pos at time t
func (f *FlowField) Dir(pos Vec2, t float64) Vec2 {
	angle := f.noise.Noise3D(pos.X*f.Scale, pos.Y*f.Scale, t) * 2 * math.Pi * 2
	return Vec2{math.Cos(angle), math.Sin(angle)}
}
