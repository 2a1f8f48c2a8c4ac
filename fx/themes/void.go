package themes

import (
	"image/color"
	"math"

	"ambientfx/fx"
)

// VoidConfig tunes the void theme
type VoidConfig struct {
	Band fx.Band
	Rate float64

	// Sink is the central attractor; particles inside its horizon are swallowed
	Sink fx.Field
	// Orbit scales the tangential speed at spawn relative to a circular orbit
	Orbit rangeOf

	Pointer fx.PointerField
	Cold    color.Color
	Hot     color.Color
}

func DefaultVoidConfig() VoidConfig {
	return VoidConfig{
		Band:    fx.Band{Floor: 40, Ceiling: 100},
		Rate:    0.4,
		Sink:    fx.Field{Strength: 0.9, Falloff: fx.FalloffInverse, EventHorizon: 14, Softening: 8},
		Orbit:   rangeOf{0.75, 1.0},
		Pointer: fx.PointerField{Radius: 150, Strength: 0.05, EventHorizon: 4},
		Cold:    rgb(0x3d2b7a),
		Hot:     rgb(0xffe9c4),
	}
}

// Void spirals matter into a sink at the centre of the surface. With a 1/d pull
// a circular orbit has the same speed at every radius, so spawn velocities are
// a fraction of sqrt(strength) and orbits decay inward.
type Void struct {
	cfg    VoidConfig
	policy *fx.RateSpawn
}

func NewVoid(cfg VoidConfig) *Void {
	return &Void{cfg: cfg, policy: &fx.RateSpawn{PerFrame: cfg.Rate}}
}

func (v *Void) Name() string                { return "void" }
func (v *Void) Band() fx.Band               { return v.cfg.Band }
func (v *Void) SpawnPolicy() fx.SpawnPolicy { return v.policy }
func (v *Void) Blend() fx.Blend             { return fx.BlendLighter }

func (v *Void) centre(env *fx.Env) fx.Vec2 {
	b := env.Bounds()
	return fx.V(b.MinX+b.Width()/2, b.MinY+b.Height()/2)
}

// outer is the spawn ring radius, just past the corners
func (v *Void) outer(env *fx.Env) float64 {
	b := env.Bounds()
	return math.Hypot(b.Width(), b.Height()) / 2
}

func (v *Void) Spawn(env *fx.Env, seeding bool) fx.Particle {
	c := v.centre(env)
	outer := v.outer(env)
	radius := outer
	if seeding {
		radius = env.RandRange(v.cfg.Sink.EventHorizon*4, outer)
	}
	angle := env.RandRange(0, tau)
	radial := fx.V(math.Cos(angle), math.Sin(angle))
	tangent := radial.Rotate(math.Pi / 2)
	speed := math.Sqrt(v.cfg.Sink.Strength) * v.cfg.Orbit.pick(env)
	return fx.Particle{
		Pos:   c.Add(radial.Scale(radius)),
		Vel:   tangent.Scale(speed),
		Size:  env.RandRange(0.6, 1.8),
		Alpha: env.RandRange(0.5, 1),
	}
}

func (v *Void) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	pull, swallowed := v.cfg.Sink.At(p.Pos, v.centre(env))
	if swallowed {
		return fx.Vec2{}, false
	}
	lure, caught := v.cfg.Pointer.At(p.Pos, env.Pointer)
	if caught {
		return fx.Vec2{}, false
	}
	return pull.Add(lure).Add(fx.Drag(p.Vel, 0.002)), true
}

func (v *Void) Constrain(p *fx.Particle, env *fx.Env) {}

func (v *Void) Dead(p *fx.Particle, env *fx.Env) bool {
	// Flung past the spawn ring
	return fx.Dist(p.Pos, v.centre(env)) > v.outer(env)*1.25
}

func (v *Void) DrawBackdrop(s fx.Surface, env *fx.Env, alpha float64) {
	c := v.centre(env)
	h := v.cfg.Sink.EventHorizon
	s.Glow(c.X, c.Y, h*5, v.cfg.Cold, alpha*0.5)
	s.FillCircle(c.X, c.Y, h*1.2, color.Black, alpha)
	s.StrokeCircle(c.X, c.Y, h*1.6, 1, v.cfg.Hot, alpha*0.35)
}

func (v *Void) Draw(s fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	d := fx.Dist(p.Pos, v.centre(env))
	heat := fx.Clamp(1-d/(v.cfg.Sink.EventHorizon*20), 0, 1)
	clr := mix(v.cfg.Cold, v.cfg.Hot, heat)
	a := alpha * p.Alpha * (0.4 + 0.6*heat)
	tail := p.Pos.Sub(p.Vel.Scale(3))
	s.Line(tail.X, tail.Y, p.Pos.X, p.Pos.Y, p.Size, clr, a)
}
