package themes

import (
	"math"

	"ambientfx/fx"
)

// FirefliesConfig tunes the fireflies theme
type FirefliesConfig struct {
	Band fx.Band

	Wander   float64 // wandering acceleration, px/frame^2
	MaxSpeed float64
	Size     rangeOf
	Hue      rangeOf // degrees

	// Pointer lures fireflies in; those reaching the horizon are caught
	Pointer fx.PointerField
}

func DefaultFirefliesConfig() FirefliesConfig {
	return FirefliesConfig{
		Band:     fx.Band{Floor: 24, Ceiling: 48},
		Wander:   0.02,
		MaxSpeed: 1.1,
		Size:     rangeOf{1.5, 2.8},
		Hue:      rangeOf{48, 95},
		Pointer:  fx.PointerField{Radius: 130, Strength: 0.09, EventHorizon: 6},
	}
}

// Fireflies wander over the whole surface, blinking out of phase. The pointer
// lures them in and catches those that reach it; the floor refill replaces them.
type Fireflies struct {
	cfg FirefliesConfig
}

func NewFireflies(cfg FirefliesConfig) *Fireflies {
	return &Fireflies{cfg: cfg}
}

func (f *Fireflies) Name() string    { return "fireflies" }
func (f *Fireflies) Band() fx.Band   { return f.cfg.Band }
func (f *Fireflies) Blend() fx.Blend { return fx.BlendLighter }

func (f *Fireflies) Spawn(env *fx.Env, seeding bool) fx.Particle {
	b := env.Bounds()
	pos := randomEdgePoint(env, b, 8)
	if seeding {
		pos = b.Random(env)
	}
	angle := env.RandRange(0, tau)
	return fx.Particle{
		Pos:   pos,
		Vel:   fx.V(math.Cos(angle), math.Sin(angle)).Scale(0.3),
		Size:  f.cfg.Size.pick(env),
		Alpha: 1,
		Phase: env.RandRange(0, tau),
		Speed: env.RandRange(0.01, 0.03),
		Amp:   env.RandRange(0.02, 0.06),
		Hue:   f.cfg.Hue.pick(env),
	}
}

func (f *Fireflies) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	lure, caught := f.cfg.Pointer.At(p.Pos, env.Pointer)
	if caught {
		return fx.Vec2{}, false
	}

	heading := p.Phase + env.Time*p.Speed
	acc := fx.V(math.Cos(heading), math.Sin(heading*1.3)).Scale(f.cfg.Wander)
	acc = acc.Add(lure)
	if p.Vel.Len() > f.cfg.MaxSpeed {
		acc = acc.Add(fx.Drag(p.Vel, 0.08))
	}
	return acc, true
}

func (f *Fireflies) Constrain(p *fx.Particle, env *fx.Env) {
	env.Bounds().Wrap(p, 10)
}

func (f *Fireflies) Dead(p *fx.Particle, env *fx.Env) bool {
	return false
}

func (f *Fireflies) Draw(s fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	// Sharpen the blink so fireflies spend most of the time dark
	blink := math.Pow(pulse(env.Time, p.Amp, p.Phase), 3)
	a := alpha * p.Alpha * (0.1 + 0.9*blink)
	clr := hsv(p.Hue, 0.75, 1)
	s.Glow(p.Pos.X, p.Pos.Y, p.Size*7, clr, a*0.5)
	s.FillCircle(p.Pos.X, p.Pos.Y, p.Size, clr, a)
}
