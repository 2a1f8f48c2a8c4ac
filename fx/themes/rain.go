package themes

import (
	"image/color"

	"ambientfx/fx"
)

const (
	rainDrop = iota
	rainSplash
	rainSpent
)

// maxSplashes bounds the splash events recorded per step
const maxSplashes = 12

// RainConfig tunes the rain theme
type RainConfig struct {
	Band fx.Band

	Gravity  float64
	Terminal float64 // drop speed cap, px/frame
	Slant    float64 // steady sideways wind
	Streak   float64 // streak length per px/frame of speed
	Droplets int     // splash droplets per impact

	// Pointer is an umbrella that deflects drops
	Pointer fx.PointerField
	Color   color.Color
}

func DefaultRainConfig() RainConfig {
	return RainConfig{
		Band:     fx.Band{Floor: 50, Ceiling: 110},
		Gravity:  0.35,
		Terminal: 9,
		Slant:    0.02,
		Streak:   1.6,
		Droplets: 3,
		Pointer:  fx.PointerField{Radius: 70, Strength: 1.2, Repel: true},
		Color:    rgb(0x9fc3ff),
	}
}

// Rain falls in slanted streaks. Drops that hit the bottom edge die and burst
// into short-lived splash droplets.
type Rain struct {
	cfg      RainConfig
	splashes []fx.Vec2
}

func NewRain(cfg RainConfig) *Rain {
	return &Rain{cfg: cfg, splashes: make([]fx.Vec2, 0, maxSplashes)}
}

func (r *Rain) Name() string  { return "rain" }
func (r *Rain) Band() fx.Band { return r.cfg.Band }

func (r *Rain) Spawn(env *fx.Env, seeding bool) fx.Particle {
	b := env.Bounds()
	p := fx.Particle{
		Pos:   fx.V(env.RandRange(b.MinX-40, b.MaxX), b.MinY-env.RandRange(0, 60)),
		Vel:   fx.V(r.cfg.Slant*20, env.RandRange(4, 7)),
		Size:  env.RandRange(0.6, 1.4),
		Alpha: env.RandRange(0.3, 0.7),
		Kind:  rainDrop,
	}
	if seeding {
		p.Pos = b.Random(env)
	}
	return p
}

func (r *Rain) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	if p.Kind == rainSplash {
		return fx.V(0, r.cfg.Gravity*0.5), true
	}
	acc := fx.V(r.cfg.Slant, r.cfg.Gravity)
	if p.Vel.Y > r.cfg.Terminal {
		acc = acc.Add(fx.Drag(p.Vel, 0.2))
	}
	push, _ := r.cfg.Pointer.At(p.Pos, env.Pointer)
	return acc.Add(push), true
}

func (r *Rain) Constrain(p *fx.Particle, env *fx.Env) {
	if p.Kind != rainDrop {
		return
	}
	b := env.Bounds()
	if p.Pos.Y >= b.MaxY {
		if len(r.splashes) < maxSplashes {
			r.splashes = append(r.splashes, fx.V(p.Pos.X, b.MaxY))
		}
		p.Kind = rainSpent
	}
}

func (r *Rain) Dead(p *fx.Particle, env *fx.Env) bool {
	switch p.Kind {
	case rainSpent:
		return true
	case rainSplash:
		return p.Expired()
	}
	b := env.Bounds()
	return p.Pos.X > b.MaxX+60 || p.Pos.X < b.MinX-60
}

// Emit turns this step's impacts into splash droplets
func (r *Rain) Emit(env *fx.Env, emit func(fx.Particle) bool) {
	defer func() { r.splashes = r.splashes[:0] }()
	for _, at := range r.splashes {
		for i := 0; i < r.cfg.Droplets; i++ {
			ok := emit(fx.Particle{
				Pos:    at,
				Vel:    fx.V(env.RandRange(-1.2, 1.2), -env.RandRange(1, 2.2)),
				MaxAge: env.RandRange(14, 26),
				Size:   env.RandRange(0.6, 1.1),
				Alpha:  0.6,
				Kind:   rainSplash,
			})
			if !ok {
				return
			}
		}
	}
}

func (r *Rain) Draw(s fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	a := alpha * p.Alpha
	if p.Kind == rainSplash {
		s.FillCircle(p.Pos.X, p.Pos.Y, p.Size, r.cfg.Color, a*(1-p.LifeFraction()))
		return
	}
	tail := p.Pos.Sub(p.Vel.Scale(r.cfg.Streak))
	s.Line(tail.X, tail.Y, p.Pos.X, p.Pos.Y, p.Size, r.cfg.Color, a)
}
