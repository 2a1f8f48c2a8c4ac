package themes

import (
	"image/color"

	"ambientfx/fx"
)

// SnowConfig tunes the snow theme
type SnowConfig struct {
	Band fx.Band

	Gravity float64 // px/frame^2 for a flake of size 2
	Drag    float64 // sets the terminal velocity
	Wind    float64
	Size    rangeOf

	Pointer fx.PointerField
	Color   color.Color
}

func DefaultSnowConfig() SnowConfig {
	return SnowConfig{
		Band:    fx.Band{Floor: 60, Ceiling: 110},
		Gravity: 0.02,
		Drag:    0.035,
		Wind:    0.03,
		Size:    rangeOf{0.8, 3.2},
		Pointer: fx.PointerField{Radius: 90, Strength: 0.25, Repel: true},
		Color:   rgb(0xf4f8ff),
	}
}

// Snow falls at a size-dependent terminal velocity, sways, drifts with the wind
// and recycles flakes that reach the bottom back to the top edge
type Snow struct {
	cfg  SnowConfig
	gust *fx.Gust
}

func NewSnow(cfg SnowConfig, seed int64) *Snow {
	g := fx.NewGust(seed, cfg.Wind, 0.003)
	g.Vertical = 0.2
	return &Snow{cfg: cfg, gust: g}
}

func (s *Snow) Name() string  { return "snow" }
func (s *Snow) Band() fx.Band { return s.cfg.Band }

func (s *Snow) Spawn(env *fx.Env, seeding bool) fx.Particle {
	b := env.Bounds()
	p := fx.Particle{
		Pos:   fx.V(env.RandRange(b.MinX, b.MaxX), b.MinY-env.RandRange(2, 20)),
		Vel:   fx.V(0, env.RandRange(0.2, 0.5)),
		Size:  s.cfg.Size.pick(env),
		Alpha: env.RandRange(0.4, 0.95),
		Phase: env.RandRange(0, tau),
		Speed: env.RandRange(0.01, 0.04),
		Amp:   env.RandRange(0.004, 0.015),
	}
	if seeding {
		p.Pos = b.Random(env)
	}
	return p
}

func (s *Snow) Decorate(env *fx.Env, _ []fx.Particle) {
	s.gust.Advance(env.DT)
}

func (s *Snow) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	acc := fx.V(fx.Oscillate(env.Time, p.Speed, p.Phase, p.Amp), s.cfg.Gravity*(0.5+p.Size/4))
	// Small flakes feel the wind more
	acc = acc.Add(s.gust.Current().Scale(2 / (1 + p.Size)))
	acc = acc.Add(fx.Drag(p.Vel, s.cfg.Drag))
	push, _ := s.cfg.Pointer.At(p.Pos, env.Pointer)
	return acc.Add(push), true
}

func (s *Snow) Constrain(p *fx.Particle, env *fx.Env) {
	b := env.Bounds()
	if p.Pos.Y > b.MaxY+p.Size {
		// Reset to the spawn edge
		p.Pos = fx.V(env.RandRange(b.MinX, b.MaxX), b.MinY-p.Size)
		p.Vel = fx.V(0, 0.3)
		return
	}
	if p.Pos.X < b.MinX-5 {
		p.Pos.X += b.Width() + 10
	} else if p.Pos.X > b.MaxX+5 {
		p.Pos.X -= b.Width() + 10
	}
}

func (s *Snow) Dead(p *fx.Particle, env *fx.Env) bool {
	// Pushed far above the top by the pointer: recycle via the floor refill
	return p.Pos.Y < env.Bounds().MinY-120
}

func (s *Snow) Draw(surf fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	surf.FillCircle(p.Pos.X, p.Pos.Y, p.Size, s.cfg.Color, alpha*p.Alpha)
}
