package themes

import (
	"image/color"

	"ambientfx/fx"
)

// StarfieldConfig tunes the starfield theme
type StarfieldConfig struct {
	Count int

	// Drift is the base parallax velocity of the nearest layer, px/frame
	Drift fx.Vec2
	// Steer is how far the pointer can tilt the drift, px/frame
	Steer float64
	Depth rangeOf

	Color color.Color
}

func DefaultStarfieldConfig() StarfieldConfig {
	return StarfieldConfig{
		Count: 70,
		Drift: fx.V(-0.35, 0.05),
		Steer: 1.2,
		Depth: rangeOf{0.15, 1},
		Color: rgb(0xdde6ff),
	}
}

// Starfield is a parallax dust field wrapping on a torus. Each star's depth
// scales its share of the shared drift, and the pointer steers the drift
// through a spring so direction changes glide.
type Starfield struct {
	cfg   StarfieldConfig
	drift springVec
}

func NewStarfield(cfg StarfieldConfig) *Starfield {
	s := &Starfield{cfg: cfg, drift: newSpringVec(1.5, 1)}
	s.drift.reset(cfg.Drift)
	return s
}

func (s *Starfield) Name() string { return "starfield" }

// Band pins the population: stars wrap and never die
func (s *Starfield) Band() fx.Band {
	return fx.Band{Floor: s.cfg.Count, Ceiling: s.cfg.Count}
}

func (s *Starfield) Spawn(env *fx.Env, seeding bool) fx.Particle {
	depth := s.cfg.Depth.pick(env)
	return fx.Particle{
		Pos:   env.Bounds().Random(env),
		Vel:   s.cfg.Drift.Scale(depth),
		Size:  0.4 + depth*1.4,
		Alpha: 0.25 + depth*0.75,
		Phase: env.RandRange(0, tau),
		Speed: depth,
		Amp:   env.RandRange(0.02, 0.08),
	}
}

func (s *Starfield) Decorate(env *fx.Env, _ []fx.Particle) {
	target := s.cfg.Drift
	if env.Pointer.Active {
		// Stars stream away from where the pointer leans
		off := env.Pointer.Pos().Sub(env.Viewport.Center())
		half := env.Viewport.Center().Len()
		if half > 0 {
			target = target.Sub(off.Scale(s.cfg.Steer / half))
		}
	}
	s.drift.step(target, env.DT)
}

func (s *Starfield) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	// Relax each star toward its layer's share of the drift
	want := s.drift.pos.Scale(p.Speed)
	return want.Sub(p.Vel).Scale(0.2), true
}

func (s *Starfield) Constrain(p *fx.Particle, env *fx.Env) {
	env.Bounds().Wrap(p, 2)
}

func (s *Starfield) Dead(p *fx.Particle, env *fx.Env) bool {
	return false
}

func (s *Starfield) Draw(surf fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	twinkle := 0.75 + 0.25*pulse(env.Time, p.Amp, p.Phase)
	surf.FillCircle(p.Pos.X, p.Pos.Y, p.Size, s.cfg.Color, alpha*p.Alpha*twinkle)
}
