package themes

import (
	"image/color"

	"golang.org/x/image/colornames"

	"ambientfx/fx"
)

// EmbersConfig tunes the embers theme
type EmbersConfig struct {
	Band fx.Band

	Buoyancy float64 // upward acceleration, px/frame^2
	Drag     float64
	Wind     float64 // gust strength
	Rate     float64 // spawns per frame above the floor

	Lifetime rangeOf // frames
	Size     rangeOf

	Pointer fx.PointerField
	Palette []color.Color
}

// DefaultEmbersConfig returns the tuning used by the registry
func DefaultEmbersConfig() EmbersConfig {
	return EmbersConfig{
		Band:     fx.Band{Floor: 30, Ceiling: 90},
		Buoyancy: 0.012,
		Drag:     0.015,
		Wind:     0.025,
		Rate:     0.5,
		Lifetime: rangeOf{160, 360},
		Size:     rangeOf{1.2, 3.2},
		Pointer:  fx.PointerField{Radius: 110, Strength: 0.3, Repel: true},
		Palette:  []color.Color{colornames.Orangered, colornames.Darkorange, colornames.Orange, colornames.Gold},
	}
}

// Embers are sparks rising from the bottom edge, swaying in a shared wind and
// scattering away from the pointer
type Embers struct {
	cfg    EmbersConfig
	gust   *fx.Gust
	policy *fx.RateSpawn
}

func NewEmbers(cfg EmbersConfig, seed int64) *Embers {
	if len(cfg.Palette) == 0 {
		cfg.Palette = DefaultEmbersConfig().Palette
	}
	return &Embers{
		cfg:    cfg,
		gust:   fx.NewGust(seed, cfg.Wind, 0.004),
		policy: &fx.RateSpawn{PerFrame: cfg.Rate, Jitter: 0.5},
	}
}

func (e *Embers) Name() string                { return "embers" }
func (e *Embers) Band() fx.Band               { return e.cfg.Band }
func (e *Embers) SpawnPolicy() fx.SpawnPolicy { return e.policy }
func (e *Embers) Blend() fx.Blend             { return fx.BlendLighter }

func (e *Embers) Spawn(env *fx.Env, seeding bool) fx.Particle {
	b := env.Bounds()
	p := fx.Particle{
		Pos:    fx.V(env.RandRange(b.MinX, b.MaxX), b.MaxY+env.RandRange(0, 12)),
		Vel:    fx.V(env.RandRange(-0.2, 0.2), -env.RandRange(0.3, 0.9)),
		MaxAge: e.cfg.Lifetime.pick(env),
		Size:   e.cfg.Size.pick(env),
		Alpha:  env.RandRange(0.6, 1),
		Phase:  env.RandRange(0, tau),
		Speed:  env.RandRange(0.05, 0.15),
		Amp:    env.RandRange(0.1, 0.4),
		Hue:    float64(env.Rand.Intn(len(e.cfg.Palette))),
	}
	if seeding {
		p.Pos = b.Random(env)
		p.Age = env.Rand.Float64() * p.MaxAge * 0.5
	}
	return p
}

func (e *Embers) Decorate(env *fx.Env, _ []fx.Particle) {
	e.gust.Advance(env.DT)
}

func (e *Embers) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	acc := fx.V(fx.Oscillate(env.Time, p.Speed, p.Phase, p.Amp*0.02), -e.cfg.Buoyancy)
	acc = acc.Add(e.gust.Current())
	acc = acc.Add(fx.Drag(p.Vel, e.cfg.Drag))
	push, _ := e.cfg.Pointer.At(p.Pos, env.Pointer)
	return acc.Add(push), true
}

func (e *Embers) Constrain(p *fx.Particle, env *fx.Env) {
	b := env.Bounds()
	// Wrap sideways only; the top edge culls
	if p.Pos.X < b.MinX-10 {
		p.Pos.X += b.Width() + 20
	} else if p.Pos.X > b.MaxX+10 {
		p.Pos.X -= b.Width() + 20
	}
}

func (e *Embers) Dead(p *fx.Particle, env *fx.Env) bool {
	return p.Expired() || p.Pos.Y < env.Bounds().MinY-20
}

func (e *Embers) Draw(s fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	flicker := 0.7 + 0.3*pulse(env.Time, p.Speed*6, p.Phase)
	a := alpha * p.Alpha * flicker * lifeFade(p, 0.1, 0.4)
	if a <= 0 {
		return
	}
	clr := e.cfg.Palette[int(p.Hue)%len(e.cfg.Palette)]
	s.Glow(p.Pos.X, p.Pos.Y, p.Size*4, clr, a*0.45)
	s.FillCircle(p.Pos.X, p.Pos.Y, p.Size, clr, a)
}
