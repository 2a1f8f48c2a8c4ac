package themes

import (
	"image/color"
	"math"

	"ambientfx/fx"
)

// NebulaConfig tunes the nebula theme
type NebulaConfig struct {
	Band fx.Band

	Flow      float64 // flow-field acceleration
	FlowScale float64 // noise frequency per px
	Evolve    float64 // noise time per frame
	Lifetime  rangeOf
	Size      rangeOf

	Pointer fx.PointerField
	// From and To are the colours at the left and right edges
	From, To color.Color
}

func DefaultNebulaConfig() NebulaConfig {
	return NebulaConfig{
		Band:      fx.Band{Floor: 22, Ceiling: 40},
		Flow:      0.012,
		FlowScale: 0.0025,
		Evolve:    0.0015,
		Lifetime:  rangeOf{600, 1200},
		Size:      rangeOf{40, 110},
		Pointer:   fx.PointerField{Radius: 220, Strength: 0.012},
		From:      rgb(0x5b2a86),
		To:        rgb(0x1fa2c9),
	}
}

// Nebula drifts large soft glows along a slowly evolving Perlin flow field,
// tinted by horizontal position
type Nebula struct {
	cfg  NebulaConfig
	flow *fx.FlowField
}

func NewNebula(cfg NebulaConfig, seed int64) *Nebula {
	return &Nebula{cfg: cfg, flow: fx.NewFlowField(seed, cfg.FlowScale)}
}

func (n *Nebula) Name() string    { return "nebula" }
func (n *Nebula) Band() fx.Band   { return n.cfg.Band }
func (n *Nebula) Blend() fx.Blend { return fx.BlendLighter }

func (n *Nebula) Spawn(env *fx.Env, seeding bool) fx.Particle {
	p := fx.Particle{
		Pos:    env.Bounds().Random(env),
		MaxAge: n.cfg.Lifetime.pick(env),
		Size:   n.cfg.Size.pick(env),
		Alpha:  env.RandRange(0.08, 0.2),
		Speed:  env.RandRange(0.6, 1.4),
	}
	if seeding {
		p.Age = env.Rand.Float64() * p.MaxAge * 0.8
	}
	return p
}

func (n *Nebula) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	acc := n.flow.Dir(p.Pos, env.Time*n.cfg.Evolve).Scale(n.cfg.Flow * p.Speed)
	acc = acc.Add(fx.Drag(p.Vel, 0.02))
	pull, _ := n.cfg.Pointer.At(p.Pos, env.Pointer)
	return acc.Add(pull), true
}

func (n *Nebula) Constrain(p *fx.Particle, env *fx.Env) {
	env.Bounds().Wrap(p, p.Size)
}

func (n *Nebula) Dead(p *fx.Particle, env *fx.Env) bool {
	return p.Expired()
}

func (n *Nebula) Draw(s fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	t := 0.5
	if w := env.Viewport.Width; w > 0 {
		t = p.Pos.X / w
	}
	fade := math.Sin(math.Pi * p.LifeFraction())
	s.Glow(p.Pos.X, p.Pos.Y, p.Size, mix(n.cfg.From, n.cfg.To, t), alpha*p.Alpha*fade)
}
