package themes

import (
	"image/color"
	"math"
	"math/rand"

	"ambientfx/fx"
)

// ConstellationConfig tunes the constellation theme
type ConstellationConfig struct {
	Band fx.Band

	Speed    rangeOf // initial drift, px/frame
	MaxSpeed float64
	// LinkDistance is the distance below which two stars are joined
	LinkDistance float64
	LinkWidth    float64

	Pointer fx.PointerField
	Color   color.Color
}

func DefaultConstellationConfig() ConstellationConfig {
	return ConstellationConfig{
		Band:         fx.Band{Floor: 36, Ceiling: 60},
		Speed:        rangeOf{0.1, 0.45},
		MaxSpeed:     0.8,
		LinkDistance: 120,
		LinkWidth:    0.8,
		Pointer:      fx.PointerField{Radius: 160, Strength: 0.015},
		Color:        rgb(0xbcd4ff),
	}
}

type link struct {
	a, b     fx.Vec2
	strength float64
}

// Constellation drifts stars that bounce off the edges and draws links between
// neighbours, fading with distance. Links are found through a spatial grid and
// kept as decoration state so paused frames still draw them.
type Constellation struct {
	cfg   ConstellationConfig
	grid  *fx.Grid
	links []link
	stars []fx.Vec2
}

func NewConstellation(cfg ConstellationConfig) *Constellation {
	return &Constellation{cfg: cfg, grid: fx.NewGrid(cfg.LinkDistance)}
}

func (c *Constellation) Name() string  { return "constellation" }
func (c *Constellation) Band() fx.Band { return c.cfg.Band }

func (c *Constellation) Rebuild(v fx.Viewport, _ *rand.Rand) {
	c.grid.Rebuild(v)
	c.links = c.links[:0]
}

func (c *Constellation) Spawn(env *fx.Env, seeding bool) fx.Particle {
	b := env.Bounds()
	pos := b.Random(env)
	if !seeding {
		// Enter from just inside an edge so the bounce brings it back in
		pos = randomEdgePoint(env, b, -1)
	}
	angle := env.RandRange(0, tau)
	return fx.Particle{
		Pos:   pos,
		Vel:   fx.V(math.Cos(angle), math.Sin(angle)).Scale(c.cfg.Speed.pick(env)),
		Size:  env.RandRange(1, 2.2),
		Alpha: env.RandRange(0.5, 1),
		Phase: env.RandRange(0, tau),
		Amp:   env.RandRange(0.01, 0.04),
	}
}

// Decorate recomputes the link set from the particle positions
func (c *Constellation) Decorate(env *fx.Env, particles []fx.Particle) {
	c.grid.Clear()
	c.stars = c.stars[:0]
	for i := range particles {
		c.stars = append(c.stars, particles[i].Pos)
		c.grid.Insert(i, particles[i].Pos)
	}

	c.links = c.links[:0]
	maxD := c.cfg.LinkDistance
	for i, a := range c.stars {
		c.grid.Near(a, maxD, func(j int) {
			if j <= i {
				return
			}
			if d := fx.Dist(a, c.stars[j]); d < maxD {
				c.links = append(c.links, link{a: a, b: c.stars[j], strength: 1 - d/maxD})
			}
		})
	}
}

func (c *Constellation) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	acc, _ := c.cfg.Pointer.At(p.Pos, env.Pointer)
	if p.Vel.Len() > c.cfg.MaxSpeed {
		acc = acc.Add(fx.Drag(p.Vel, 0.05))
	}
	return acc, true
}

func (c *Constellation) Constrain(p *fx.Particle, env *fx.Env) {
	env.Bounds().Bounce(p, 1)
}

func (c *Constellation) Dead(p *fx.Particle, env *fx.Env) bool {
	return false
}

func (c *Constellation) DrawBackdrop(s fx.Surface, env *fx.Env, alpha float64) {
	for _, l := range c.links {
		s.Line(l.a.X, l.a.Y, l.b.X, l.b.Y, c.cfg.LinkWidth, c.cfg.Color, alpha*l.strength*0.35)
	}
	if !env.Pointer.Active {
		return
	}
	ptr := env.Pointer.Pos()
	radius := c.cfg.Pointer.Radius
	for _, star := range c.stars {
		if d := fx.Dist(star, ptr); d < radius {
			s.Line(ptr.X, ptr.Y, star.X, star.Y, c.cfg.LinkWidth, c.cfg.Color, alpha*(1-d/radius)*0.5)
		}
	}
}

func (c *Constellation) Draw(s fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	a := alpha * p.Alpha * (0.7 + 0.3*pulse(env.Time, p.Amp, p.Phase))
	s.FillCircle(p.Pos.X, p.Pos.Y, p.Size, c.cfg.Color, a)
}
