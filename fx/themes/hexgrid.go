package themes

import (
	"image/color"
	"math"
	"math/rand"

	"ambientfx/fx"
)

// HexgridConfig tunes the hexgrid theme
type HexgridConfig struct {
	Band fx.Band

	// Radius is the hexagon circumradius, equal to its edge length
	Radius float64
	Speed  rangeOf
	// PulseRadius is the reach of the glow following the pointer
	PulseRadius float64
	Decay       float64

	Line  color.Color
	Spark color.Color
}

func DefaultHexgridConfig() HexgridConfig {
	return HexgridConfig{
		Band:        fx.Band{Floor: 16, Ceiling: 40},
		Radius:      28,
		Speed:       rangeOf{0.6, 1.4},
		PulseRadius: 170,
		Decay:       0.95,
		Line:        rgb(0x3fb6a8),
		Spark:       rgb(0xc8fff4),
	}
}

// Hexgrid tiles the surface with pointy-top hexagons. A spring-driven pulse
// trails the pointer (or rests at the centre) lighting the cells it passes, and
// sparks run along single hexagon edges.
type Hexgrid struct {
	cfg        HexgridConfig
	centres    []fx.Vec2
	brightness []float64
	pulse      springVec
}

func NewHexgrid(cfg HexgridConfig) *Hexgrid {
	if !(cfg.Radius > 0) {
		cfg.Radius = 28
	}
	return &Hexgrid{cfg: cfg, pulse: newSpringVec(2, 0.8)}
}

func (h *Hexgrid) Name() string    { return "hexgrid" }
func (h *Hexgrid) Band() fx.Band   { return h.cfg.Band }
func (h *Hexgrid) Blend() fx.Blend { return fx.BlendLighter }

// vertex returns corner k of the hexagon centred at c
func (h *Hexgrid) vertex(c fx.Vec2, k int) fx.Vec2 {
	a := math.Pi/6 + float64(k%6)*math.Pi/3
	return c.Add(fx.V(math.Cos(a), math.Sin(a)).Scale(h.cfg.Radius))
}

func (h *Hexgrid) Rebuild(v fx.Viewport, _ *rand.Rand) {
	h.centres = h.centres[:0]
	r := h.cfg.Radius
	w := math.Sqrt(3) * r
	for row := -1; float64(row)*1.5*r < v.Height+r; row++ {
		shift := 0.0
		if row%2 != 0 {
			shift = w / 2
		}
		for col := -1; float64(col)*w < v.Width+w; col++ {
			h.centres = append(h.centres, fx.V(float64(col)*w+shift, float64(row)*1.5*r))
		}
	}
	h.brightness = make([]float64, len(h.centres))
	h.pulse.reset(v.Center())
}

func (h *Hexgrid) Spawn(env *fx.Env, seeding bool) fx.Particle {
	b := env.Bounds()
	start := 0
	if len(h.centres) > 0 {
		start = env.Rand.Intn(len(h.centres))
	}
	for k := range h.centres {
		c := h.centres[(start+k)%len(h.centres)]
		if !b.Contains(c, 0) {
			continue
		}
		corner := env.Rand.Intn(6)
		from, to := h.vertex(c, corner), h.vertex(c, corner+1)
		speed := h.cfg.Speed.pick(env)
		return fx.Particle{
			Pos:    from,
			Vel:    to.Sub(from).Normalize().Scale(speed),
			MaxAge: h.cfg.Radius / speed,
			Size:   env.RandRange(1, 1.6),
			Alpha:  env.RandRange(0.5, 1),
			Aux:    from,
		}
	}
	return fx.Particle{Pos: b.Random(env), MaxAge: 1}
}

func (h *Hexgrid) Decorate(env *fx.Env, _ []fx.Particle) {
	target := env.Viewport.Center()
	strength := 0.35
	if env.Pointer.Active {
		target = env.Pointer.Pos()
		strength = 1
	}
	at := h.pulse.step(target, env.DT)

	decay := math.Pow(h.cfg.Decay, env.DT)
	for i, c := range h.centres {
		lit := strength * math.Max(0, 1-fx.Dist(c, at)/h.cfg.PulseRadius)
		h.brightness[i] = math.Max(h.brightness[i]*decay, lit)
	}
}

// Forces is zero: sparks coast along their edge until their lifetime ends
func (h *Hexgrid) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	return fx.Vec2{}, true
}

func (h *Hexgrid) Constrain(p *fx.Particle, env *fx.Env) {}

func (h *Hexgrid) Dead(p *fx.Particle, env *fx.Env) bool {
	return p.Expired()
}

func (h *Hexgrid) DrawBackdrop(s fx.Surface, env *fx.Env, alpha float64) {
	for i, c := range h.centres {
		a := alpha * (0.05 + 0.45*h.brightness[i])
		prev := h.vertex(c, 0)
		for k := 1; k <= 6; k++ {
			next := h.vertex(c, k)
			s.Line(prev.X, prev.Y, next.X, next.Y, 1, h.cfg.Line, a)
			prev = next
		}
	}
}

func (h *Hexgrid) Draw(s fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	a := alpha * p.Alpha * lifeFade(p, 0.1, 0.3)
	s.Line(p.Aux.X, p.Aux.Y, p.Pos.X, p.Pos.Y, p.Size, h.cfg.Spark, a*0.6)
	s.Glow(p.Pos.X, p.Pos.Y, p.Size*4, h.cfg.Spark, a)
}
