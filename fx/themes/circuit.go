package themes

import (
	"math"
	"math/rand"

	"ambientfx/fx"
)

// CircuitConfig tunes the circuit theme
type CircuitConfig struct {
	Band fx.Band

	// Spacing is the distance between grid nodes
	Spacing float64
	// Keep is the probability that a grid edge exists
	Keep     float64
	Speed    rangeOf
	Lifetime rangeOf
	Trail    float64
	// Decay is the per-frame factor applied to node brightness
	Decay float64
	Hue   rangeOf

	// Pointer speeds up traces near it
	Pointer fx.PointerField
}

func DefaultCircuitConfig() CircuitConfig {
	return CircuitConfig{
		Band:     fx.Band{Floor: 18, Ceiling: 36},
		Spacing:  40,
		Keep:     0.55,
		Speed:    rangeOf{0.8, 1.8},
		Lifetime: rangeOf{240, 600},
		Trail:    22,
		Decay:    0.94,
		Hue:      rangeOf{160, 190},
		Pointer:  fx.PointerField{Radius: 120, Strength: 2.5, Repel: true},
	}
}

type circuitNode struct {
	pos   fx.Vec2
	edges []int // neighbour node indices
}

// Circuit sends pulses along a randomly pruned grid graph laid out for each
// viewport. Nodes flash as pulses pass through them and fade afterwards.
//
// A trace's Kind is the node it is heading to and Aux is the position of the
// node it left.
type Circuit struct {
	cfg        CircuitConfig
	cols, rows int
	nodes      []circuitNode
	brightness []float64
	// prev holds the node positions before the last Rebuild until Retarget
	prev []fx.Vec2
}

func NewCircuit(cfg CircuitConfig) *Circuit {
	return &Circuit{cfg: cfg}
}

func (c *Circuit) Name() string    { return "circuit" }
func (c *Circuit) Band() fx.Band   { return c.cfg.Band }
func (c *Circuit) Blend() fx.Blend { return fx.BlendLighter }

// Rebuild lays out the node grid centred in v. A grid with the same number of
// columns and rows keeps its edges and only moves; otherwise the edges are
// pruned afresh.
func (c *Circuit) Rebuild(v fx.Viewport, rng *rand.Rand) {
	c.prev = c.prev[:0]
	for _, n := range c.nodes {
		c.prev = append(c.prev, n.pos)
	}

	s := c.cfg.Spacing
	if !(s > 0) {
		s = 40
	}
	cols := int(v.Width / s)
	rows := int(v.Height / s)
	if cols < 2 || rows < 2 {
		c.cols, c.rows = 0, 0
		c.nodes = c.nodes[:0]
		c.brightness = c.brightness[:0]
		return
	}
	ox := (v.Width - float64(cols-1)*s) / 2
	oy := (v.Height - float64(rows-1)*s) / 2
	place := func(i int) fx.Vec2 {
		return fx.V(ox+float64(i%cols)*s, oy+float64(i/cols)*s)
	}

	if cols == c.cols && rows == c.rows && len(c.nodes) == cols*rows {
		for i := range c.nodes {
			c.nodes[i].pos = place(i)
		}
		return
	}

	c.cols, c.rows = cols, rows
	c.nodes = make([]circuitNode, cols*rows)
	for i := range c.nodes {
		c.nodes[i].pos = place(i)
	}
	c.brightness = make([]float64, len(c.nodes))

	join := func(a, b int) {
		c.nodes[a].edges = append(c.nodes[a].edges, b)
		c.nodes[b].edges = append(c.nodes[b].edges, a)
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := y*cols + x
			if x+1 < cols && rng.Float64() < c.cfg.Keep {
				join(i, i+1)
			}
			if y+1 < rows && rng.Float64() < c.cfg.Keep {
				join(i, i+cols)
			}
		}
	}
}

// Retarget moves live traces onto the rebuilt graph. Each trace heads for the
// node nearest its old target, leaves from that node's neighbour nearest its
// old origin and keeps its progress along the edge. Traces whose target has
// no edges are retired.
func (c *Circuit) Retarget(particles []fx.Particle) {
	for i := range particles {
		p := &particles[i]
		if p.Kind < 0 || p.Kind >= len(c.prev) {
			continue
		}
		oldTarget := c.prev[p.Kind]
		progress := 1.0
		if span := fx.Dist(p.Aux, oldTarget); span > 0 {
			progress = fx.Clamp(fx.Dist(p.Aux, p.Pos)/span, 0, 1)
		}

		to := c.nearest(oldTarget)
		if to < 0 || len(c.nodes[to].edges) == 0 {
			p.Kind = -1
			p.Vel = fx.Vec2{}
			p.Age = math.Max(p.Age, p.MaxAge)
			continue
		}
		from := c.nodes[to].edges[0]
		for _, j := range c.nodes[to].edges[1:] {
			if fx.Dist(c.nodes[j].pos, p.Aux) < fx.Dist(c.nodes[from].pos, p.Aux) {
				from = j
			}
		}

		origin, target := c.nodes[from].pos, c.nodes[to].pos
		speed := math.Max(p.Vel.Len(), p.Speed)
		p.Kind = to
		p.Aux = origin
		p.Pos = origin.Add(target.Sub(origin).Scale(progress))
		p.Vel = target.Sub(origin).Normalize().Scale(speed)
	}
	c.prev = c.prev[:0]
}

// nearest returns the index of the node closest to pos, or -1 without nodes
func (c *Circuit) nearest(pos fx.Vec2) int {
	best, bestDist := -1, math.Inf(1)
	for i, n := range c.nodes {
		if d := fx.Dist(n.pos, pos); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// usable reports whether node i lies inside the particle area
func (c *Circuit) usable(i int, b fx.Bounds) bool {
	return b.Contains(c.nodes[i].pos, 0)
}

func (c *Circuit) Spawn(env *fx.Env, seeding bool) fx.Particle {
	b := env.Bounds()
	start := 0
	if len(c.nodes) > 0 {
		start = env.Rand.Intn(len(c.nodes))
	}
	for k := range c.nodes {
		from := (start + k) % len(c.nodes)
		edges := c.nodes[from].edges
		if !c.usable(from, b) || len(edges) == 0 {
			continue
		}
		to := edges[env.Rand.Intn(len(edges))]
		if !c.usable(to, b) {
			continue
		}
		speed := c.cfg.Speed.pick(env)
		origin := c.nodes[from].pos
		dir := c.nodes[to].pos.Sub(origin).Normalize()
		p := fx.Particle{
			Pos:    origin,
			Vel:    dir.Scale(speed),
			MaxAge: c.cfg.Lifetime.pick(env),
			Size:   env.RandRange(1, 1.8),
			Alpha:  env.RandRange(0.6, 1),
			Speed:  speed,
			Hue:    c.cfg.Hue.pick(env),
			Kind:   to,
			Aux:    origin,
		}
		if seeding {
			p.Age = env.Rand.Float64() * p.MaxAge * 0.5
		}
		return p
	}
	// No usable edge: a placeholder that expires on its first step
	return fx.Particle{Pos: b.Random(env), MaxAge: 1, Kind: -1}
}

func (c *Circuit) stale(p *fx.Particle) bool {
	return p.Kind < 0 || p.Kind >= len(c.nodes)
}

func (c *Circuit) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	if p.Kind == -1 {
		return fx.Vec2{}, true
	}
	if c.stale(p) {
		return fx.Vec2{}, false
	}
	dir := c.nodes[p.Kind].pos.Sub(p.Pos).Normalize()
	boost, _ := c.cfg.Pointer.At(p.Pos, env.Pointer)
	want := dir.Scale(p.Speed + boost.Len())
	return want.Sub(p.Vel).Scale(0.3), true
}

// Constrain snaps a trace onto its target node on arrival and picks the next edge
func (c *Circuit) Constrain(p *fx.Particle, env *fx.Env) {
	if c.stale(p) {
		return
	}
	target := c.nodes[p.Kind].pos
	toTarget := target.Sub(p.Pos)
	if toTarget.Dot(p.Vel) > 0 && toTarget.Len() > 0.5 {
		return
	}

	at := p.Kind
	p.Pos = target
	c.brightness[at] = 1

	b := env.Bounds()
	next := -1
	options := c.nodes[at].edges
	if len(options) > 0 {
		// Deterministic turn so the step needs no random source
		start := int(p.Age) % len(options)
		for k := 0; k < len(options); k++ {
			cand := options[(start+k)%len(options)]
			if c.nodes[cand].pos != p.Aux && c.usable(cand, b) {
				next = cand
				break
			}
		}
		if next < 0 && c.usable(options[start], b) {
			next = options[start] // dead end, turn back
		}
	}
	if next < 0 {
		p.Vel = fx.Vec2{}
		p.Age = math.Max(p.Age, p.MaxAge)
		return
	}
	speed := math.Max(p.Vel.Len(), p.Speed)
	p.Aux = target
	p.Kind = next
	p.Vel = c.nodes[next].pos.Sub(target).Normalize().Scale(speed)
}

func (c *Circuit) Dead(p *fx.Particle, env *fx.Env) bool {
	return p.Expired() || c.stale(p)
}

// Decorate fades node brightness
func (c *Circuit) Decorate(env *fx.Env, _ []fx.Particle) {
	decay := math.Pow(c.cfg.Decay, env.DT)
	for i := range c.brightness {
		c.brightness[i] *= decay
	}
}

func (c *Circuit) DrawBackdrop(s fx.Surface, env *fx.Env, alpha float64) {
	b := env.Bounds()
	base := hsv(c.cfg.Hue.Min, 0.6, 0.7)
	for i, n := range c.nodes {
		if !c.usable(i, b) {
			continue
		}
		for _, j := range n.edges {
			if j > i && c.usable(j, b) {
				m := c.nodes[j].pos
				s.Line(n.pos.X, n.pos.Y, m.X, m.Y, 1, base, alpha*0.1)
			}
		}
		lit := c.brightness[i]
		s.FillCircle(n.pos.X, n.pos.Y, 1.5+lit*1.5, base, alpha*(0.2+0.8*lit))
		if lit > 0.05 {
			s.Glow(n.pos.X, n.pos.Y, 10, base, alpha*lit*0.6)
		}
	}
}

func (c *Circuit) Draw(s fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	if c.stale(p) {
		return
	}
	a := alpha * p.Alpha * lifeFade(p, 0.05, 0.2)
	clr := hsv(p.Hue, 0.7, 1)
	tail := p.Aux
	if d := fx.Dist(p.Pos, p.Aux); d > c.cfg.Trail {
		tail = p.Pos.Add(p.Aux.Sub(p.Pos).Scale(c.cfg.Trail / d))
	}
	s.Line(tail.X, tail.Y, p.Pos.X, p.Pos.Y, p.Size, clr, a*0.7)
	s.Glow(p.Pos.X, p.Pos.Y, p.Size*5, clr, a*0.6)
}
