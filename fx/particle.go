package fx

// Particle is a single simulated visual element. Every theme uses the same record;
// the meaning of Kind and Aux is theme-defined. Speed, Amp, Phase and Hue are
// spawn-time constants and are never recomputed.
type Particle struct {
	Pos Vec2 // logical position
	Vel Vec2 // velocity in logical px per frame

	Age    float64 // frames since spawn
	MaxAge float64 // lifetime in frames, 0 for bounds-based culling

	Size  float64 // radius or length
	Alpha float64 // brightness in [0, 1]
	Phase float64 // oscillation phase offset
	Speed float64 // per-particle speed constant
	Amp   float64 // per-particle drift amplitude
	Hue   float64 // hue in degrees or palette index

	Kind int
	Aux  Vec2
}

// Expired reports whether a time-limited particle has outlived its lifetime
func (p *Particle) Expired() bool {
	return p.MaxAge > 0 && p.Age >= p.MaxAge
}

// LifeFraction returns age/maxAge in [0, 1], or 0 for bounds-based particles
func (p *Particle) LifeFraction() float64 {
	if p.MaxAge <= 0 {
		return 0
	}
	return Clamp(p.Age/p.MaxAge, 0, 1)
}

// Finite reports whether every simulated field is a finite number
func (p *Particle) Finite() bool {
	return p.Pos.IsFinite() && p.Vel.IsFinite() &&
		finite(p.Age) && finite(p.Alpha) && finite(p.Size)
}

// Pool is an ordered particle collection with a hard ceiling
type Pool struct {
	particles []Particle
	ceiling   int
}

// NewPool creates an empty pool holding at most ceiling particles
func NewPool(ceiling int) *Pool {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	if ceiling > HardPopulationCap {
		ceiling = HardPopulationCap
	}
	return &Pool{
		particles: make([]Particle, 0, ceiling),
		ceiling:   ceiling,
	}
}

// Len returns the number of live particles
func (p *Pool) Len() int {
	return len(p.particles)
}

// Cap returns the population ceiling
func (p *Pool) Cap() int {
	return p.ceiling
}

// Full reports whether the ceiling has been reached
func (p *Pool) Full() bool {
	return len(p.particles) >= p.ceiling
}

// Add appends a particle. It is silently dropped when the pool is full.
func (p *Pool) Add(particle Particle) bool {
	if p.Full() {
		return false
	}
	p.particles = append(p.particles, particle)
	return true
}

// Particles returns the live particles. The slice is only valid until the next
// Add, Filter or Reset.
func (p *Pool) Particles() []Particle {
	return p.particles
}

// Filter keeps the particles for which keep returns true, preserving order,
// and returns the number removed
func (p *Pool) Filter(keep func(*Particle) bool) int {
	kept := p.particles[:0]
	for i := range p.particles {
		if keep(&p.particles[i]) {
			kept = append(kept, p.particles[i])
		}
	}
	removed := len(p.particles) - len(kept)
	// Zero the tail so removed particles do not linger in the backing array
	for i := len(kept); i < len(p.particles); i++ {
		p.particles[i] = Particle{}
	}
	p.particles = kept
	return removed
}

// Reset removes every particle
func (p *Pool) Reset() {
	p.particles = p.particles[:0]
}
