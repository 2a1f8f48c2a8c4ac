package fx

import "math/rand"

// Env is the per-frame context handed to theme rules
type Env struct {
	Viewport  Viewport
	Pointer   Pointer
	TopOffset float64

	// DT is the simulated time of this frame in frames (1.0 at the nominal rate)
	DT float64
	// Time is the simulated time since mount, in frames
	Time float64
	// Frame counts simulation steps since mount
	Frame uint64

	Rand *rand.Rand
}

// Bounds returns the particle area: the viewport minus the top exclusion band
func (e *Env) Bounds() Bounds {
	top := Clamp(e.TopOffset, 0, e.Viewport.Height)
	return Bounds{MinX: 0, MinY: top, MaxX: e.Viewport.Width, MaxY: e.Viewport.Height}
}

// RandRange returns a uniform value in [lo, hi)
func (e *Env) RandRange(lo, hi float64) float64 {
	return lo + e.Rand.Float64()*(hi-lo)
}

// Theme is a visual variant's rule-set. The engine owns the pool and lifecycle;
// the theme only describes how one particle spawns, moves, dies and draws.
type Theme interface {
	Name() string

	// Band returns the population band the engine keeps the pool within
	Band() Band

	// Spawn creates a new particle. seeding is true while filling the initial
	// population, when particles may be placed anywhere instead of at an edge.
	Spawn(env *Env, seeding bool) Particle

	// Forces returns the summed acceleration on p for this frame and false when
	// p was consumed by a sink and must be removed
	Forces(p *Particle, env *Env) (Vec2, bool)

	// Constrain applies the boundary policy after integration
	Constrain(p *Particle, env *Env)

	// Dead reports whether p should be culled
	Dead(p *Particle, env *Env) bool

	// Draw renders p; alpha already includes the scene opacity
	Draw(s Surface, p *Particle, env *Env, alpha float64)
}

// Topology is implemented by themes with static structures built per viewport
type Topology interface {
	Rebuild(v Viewport, rng *rand.Rand)
}

// Retargeter is implemented by topology themes whose particles refer to the
// topology. Retarget runs right after Rebuild with the live particles so they
// can be moved onto the new structure instead of being dropped.
type Retargeter interface {
	Retarget(particles []Particle)
}

// Decorator is implemented by themes that mutate decoration state once per step
type Decorator interface {
	Decorate(env *Env, particles []Particle)
}

// Backdrop is implemented by themes that draw static geometry under the particles
type Backdrop interface {
	DrawBackdrop(s Surface, env *Env, alpha float64)
}

// Spawner is implemented by themes with their own spawn policy. Themes without
// one only refill to their floor.
type Spawner interface {
	SpawnPolicy() SpawnPolicy
}

// Composited is implemented by themes that draw particles with additive blending
type Composited interface {
	Blend() Blend
}
