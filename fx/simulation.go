package fx

// Emitter is implemented by themes that create particles in response to events
// recorded during the step (splashes, bursts). Emitted particles respect the ceiling.
type Emitter interface {
	Emit(env *Env, emit func(Particle) bool)
}

// Simulation owns a theme's particle pool and advances it one frame at a time
type Simulation struct {
	theme  Theme
	band   Band
	pool   *Pool
	policy SpawnPolicy
}

// NewSimulation creates a simulation for theme with its normalized band
func NewSimulation(theme Theme) *Simulation {
	band := theme.Band().Normalize()
	var policy SpawnPolicy = FloorSpawn{}
	if s, ok := theme.(Spawner); ok {
		if p := s.SpawnPolicy(); p != nil {
			policy = p
		}
	}
	return &Simulation{
		theme:  theme,
		band:   band,
		pool:   NewPool(band.Ceiling),
		policy: policy,
	}
}

// Band returns the normalized population band
func (s *Simulation) Band() Band {
	return s.band
}

// Pool returns the particle pool
func (s *Simulation) Pool() *Pool {
	return s.pool
}

// Seed fills an empty pool up to the floor and returns the number spawned.
// A non-empty pool is left untouched.
func (s *Simulation) Seed(env *Env) int {
	if s.pool.Len() > 0 {
		return 0
	}
	return s.spawn(env, s.band.Floor, true)
}

// Step advances every particle by env.DT frames, culls the dead and spawns
// replacements so the population stays within the band.
func (s *Simulation) Step(env *Env) {
	if d, ok := s.theme.(Decorator); ok {
		d.Decorate(env, s.pool.Particles())
	}

	s.pool.Filter(func(p *Particle) bool {
		// Forces are summed by the theme before a single integration
		acc, alive := s.theme.Forces(p, env)
		if !alive || !acc.IsFinite() {
			return false
		}
		p.Vel = p.Vel.Add(acc.Scale(env.DT))
		p.Pos = p.Pos.Add(p.Vel.Scale(env.DT))
		p.Age += env.DT
		s.theme.Constrain(p, env)
		if !p.Finite() {
			return false
		}
		return !s.theme.Dead(p, env)
	})

	if e, ok := s.theme.(Emitter); ok {
		e.Emit(env, func(p Particle) bool {
			if !p.Finite() {
				return false
			}
			return s.pool.Add(p)
		})
	}

	n := s.pool.Len()
	want := n + s.policy.Due(env, n, s.band)
	if want < s.band.Floor {
		want = s.band.Floor
	}
	s.spawn(env, want-n, false)
}

// spawn adds up to count particles, stopping at the ceiling
func (s *Simulation) spawn(env *Env, count int, seeding bool) int {
	added := 0
	for i := 0; i < count && !s.pool.Full(); i++ {
		p := s.theme.Spawn(env, seeding)
		if !p.Finite() {
			continue
		}
		if s.pool.Add(p) {
			added++
		}
	}
	return added
}
