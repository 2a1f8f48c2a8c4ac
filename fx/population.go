package fx

// Band is the population band a theme keeps its pool within
type Band struct {
	Floor   int
	Ceiling int
}

// Normalize clamps a malformed band into a usable one
func (b Band) Normalize() Band {
	if b.Ceiling <= 0 {
		b.Ceiling = DefaultCeiling
	}
	if b.Ceiling > HardPopulationCap {
		b.Ceiling = HardPopulationCap
	}
	if b.Floor < 0 {
		b.Floor = 0
	}
	if b.Floor > b.Ceiling {
		b.Floor = b.Ceiling
	}
	return b
}

// SpawnPolicy decides how many particles to spawn this frame given the current
// population n. The simulation enforces the floor and ceiling on top of it.
type SpawnPolicy interface {
	Due(env *Env, n int, band Band) int
}

// FloorSpawn only refills the population to the band's floor
type FloorSpawn struct{}

func (FloorSpawn) Due(env *Env, n int, band Band) int {
	return 0
}

// TimerSpawn adds Count particles every Every frames. With BelowFloorOnly set it
// only fires while the population is below the floor.
type TimerSpawn struct {
	Every          float64
	Count          int
	BelowFloorOnly bool

	timer float64
}

func (t *TimerSpawn) Due(env *Env, n int, band Band) int {
	if t.Every <= 0 {
		return 0
	}
	t.timer += env.DT
	if t.timer < t.Every {
		return 0
	}
	t.timer -= t.Every
	// Never let a long stall build up a burst of pending spawns
	if t.timer > t.Every {
		t.timer = 0
	}
	if t.BelowFloorOnly && n >= band.Floor {
		return 0
	}
	count := t.Count
	if count <= 0 {
		count = 1
	}
	return count
}

// RateSpawn emits PerFrame particles per frame on average, carrying the fractional
// remainder between frames like an emission accumulator; Jitter in [0, 1] makes
// the emission probabilistic.
type RateSpawn struct {
	PerFrame float64
	Jitter   float64

	accum float64
}

func (r *RateSpawn) Due(env *Env, n int, band Band) int {
	if r.PerFrame <= 0 {
		return 0
	}
	rate := r.PerFrame
	if r.Jitter > 0 && env.Rand != nil {
		rate *= 1 + (env.Rand.Float64()*2-1)*Clamp(r.Jitter, 0, 1)
	}
	r.accum += rate * env.DT
	count := int(r.accum)
	r.accum -= float64(count)
	return count
}
