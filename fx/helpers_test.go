package fx_test

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"ambientfx/fx"
)

// testTheme is a minimal configurable theme for exercising the engine
type testTheme struct {
	band     fx.Band
	policy   fx.SpawnPolicy
	lifetime [2]float64
	field    fx.PointerField
	// poison makes every n-th spawned particle produce a NaN acceleration
	poison int

	spawned  int
	rebuilds int
	// retargeted counts particles handed to Retarget
	retargeted int
	decorate   int
}

func (t *testTheme) Name() string  { return "test" }
func (t *testTheme) Band() fx.Band { return t.band }

func (t *testTheme) SpawnPolicy() fx.SpawnPolicy { return t.policy }

func (t *testTheme) Rebuild(v fx.Viewport, rng *rand.Rand) { t.rebuilds++ }

func (t *testTheme) Retarget(particles []fx.Particle) { t.retargeted += len(particles) }

func (t *testTheme) Decorate(env *fx.Env, particles []fx.Particle) { t.decorate++ }

func (t *testTheme) Spawn(env *fx.Env, seeding bool) fx.Particle {
	t.spawned++
	p := fx.Particle{
		Pos:   env.Bounds().Random(env),
		Vel:   fx.V(env.RandRange(-1, 1), env.RandRange(-1, 1)),
		Size:  1,
		Alpha: 1,
	}
	if t.lifetime[1] > 0 {
		p.MaxAge = env.RandRange(t.lifetime[0], t.lifetime[1])
	}
	if t.poison > 0 && t.spawned%t.poison == 0 {
		p.Kind = 1
	}
	return p
}

func (t *testTheme) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	if p.Kind == 1 {
		return fx.V(0, math.NaN()), true
	}
	acc, consumed := t.field.At(p.Pos, env.Pointer)
	return acc, !consumed
}

func (t *testTheme) Constrain(p *fx.Particle, env *fx.Env) {
	env.Bounds().Wrap(p, 0)
}

func (t *testTheme) Dead(p *fx.Particle, env *fx.Env) bool {
	return p.Expired()
}

func (t *testTheme) Draw(s fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	s.FillCircle(p.Pos.X, p.Pos.Y, p.Size, color.White, alpha*p.Alpha)
}

func testEnv(w, h float64, seed int64) *fx.Env {
	return &fx.Env{
		Viewport: fx.Viewport{Width: w, Height: h, Scale: 1},
		DT:       1,
		Rand:     rand.New(rand.NewSource(seed)),
	}
}

// clock hands out frame timestamps 1/60 s apart
type clock struct {
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *clock) tick() time.Time {
	c.now = c.now.Add(time.Second / 60)
	return c.now
}
