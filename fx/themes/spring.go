package themes

import (
	"github.com/charmbracelet/harmonica"

	"ambientfx/fx"
)

// springVec eases a 2D value toward a moving target with a damped spring.
// harmonica's spring is tuned for a fixed step, so longer frames take several.
type springVec struct {
	spring harmonica.Spring
	pos    fx.Vec2
	vel    fx.Vec2
}

func newSpringVec(frequency, damping float64) springVec {
	return springVec{spring: harmonica.NewSpring(harmonica.FPS(60), frequency, damping)}
}

// step advances dt frames toward target and returns the new value
func (s *springVec) step(target fx.Vec2, dt float64) fx.Vec2 {
	steps := int(dt + 0.5)
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		s.pos.X, s.vel.X = s.spring.Update(s.pos.X, s.vel.X, target.X)
		s.pos.Y, s.vel.Y = s.spring.Update(s.pos.Y, s.vel.Y, target.Y)
	}
	return s.pos
}

// reset snaps the spring to p at rest
func (s *springVec) reset(p fx.Vec2) {
	s.pos = p
	s.vel = fx.Vec2{}
}
