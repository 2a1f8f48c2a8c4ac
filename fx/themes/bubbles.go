package themes

import (
	"image/color"

	"ambientfx/fx"
)

const (
	bubbleWhole = iota
	bubbleBurst
)

// BubblesConfig tunes the bubbles theme
type BubblesConfig struct {
	Band fx.Band

	Buoyancy float64
	Drag     float64
	Wobble   float64
	Size     rangeOf

	// Spawn adds bubbles from the bottom on a timer, on top of the floor refill
	Spawn fx.TimerSpawn

	Pointer fx.PointerField
	Color   color.Color
}

func DefaultBubblesConfig() BubblesConfig {
	return BubblesConfig{
		Band:     fx.Band{Floor: 12, Ceiling: 40},
		Buoyancy: 0.01,
		Drag:     0.02,
		Wobble:   0.015,
		Size:     rangeOf{4, 16},
		Spawn:    fx.TimerSpawn{Every: 25, Count: 1},
		Pointer:  fx.PointerField{Radius: 80, Strength: 0.04, Repel: true},
		Color:    rgb(0xa8e6ff),
	}
}

// Bubbles rise and wobble, bounce off the side walls and pop when the pointer
// touches them, leaving a short expanding ring
type Bubbles struct {
	cfg    BubblesConfig
	policy *fx.TimerSpawn
	popped []fx.Particle
}

func NewBubbles(cfg BubblesConfig) *Bubbles {
	policy := cfg.Spawn
	return &Bubbles{cfg: cfg, policy: &policy}
}

func (b *Bubbles) Name() string                { return "bubbles" }
func (b *Bubbles) Band() fx.Band               { return b.cfg.Band }
func (b *Bubbles) SpawnPolicy() fx.SpawnPolicy { return b.policy }

func (b *Bubbles) Spawn(env *fx.Env, seeding bool) fx.Particle {
	bounds := env.Bounds()
	size := b.cfg.Size.pick(env)
	p := fx.Particle{
		Pos:   fx.V(env.RandRange(bounds.MinX+size, bounds.MaxX-size), bounds.MaxY+size),
		Vel:   fx.V(0, -env.RandRange(0.2, 0.6)),
		Size:  size,
		Alpha: env.RandRange(0.35, 0.7),
		Phase: env.RandRange(0, tau),
		Speed: env.RandRange(0.02, 0.05),
		Hue:   env.RandRange(180, 220),
		Kind:  bubbleWhole,
	}
	if seeding {
		p.Pos = bounds.Random(env)
	}
	return p
}

func (b *Bubbles) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	if p.Kind == bubbleBurst {
		return fx.Vec2{}, true
	}
	if env.Pointer.Active && fx.Dist(p.Pos, env.Pointer.Pos()) <= p.Size {
		b.pop(p)
		return fx.Vec2{}, false
	}

	// Larger bubbles rise faster
	acc := fx.V(fx.Oscillate(env.Time, p.Speed, p.Phase, b.cfg.Wobble), -b.cfg.Buoyancy*(0.5+p.Size/10))
	acc = acc.Add(fx.Drag(p.Vel, b.cfg.Drag))
	push, _ := b.cfg.Pointer.At(p.Pos, env.Pointer)
	return acc.Add(push), true
}

func (b *Bubbles) pop(p *fx.Particle) {
	if len(b.popped) >= 8 {
		return
	}
	b.popped = append(b.popped, fx.Particle{
		Pos:    p.Pos,
		MaxAge: 18,
		Size:   p.Size,
		Alpha:  p.Alpha,
		Hue:    p.Hue,
		Kind:   bubbleBurst,
	})
}

func (b *Bubbles) Constrain(p *fx.Particle, env *fx.Env) {
	if p.Kind == bubbleBurst {
		return
	}
	bounds := env.Bounds()
	// Walls only; bubbles leave through the top
	if p.Pos.X < bounds.MinX+p.Size {
		p.Pos.X = bounds.MinX + p.Size
		p.Vel.X = -p.Vel.X * 0.6
	} else if p.Pos.X > bounds.MaxX-p.Size {
		p.Pos.X = bounds.MaxX - p.Size
		p.Vel.X = -p.Vel.X * 0.6
	}
}

func (b *Bubbles) Dead(p *fx.Particle, env *fx.Env) bool {
	if p.Kind == bubbleBurst {
		return p.Expired()
	}
	return p.Pos.Y < env.Bounds().MinY-p.Size
}

func (b *Bubbles) Emit(env *fx.Env, emit func(fx.Particle) bool) {
	for _, burst := range b.popped {
		if !emit(burst) {
			break
		}
	}
	b.popped = b.popped[:0]
}

func (b *Bubbles) Draw(s fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	a := alpha * p.Alpha
	if p.Kind == bubbleBurst {
		life := p.LifeFraction()
		s.StrokeCircle(p.Pos.X, p.Pos.Y, p.Size*(1+life), 1, b.cfg.Color, a*(1-life))
		return
	}
	rim := mix(b.cfg.Color, hsv(p.Hue, 0.5, 1), 0.4)
	s.StrokeCircle(p.Pos.X, p.Pos.Y, p.Size, 1.2, rim, a)
	s.FillCircle(p.Pos.X-p.Size*0.35, p.Pos.Y-p.Size*0.35, p.Size*0.18, color.White, a*0.8)
}
