package themes

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"

	"ambientfx/fx"
)

//go:embed assets/lantern.svg
var lanternSVG []byte

// lanternSpriteSize is the long side of the rasterized sprite; surfaces scale it down
const lanternSpriteSize = 80

// LanternsConfig tunes the lanterns theme
type LanternsConfig struct {
	Band fx.Band

	Lift  float64 // upward acceleration
	Drag  float64
	Sway  float64
	Size  rangeOf
	Spawn fx.TimerSpawn

	Pointer fx.PointerField
	Halo    color.Color
}

func DefaultLanternsConfig() LanternsConfig {
	return LanternsConfig{
		Band:    fx.Band{Floor: 6, Ceiling: 14},
		Lift:    0.004,
		Drag:    0.01,
		Sway:    0.006,
		Size:    rangeOf{18, 34},
		Spawn:   fx.TimerSpawn{Every: 90, Count: 1},
		Pointer: fx.PointerField{Radius: 120, Strength: 0.03, Repel: true},
		Halo:    colornames.Orange,
	}
}

// Lanterns releases paper lanterns from the bottom edge. They rise slowly,
// sway and flicker, and drift away from the pointer.
type Lanterns struct {
	cfg    LanternsConfig
	policy *fx.TimerSpawn
	sprite image.Image
}

// NewLanterns rasterizes the lantern sprite and creates the theme
func NewLanterns(cfg LanternsConfig) (*Lanterns, error) {
	sprite, err := rasterizeSprite(lanternSVG, lanternSpriteSize)
	if err != nil {
		return nil, fmt.Errorf("lantern sprite: %w", err)
	}
	policy := cfg.Spawn
	return &Lanterns{cfg: cfg, policy: &policy, sprite: sprite}, nil
}

// rasterizeSprite draws an SVG icon into an image whose longer side is long
// pixels, keeping the aspect ratio of the icon's view box
func rasterizeSprite(svg []byte, long int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, err
	}
	vb := icon.ViewBox
	if !(vb.W > 0 && vb.H > 0) || long <= 0 {
		return nil, fmt.Errorf("sprite: empty view box %gx%g", vb.W, vb.H)
	}

	w, h := long, long
	if vb.W > vb.H {
		h = max(1, int(math.Round(float64(long)*vb.H/vb.W)))
	} else {
		w = max(1, int(math.Round(float64(long)*vb.W/vb.H)))
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dasher := rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds()))
	icon.Draw(dasher, 1)
	return img, nil
}

func (l *Lanterns) Name() string                { return "lanterns" }
func (l *Lanterns) Band() fx.Band               { return l.cfg.Band }
func (l *Lanterns) SpawnPolicy() fx.SpawnPolicy { return l.policy }

// Sprite returns the rasterized lantern image
func (l *Lanterns) Sprite() image.Image {
	return l.sprite
}

func (l *Lanterns) Spawn(env *fx.Env, seeding bool) fx.Particle {
	b := env.Bounds()
	size := l.cfg.Size.pick(env)
	p := fx.Particle{
		Pos:   fx.V(env.RandRange(b.MinX+size, b.MaxX-size), b.MaxY+size),
		Vel:   fx.V(0, -env.RandRange(0.15, 0.35)),
		Size:  size,
		Alpha: env.RandRange(0.7, 1),
		Phase: env.RandRange(0, tau),
		Speed: env.RandRange(0.008, 0.02),
		Amp:   env.RandRange(0.08, 0.2),
	}
	if seeding {
		p.Pos = b.Random(env)
	}
	return p
}

func (l *Lanterns) Forces(p *fx.Particle, env *fx.Env) (fx.Vec2, bool) {
	// Smaller lanterns are lighter
	acc := fx.V(fx.Oscillate(env.Time, p.Speed, p.Phase, l.cfg.Sway), -l.cfg.Lift*(40/p.Size))
	acc = acc.Add(fx.Drag(p.Vel, l.cfg.Drag))
	push, _ := l.cfg.Pointer.At(p.Pos, env.Pointer)
	return acc.Add(push), true
}

func (l *Lanterns) Constrain(p *fx.Particle, env *fx.Env) {
	b := env.Bounds()
	if p.Pos.X < b.MinX-p.Size {
		p.Pos.X = b.MaxX + p.Size
	} else if p.Pos.X > b.MaxX+p.Size {
		p.Pos.X = b.MinX - p.Size
	}
}

func (l *Lanterns) Dead(p *fx.Particle, env *fx.Env) bool {
	return p.Pos.Y < env.Bounds().MinY-p.Size*1.5
}

func (l *Lanterns) Draw(s fx.Surface, p *fx.Particle, env *fx.Env, alpha float64) {
	flicker := 1 - p.Amp*pulse(env.Time, 0.15, p.Phase)
	a := alpha * p.Alpha
	s.Glow(p.Pos.X, p.Pos.Y, p.Size*1.6, l.cfg.Halo, a*0.35*flicker)
	s.Sprite(l.sprite, p.Pos.X, p.Pos.Y, p.Size, a*flicker)
}
