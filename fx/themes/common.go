package themes

import (
	"image/color"
	"math"

	"github.com/crazy3lf/colorconv"
	"github.com/lucasb-eyer/go-colorful"

	"ambientfx/fx"
)

const tau = 2 * math.Pi

// rgb converts a 0xRRGGBB literal to an opaque colour
func rgb(hex uint32) color.NRGBA {
	return color.NRGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 255}
}

// hsv converts hue (degrees), saturation and value to an opaque colour
func hsv(h, s, v float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b, err := colorconv.HSVToRGB(h, fx.Clamp(s, 0, 1), fx.Clamp(v, 0, 1))
	if err != nil {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// mix blends a toward b in Lab space, t in [0, 1]
func mix(a, b color.Color, t float64) color.NRGBA {
	ca, ok := colorful.MakeColor(a)
	if !ok {
		return color.NRGBA{A: 255}
	}
	cb, ok := colorful.MakeColor(b)
	if !ok {
		return color.NRGBA{A: 255}
	}
	r, g, bl := ca.BlendLab(cb, fx.Clamp(t, 0, 1)).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: 255}
}

// pulse returns a value oscillating in [0, 1]
func pulse(t, freq, phase float64) float64 {
	return 0.5 + 0.5*math.Sin(t*freq+phase)
}

// lifeFade fades a time-limited particle in over the first fadeIn fraction of
// its life and out over the last fadeOut fraction
func lifeFade(p *fx.Particle, fadeIn, fadeOut float64) float64 {
	if p.MaxAge <= 0 {
		return 1
	}
	life := p.LifeFraction()
	fade := 1.0
	if fadeIn > 0 && life < fadeIn {
		fade = life / fadeIn
	}
	if fadeOut > 0 && life > 1-fadeOut {
		fade = math.Min(fade, (1-life)/fadeOut)
	}
	return fx.Clamp(fade, 0, 1)
}

// randomEdgePoint returns a point just outside one of the four edges of b
func randomEdgePoint(env *fx.Env, b fx.Bounds, margin float64) fx.Vec2 {
	switch env.Rand.Intn(4) {
	case 0:
		return fx.V(env.RandRange(b.MinX, b.MaxX), b.MinY-margin)
	case 1:
		return fx.V(b.MaxX+margin, env.RandRange(b.MinY, b.MaxY))
	case 2:
		return fx.V(env.RandRange(b.MinX, b.MaxX), b.MaxY+margin)
	default:
		return fx.V(b.MinX-margin, env.RandRange(b.MinY, b.MaxY))
	}
}

// rangeOf is an inclusive [Min, Max] range for spawn-time randomization
type rangeOf struct {
	Min, Max float64
}

func (r rangeOf) pick(env *fx.Env) float64 {
	return env.RandRange(r.Min, r.Max)
}
