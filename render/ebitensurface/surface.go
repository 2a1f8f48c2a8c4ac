// Package ebitensurface implements fx.Surface on top of an offscreen ebiten image.
package ebitensurface

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"ambientfx/fx"
)

var _ fx.Surface = (*Surface)(nil)

// glowSize is the side of the cached radial gradient texture
const glowSize = 64

// Surface draws into an offscreen image sized logical size × device scale.
// Shapes drawn with BlendLighter are collected on a transparent layer which is
// added onto the base image when the blend mode switches back or Image is read.
type Surface struct {
	viewport fx.Viewport
	base     *ebiten.Image
	layer    *ebiten.Image
	blend    fx.Blend
	dirty    bool

	glow    *ebiten.Image
	sprites map[image.Image]*ebiten.Image
}

// New creates a surface for the given logical size and device scale
func New(width, height, scale float64) *Surface {
	s := &Surface{sprites: make(map[image.Image]*ebiten.Image)}
	s.Resize(fx.Viewport{Width: width, Height: height, Scale: scale})
	return s
}

// Resize reallocates the backing images when the device size changes
func (s *Surface) Resize(v fx.Viewport) {
	if !(v.Scale > 0) {
		v.Scale = 1
	}
	w, h := v.BackingSize()
	s.viewport = v
	if s.base != nil && s.base.Bounds().Dx() == w && s.base.Bounds().Dy() == h {
		return
	}
	if s.base != nil {
		s.base.Deallocate()
		s.layer.Deallocate()
		s.base, s.layer = nil, nil
	}
	if w == 0 || h == 0 {
		return
	}
	s.base = ebiten.NewImage(w, h)
	s.layer = ebiten.NewImage(w, h)
}

// Image returns the composed backing image, or nil while the viewport is empty
func (s *Surface) Image() *ebiten.Image {
	s.flush()
	return s.base
}

// DrawTo draws the composed image onto screen, scaled to fill it
func (s *Surface) DrawTo(screen *ebiten.Image) {
	img := s.Image()
	if img == nil {
		return
	}
	sb, ib := screen.Bounds(), img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sb.Dx())/float64(ib.Dx()), float64(sb.Dy())/float64(ib.Dy()))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func (s *Surface) Size() (float64, float64) {
	return s.viewport.Width, s.viewport.Height
}

func (s *Surface) Clear(clr color.Color) {
	if s.base == nil {
		return
	}
	s.base.Fill(clr)
	s.layer.Clear()
	s.dirty = false
}

func (s *Surface) SetBlend(mode fx.Blend) {
	if mode == s.blend {
		return
	}
	s.flush()
	s.blend = mode
}

// flush adds the lighter layer onto the base image
func (s *Surface) flush() {
	if !s.dirty || s.base == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.Blend = ebiten.BlendLighter
	s.base.DrawImage(s.layer, op)
	s.layer.Clear()
	s.dirty = false
}

// target returns the image the current blend mode draws into
func (s *Surface) target() *ebiten.Image {
	if s.blend == fx.BlendLighter {
		s.dirty = true
		return s.layer
	}
	return s.base
}

func (s *Surface) FillCircle(cx, cy, r float64, clr color.Color, alpha float64) {
	if s.base == nil || !visible(alpha) || !finite(cx, cy, r) || r <= 0 {
		return
	}
	k := s.viewport.Scale
	vector.DrawFilledCircle(s.target(), float32(cx*k), float32(cy*k), float32(r*k), Fade(clr, alpha), true)
}

func (s *Surface) StrokeCircle(cx, cy, r, width float64, clr color.Color, alpha float64) {
	if s.base == nil || !visible(alpha) || !finite(cx, cy, r, width) || r <= 0 || width <= 0 {
		return
	}
	k := s.viewport.Scale
	vector.StrokeCircle(s.target(), float32(cx*k), float32(cy*k), float32(r*k), float32(width*k), Fade(clr, alpha), true)
}

func (s *Surface) Line(x1, y1, x2, y2, width float64, clr color.Color, alpha float64) {
	if s.base == nil || !visible(alpha) || !finite(x1, y1, x2, y2, width) || width <= 0 {
		return
	}
	k := s.viewport.Scale
	vector.StrokeLine(s.target(), float32(x1*k), float32(y1*k), float32(x2*k), float32(y2*k), float32(width*k), Fade(clr, alpha), true)
}

func (s *Surface) FillRect(x, y, w, h float64, clr color.Color, alpha float64) {
	if s.base == nil || !visible(alpha) || !finite(x, y, w, h) || w <= 0 || h <= 0 {
		return
	}
	k := s.viewport.Scale
	vector.DrawFilledRect(s.target(), float32(x*k), float32(y*k), float32(w*k), float32(h*k), Fade(clr, alpha), true)
}

// Glow stretches a cached radial gradient over the halo's bounding box
func (s *Surface) Glow(cx, cy, r float64, clr color.Color, alpha float64) {
	if s.base == nil || !visible(alpha) || !finite(cx, cy, r) || r <= 0 {
		return
	}
	if s.glow == nil {
		s.glow = ebiten.NewImageFromImage(Gradient(glowSize))
	}
	k := s.viewport.Scale
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-glowSize/2, -glowSize/2)
	op.GeoM.Scale(2*r*k/glowSize, 2*r*k/glowSize)
	op.GeoM.Translate(cx*k, cy*k)
	op.ColorScale.ScaleWithColor(Fade(clr, alpha))
	op.Filter = ebiten.FilterLinear
	if s.blend == fx.BlendLighter {
		op.Blend = ebiten.BlendLighter
	}
	s.target().DrawImage(s.glow, op)
}

// Sprite uploads img once and draws it centred, scaled so its larger side is size
func (s *Surface) Sprite(img image.Image, cx, cy, size, alpha float64) {
	if s.base == nil || img == nil || !visible(alpha) || !finite(cx, cy, size) || size <= 0 {
		return
	}
	tex, ok := s.sprites[img]
	if !ok {
		tex = ebiten.NewImageFromImage(img)
		s.sprites[img] = tex
	}
	b := tex.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}
	f := SpriteScale(w, h, size) * s.viewport.Scale
	k := s.viewport.Scale

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(f, f)
	op.GeoM.Translate(cx*k, cy*k)
	op.ColorScale.ScaleAlpha(float32(clamp01(alpha)))
	op.Filter = ebiten.FilterLinear
	if s.blend == fx.BlendLighter {
		op.Blend = ebiten.BlendLighter
	}
	s.target().DrawImage(tex, op)
}

// Fade returns clr with its alpha multiplied by alpha, premultiplied for ebiten
func Fade(clr color.Color, alpha float64) color.RGBA {
	a := clamp01(alpha)
	r, g, b, ca := clr.RGBA()
	return color.RGBA{
		R: uint8(float64(r>>8) * a),
		G: uint8(float64(g>>8) * a),
		B: uint8(float64(b>>8) * a),
		A: uint8(float64(ca>>8) * a),
	}
}

// Gradient builds a white radial halo whose alpha falls off as (1-d)² from the
// centre to the edge of a size×size square
func Gradient(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c) / c
			if d >= 1 {
				continue
			}
			v := uint8(255 * (1 - d) * (1 - d))
			i := img.PixOffset(x, y)
			img.Pix[i+0] = v
			img.Pix[i+1] = v
			img.Pix[i+2] = v
			img.Pix[i+3] = v
		}
	}
	return img
}

// SpriteScale returns the factor that fits a w×h sprite's larger side to size
func SpriteScale(w, h, size float64) float64 {
	return size / math.Max(w, h)
}

func visible(alpha float64) bool {
	return alpha > 0 && !math.IsNaN(alpha)
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
