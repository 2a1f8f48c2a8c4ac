// Package raster implements fx.Surface on an in-memory RGBA image using the
// x/image vector rasterizer, for headless rendering and snapshots
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"ambientfx/fx"
)

// ErrEmptyCanvas is returned when encoding a canvas with no pixels
var ErrEmptyCanvas = errors.New("raster: empty canvas")

// circleKappa places cubic Bézier control points to approximate a quarter circle
const circleKappa = 0.5522847498

// Canvas is a software fx.Surface. Coordinates are logical and multiplied by
// the device scale onto the backing image.
type Canvas struct {
	img    *image.RGBA
	width  float64
	height float64
	scale  float64
	blend  fx.Blend

	z       *vector.Rasterizer
	maskBuf []uint8
	tmp     *image.RGBA
}

// New creates a canvas of the given logical size and device scale
func New(width, height, scale float64) *Canvas {
	c := &Canvas{z: vector.NewRasterizer(1, 1)}
	c.Resize(fx.Viewport{Width: width, Height: height, Scale: scale})
	return c
}

// Resize reallocates the backing image when the device-pixel size changes
func (c *Canvas) Resize(v fx.Viewport) {
	if !(v.Scale > 0) {
		v.Scale = 1
	}
	c.width, c.height, c.scale = v.Width, v.Height, v.Scale
	w, h := v.BackingSize()
	if c.img != nil && c.img.Rect.Dx() == w && c.img.Rect.Dy() == h {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Image returns the backing image in device pixels
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// EncodePNG writes the backing image as PNG
func (c *Canvas) EncodePNG(w io.Writer) error {
	if c.img.Rect.Empty() {
		return ErrEmptyCanvas
	}
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("raster: encode png: %w", err)
	}
	return nil
}

func (c *Canvas) Size() (float64, float64) {
	return c.width, c.height
}

func (c *Canvas) SetBlend(mode fx.Blend) {
	c.blend = mode
}

func (c *Canvas) Clear(clr color.Color) {
	draw.Draw(c.img, c.img.Rect, image.NewUniform(clr), image.Point{}, draw.Src)
}

func (c *Canvas) FillCircle(cx, cy, r float64, clr color.Color, alpha float64) {
	if !(r > 0) {
		return
	}
	cx, cy, r = cx*c.scale, cy*c.scale, r*c.scale
	box, ok := c.begin(cx-r, cy-r, cx+r, cy+r)
	if !ok {
		return
	}
	c.circlePath(box, cx, cy, r, false)
	c.fill(box, clr, alpha)
}

func (c *Canvas) StrokeCircle(cx, cy, r, width float64, clr color.Color, alpha float64) {
	if !(r > 0) {
		return
	}
	cx, cy, r = cx*c.scale, cy*c.scale, r*c.scale
	half := math.Max(width*c.scale, 1) / 2
	outer := r + half
	box, ok := c.begin(cx-outer, cy-outer, cx+outer, cy+outer)
	if !ok {
		return
	}
	c.circlePath(box, cx, cy, outer, false)
	if inner := r - half; inner > 0 {
		// Opposite winding cuts the hole
		c.circlePath(box, cx, cy, inner, true)
	}
	c.fill(box, clr, alpha)
}

func (c *Canvas) Line(x1, y1, x2, y2, width float64, clr color.Color, alpha float64) {
	x1, y1, x2, y2 = x1*c.scale, y1*c.scale, x2*c.scale, y2*c.scale
	half := math.Max(width*c.scale, 1) / 2
	d := fx.V(x2-x1, y2-y1)
	if d.Len() == 0 {
		c.FillCircle(x1/c.scale, y1/c.scale, half/c.scale, clr, alpha)
		return
	}
	n := fx.V(-d.Y, d.X).Normalize().Scale(half)
	box, ok := c.begin(math.Min(x1, x2)-half, math.Min(y1, y2)-half, math.Max(x1, x2)+half, math.Max(y1, y2)+half)
	if !ok {
		return
	}
	c.polygon(box, []fx.Vec2{
		{X: x1 + n.X, Y: y1 + n.Y},
		{X: x2 + n.X, Y: y2 + n.Y},
		{X: x2 - n.X, Y: y2 - n.Y},
		{X: x1 - n.X, Y: y1 - n.Y},
	})
	c.fill(box, clr, alpha)
}

func (c *Canvas) FillRect(x, y, w, h float64, clr color.Color, alpha float64) {
	x, y, w, h = x*c.scale, y*c.scale, w*c.scale, h*c.scale
	box, ok := c.begin(x, y, x+w, y+h)
	if !ok {
		return
	}
	c.polygon(box, []fx.Vec2{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}})
	c.fill(box, clr, alpha)
}

// Glow shades a quadratic radial falloff directly, without the rasterizer
func (c *Canvas) Glow(cx, cy, r float64, clr color.Color, alpha float64) {
	if !(r > 0) || !(alpha > 0) {
		return
	}
	cx, cy, r = cx*c.scale, cy*c.scale, r*c.scale
	box := clipBox(cx-r, cy-r, cx+r, cy+r, c.img.Rect)
	if box.Empty() {
		return
	}
	src := toNRGBA(clr)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / r
			if d >= 1 {
				continue
			}
			c.composite(x, y, src, (1-d)*(1-d)*alpha)
		}
	}
}

func (c *Canvas) Sprite(img image.Image, cx, cy, size, alpha float64) {
	if img == nil || !(size > 0) {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	// The larger side becomes size
	k := size * c.scale / math.Max(float64(b.Dx()), float64(b.Dy()))
	w, h := float64(b.Dx())*k, float64(b.Dy())*k
	x0, y0 := cx*c.scale-w/2, cy*c.scale-h/2
	target := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x0+w)), int(math.Ceil(y0+h)))
	if target.Empty() {
		return
	}

	if c.tmp == nil || !c.tmp.Rect.Size().Eq(target.Size()) {
		c.tmp = image.NewRGBA(image.Rectangle{Max: target.Size()})
	}
	draw.CatmullRom.Scale(c.tmp, c.tmp.Rect, img, b, draw.Src, nil)

	clip := target.Intersect(c.img.Rect)
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			px := c.tmp.RGBAAt(x-target.Min.X, y-target.Min.Y)
			if px.A == 0 {
				continue
			}
			// Un-premultiply for the compositor
			a := float64(px.A) / 255
			src := color.NRGBA{
				R: uint8(math.Min(255, float64(px.R)/a)),
				G: uint8(math.Min(255, float64(px.G)/a)),
				B: uint8(math.Min(255, float64(px.B)/a)),
				A: 255,
			}
			c.composite(x, y, src, a*alpha)
		}
	}
}

// begin clips a device-space bounding box to the canvas and resets the
// rasterizer to cover it
func (c *Canvas) begin(minX, minY, maxX, maxY float64) (image.Rectangle, bool) {
	box := clipBox(minX, minY, maxX, maxY, c.img.Rect)
	if box.Empty() {
		return box, false
	}
	c.z.Reset(box.Dx(), box.Dy())
	return box, true
}

func (c *Canvas) circlePath(box image.Rectangle, cx, cy, r float64, reverse bool) {
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	x, y := float32(cx-ox), float32(cy-oy)
	rr, k := float32(r), float32(r*circleKappa)
	if !reverse {
		c.z.MoveTo(x+rr, y)
		c.z.CubeTo(x+rr, y+k, x+k, y+rr, x, y+rr)
		c.z.CubeTo(x-k, y+rr, x-rr, y+k, x-rr, y)
		c.z.CubeTo(x-rr, y-k, x-k, y-rr, x, y-rr)
		c.z.CubeTo(x+k, y-rr, x+rr, y-k, x+rr, y)
	} else {
		c.z.MoveTo(x+rr, y)
		c.z.CubeTo(x+rr, y-k, x+k, y-rr, x, y-rr)
		c.z.CubeTo(x-k, y-rr, x-rr, y-k, x-rr, y)
		c.z.CubeTo(x-rr, y+k, x-k, y+rr, x, y+rr)
		c.z.CubeTo(x+k, y+rr, x+rr, y+k, x+rr, y)
	}
	c.z.ClosePath()
}

func (c *Canvas) polygon(box image.Rectangle, pts []fx.Vec2) {
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	c.z.MoveTo(float32(pts[0].X-ox), float32(pts[0].Y-oy))
	for _, p := range pts[1:] {
		c.z.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	c.z.ClosePath()
}

// fill rasterizes the current path into a coverage mask and composites clr through it
func (c *Canvas) fill(box image.Rectangle, clr color.Color, alpha float64) {
	if !(alpha > 0) {
		return
	}
	w, h := box.Dx(), box.Dy()
	if cap(c.maskBuf) < w*h {
		c.maskBuf = make([]uint8, w*h)
	}
	mask := &image.Alpha{Pix: c.maskBuf[:w*h], Stride: w, Rect: image.Rect(0, 0, w, h)}
	c.z.DrawOp = draw.Src
	c.z.Draw(mask, mask.Rect, image.Opaque, image.Point{})

	src := toNRGBA(clr)
	for y := 0; y < h; y++ {
		row := mask.Pix[y*w : y*w+w]
		for x, cov := range row {
			if cov == 0 {
				continue
			}
			c.composite(box.Min.X+x, box.Min.Y+y, src, float64(cov)/255*alpha)
		}
	}
}

// composite blends one straight-alpha colour into the premultiplied backing
// pixel with coverage a, using the current blend mode
func (c *Canvas) composite(x, y int, src color.NRGBA, a float64) {
	a *= float64(src.A) / 255
	if !(a > 0) {
		return
	}
	if a > 1 {
		a = 1
	}
	i := c.img.PixOffset(x, y)
	p := c.img.Pix[i : i+4 : i+4]
	sr, sg, sb := float64(src.R)*a, float64(src.G)*a, float64(src.B)*a

	switch c.blend {
	case fx.BlendLighter:
		p[0] = addSat(p[0], sr)
		p[1] = addSat(p[1], sg)
		p[2] = addSat(p[2], sb)
		p[3] = addSat(p[3], 255*a)
	default:
		inv := 1 - a
		p[0] = uint8(sr + float64(p[0])*inv + 0.5)
		p[1] = uint8(sg + float64(p[1])*inv + 0.5)
		p[2] = uint8(sb + float64(p[2])*inv + 0.5)
		p[3] = uint8(255*a + float64(p[3])*inv + 0.5)
	}
}

func addSat(v uint8, add float64) uint8 {
	return uint8(math.Min(255, float64(v)+add+0.5))
}

func toNRGBA(clr color.Color) color.NRGBA {
	if clr == nil {
		return color.NRGBA{A: 255}
	}
	return color.NRGBAModel.Convert(clr).(color.NRGBA)
}

// clipBox converts a float bounding box to whole pixels inside bounds
func clipBox(minX, minY, maxX, maxY float64, bounds image.Rectangle) image.Rectangle {
	for _, v := range [...]float64{minX, minY, maxX, maxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return image.Rectangle{}
		}
	}
	// Clamp before converting so huge coordinates cannot overflow int
	lo := func(v float64, limit int) int { return int(math.Floor(math.Max(v, float64(limit)-1))) }
	hi := func(v float64, limit int) int { return int(math.Ceil(math.Min(v, float64(limit)+1))) }
	r := image.Rect(
		lo(minX, bounds.Min.X), lo(minY, bounds.Min.Y),
		hi(maxX, bounds.Max.X), hi(maxY, bounds.Max.Y),
	)
	return r.Intersect(bounds)
}
