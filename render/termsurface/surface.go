// Package termsurface renders fx scenes onto a terminal. Each character cell
// stands for a block of logical pixels; primitives accumulate colour per cell
// and Present turns brightness into glyph density.
package termsurface

import (
	"image"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"ambientfx/fx"
)

var (
	_ fx.Surface   = (*Surface)(nil)
	_ fx.Presenter = (*Surface)(nil)
)

// Ramp orders glyphs from empty to dense
var Ramp = []rune(" .:-=+*#%@")

// Default logical size of one character cell. Terminal cells are about twice
// as tall as they are wide.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

const (
	// samples per cell axis when estimating coverage
	samples = 4
	// minCoverage is the least a shape smaller than a cell deposits
	minCoverage = 0.15
)

type rgb struct{ r, g, b float64 }

// Surface is an fx.Surface over a tcell screen. Drawing and Present must happen
// on one goroutine; the screen size is re-read on every Clear so resize events
// handled elsewhere never touch the cell buffer.
type Surface struct {
	screen       tcell.Screen
	cellW, cellH float64
	cols, rows   int

	bg    rgb
	cells []rgb
	blend fx.Blend
	tints map[image.Image]rgb
}

// New creates a surface over screen with the given logical cell size
func New(screen tcell.Screen, cellW, cellH float64) *Surface {
	if !(cellW > 0) {
		cellW = DefaultCellWidth
	}
	if !(cellH > 0) {
		cellH = DefaultCellHeight
	}
	s := &Surface{screen: screen, cellW: cellW, cellH: cellH}
	s.fit()
	return s
}

// fit resizes the cell buffer to the screen
func (s *Surface) fit() {
	cols, rows := s.screen.Size()
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	if cols == s.cols && rows == s.rows && s.cells != nil {
		return
	}
	s.cols, s.rows = cols, rows
	s.cells = make([]rgb, cols*rows)
}

// Size returns the logical size: the cell grid times the cell size
func (s *Surface) Size() (float64, float64) {
	cols, rows := s.screen.Size()
	return float64(cols) * s.cellW, float64(rows) * s.cellH
}

// CellSize returns the logical size of one character cell
func (s *Surface) CellSize() (float64, float64) {
	return s.cellW, s.cellH
}

// ToLogical maps a cell position (mouse events) to the logical centre of the cell
func (s *Surface) ToLogical(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * s.cellW, (float64(row) + 0.5) * s.cellH
}

func (s *Surface) Clear(clr color.Color) {
	s.fit()
	s.bg = toRGB(clr)
	for i := range s.cells {
		s.cells[i] = s.bg
	}
}

func (s *Surface) SetBlend(mode fx.Blend) {
	s.blend = mode
}

// deposit blends clr into cell (x, y) with the given coverage
func (s *Surface) deposit(x, y int, clr rgb, coverage float64) {
	if x < 0 || y < 0 || x >= s.cols || y >= s.rows || !(coverage > 0) {
		return
	}
	if coverage > 1 {
		coverage = 1
	}
	c := &s.cells[y*s.cols+x]
	if s.blend == fx.BlendLighter {
		c.r = math.Min(1, c.r+clr.r*coverage)
		c.g = math.Min(1, c.g+clr.g*coverage)
		c.b = math.Min(1, c.b+clr.b*coverage)
		return
	}
	c.r += (clr.r - c.r) * coverage
	c.g += (clr.g - c.g) * coverage
	c.b += (clr.b - c.b) * coverage
}

// cover samples every cell overlapping the logical box and deposits the
// fraction of samples for which value is positive, weighted by that value.
// Shapes too small to hit a sample deposit their area into the cell holding
// the centre of the box instead.
func (s *Surface) cover(x0, y0, x1, y1, area float64, clr rgb, alpha float64, value func(x, y float64) float64) {
	if !finite(x0, y0, x1, y1, alpha) || alpha <= 0 {
		return
	}
	cx, cy := (x0+x1)/2, (y0+y1)/2
	w, h := float64(s.cols)*s.cellW, float64(s.rows)*s.cellH
	c0 := int(math.Floor(math.Max(x0, 0) / s.cellW))
	r0 := int(math.Floor(math.Max(y0, 0) / s.cellH))
	c1 := min(int(math.Floor(math.Min(x1, w)/s.cellW)), s.cols-1)
	r1 := min(int(math.Floor(math.Min(y1, h)/s.cellH)), s.rows-1)

	hit := false
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			sum := 0.0
			for j := 0; j < samples; j++ {
				for i := 0; i < samples; i++ {
					px := (float64(col) + (float64(i)+0.5)/samples) * s.cellW
					py := (float64(row) + (float64(j)+0.5)/samples) * s.cellH
					sum += value(px, py)
				}
			}
			if sum > 0 {
				hit = true
				s.deposit(col, row, clr, alpha*sum/(samples*samples))
			}
		}
	}
	if !hit && area > 0 && cx >= 0 && cy >= 0 && cx < w && cy < h {
		// floor keeps sub-cell particles visible as at least the faintest glyph
		coverage := math.Max(area/(s.cellW*s.cellH), minCoverage)
		s.deposit(int(math.Floor(cx/s.cellW)), int(math.Floor(cy/s.cellH)), clr, alpha*coverage)
	}
}

func (s *Surface) FillCircle(cx, cy, r float64, clr color.Color, alpha float64) {
	if !(r > 0) {
		return
	}
	s.cover(cx-r, cy-r, cx+r, cy+r, math.Pi*r*r, toRGB(clr), clampAlpha(clr, alpha), func(x, y float64) float64 {
		return inside(math.Hypot(x-cx, y-cy) <= r)
	})
}

func (s *Surface) StrokeCircle(cx, cy, r, width float64, clr color.Color, alpha float64) {
	if !(r > 0) || !(width > 0) {
		return
	}
	half := math.Max(width/2, s.cellW/4)
	outer := r + half
	s.cover(cx-outer, cy-outer, cx+outer, cy+outer, 2*math.Pi*r*width, toRGB(clr), clampAlpha(clr, alpha), func(x, y float64) float64 {
		return inside(math.Abs(math.Hypot(x-cx, y-cy)-r) <= half)
	})
}

// Line widens hairlines to a quarter cell so they stay visible at terminal resolution
func (s *Surface) Line(x1, y1, x2, y2, width float64, clr color.Color, alpha float64) {
	if !(width > 0) {
		return
	}
	half := math.Max(width/2, s.cellW/4)
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	s.cover(math.Min(x1, x2)-half, math.Min(y1, y2)-half, math.Max(x1, x2)+half, math.Max(y1, y2)+half,
		length*width, toRGB(clr), clampAlpha(clr, alpha), func(x, y float64) float64 {
			t := 0.0
			if length > 0 {
				t = ((x-x1)*dx + (y-y1)*dy) / (length * length)
				t = math.Max(0, math.Min(1, t))
			}
			return inside(math.Hypot(x-(x1+t*dx), y-(y1+t*dy)) <= half)
		})
}

func (s *Surface) FillRect(x, y, w, h float64, clr color.Color, alpha float64) {
	if !(w > 0) || !(h > 0) {
		return
	}
	s.cover(x, y, x+w, y+h, w*h, toRGB(clr), clampAlpha(clr, alpha), func(px, py float64) float64 {
		return inside(px >= x && px < x+w && py >= y && py < y+h)
	})
}

func (s *Surface) Glow(cx, cy, r float64, clr color.Color, alpha float64) {
	if !(r > 0) {
		return
	}
	// (1-d)² integrates to a sixth of the disc
	s.cover(cx-r, cy-r, cx+r, cy+r, math.Pi*r*r/6, toRGB(clr), clampAlpha(clr, alpha), func(x, y float64) float64 {
		d := math.Hypot(x-cx, y-cy) / r
		if d >= 1 {
			return 0
		}
		return (1 - d) * (1 - d)
	})
}

// Sprite samples img at each covered sample point, nearest neighbour
func (s *Surface) Sprite(img image.Image, cx, cy, size, alpha float64) {
	if img == nil || !(size > 0) {
		return
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}
	f := size / math.Max(w, h)
	dw, dh := w*f, h*f
	x0, y0 := cx-dw/2, cy-dh/2

	avg, ok := s.tint(img)
	if !ok {
		return
	}
	s.cover(x0, y0, x0+dw, y0+dh, dw*dh, avg, clamp01(alpha), func(x, y float64) float64 {
		sx := b.Min.X + int(math.Floor((x-x0)/f))
		sy := b.Min.Y + int(math.Floor((y-y0)/f))
		if sx < b.Min.X || sy < b.Min.Y || sx >= b.Max.X || sy >= b.Max.Y {
			return 0
		}
		_, _, _, a := img.At(sx, sy).RGBA()
		return float64(a) / 0xffff
	})
}

// tint returns the average opaque colour of img; the terminal cannot show
// sprite detail so sprites are drawn as their silhouette in that colour
func (s *Surface) tint(img image.Image) (rgb, bool) {
	if c, ok := s.tints[img]; ok {
		return c, true
	}
	b := img.Bounds()
	var avg rgb
	var n float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			avg.r += float64(r) / float64(a)
			avg.g += float64(g) / float64(a)
			avg.b += float64(bl) / float64(a)
			n++
		}
	}
	if n == 0 {
		return rgb{}, false
	}
	avg = rgb{avg.r / n, avg.g / n, avg.b / n}
	if s.tints == nil {
		s.tints = make(map[image.Image]rgb)
	}
	s.tints[img] = avg
	return avg, true
}

// Present writes the cell buffer to the screen and shows it
func (s *Surface) Present() {
	bg := tcell.NewRGBColor(channel(s.bg.r), channel(s.bg.g), channel(s.bg.b))
	base := tcell.StyleDefault.Background(bg)
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			glyph, fg := s.Cell(col, row)
			style := base
			if glyph != ' ' {
				style = base.Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B)))
			}
			s.screen.SetContent(col, row, glyph, nil, style)
		}
	}
	s.screen.Show()
}

// Cell returns the glyph and foreground colour Present would draw at (col, row).
// The glyph encodes how far the cell is from the background; the colour is the
// cell's hue at full strength.
func (s *Surface) Cell(col, row int) (rune, color.RGBA) {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return ' ', color.RGBA{}
	}
	c := s.cells[row*s.cols+col]
	dr, dg, db := c.r-s.bg.r, c.g-s.bg.g, c.b-s.bg.b
	level := math.Max(math.Abs(dr), math.Max(math.Abs(dg), math.Abs(db)))
	idx := int(level*float64(len(Ramp)-1) + 0.5)
	if idx <= 0 {
		return ' ', color.RGBA{}
	}
	if idx >= len(Ramp) {
		idx = len(Ramp) - 1
	}
	fg := rgb{
		clamp01(s.bg.r + dr/level),
		clamp01(s.bg.g + dg/level),
		clamp01(s.bg.b + db/level),
	}
	return Ramp[idx], color.RGBA{
		R: uint8(channel(fg.r)),
		G: uint8(channel(fg.g)),
		B: uint8(channel(fg.b)),
		A: 255,
	}
}

// toRGB returns the straight (non-premultiplied) colour in [0, 1]
func toRGB(clr color.Color) rgb {
	r, g, b, a := clr.RGBA()
	if a == 0 {
		return rgb{}
	}
	return rgb{float64(r) / float64(a), float64(g) / float64(a), float64(b) / float64(a)}
}

// clampAlpha folds the colour's own alpha into the draw alpha
func clampAlpha(clr color.Color, alpha float64) float64 {
	_, _, _, a := clr.RGBA()
	return clamp01(alpha) * float64(a) / 0xffff
}

func channel(v float64) int32 {
	return int32(math.Round(clamp01(v) * 255))
}

func inside(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
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
