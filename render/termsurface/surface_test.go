package termsurface

import (
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"ambientfx/fx"
	"ambientfx/fx/themes"
)

var (
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func newScreen(t *testing.T, cols, rows int) tcell.Screen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return screen
}

func TestSurfaceSize(t *testing.T) {
	screen := newScreen(t, 80, 24)
	s := New(screen, 0, 0)

	if w, h := s.Size(); w != 640 || h != 384 {
		t.Errorf("Expected logical size 640x384, got %vx%v", w, h)
	}
	if x, y := s.ToLogical(2, 3); x != 20 || y != 56 {
		t.Errorf("Expected cell (2,3) centre at (20,56), got (%v,%v)", x, y)
	}

	screen.SetSize(40, 10)
	if w, h := s.Size(); w != 320 || h != 160 {
		t.Errorf("Expected logical size to follow the screen, got %vx%v", w, h)
	}
	s.Clear(black)
	if s.cols != 40 || s.rows != 10 || len(s.cells) != 400 {
		t.Errorf("Expected the cell buffer refitted on clear, got %dx%d", s.cols, s.rows)
	}
}

func TestSurfaceCells(t *testing.T) {
	tests := []struct {
		name  string
		draw  func(s *Surface)
		col   int
		row   int
		glyph rune
	}{
		{"Full cell", func(s *Surface) { s.FillRect(8, 16, 8, 16, red, 1) }, 1, 1, '@'},
		{"Neighbour untouched", func(s *Surface) { s.FillRect(8, 16, 8, 16, red, 1) }, 2, 1, ' '},
		{"Half alpha", func(s *Surface) { s.FillRect(8, 16, 8, 16, red, 0.5) }, 1, 1, '+'},
		{"Normal blend covers", func(s *Surface) {
			s.FillRect(8, 16, 8, 16, red, 0.5)
			s.FillRect(8, 16, 8, 16, red, 0.5)
		}, 1, 1, '#'},
		{"Lighter blend adds", func(s *Surface) {
			s.SetBlend(fx.BlendLighter)
			s.FillRect(8, 16, 8, 16, red, 0.5)
			s.FillRect(8, 16, 8, 16, red, 0.5)
		}, 1, 1, '@'},
		{"Sub-cell dot stays visible", func(s *Surface) { s.FillCircle(12, 24, 0.5, white, 1) }, 1, 1, '.'},
		{"Hairline widened to half a cell", func(s *Surface) { s.Line(0, 24, 80, 24, 1, white, 1) }, 5, 1, '+'},
		{"Glow centre", func(s *Surface) { s.Glow(44, 72, 200, white, 1) }, 5, 4, '@'},
		{"Ring hole", func(s *Surface) { s.StrokeCircle(164, 168, 64, 2, white, 1) }, 20, 10, ' '},
		{"Non-finite ignored", func(s *Surface) {
			s.FillCircle(math.NaN(), 24, 4, white, 1)
			s.Line(0, 0, math.Inf(1), 0, 1, white, 1)
		}, 0, 0, ' '},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(newScreen(t, 40, 20), 8, 16)
			s.Clear(black)
			tt.draw(s)
			if got, _ := s.Cell(tt.col, tt.row); got != tt.glyph {
				t.Errorf("Expected %q at (%d,%d), got %q", tt.glyph, tt.col, tt.row, got)
			}
		})
	}
}

func TestCellColour(t *testing.T) {
	s := New(newScreen(t, 10, 5), 8, 16)
	s.Clear(black)
	s.FillRect(0, 0, 8, 16, red, 0.3)

	// Dim cells keep their hue at full strength; density carries the brightness
	_, fg := s.Cell(0, 0)
	if fg.R != 255 || fg.G != 0 || fg.B != 0 {
		t.Errorf("Expected full-strength red, got %+v", fg)
	}
}

func TestSpriteSilhouette(t *testing.T) {
	sprite := image.NewNRGBA(image.Rect(0, 0, 4, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			sprite.SetNRGBA(x, y, color.NRGBA{B: 255, A: 255})
		}
	}
	s := New(newScreen(t, 20, 10), 8, 16)
	s.Clear(black)
	s.Sprite(sprite, 80, 80, 64, 1)

	if got, fg := s.Cell(10, 5); got != '@' || fg.B != 255 {
		t.Errorf("Expected a solid blue cell under the sprite, got %q %+v", got, fg)
	}
	// 4x8 fitted to 64 tall is 32 wide: columns 8 to 11
	if got, _ := s.Cell(6, 5); got != ' ' {
		t.Errorf("Expected the aspect ratio kept, got %q beside the sprite", got)
	}
	if len(s.tints) != 1 {
		t.Errorf("Expected the sprite tint cached, got %d entries", len(s.tints))
	}
}

func TestPresent(t *testing.T) {
	screen := newScreen(t, 10, 5)
	s := New(screen, 8, 16)
	s.Clear(black)
	s.FillRect(8, 16, 8, 16, white, 1)
	s.Present()

	if r, _, _, _ := screen.GetContent(1, 1); r != '@' {
		t.Errorf("Expected '@' on screen, got %q", r)
	}
	if r, _, _, _ := screen.GetContent(0, 0); r != ' ' {
		t.Errorf("Expected a blank background cell, got %q", r)
	}
}

func TestThemesOnTerminal(t *testing.T) {
	for _, name := range themes.Names() {
		t.Run(name, func(t *testing.T) {
			s := New(newScreen(t, 80, 30), 8, 16)
			theme, err := themes.Lookup(name, 9)
			if err != nil {
				t.Fatal(err)
			}
			w, h := s.Size()
			e := fx.New(theme, fx.Options{Seed: 9})
			e.Resize(w, h, 1)

			now := time.Now()
			for i := 0; i < 30; i++ {
				now = now.Add(time.Second / 60)
				e.Advance(now)
			}
			e.Render(s)

			lit := 0
			for row := 0; row < 30; row++ {
				for col := 0; col < 80; col++ {
					if g, _ := s.Cell(col, row); g != ' ' {
						lit++
					}
				}
			}
			if lit == 0 {
				t.Errorf("Expected %s to light some cells", name)
			}
		})
	}
}
