package host

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"ambientfx/fx"
)

// PointerInput feeds the shared pointer record from the mouse cursor and touches.
// A touch takes precedence while held; lifting the last finger leaves the surface
// until the mouse moves again.
type PointerInput struct {
	tracker *fx.PointerTracker

	touches    []ebiten.TouchID
	touching   bool
	lastCursor image.Point
}

// NewPointerInput creates an input writing into tracker
func NewPointerInput(tracker *fx.PointerTracker) *PointerInput {
	return &PointerInput{
		tracker: tracker,
		touches: make([]ebiten.TouchID, 0, 4),
	}
}

// Update polls ebiten for the cursor and touches. Positions arrive in layout
// (device) pixels and are mapped into the logical space of v.
func (p *PointerInput) Update(v fx.Viewport) {
	p.touches = ebiten.AppendTouchIDs(p.touches[:0])
	if len(p.touches) > 0 {
		p.touching = true
		x, y := ebiten.TouchPosition(p.touches[0])
		p.apply(x, y, v)
		return
	}
	if p.touching {
		p.touching = false
		p.tracker.Leave()
		p.lastCursor = image.Pt(ebiten.CursorPosition())
		return
	}

	cursor := image.Pt(ebiten.CursorPosition())
	if !ebiten.IsFocused() {
		p.tracker.Leave()
		return
	}
	if cursor == p.lastCursor && !p.tracker.Pointer().Active &&
		!inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		// Still parked where the last touch ended
		return
	}
	p.lastCursor = cursor
	p.apply(cursor.X, cursor.Y, v)
}

func (p *PointerInput) apply(px, py int, v fx.Viewport) {
	x, y := v.ToLogical(float64(px), float64(py))
	w, h := int(v.Width), int(v.Height)
	p.tracker.MoveClient(x, y, image.Rect(0, 0, w, h))
}

// LayoutSize returns the layout size in device pixels for a window of the
// given logical size
func LayoutSize(width, height int, scale float64) (int, int) {
	v := fx.Viewport{Width: float64(width), Height: float64(height), Scale: scale}
	w, h := v.BackingSize()
	return max(w, 1), max(h, 1)
}
