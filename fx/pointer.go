package fx

import (
	"image"
	"sync"
)

// Pointer is a snapshot of the shared pointer record in surface-local coordinates
type Pointer struct {
	X, Y   float64
	Active bool
}

// Pos returns the pointer position as a vector
func (p Pointer) Pos() Vec2 {
	return Vec2{p.X, p.Y}
}

// PointerReader is the engine's read-only view of the pointer record
type PointerReader interface {
	Pointer() Pointer
}

// PointerTracker is the shared mutable pointer record. The hosting UI is the only
// writer; engines receive it as a PointerReader. Hosts may write from an input
// goroutine while engines read from their frame goroutine.
type PointerTracker struct {
	mu    sync.RWMutex
	state Pointer
}

// NewPointerTracker creates an inactive pointer record
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{}
}

// Pointer returns the current pointer snapshot
func (t *PointerTracker) Pointer() Pointer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Move records a pointer move in local coordinates
func (t *PointerTracker) Move(x, y float64) {
	t.set(Pointer{X: x, Y: y, Active: true})
}

// Press records a pointer press in local coordinates
func (t *PointerTracker) Press(x, y float64) {
	t.set(Pointer{X: x, Y: y, Active: true})
}

// Leave marks the pointer inactive and keeps its last position
func (t *PointerTracker) Leave() {
	t.mu.Lock()
	t.state.Active = false
	t.mu.Unlock()
}

// MoveClient translates client coordinates into the local space of bounds.
// A position outside bounds counts as leaving the surface.
func (t *PointerTracker) MoveClient(clientX, clientY float64, bounds image.Rectangle) {
	if bounds.Empty() ||
		clientX < float64(bounds.Min.X) || clientX >= float64(bounds.Max.X) ||
		clientY < float64(bounds.Min.Y) || clientY >= float64(bounds.Max.Y) {
		t.Leave()
		return
	}
	t.Move(clientX-float64(bounds.Min.X), clientY-float64(bounds.Min.Y))
}

func (t *PointerTracker) set(p Pointer) {
	t.mu.Lock()
	t.state = p
	t.mu.Unlock()
}

// StaticPointer is a fixed PointerReader, useful for tests and headless renders
type StaticPointer Pointer

func (s StaticPointer) Pointer() Pointer {
	return Pointer(s)
}
