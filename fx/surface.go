package fx

import (
	"image"
	"image/color"
	"math"
	"sync"
)

// Blend selects the compositing operation for subsequent draw calls
type Blend int

const (
	BlendNormal  Blend = iota // source-over
	BlendLighter              // additive, for glow effects
)

// Surface is the immediate-mode drawing target. All coordinates and sizes are
// logical (CSS-pixel like); implementations apply the device scale themselves.
// Alpha arguments are in [0, 1] and multiply the colour's own alpha.
type Surface interface {
	// Size returns the logical size of the surface
	Size() (width, height float64)

	Clear(clr color.Color)
	SetBlend(mode Blend)

	FillCircle(cx, cy, r float64, clr color.Color, alpha float64)
	StrokeCircle(cx, cy, r, width float64, clr color.Color, alpha float64)
	Line(x1, y1, x2, y2, width float64, clr color.Color, alpha float64)
	FillRect(x, y, w, h float64, clr color.Color, alpha float64)

	// Glow draws a radial gradient halo fading from clr at the centre to transparent at r
	Glow(cx, cy, r float64, clr color.Color, alpha float64)

	// Sprite draws img centred at (cx, cy), scaled so its larger side is size
	Sprite(img image.Image, cx, cy, size, alpha float64)
}

// Presenter is implemented by surfaces that buffer a frame and need an explicit
// flip once the engine has finished drawing it (terminal screens)
type Presenter interface {
	Present()
}

// Viewport is the logical size of the drawing surface plus the device pixel ratio
type Viewport struct {
	Width  float64
	Height float64
	Scale  float64
}

// Empty reports whether the viewport has no drawable area (hidden element)
func (v Viewport) Empty() bool {
	return !(v.Width > 0 && v.Height > 0) || !finite(v.Width) || !finite(v.Height)
}

// BackingSize returns the backing resolution in device pixels
func (v Viewport) BackingSize() (int, int) {
	if v.Empty() {
		return 0, 0
	}
	return int(math.Ceil(v.Width * v.Scale)), int(math.Ceil(v.Height * v.Scale))
}

// ToBacking converts logical coordinates to device pixels
func (v Viewport) ToBacking(x, y float64) (float64, float64) {
	return x * v.Scale, y * v.Scale
}

// ToLogical converts device pixels to logical coordinates
func (v Viewport) ToLogical(px, py float64) (float64, float64) {
	if v.Scale == 0 {
		return px, py
	}
	return px / v.Scale, py / v.Scale
}

// Center returns the logical centre of the viewport
func (v Viewport) Center() Vec2 {
	return Vec2{v.Width * 0.5, v.Height * 0.5}
}

// SurfaceManager owns the coordinate mapping of a resizable surface. Resize may be
// called from any goroutine; it only replaces the transform, never particle state.
type SurfaceManager struct {
	mu       sync.Mutex
	viewport Viewport
	version  uint64
}

// NewSurfaceManager creates a manager with an empty viewport
func NewSurfaceManager() *SurfaceManager {
	return &SurfaceManager{viewport: Viewport{Scale: 1}}
}

// Resize records the new logical size and device scale. It reports whether the
// viewport changed; resizing to the current dimensions is a no-op.
func (m *SurfaceManager) Resize(width, height, deviceScale float64) bool {
	if !(deviceScale > 0) || !finite(deviceScale) {
		deviceScale = 1
	}
	if !finite(width) || width < 0 {
		width = 0
	}
	if !finite(height) || height < 0 {
		height = 0
	}

	next := Viewport{Width: width, Height: height, Scale: deviceScale}

	m.mu.Lock()
	defer m.mu.Unlock()
	if next == m.viewport {
		return false
	}
	m.viewport = next
	m.version++
	return true
}

// Viewport returns the current viewport and its version counter
func (m *SurfaceManager) Viewport() (Viewport, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewport, m.version
}
