package fx

import "time"

// HardPopulationCap is the structural ceiling no theme may exceed
const HardPopulationCap = 120

// DefaultCeiling is used when a theme declares a non-positive ceiling
const DefaultCeiling = 60

// Config holds engine tuning constants
type Config struct {
	// ActiveOpacity is the opacity target while animating
	ActiveOpacity float64

	// IdleOpacity is the dim opacity target while not animating
	IdleOpacity float64

	// OpacitySmoothing is the per-frame exponential smoothing factor
	OpacitySmoothing float64

	// FrameRate is the nominal display rate the per-frame constants are tuned for
	FrameRate float64

	// MaxFrameDelta caps the simulated time of one frame, in seconds
	MaxFrameDelta float64

	// Background is the clear colour, as 0xRRGGBB
	Background uint32
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		ActiveOpacity:    1.0,
		IdleOpacity:      0.15,
		OpacitySmoothing: 0.03,
		FrameRate:        60,
		MaxFrameDelta:    0.1, // Clamp delta time to prevent large jumps
		Background:       0x05070f,
	}
}

// FrameInterval returns the nominal duration of one frame
func (c Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Duration(float64(time.Second) / c.FrameRate)
}

// frameDelta converts elapsed wall time into frame units, clamped to MaxFrameDelta.
// A zero elapsed (first frame) counts as one nominal frame.
func (c Config) frameDelta(elapsed time.Duration) float64 {
	rate := c.FrameRate
	if rate <= 0 {
		rate = 60
	}
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 1
	}
	maxDelta := c.MaxFrameDelta
	if maxDelta <= 0 {
		maxDelta = 0.1
	}
	if seconds > maxDelta {
		seconds = maxDelta
	}
	return seconds * rate
}
