package host

import "time"

// fpsWindow is how often the frame rate estimate is refreshed
const fpsWindow = 500 * time.Millisecond

// FrameStats estimates the frame rate over short windows and reports drops
// below a threshold, ignoring a warm-up period and rate-limited by a cooldown
type FrameStats struct {
	threshold float64
	warmup    time.Duration
	cooldown  time.Duration

	start       time.Time
	windowStart time.Time
	lastDrop    time.Time
	frames      int
	fps         float64
}

// NewFrameStats starts measuring at now
func NewFrameStats(threshold float64, warmup, cooldown time.Duration, now time.Time) *FrameStats {
	return &FrameStats{
		threshold:   threshold,
		warmup:      warmup,
		cooldown:    cooldown,
		start:       now,
		windowStart: now,
		fps:         60.0,
	}
}

// Tick records one frame at now. It reports true when the window that just
// closed fell below the threshold and a capture is due.
func (s *FrameStats) Tick(now time.Time) bool {
	s.frames++
	elapsed := now.Sub(s.windowStart)
	if elapsed < fpsWindow {
		return false
	}
	s.fps = float64(s.frames) / elapsed.Seconds()
	s.frames = 0
	s.windowStart = now

	if s.fps >= s.threshold || now.Sub(s.start) < s.warmup {
		return false
	}
	if !s.lastDrop.IsZero() && now.Sub(s.lastDrop) < s.cooldown {
		return false
	}
	s.lastDrop = now
	return true
}

// FPS returns the last frame rate estimate
func (s *FrameStats) FPS() float64 {
	return s.fps
}
