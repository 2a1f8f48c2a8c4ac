package fx

import "sync/atomic"

// AnimateFlag is the session-wide animate toggle shared by every engine a player
// creates. It is safe to flip from an input goroutine while frames read it.
type AnimateFlag struct {
	on atomic.Bool
}

// NewAnimateFlag creates a flag with the given initial state
func NewAnimateFlag(on bool) *AnimateFlag {
	f := &AnimateFlag{}
	f.on.Store(on)
	return f
}

func (f *AnimateFlag) Animating() bool {
	return f.on.Load()
}

func (f *AnimateFlag) Set(on bool) {
	f.on.Store(on)
}

// Toggle flips the flag and returns the new state
func (f *AnimateFlag) Toggle() bool {
	for {
		old := f.on.Load()
		if f.on.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
