package fx

// snapEpsilon is the distance at which the opacity settles exactly on its target
const snapEpsilon = 1e-6

// Opacity exponentially smooths the scene's alpha multiplier toward a binary
// target derived from the animate flag, so toggles never pop.
type Opacity struct {
	current float64
	active  float64
	idle    float64
	k       float64
}

// NewOpacity creates a controller starting at initial. The smoothing factor k is
// clamped into (0, 1]; values outside that range would overshoot or diverge.
func NewOpacity(initial, active, idle, k float64) *Opacity {
	if !(k > 0) {
		k = 0.03
	}
	if k > 1 {
		k = 1
	}
	return &Opacity{
		current: Clamp(initial, 0, 1),
		active:  Clamp(active, 0, 1),
		idle:    Clamp(idle, 0, 1),
		k:       k,
	}
}

// NewOpacityFromConfig creates a controller starting fully visible
func NewOpacityFromConfig(cfg Config) *Opacity {
	return NewOpacity(cfg.ActiveOpacity, cfg.ActiveOpacity, cfg.IdleOpacity, cfg.OpacitySmoothing)
}

// Current returns the smoothed opacity
func (o *Opacity) Current() float64 {
	return o.current
}

// Target returns the opacity the controller is converging toward
func (o *Opacity) Target(animate bool) float64 {
	if animate {
		return o.active
	}
	return o.idle
}

// Advance moves one frame toward the target and returns the new value
func (o *Opacity) Advance(animate bool) float64 {
	target := o.Target(animate)
	o.current += (target - o.current) * o.k
	if d := target - o.current; d < snapEpsilon && d > -snapEpsilon {
		o.current = target
	}
	return o.current
}
