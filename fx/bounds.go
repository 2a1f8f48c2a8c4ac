package fx

// Bounds is the rectangle particles live in. MinY carries the host's top
// exclusion band.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Contains reports whether pos lies inside the bounds grown by margin
func (b Bounds) Contains(pos Vec2, margin float64) bool {
	return pos.X >= b.MinX-margin && pos.X <= b.MaxX+margin &&
		pos.Y >= b.MinY-margin && pos.Y <= b.MaxY+margin
}

// Wrap moves a particle that left the bounds (grown by margin) to the opposite edge
func (b Bounds) Wrap(p *Particle, margin float64) {
	w := b.Width() + 2*margin
	h := b.Height() + 2*margin
	if w <= 0 || h <= 0 {
		return
	}
	if p.Pos.X < b.MinX-margin {
		p.Pos.X += w
	} else if p.Pos.X > b.MaxX+margin {
		p.Pos.X -= w
	}
	if p.Pos.Y < b.MinY-margin {
		p.Pos.Y += h
	} else if p.Pos.Y > b.MaxY+margin {
		p.Pos.Y -= h
	}
}

// Bounce reflects a particle off the bounds, scaling the reflected component by restitution
func (b Bounds) Bounce(p *Particle, restitution float64) {
	if p.Pos.X < b.MinX {
		p.Pos.X = b.MinX
		p.Vel.X = -p.Vel.X * restitution
	} else if p.Pos.X > b.MaxX {
		p.Pos.X = b.MaxX
		p.Vel.X = -p.Vel.X * restitution
	}
	if p.Pos.Y < b.MinY {
		p.Pos.Y = b.MinY
		p.Vel.Y = -p.Vel.Y * restitution
	} else if p.Pos.Y > b.MaxY {
		p.Pos.Y = b.MaxY
		p.Vel.Y = -p.Vel.Y * restitution
	}
}

// Random returns a uniformly random point inside the bounds
func (b Bounds) Random(env *Env) Vec2 {
	return Vec2{
		X: b.MinX + env.Rand.Float64()*b.Width(),
		Y: b.MinY + env.Rand.Float64()*b.Height(),
	}
}
