package physics

// Reflect keeps a candidate coordinate inside [radius, dimension-radius].
//
// It returns the clamped coordinate and the sign to apply to the velocity
// component on that axis: -1 when the candidate violated a bound, +1 otherwise.
// Reflection is lossless.
func Reflect(candidate, radius, dimension float64) (float64, float64) {
	lo, hi := radius, dimension-radius
	if hi < lo {
		// table narrower than the ball: pin to the center line
		mid := dimension / 2
		if candidate == mid {
			return mid, 1
		}
		return mid, -1
	}
	switch {
	case candidate < lo:
		return lo, -1
	case candidate > hi:
		return hi, -1
	}
	return candidate, 1
}

// Table is the rectangular simulation boundary.
type Table struct {
	Width  float64
	Height float64
}

// Contains reports whether a disc of the given radius centered at p lies
// fully inside the table.
func (t Table) Contains(p Vec2, radius float64) bool {
	return p.X >= radius && p.X <= t.Width-radius && p.Y >= radius && p.Y <= t.Height-radius
}

// Advance moves b by its velocity over dt and reflects it off the walls.
// Each axis is handled independently; both may flip in the same call.
// hits counts the reflected axes.
func (t Table) Advance(b Body, dt float64) (Body, int) {
	candidate := b.Position.Add(b.Velocity.Scale(dt))
	hits := 0

	x, sx := Reflect(candidate.X, b.Radius, t.Width)
	y, sy := Reflect(candidate.Y, b.Radius, t.Height)
	if sx < 0 {
		hits++
	}
	if sy < 0 {
		hits++
	}

	b.Position = Vec2{X: x, Y: y}
	b.Velocity = Vec2{X: b.Velocity.X * sx, Y: b.Velocity.Y * sy}
	return b, hits
}
