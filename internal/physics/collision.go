package physics

// Resolve computes the post-collision velocities of a and b.
//
// The response is an elastic impulse along the contact normal. No positional
// correction is applied: discs that overlap but already separate keep their
// velocities and may stay overlapped for a few ticks.
//
// ok is false when the pair does not collide this tick: centers coincide,
// the discs do not touch, or they are already moving apart. In that case the
// returned velocities equal the inputs.
func Resolve(a, b Body) (va, vb Vec2, ok bool) {
	va, vb = a.Velocity, b.Velocity

	delta := a.Position.Sub(b.Position)
	distance := delta.Norm()
	if distance == 0 || distance > a.Radius+b.Radius {
		return va, vb, false
	}

	normal := delta.Scale(1 / distance)
	approach := a.Velocity.Sub(b.Velocity).Dot(normal)
	if approach >= 0 {
		return va, vb, false
	}

	impulse := 2 * approach / (a.Mass + b.Mass)
	va = a.Velocity.Sub(normal.Scale(impulse * b.Mass))
	vb = b.Velocity.Add(normal.Scale(impulse * a.Mass))
	return va, vb, true
}
