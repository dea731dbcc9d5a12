package physics

// Body is a value snapshot of a circular ball.
type Body struct {
	ID       int64
	Position Vec2
	Velocity Vec2
	Mass     float64
	Radius   float64
}

func (b Body) Momentum() Vec2 { return b.Velocity.Scale(b.Mass) }

func (b Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
}

// Overlaps reports whether the two discs touch or intersect.
func (b Body) Overlaps(o Body) bool {
	return b.Position.Sub(o.Position).Norm() <= b.Radius+o.Radius
}

func TotalMomentum(bodies []Body) Vec2 {
	var p Vec2
	for _, b := range bodies {
		p = p.Add(b.Momentum())
	}
	return p
}

func TotalKineticEnergy(bodies []Body) float64 {
	e := 0.0
	for _, b := range bodies {
		e += b.KineticEnergy()
	}
	return e
}
