package metrics

import (
	"sync/atomic"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

// Counter sums one field of TickStats across a run.
type Counter struct {
	name  string
	field func(sim.TickStats) int
	n     atomic.Int64
}

func NewCollisions() *Counter {
	return &Counter{name: "collisions", field: func(s sim.TickStats) int { return s.Collisions }}
}

func NewWallHits() *Counter {
	return &Counter{name: "wall_hits", field: func(s sim.TickStats) int { return s.WallHits }}
}

func NewTicks() *Counter {
	return &Counter{name: "ticks", field: func(sim.TickStats) int { return 1 }}
}

func (c *Counter) Name() string { return c.name }

func (c *Counter) OnTick(stats sim.TickStats, _ []physics.Body) {
	c.n.Add(int64(c.field(stats)))
}

func (c *Counter) Value() float64 { return float64(c.n.Load()) }

func (c *Counter) Reset() { c.n.Store(0) }

// Containment is the fraction of ticks in which every ball lay fully inside
// the table.
type Containment struct {
	name       string
	table      physics.Table
	violations atomic.Int64
	samples    atomic.Int64
}

func NewContainment(table physics.Table) *Containment {
	return &Containment{name: "containment", table: table}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) OnTick(_ sim.TickStats, bodies []physics.Body) {
	c.samples.Add(1)
	for _, b := range bodies {
		if !c.table.Contains(b.Position, b.Radius) {
			c.violations.Add(1)
			return
		}
	}
}

func (c *Containment) Value() float64 {
	n := c.samples.Load()
	if n == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations.Load())/float64(n)
}

func (c *Containment) Reset() {
	c.violations.Store(0)
	c.samples.Store(0)
}

// Standard returns the metric set recorded for every run.
func Standard(table physics.Table) Set {
	return Set{
		NewTicks(),
		NewEnergy(),
		NewEnergyDrift(),
		NewMomentum(),
		NewSpeed(),
		NewCollisions(),
		NewWallHits(),
		NewContainment(table),
	}
}
