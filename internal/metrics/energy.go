package metrics

import (
	"math"
	"sync"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

// Energy is the mean total kinetic energy per tick.
type Energy struct {
	mu      sync.Mutex
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnTick(_ sim.TickStats, bodies []physics.Body) {
	ke := physics.TotalKineticEnergy(bodies)
	e.mu.Lock()
	e.total += ke
	e.samples++
	e.mu.Unlock()
}

func (e *Energy) Value() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.mu.Lock()
	e.total = 0
	e.samples = 0
	e.mu.Unlock()
}

// EnergyDrift is the largest relative change in total kinetic energy seen
// since the first observed tick. Elastic collisions and lossless walls keep
// it at rounding error while the ball population is constant. Any change in
// the ball count restarts the baseline.
type EnergyDrift struct {
	mu       sync.Mutex
	name     string
	balls    int
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnTick(stats sim.TickStats, bodies []physics.Body) {
	if stats.Interrupted {
		return
	}
	energy := physics.TotalKineticEnergy(bodies)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.samples == 0 || len(bodies) != e.balls {
		e.initial = energy
		e.balls = len(bodies)
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.mu.Lock()
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
	e.balls = 0
	e.mu.Unlock()
}
