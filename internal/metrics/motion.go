package metrics

import (
	"sync"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

// Momentum is the mean magnitude of the total momentum per tick.
type Momentum struct {
	mu      sync.Mutex
	name    string
	sum     float64
	samples int
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) OnTick(_ sim.TickStats, bodies []physics.Body) {
	p := physics.TotalMomentum(bodies).Norm()
	m.mu.Lock()
	m.sum += p
	m.samples++
	m.mu.Unlock()
}

func (m *Momentum) Value() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Momentum) Reset() {
	m.mu.Lock()
	m.sum = 0
	m.samples = 0
	m.mu.Unlock()
}

// Speed is the mean ball speed over every observed ball-tick.
type Speed struct {
	mu      sync.Mutex
	name    string
	sum     float64
	samples int
}

func NewSpeed() *Speed {
	return &Speed{name: "speed"}
}

func (s *Speed) Name() string { return s.name }

func (s *Speed) OnTick(_ sim.TickStats, bodies []physics.Body) {
	var sum float64
	for _, b := range bodies {
		sum += b.Velocity.Norm()
	}
	s.mu.Lock()
	s.sum += sum
	s.samples += len(bodies)
	s.mu.Unlock()
}

func (s *Speed) Value() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Speed) Reset() {
	s.mu.Lock()
	s.sum = 0
	s.samples = 0
	s.mu.Unlock()
}
