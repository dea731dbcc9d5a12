package metrics

import (
	"sort"

	"github.com/san-kum/ballsim/internal/sim"
)

// Metric is a tick observer that folds a run into a single number. OnTick is
// called from the tick goroutine; Value and Reset may be called from any
// goroutine.
type Metric interface {
	sim.Observer
	Name() string
	Value() float64
	Reset()
}

// Set is a group of metrics observed together.
type Set []Metric

// Observers adapts the set for sim.Options.
func (s Set) Observers() []sim.Observer {
	out := make([]sim.Observer, len(s))
	for i, m := range s {
		out[i] = m
	}
	return out
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, m := range s {
		names[i] = m.Name()
	}
	sort.Strings(names)
	return names
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}
