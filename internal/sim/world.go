package sim

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/telemetry"
)

// World owns the ball registry and runs ticks over it. All registry access
// goes through mu.
type World struct {
	mu       sync.Mutex
	table    physics.Table
	dt       float64
	radius   float64
	mass     float64
	maxSpeed float64
	rng      *rand.Rand
	balls    []*Ball
	nextID   int64
	tick     uint64
	disposed bool

	observers []Observer
	record    func(telemetry.Record)
	now       func() time.Time
	scratch   []physics.Body
}

// NewWorld builds a world from opts. record may be nil.
func NewWorld(opts Options, record func(telemetry.Record)) *World {
	opts = opts.withDefaults()
	seed := uint64(opts.Seed)
	return &World{
		table:     opts.Table,
		dt:        opts.Dt,
		radius:    opts.Radius,
		mass:      opts.Mass,
		maxSpeed:  opts.MaxSpeed,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		balls:     make([]*Ball, 0, 16),
		observers: opts.Observers,
		record:    record,
		now:       opts.Now,
	}
}

func (w *World) SetTable(t physics.Table) {
	w.mu.Lock()
	w.table = t
	w.mu.Unlock()
}

func (w *World) Table() physics.Table {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.table
}

// Radius is the radius given to every spawned ball.
func (w *World) Radius() float64 { return w.radius }

// Spawn appends n balls with random legal positions and velocities. It
// returns false when the world has been disposed.
func (w *World) Spawn(n int) ([]*Ball, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return nil, false
	}

	created := make([]*Ball, 0, n)
	for i := 0; i < n; i++ {
		w.nextID++
		b := newBall(w.nextID, w.randomPosition(), w.randomVelocity(), w.mass, w.radius)
		w.balls = append(w.balls, b)
		created = append(created, b)
	}
	return created, true
}

func (w *World) randomPosition() physics.Vec2 {
	r := w.radius
	return physics.Vec2{
		X: r + w.rng.Float64()*(w.table.Width-2*r),
		Y: r + w.rng.Float64()*(w.table.Height-2*r),
	}
}

func (w *World) randomVelocity() physics.Vec2 {
	return physics.Vec2{
		X: (w.rng.Float64()*2 - 1) * w.maxSpeed,
		Y: (w.rng.Float64()*2 - 1) * w.maxSpeed,
	}
}

// RemoveLast pops the most recently added ball. Because removal takes the
// registry lock, it never overlaps a tick: once it returns, the ball will not
// move again.
func (w *World) RemoveLast() (*Ball, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := len(w.balls)
	if n == 0 {
		return nil, false
	}
	b := w.balls[n-1]
	w.balls[n-1] = nil
	w.balls = w.balls[:n-1]
	return b, true
}

func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.balls)
}

// Balls returns the live handles in insertion order.
func (w *World) Balls() []*Ball {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*Ball, len(w.balls))
	copy(out, w.balls)
	return out
}

func (w *World) Snapshot() []physics.Body {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]physics.Body, len(w.balls))
	for i, b := range w.balls {
		out[i] = b.Body()
	}
	return out
}

// Dispose clears the registry. Later ticks and spawns do nothing.
func (w *World) Dispose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.disposed = true
	for i := range w.balls {
		w.balls[i] = nil
	}
	w.balls = w.balls[:0]
}

// Tick runs one collision pass followed by one move pass. Cancelling ctx
// stops the tick between passes or between balls, never inside a ball's
// update. A tick on a disposed world is a no-op.
func (w *World) Tick(ctx context.Context) TickStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disposed {
		return TickStats{}
	}
	w.tick++
	stats := TickStats{Tick: w.tick, Balls: len(w.balls)}

	bodies := w.scratch[:0]
	for _, b := range w.balls {
		bodies = append(bodies, b.Body())
	}
	w.scratch = bodies

	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			va, vb, ok := physics.Resolve(bodies[i], bodies[j])
			if ok {
				bodies[i].Velocity, bodies[j].Velocity = va, vb
				stats.Collisions++
			}
		}
	}

	for i, b := range w.balls {
		if ctx.Err() != nil {
			stats.Interrupted = true
			break
		}
		moved, hits := w.table.Advance(bodies[i], w.dt)
		bodies[i] = moved
		stats.WallHits += hits

		b.commit(moved.Position, moved.Velocity)
		if w.record != nil {
			w.record(telemetry.Record{Time: w.now(), BallID: b.id, X: moved.Position.X, Y: moved.Position.Y})
		}
	}

	for _, o := range w.observers {
		o.OnTick(stats, bodies)
	}
	return stats
}
