package sim

import (
	"sync"

	"github.com/san-kum/ballsim/internal/physics"
)

// PositionFunc receives a ball's new position after every committed move.
type PositionFunc func(b *Ball, pos physics.Vec2)

type subscriber struct {
	id int
	fn PositionFunc
}

// Ball is a handle to a live ball. Position and velocity are written only by
// the tick goroutine; the accessors are safe to call from anywhere.
type Ball struct {
	id     int64
	mass   float64
	radius float64
	// spawn is the position the ball was created at.
	spawn physics.Vec2

	mu  sync.RWMutex
	pos physics.Vec2
	vel physics.Vec2

	subMu   sync.Mutex
	subs    []subscriber
	nextSub int
}

func newBall(id int64, pos, vel physics.Vec2, mass, radius float64) *Ball {
	return &Ball{id: id, pos: pos, vel: vel, mass: mass, radius: radius, spawn: pos}
}

func (b *Ball) ID() int64         { return b.id }
func (b *Ball) Mass() float64     { return b.mass }
func (b *Ball) Radius() float64   { return b.radius }
func (b *Ball) Diameter() float64 { return 2 * b.radius }

func (b *Ball) Position() physics.Vec2 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pos
}

func (b *Ball) Velocity() physics.Vec2 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.vel
}

// Body returns a consistent snapshot of the ball.
func (b *Ball) Body() physics.Body {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return physics.Body{ID: b.id, Position: b.pos, Velocity: b.vel, Mass: b.mass, Radius: b.radius}
}

// Subscribe registers fn for change notifications. Subscribers are called in
// registration order. The returned func removes the subscription.
func (b *Ball) Subscribe(fn PositionFunc) (unsubscribe func()) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	id := b.nextSub
	b.nextSub++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	return func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// commit stores the new state and notifies subscribers synchronously.
func (b *Ball) commit(pos, vel physics.Vec2) {
	b.mu.Lock()
	b.pos, b.vel = pos, vel
	b.mu.Unlock()

	b.subMu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.subMu.Unlock()

	for _, s := range subs {
		s.fn(b, pos)
	}
}
