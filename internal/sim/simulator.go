package sim

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/telemetry"
	"go.uber.org/zap"
)

type lifecycle int

const (
	running lifecycle = iota
	disposing
	disposed
)

// Simulator is the lifecycle controller around a World. It is running from
// construction until Dispose.
type Simulator struct {
	mu    sync.Mutex
	state lifecycle

	world    *World
	sink     *telemetry.Sink
	log      *zap.Logger
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func New(opts Options) *Simulator {
	opts = opts.withDefaults()

	s := &Simulator{
		log:      opts.Logger,
		interval: opts.TickInterval,
	}

	var record func(telemetry.Record)
	if opts.Store != nil {
		s.sink = telemetry.NewSink(opts.Store, telemetry.Options{
			Interval: opts.DrainInterval,
			Logger:   opts.Logger.Named("telemetry"),
			OnError:  opts.OnTelemetryError,
		})
		s.sink.Start()
		record = s.sink.Enqueue
	}
	s.world = NewWorld(opts, record)

	if s.interval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.done = make(chan struct{})
		go s.drive(ctx)
	}

	s.log.Debug("simulator created",
		zap.Duration("tick", opts.TickInterval),
		zap.Bool("telemetry", s.sink != nil),
		zap.Int64("seed", opts.Seed),
	)
	return s
}

func (s *Simulator) drive(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.world.Tick(ctx)
		}
	}
}

func (s *Simulator) live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == running
}

// Start fixes the table size and creates count balls, calling onCreated for
// each before returning. Ticking continues if it is already under way.
func (s *Simulator) Start(count int, width, height float64, onCreated CreatedFunc) error {
	const op = "start"
	if !s.live() {
		return errDisposed(op)
	}
	if onCreated == nil {
		return errArgument(op, "nil creation callback")
	}
	if count < 0 {
		return errArgument(op, "negative ball count")
	}
	if width <= 0 || height <= 0 {
		return errArgument(op, "table dimensions must be positive")
	}
	if d := 2 * s.world.Radius(); width < d || height < d {
		return errArgument(op, "table smaller than one ball")
	}

	s.world.SetTable(physics.Table{Width: width, Height: height})
	created, ok := s.world.Spawn(count)
	if !ok {
		return errDisposed(op)
	}
	for _, b := range created {
		onCreated(b.spawn, b)
	}

	s.log.Info("simulation started",
		zap.Int("balls", count),
		zap.Float64("width", width),
		zap.Float64("height", height),
	)
	return nil
}

// AddBall creates one ball. It is visible to the next tick that starts after
// it returns.
func (s *Simulator) AddBall(onCreated CreatedFunc) error {
	const op = "add ball"
	if !s.live() {
		return errDisposed(op)
	}
	if onCreated == nil {
		return errArgument(op, "nil creation callback")
	}

	created, ok := s.world.Spawn(1)
	if !ok {
		return errDisposed(op)
	}
	b := created[0]
	onCreated(b.spawn, b)

	s.log.Debug("ball added", zap.Int64("id", b.ID()))
	return nil
}

// RemoveLastBall removes the most recently added ball. Removing from an empty
// table does nothing.
func (s *Simulator) RemoveLastBall() error {
	const op = "remove last ball"
	if !s.live() {
		return errDisposed(op)
	}

	if b, ok := s.world.RemoveLast(); ok {
		s.log.Debug("ball removed", zap.Int64("id", b.ID()))
	}
	return nil
}

// Dispose stops the tick driver, flushes telemetry and clears the table. It
// blocks until every background goroutine has exited. A second call fails.
// It must not be called from a change notification or tick observer.
func (s *Simulator) Dispose() error {
	s.mu.Lock()
	if s.state != running {
		s.mu.Unlock()
		return errDisposed("dispose")
	}
	s.state = disposing
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		<-s.done
	}

	s.world.Dispose()

	if s.sink != nil {
		// failures were already reported by the sink
		_ = s.sink.Close()
		st := s.sink.Stats()
		s.log.Debug("telemetry flushed", zap.Int64("written", st.Written), zap.Int64("dropped", st.Dropped))
	}

	s.mu.Lock()
	s.state = disposed
	s.mu.Unlock()

	s.log.Info("simulation disposed")
	return nil
}

// Step runs one tick on the calling goroutine. It does nothing once the
// simulator is disposed.
func (s *Simulator) Step() TickStats {
	return s.world.Tick(context.Background())
}

func (s *Simulator) Count() int { return s.world.Len() }

func (s *Simulator) Balls() []*Ball { return s.world.Balls() }

func (s *Simulator) Snapshot() []physics.Body { return s.world.Snapshot() }

func (s *Simulator) Table() physics.Table { return s.world.Table() }

func (s *Simulator) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == disposed
}

// TelemetryStats reports the sink counters; zero when telemetry is off.
func (s *Simulator) TelemetryStats() telemetry.Stats {
	if s.sink == nil {
		return telemetry.Stats{}
	}
	return s.sink.Stats()
}
