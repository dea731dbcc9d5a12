package telemetry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const DefaultDrainInterval = 100 * time.Millisecond

type Options struct {
	Interval time.Duration
	Logger   *zap.Logger
	// OnError receives every store failure. It runs on the drain goroutine.
	OnError func(error)
}

type Stats struct {
	Written  int64
	Failures int64
	Dropped  int64
	Pending  int
}

// Sink drains a Queue into a Store on a fixed cadence.
type Sink struct {
	queue    *Queue
	store    Store
	interval time.Duration
	log      *zap.Logger
	onError  func(error)

	flushMu   sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once

	written  atomic.Int64
	failures atomic.Int64
	dropped  atomic.Int64
}

func NewSink(store Store, opts Options) *Sink {
	if opts.Interval <= 0 {
		opts.Interval = DefaultDrainInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Sink{
		queue:    NewQueue(),
		store:    store,
		interval: opts.Interval,
		log:      opts.Logger,
		onError:  opts.OnError,
	}
}

// Enqueue never blocks on I/O.
func (s *Sink) Enqueue(r Record) { s.queue.Push(r) }

// Start launches the drain loop. Calling it more than once has no effect.
func (s *Sink) Start() {
	s.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.done = make(chan struct{})
		go s.run(ctx)
	})
}

func (s *Sink) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Flush()
		}
	}
}

// Flush appends everything queued so far. A failed batch goes back to the
// head of the queue and is retried by the next flush.
func (s *Sink) Flush() error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	batch := s.queue.Drain()
	if len(batch) == 0 {
		return nil
	}
	if err := s.store.Append(batch); err != nil {
		s.queue.PushFront(batch)
		s.report(err, len(batch))
		return err
	}
	s.written.Add(int64(len(batch)))
	return nil
}

// Close stops the drain loop, waits for it to exit and makes one last flush.
// Records that still cannot be stored are dropped.
func (s *Sink) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
			<-s.done
		}
		if err = s.Flush(); err != nil {
			lost := s.queue.Drain()
			s.dropped.Add(int64(len(lost)))
			s.log.Warn("telemetry records dropped", zap.Int("count", len(lost)))
		}
	})
	return err
}

func (s *Sink) Stats() Stats {
	return Stats{
		Written:  s.written.Load(),
		Failures: s.failures.Load(),
		Dropped:  s.dropped.Load(),
		Pending:  s.queue.Len(),
	}
}

func (s *Sink) report(err error, n int) {
	s.failures.Add(1)
	s.log.Warn("telemetry append failed", zap.Int("records", n), zap.Error(err))
	if s.onError != nil {
		s.onError(err)
	}
}
