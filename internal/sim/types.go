package sim

import (
	"time"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/telemetry"
	"go.uber.org/zap"
)

// CreatedFunc is called once per created ball, before the creating call
// returns, with the ball's initial position.
type CreatedFunc func(pos physics.Vec2, b *Ball)

// TickStats summarizes one tick.
type TickStats struct {
	Tick       uint64
	Balls      int
	Collisions int
	WallHits   int
	// Interrupted is set when Dispose stopped the tick between balls.
	Interrupted bool
}

// Observer sees every completed tick. bodies is only valid for the duration
// of the call.
type Observer interface {
	OnTick(stats TickStats, bodies []physics.Body)
}

type ObserverFunc func(stats TickStats, bodies []physics.Body)

func (f ObserverFunc) OnTick(stats TickStats, bodies []physics.Body) { f(stats, bodies) }

type Options struct {
	// Table is used by AddBall until Start fixes the dimensions.
	Table    physics.Table
	Radius   float64
	Mass     float64
	MaxSpeed float64
	Dt       float64
	// TickInterval of zero leaves ticking to explicit Step calls.
	TickInterval time.Duration
	// Seed of zero seeds from the clock.
	Seed int64

	// Store receives motion records; nil disables telemetry.
	Store            telemetry.Store
	DrainInterval    time.Duration
	OnTelemetryError func(error)

	Observers []Observer
	Logger    *zap.Logger
	Now       func() time.Time
}

func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig(), nil, nil)
}

// OptionsFromConfig maps a loaded config onto simulator options. store may be
// nil to run without telemetry.
func OptionsFromConfig(cfg *config.Config, store telemetry.Store, log *zap.Logger) Options {
	return Options{
		Table:         physics.Table{Width: cfg.Table.Width, Height: cfg.Table.Height},
		Radius:        cfg.Balls.Radius,
		Mass:          cfg.Balls.Mass,
		MaxSpeed:      cfg.Balls.MaxSpeed,
		Dt:            cfg.Engine.Dt,
		TickInterval:  cfg.Engine.TickInterval,
		Seed:          cfg.Engine.Seed,
		Store:         store,
		DrainInterval: cfg.Telemetry.DrainInterval,
		Logger:        log,
	}
}

func (o Options) withDefaults() Options {
	d := config.DefaultConfig()
	if o.Table.Width <= 0 || o.Table.Height <= 0 {
		o.Table = physics.Table{Width: d.Table.Width, Height: d.Table.Height}
	}
	if o.Radius <= 0 {
		o.Radius = d.Balls.Radius
	}
	if o.Mass <= 0 {
		o.Mass = d.Balls.Mass
	}
	if o.MaxSpeed < 0 {
		o.MaxSpeed = d.Balls.MaxSpeed
	}
	if o.Dt <= 0 {
		o.Dt = d.Engine.Dt
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
