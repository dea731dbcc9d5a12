// Package sim runs balls on a table and lets callers add and remove them
// while the simulation is live.
//
//   - [Ball]: a single moving disc; fires change notifications
//   - [World]: the ball registry and the per-tick collision and move passes
//   - [Simulator]: the thread-safe lifecycle surface (Start, AddBall,
//     RemoveLastBall, Dispose) owning the tick driver and telemetry sink
//   - [Ensemble]: parallel headless runs over consecutive seeds
//
// # Example
//
//	s := sim.New(sim.DefaultOptions())
//	defer s.Dispose()
//	err := s.Start(3, 800, 600, func(pos physics.Vec2, b *sim.Ball) {
//	    b.Subscribe(func(b *sim.Ball, pos physics.Vec2) { ... })
//	})
//
// # Thread Safety
//
// Every exported method of [Simulator] and [Ball] may be called from any
// goroutine. One mutex guards the registry: a tick holds it for both passes,
// and add/remove take it only long enough to change the registry.
//
// Change notifications and tick observers run on the tick goroutine while
// the registry lock is held. They may read ball state but must not call back
// into the Simulator.
package sim
