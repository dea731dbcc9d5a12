// Package telemetry persists ball motion history without blocking the
// simulation.
//
// The engine pushes one [Record] per committed move into an unbounded
// [Queue]. A [Sink] drains the queue on its own cadence and appends the
// records to a [Store]. The default [FileStore] writes one line per record:
//
//	HH:mm:ss.fff;ballID;x;y
//
// with coordinates formatted to two decimal places. Store failures are
// reported through the sink's logger and OnError hook and never reach the
// producer.
package telemetry
