// Package physics provides the pure geometry and collision math for balls
// moving on a rectangular table.
//
// Nothing in this package holds shared state; every function works on value
// snapshots and returns new values:
//
//   - [Vec2]: 2D vector arithmetic
//   - [Body]: value snapshot of a ball (position, velocity, mass, radius)
//   - [Resolve]: elastic, momentum-conserving ball-ball impulse
//   - [Reflect]: per-axis wall clamp and velocity flip
//   - [Table.Advance]: one integration step with wall reflection
//
// # Conservation
//
// [Resolve] conserves total momentum exactly up to floating point error and,
// for an elastic impulse, kinetic energy as well:
//
//	va, vb, ok := physics.Resolve(a, b)
//	if ok {
//	    a.Velocity, b.Velocity = va, vb
//	}
package physics
