// Package cloth simulates a woven sheet as a grid of point masses joined by
// breakable springs.
//
// The building blocks are:
//
//   - [BuildTopology]: the square grid with its top row pinned
//   - [State.Step]: one Verlet substep under gravity and spring forces
//   - [State.Frame]: a clamped frame delta split into fixed substeps
//
// Points are never removed. Joints are removed when strained past
// [Params.BreakThreshold] or cut by a tool, and never come back; a reset
// means building a fresh [State].
//
// # Example
//
//	s, _ := cloth.BuildTopology(10, 0.8)
//	for range 60 {
//	    s.Frame(1.0/60, params)
//	}
//
// # Thread Safety
//
// A State is owned by one frame loop. Tools and renderers touch it only
// between frames.
package cloth
