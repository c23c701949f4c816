// Package orbit implements the gravitational N-body core.
//
// The simulation state is a [World]: a flat collection of [Body] values that
// attract each other pairwise and carry bounded position trails. Scenarios
// (one heavy sun plus randomized satellites on near-circular orbits) are
// produced by a [Generator] from an explicit random source, so runs are
// reproducible from a seed.
//
// One call to [World.Step] is one tick: force accumulation over a
// start-of-tick snapshot, velocity integration, trail recording, then culling
// of bodies that escaped past the cull distance. Force accumulation is O(N²);
// body counts stay in the tens, so no spatial partitioning is used.
//
// The gravity rule is deliberately simplified: a body's acceleration toward
// another depends only on the other's mass (see [Body.AccumulateGravity]).
// Changing this to true reciprocal Newtonian force would change every orbit.
package orbit
