// Package physics holds the pure functions of the planet model: the
// softened gravitational [Field], the elastic-sphere collision [Resolver] and
// [OrbitalVelocity] for circular-orbit seeding.
//
// Nothing here owns state. Callers pass parallel slices of positions,
// velocities, masses and radii indexed by body.
//
//	f := physics.NewField(1, 1e-3)
//	a, err := f.Acceleration(i, positions[i], positions, masses)
package physics
