package orbit

import "errors"

// Domain errors for scenario construction.
var (
	// ErrSatelliteRange indicates an empty or negative satellite count range.
	ErrSatelliteRange = errors.New("orbit: invalid satellite count range")

	// ErrMassRange indicates a mass range below 1 or inverted bounds.
	ErrMassRange = errors.New("orbit: invalid mass range (bounds must be >= 1)")

	// ErrOrbitRadius indicates a non-positive maximum orbit radius.
	ErrOrbitRadius = errors.New("orbit: max orbit radius must be positive")

	// ErrSunMass indicates a non-positive central body mass.
	ErrSunMass = errors.New("orbit: sun mass must be positive")

	// ErrGravity indicates a non-positive gravitational constant.
	ErrGravity = errors.New("orbit: gravitational constant must be positive")
)
