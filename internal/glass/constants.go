package glass

import "time"

// Physics constants for the glass sphere simulation.
// Velocities are expressed per 60fps frame; deltaTime is measured in frames.

const (
	FrameUnit    = 16670 * time.Microsecond // one 60fps frame
	MaxDeltaTime = 2.0

	Gravity            = 0.5
	WindGravityFactor  = 0.3
	Damping            = 0.999
	BounceDamping      = 0.9
	FloorFriction      = 0.7
	StopSpeed          = 0.05
	Restitution        = 0.8
	FloorRestitution   = 0.1
	FloorPairDamping   = 0.5
	SeparationStrength = 1.2
	SafetyMargin       = 0.1
	SettleIterations   = 8

	// Floor ("bottom of the bowl") classification, as fractions of the container radius.
	FloorHeightFactor   = -0.3
	FloorDistanceFactor = 0.7

	// Rolling approximation.
	SpinCrossWeight    = 0.3
	SpinDamping        = 0.999
	SpinFloorDamping   = 0.85
	SpinLandingDamping = 0.3
	SpinIdleDecay      = 0.95
	SpinMinLinearSpeed = 0.001

	// Absorption into the reveal ball.
	AbsorbPull        = 0.03
	AbsorbDamping     = 0.95
	AbsorbShrinkRate  = 0.008
	AbsorbMinScale    = 0.01
	AbsorbRemoveScale = 0.05
	RevealStartScale  = 0.01
	RevealBallRadius  = 150.0
)

const (
	degenerateDistance  = 1e-9
	minPairDistance     = 0.001
	spawnAttempts       = 500
	spawnPolarCap       = 0.3 // fraction of pi
	spawnRadiusFraction = 0.8
	spawnFallbackRadius = 0.5
	spawnClampEpsilon   = 1.0
	easeOutBackC1       = 1.70158
	minNumberLabel      = 10
	maxNumberLabel      = 99
)
