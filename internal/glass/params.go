package glass

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidConfig = errors.New("invalid simulation config")

// WindParams are the fixed parameters of the wind field.
type WindParams struct {
	Strength     float64
	StreamRadius float64
	Turbulence   float64
	Centripetal  float64
	Direction    mgl64.Vec3
}

// Params configures a Simulation.
type Params struct {
	ContainerRadius float64
	BallRadius      float64
	BallCount       int
	Wind            WindParams

	WindDuration   time.Duration // WindUp -> WindDown
	RevealDuration time.Duration // reveal ball grow animation
	RevealBuffer   time.Duration // extra wait after the grow animation

	Seed int64
}

// DefaultParams returns the tuning used on the landing page.
func DefaultParams() Params {
	const containerRadius = 330.0
	return Params{
		ContainerRadius: containerRadius,
		BallRadius:      45,
		BallCount:       40,
		Wind:            DefaultWind(containerRadius),
		WindDuration:    2000 * time.Millisecond,
		RevealDuration:  1500 * time.Millisecond,
		RevealBuffer:    300 * time.Millisecond,
		Seed:            time.Now().UnixNano(),
	}
}

// DefaultWind scales the default wind stream to a container.
func DefaultWind(containerRadius float64) WindParams {
	return WindParams{
		Strength:     0.6,
		StreamRadius: containerRadius * 0.6,
		Turbulence:   0.15,
		Centripetal:  0.02,
		Direction:    mgl64.Vec3{0, 1, 0},
	}
}

// Validate checks that the geometry can hold at least one ball.
func (p Params) Validate() error {
	switch {
	case p.ContainerRadius <= 0:
		return fmt.Errorf("%w: container radius must be positive", ErrInvalidConfig)
	case p.BallRadius <= 0:
		return fmt.Errorf("%w: ball radius must be positive", ErrInvalidConfig)
	case p.BallRadius >= p.ContainerRadius:
		return fmt.Errorf("%w: ball radius %.1f does not fit container radius %.1f", ErrInvalidConfig, p.BallRadius, p.ContainerRadius)
	case p.BallCount < 0:
		return fmt.Errorf("%w: ball count must not be negative", ErrInvalidConfig)
	case p.Wind.StreamRadius <= 0:
		return fmt.Errorf("%w: wind stream radius must be positive", ErrInvalidConfig)
	case p.RevealDuration <= 0:
		return fmt.Errorf("%w: reveal duration must be positive", ErrInvalidConfig)
	}
	return nil
}
