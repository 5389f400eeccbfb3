package glass

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Ball is one simulated sphere.
type Ball struct {
	ID       int        `json:"id"`
	Number   int        `json:"number"`
	Position mgl64.Vec3 `json:"position"`
	Velocity mgl64.Vec3 `json:"velocity"`
	Rotation mgl64.Vec3 `json:"rotation"`
	Spin     mgl64.Vec3 `json:"spin"`
	Scale    float64    `json:"scale"`

	// Previous-frame state for landing detection.
	WasOnFloor           bool    `json:"was_on_floor"`
	PrevVerticalVelocity float64 `json:"prev_vertical_velocity"`

	Handle Handle `json:"-"`
}

// Speed returns the magnitude of the ball's velocity.
func (b *Ball) Speed() float64 {
	return b.Velocity.Len()
}

func (b *Ball) stop() {
	b.Velocity = mgl64.Vec3{}
}

// SpawnPosition finds a position in the upper cap of the container where a ball
// of the given radius fits without overlapping any of the existing balls. After
// spawnAttempts failed samples it falls back to a point at half the safe radius,
// ignoring the other balls.
func SpawnPosition(rng *rand.Rand, existing []*Ball, ballRadius float64, c Container) mgl64.Vec3 {
	maxSafe := c.MaxCenterDistance(ballRadius)

	var p mgl64.Vec3
	found := false
	for attempt := 0; attempt < spawnAttempts && !found; attempt++ {
		azimuth := rng.Float64() * math.Pi * 2
		polar := rng.Float64() * math.Pi * spawnPolarCap
		r := rng.Float64() * maxSafe * spawnRadiusFraction
		p = fromSpherical(r, polar, azimuth)

		if !c.Contains(p, ballRadius) {
			continue
		}
		found = true
		for _, other := range existing {
			if Distance(p, other.Position) < ballRadius*2 {
				found = false
				break
			}
		}
	}

	if !found {
		azimuth := rng.Float64() * math.Pi * 2
		polar := rng.Float64() * math.Pi * spawnPolarCap
		p = fromSpherical(maxSafe*spawnFallbackRadius, polar, azimuth)
	}

	if d := p.Len(); d+ballRadius > c.Radius && d > degenerateDistance {
		p = p.Mul((maxSafe - spawnClampEpsilon) / d)
	}
	return p
}

// SpawnVelocity returns a random horizontal drift with a slight downward bias.
func SpawnVelocity(rng *rand.Rand) mgl64.Vec3 {
	speed := 0.3 + rng.Float64()*0.7
	angle := rng.Float64() * math.Pi * 2
	return mgl64.Vec3{
		math.Cos(angle) * speed,
		-0.1 - rng.Float64()*0.2,
		math.Sin(angle) * speed,
	}
}

// SpawnNumber draws a two-digit label.
func SpawnNumber(rng *rand.Rand) int {
	return minNumberLabel + rng.Intn(maxNumberLabel-minNumberLabel+1)
}
