package glass

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Container is the fixed sphere the balls live in. It is centered on the origin.
type Container struct {
	Radius float64
}

// Distance returns the euclidean distance between two points.
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// SafeNormalize returns v scaled to unit length and true, or the zero vector
// and false when v is too short to carry a direction.
func SafeNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l < degenerateDistance || math.IsNaN(l) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// Contains reports whether a sphere of the given radius centered at p lies
// fully inside the container.
func (c Container) Contains(p mgl64.Vec3, radius float64) bool {
	return p.Len()+radius <= c.Radius
}

// MaxCenterDistance is the furthest a ball center may be from the origin.
func (c Container) MaxCenterDistance(radius float64) float64 {
	return c.Radius - radius
}

// IsOnFloor classifies p as resting in the lower bowl of the container.
func (c Container) IsOnFloor(p mgl64.Vec3) bool {
	return p[1] < c.Radius*FloorHeightFactor && p.Len() > c.Radius*FloorDistanceFactor
}

// NormalizedHeight maps y in [-R, R] to [0, 1].
func (c Container) NormalizedHeight(p mgl64.Vec3) float64 {
	if c.Radius <= 0 {
		return 0
	}
	h := (p[1] + c.Radius) / (2 * c.Radius)
	return mgl64.Clamp(h, 0, 1)
}

// ClampInside pulls p back along its radial direction so that its distance from
// the center is limit. It returns the clamped point, the outward unit normal and
// whether a correction was applied. A point at the center is never corrected.
func ClampInside(p mgl64.Vec3, limit float64) (mgl64.Vec3, mgl64.Vec3, bool) {
	d := p.Len()
	if d <= limit {
		return p, mgl64.Vec3{}, false
	}
	n, ok := SafeNormalize(p)
	if !ok {
		return p, mgl64.Vec3{}, false
	}
	return n.Mul(limit), n, true
}

// RemoveOutward strips the component of v pointing along n, if positive.
func RemoveOutward(v, n mgl64.Vec3) mgl64.Vec3 {
	if out := v.Dot(n); out > 0 {
		return v.Sub(n.Mul(out))
	}
	return v
}

// Reflect mirrors v on the plane with normal n.
func Reflect(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// horizontal returns the XZ-plane part of v.
func horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

// fromSpherical converts polar (from +Y) and azimuth angles to a point.
func fromSpherical(r, polar, azimuth float64) mgl64.Vec3 {
	return mgl64.Vec3{
		r * math.Sin(polar) * math.Cos(azimuth),
		r * math.Cos(polar),
		r * math.Sin(polar) * math.Sin(azimuth),
	}
}
