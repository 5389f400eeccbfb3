package glass

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WindField is the procedural lift applied while active.
type WindField struct {
	Active bool
	Params WindParams
}

// Intensity is the wind strength factor at p in [0, 1]: a gaussian falloff
// around the vertical axis multiplied by a weight that is 1 at the bottom of
// the container and 0 at the top.
func (w WindField) Intensity(p mgl64.Vec3, c Container) float64 {
	d := horizontal(p).Len()
	r := d / w.Params.StreamRadius
	falloff := math.Exp(-1.5 * r * r)
	return falloff * (1 - c.NormalizedHeight(p))
}

// Apply adds the wind acceleration for one ball over dt frames. index and the
// ball position decorrelate the turbulence between balls; clockMs is the
// simulation clock.
func (w WindField) Apply(b *Ball, index int, clockMs, dt float64, c Container) {
	if !w.Active {
		return
	}

	p := b.Position
	h := c.NormalizedHeight(p)
	intensity := w.Intensity(p, c)
	force := w.Params.Strength * intensity * dt

	// Turbulence peaks mid-height and vanishes at floor and ceiling.
	seed := float64(index)
	turb := math.Sin(h*math.Pi) * intensity * w.Params.Turbulence * dt
	tx := math.Sin(clockMs*0.003*(1+seed*0.05) + seed*0.7 + p[2]*0.01)
	tz := math.Cos(clockMs*0.0027*(1+seed*0.03) + seed*1.3 + p[0]*0.01)
	b.Velocity = b.Velocity.Add(mgl64.Vec3{tx * turb, 0, tz * turb})

	radial, hasRadial := SafeNormalize(horizontal(p))

	if h < 0.4 && hasRadial {
		pull := w.Params.Centripetal * intensity * dt * (horizontal(p).Len() / c.Radius)
		b.Velocity = b.Velocity.Sub(radial.Mul(pull))
	}

	dir, ok := SafeNormalize(w.Params.Direction)
	if !ok {
		dir = mgl64.Vec3{0, 1, 0}
	}

	if h > 0.5 {
		ramp := (h - 0.5) / 0.5
		spread := ramp * ramp
		b.Velocity = b.Velocity.Add(dir.Mul(force * (1 - spread)))
		if hasRadial {
			b.Velocity = b.Velocity.Add(radial.Mul(force * spread))
		}
		return
	}
	b.Velocity = b.Velocity.Add(dir.Mul(force))
}
