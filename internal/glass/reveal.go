package glass

import (
	"math"
	"time"
)

// RevealBall is the "WIN" sphere grown at the climax of the win sequence.
type RevealBall struct {
	Scale     float64 `json:"scale"`
	RotationY float64 `json:"rotation_y"`
	CreatedAt float64 `json:"created_at_ms"` // simulation clock
	Settled   bool    `json:"settled"`       // grow animation finished, no more pushes
	Handle    Handle  `json:"-"`
}

// EaseOutBack overshoots past 1 and settles back.
func EaseOutBack(t float64) float64 {
	const c3 = easeOutBackC1 + 1
	t = math.Max(0, math.Min(1, t))
	u := t - 1
	return 1 + c3*u*u*u + easeOutBackC1*u*u
}

// Animate sets scale and rotation for the given simulation clock.
func (r *RevealBall) Animate(clockMs float64, duration time.Duration) {
	progress := 1.0
	if d := float64(duration) / float64(time.Millisecond); d > 0 {
		progress = (clockMs - r.CreatedAt) / d
	}
	e := EaseOutBack(progress)
	r.Scale = RevealStartScale + (1-RevealStartScale)*e
	r.RotationY = -math.Pi + math.Pi*e
}

// Done reports whether the grow animation has finished.
func (r *RevealBall) Done(clockMs float64, duration time.Duration) bool {
	return clockMs-r.CreatedAt >= float64(duration)/float64(time.Millisecond)
}
