package glass

import (
	"github.com/go-gl/mathgl/mgl64"
)

// FrameInput is the scene state the integrator reads for one frame.
type FrameInput struct {
	DeltaTime     float64 // frames, capped at MaxDeltaTime
	ClockMs       float64 // simulation clock, drives wind turbulence
	WindActive    bool
	RevealPresent bool
}

// Integrator advances balls inside a spherical container.
type Integrator struct {
	Container  Container
	BallRadius float64
	Wind       WindParams
}

// NormalizeDelta converts elapsed milliseconds to 60fps frames, capped at MaxDeltaTime.
func NormalizeDelta(elapsedMs float64) float64 {
	dt := elapsedMs / (float64(FrameUnit) / 1e6)
	if dt < 0 {
		return 0
	}
	if dt > MaxDeltaTime {
		return MaxDeltaTime
	}
	return dt
}

// Step advances every ball by one frame. While the reveal ball is present the
// balls are pulled into it instead; balls that shrink away are returned as
// removed and are no longer part of kept.
func (in *Integrator) Step(balls []*Ball, f FrameInput) (kept, removed []*Ball) {
	if f.RevealPresent {
		return in.absorb(balls, f.DeltaTime)
	}

	dt := f.DeltaTime
	wind := WindField{Active: f.WindActive, Params: in.Wind}
	c := in.Container
	collisionRadius := c.MaxCenterDistance(in.BallRadius)
	safeRadius := collisionRadius - SafetyMargin

	for i, ball := range balls {
		ball.Position = ball.Position.Add(ball.Velocity.Mul(dt))

		onFloor := c.IsOnFloor(ball.Position)
		justLanded := onFloor && !ball.WasOnFloor && ball.PrevVerticalVelocity < 0

		if f.WindActive {
			wind.Apply(ball, i, f.ClockMs, dt, c)
			ball.Velocity[1] -= Gravity * WindGravityFactor * dt
		} else if !onFloor {
			ball.Velocity[1] -= Gravity * dt
		} else {
			ball.Velocity = ball.Velocity.Mul(FloorFriction)
			if ball.Speed() < StopSpeed {
				ball.stop()
			}
		}

		// Container wall.
		if p, n, hit := ClampInside(ball.Position, collisionRadius); hit {
			ball.Position = p
			if !onFloor {
				if ball.Velocity.Dot(n) > 0 {
					ball.Velocity = Reflect(ball.Velocity, n).Mul(BounceDamping)
				}
			} else {
				ball.Velocity = RemoveOutward(ball.Velocity, n)
			}
		}

		in.safetyClamp(ball, safeRadius)

		for j := i + 1; j < len(balls); j++ {
			in.collide(ball, balls[j], onFloor)
		}

		in.safetyClamp(ball, safeRadius)

		if !onFloor || f.WindActive {
			ball.Velocity = ball.Velocity.Mul(Damping)
		}

		in.roll(ball, onFloor, justLanded, dt)

		ball.WasOnFloor = onFloor
		ball.PrevVerticalVelocity = ball.Velocity[1]
	}

	in.settle(balls)
	return balls, nil
}

// settle pushes apart pairs that still overlap after every ball has moved.
// Only positions change; pushed balls are clamped inside the container.
func (in *Integrator) settle(balls []*Ball) {
	limit := in.Container.MaxCenterDistance(in.BallRadius)
	minDist := in.BallRadius * 2
	for iter := 0; iter < SettleIterations; iter++ {
		moved := false
		for i, a := range balls {
			for _, b := range balls[i+1:] {
				delta := b.Position.Sub(a.Position)
				dist := delta.Len()
				if dist >= minDist || dist <= minPairDistance {
					continue
				}
				sep := delta.Mul((minDist - dist) * 0.5 / dist)
				a.Position, _, _ = ClampInside(a.Position.Sub(sep), limit)
				b.Position, _, _ = ClampInside(b.Position.Add(sep), limit)
				moved = true
			}
		}
		if !moved {
			return
		}
	}
}

// safetyClamp pulls a ball that still pokes through the container back inside
// and cancels its outward motion.
func (in *Integrator) safetyClamp(ball *Ball, safeRadius float64) {
	d := ball.Position.Len()
	if d+in.BallRadius <= in.Container.Radius {
		return
	}
	n, ok := SafeNormalize(ball.Position)
	if !ok {
		return
	}
	ball.Position = n.Mul(safeRadius)
	ball.Velocity = RemoveOutward(ball.Velocity, n)
}

// collide separates two overlapping balls and exchanges momentum along the
// contact normal when they approach each other.
func (in *Integrator) collide(a, b *Ball, aOnFloor bool) {
	delta := b.Position.Sub(a.Position)
	dist := delta.Len()
	minDist := in.BallRadius * 2
	if dist >= minDist || dist <= minPairDistance {
		return
	}

	// n points from a to b.
	n := delta.Mul(1 / dist)
	overlap := minDist - dist
	sep := n.Mul(overlap * 0.5 * SeparationStrength)
	a.Position = a.Position.Sub(sep)
	b.Position = b.Position.Add(sep)

	bOnFloor := in.Container.IsOnFloor(b.Position)
	bothOnFloor := aOnFloor && bOnFloor

	approach := a.Velocity.Sub(b.Velocity).Dot(n)
	if approach <= 0 {
		return
	}

	restitution := Restitution
	if bothOnFloor {
		restitution = FloorRestitution
	}
	impulse := n.Mul((1 + restitution) * approach / 2)

	// A floor ball keeps its vertical impulse only when it is the upper ball of
	// the pair; the lower one is held by the wall.
	a.Velocity[0] -= impulse[0]
	a.Velocity[2] -= impulse[2]
	if !aOnFloor || n[1] < 0 {
		a.Velocity[1] -= impulse[1]
	}
	b.Velocity[0] += impulse[0]
	b.Velocity[2] += impulse[2]
	if !bOnFloor || n[1] > 0 {
		b.Velocity[1] += impulse[1]
	}

	if bothOnFloor {
		for _, ball := range []*Ball{a, b} {
			ball.Velocity = ball.Velocity.Mul(FloorPairDamping)
			if ball.Speed() < StopSpeed {
				ball.stop()
			}
		}
	}
}

// roll approximates rolling without slipping from the linear velocity.
func (in *Integrator) roll(ball *Ball, onFloor, justLanded bool, dt float64) {
	v := ball.Velocity
	if v.Len() < SpinMinLinearSpeed {
		ball.Spin = ball.Spin.Mul(SpinIdleDecay)
		ball.Rotation = ball.Rotation.Add(ball.Spin.Mul(dt))
		return
	}

	damping := SpinDamping
	switch {
	case justLanded:
		damping = SpinLandingDamping
	case onFloor:
		damping = SpinFloorDamping
	}

	r := in.BallRadius
	rate := mgl64.Vec3{
		(v[2] + v[1]*SpinCrossWeight) / r,
		(v[0] + v[2]*SpinCrossWeight) / r,
		(-v[0] + v[1]*SpinCrossWeight) / r,
	}
	ball.Spin = rate.Mul(damping)
	ball.Rotation = ball.Rotation.Add(ball.Spin.Mul(dt))
}

// absorb pulls every ball toward the center, shrinking it until it vanishes
// behind the reveal ball.
func (in *Integrator) absorb(balls []*Ball, dt float64) (kept, removed []*Ball) {
	limit := in.Container.MaxCenterDistance(in.BallRadius)
	kept = balls[:0]
	for _, ball := range balls {
		if toCenter, ok := SafeNormalize(ball.Position.Mul(-1)); ok {
			ball.Velocity = ball.Velocity.Add(toCenter.Mul(AbsorbPull * dt * 60))
		}
		ball.Velocity = ball.Velocity.Mul(AbsorbDamping)

		ball.Scale -= AbsorbShrinkRate * dt
		if ball.Scale < AbsorbMinScale {
			ball.Scale = AbsorbMinScale
		}

		ball.Position = ball.Position.Add(ball.Velocity.Mul(dt))
		if p, _, hit := ClampInside(ball.Position, limit); hit {
			ball.Position = p
		}

		if ball.Scale < AbsorbRemoveScale {
			removed = append(removed, ball)
			continue
		}
		kept = append(kept, ball)
	}
	return kept, removed
}
