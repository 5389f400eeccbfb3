package glass

// BallSnapshot is the render-facing state of one ball.
type BallSnapshot struct {
	ID       int        `json:"id"`
	Number   int        `json:"number"`
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
	Scale    float64    `json:"scale"`
	OnFloor  bool       `json:"on_floor"`
}

// Snapshot is an immutable copy of the scene, safe to hand to other goroutines.
type Snapshot struct {
	Frame           uint64         `json:"frame"`
	ClockMs         float64        `json:"clock_ms"`
	Generation      uint64         `json:"generation"`
	ContainerRadius float64        `json:"container_radius"`
	BallRadius      float64        `json:"ball_radius"`
	WindActive      bool           `json:"wind_active"`
	Reveal          *RevealBall    `json:"reveal,omitempty"`
	SequencePhase   string         `json:"sequence_phase"`
	Balls           []BallSnapshot `json:"balls"`
}

// Snapshot copies the current scene.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:           s.frame,
		ClockMs:         s.clockMs,
		Generation:      s.generation,
		ContainerRadius: s.params.ContainerRadius,
		BallRadius:      s.params.BallRadius,
		WindActive:      s.windActive,
		SequencePhase:   s.SequencePhase().String(),
		Balls:           make([]BallSnapshot, 0, len(s.balls)),
	}
	if s.reveal != nil {
		r := *s.reveal
		snap.Reveal = &r
	}
	for _, b := range s.balls {
		snap.Balls = append(snap.Balls, BallSnapshot{
			ID:       b.ID,
			Number:   b.Number,
			Position: b.Position,
			Rotation: b.Rotation,
			Scale:    b.Scale,
			OnFloor:  b.WasOnFloor,
		})
	}
	return snap
}
