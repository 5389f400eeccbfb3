package glass

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Simulation owns all mutable scene state: the balls, the wind flag, the reveal
// ball and the in-flight win sequence. It is not safe for concurrent use; run
// it from a single goroutine (see Driver).
type Simulation struct {
	params     Params
	container  Container
	integrator Integrator
	rng        *rand.Rand

	renderer  Renderer
	textures  TextureSource
	presenter PopupPresenter
	events    EventSink

	balls      []*Ball
	nextID     int
	windActive bool
	reveal     *RevealBall
	sequence   *WinSequence
	generation uint64
	clockMs    float64
	frame      uint64
}

// Option configures a Simulation.
type Option func(*Simulation)

func WithRenderer(r Renderer) Option {
	return func(s *Simulation) { s.renderer = r }
}

func WithTextures(t TextureSource) Option {
	return func(s *Simulation) { s.textures = t }
}

func WithPresenter(p PopupPresenter) Option {
	return func(s *Simulation) { s.presenter = p }
}

func WithEventSink(e EventSink) Option {
	return func(s *Simulation) { s.events = e }
}

// NewSimulation validates p and spawns the initial set of balls.
func NewSimulation(p Params, opts ...Option) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	container := Container{Radius: p.ContainerRadius}
	s := &Simulation{
		params:    p,
		container: container,
		integrator: Integrator{
			Container:  container,
			BallRadius: p.BallRadius,
			Wind:       p.Wind,
		},
		rng:       rand.New(rand.NewSource(p.Seed)),
		renderer:  nopRenderer{},
		textures:  nopTextures{},
		presenter: nopPresenter{},
		events:    nopSink{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.spawnAll()
	return s, nil
}

// Params returns the configuration the simulation was built with.
func (s *Simulation) Params() Params { return s.params }

// Container returns the simulation boundary.
func (s *Simulation) Container() Container { return s.container }

// Balls returns the live balls. The slice is owned by the simulation.
func (s *Simulation) Balls() []*Ball { return s.balls }

// Generation is bumped by every scene reset.
func (s *Simulation) Generation() uint64 { return s.generation }

// Reveal returns the reveal ball, or nil.
func (s *Simulation) Reveal() *RevealBall { return s.reveal }

// ToggleWind flips the wind and returns the new state.
func (s *Simulation) ToggleWind() bool {
	s.setWind(!s.windActive)
	return s.windActive
}

// IsWindActive reports whether the wind field is on.
func (s *Simulation) IsWindActive() bool { return s.windActive }

func (s *Simulation) setWind(active bool) {
	if s.windActive == active {
		return
	}
	s.windActive = active
	log.Printf("[GLASS] Wind active=%t", active)
	s.emit(EventWindChanged, map[string]interface{}{"active": active})
}

// ShowRevealBall creates the reveal ball. Calling it while one exists is a no-op.
func (s *Simulation) ShowRevealBall() {
	if s.reveal != nil {
		return
	}

	tex, err := s.textures.TextureForWinLabel()
	if err != nil {
		log.Printf("[GLASS] WIN texture unavailable, using blank material: %v", err)
		tex = Texture{}
	}
	h, err := s.renderer.Create(Geometry{Kind: GeometryReveal, Radius: RevealBallRadius}, Material{Texture: tex, Color: 0xffffff})
	if err != nil {
		log.Printf("[GLASS] Reveal ball has no visual: %v", err)
		h = 0
	}

	s.reveal = &RevealBall{CreatedAt: s.clockMs, Handle: h}
	s.reveal.Animate(s.clockMs, s.params.RevealDuration)
	s.pushReveal()
	s.emit(EventRevealShown, nil)
}

// ResetScene removes the reveal ball and every ball, turns the wind off and
// spawns a fresh set. Any win sequence started before the reset is cancelled.
func (s *Simulation) ResetScene() {
	if s.reveal != nil {
		s.renderer.Remove(s.reveal.Handle)
		s.reveal = nil
	}
	s.clearBalls()
	s.setWind(false)

	s.generation++
	s.reapSequence()

	s.spawnAll()
	log.Printf("[GLASS] Scene reset: generation=%d balls=%d", s.generation, len(s.balls))
	s.emit(EventSceneReset, map[string]interface{}{"balls": len(s.balls)})
}

// PlaceBall adds a ball at an explicit position and velocity.
func (s *Simulation) PlaceBall(pos, vel mgl64.Vec3) *Ball {
	b := s.newBall(pos, vel)
	s.balls = append(s.balls, b)
	return b
}

func (s *Simulation) clearBalls() {
	for _, b := range s.balls {
		s.renderer.Remove(b.Handle)
	}
	s.balls = nil
}

func (s *Simulation) spawnAll() {
	for i := 0; i < s.params.BallCount; i++ {
		pos := SpawnPosition(s.rng, s.balls, s.params.BallRadius, s.container)
		s.PlaceBall(pos, SpawnVelocity(s.rng))
	}
}

func (s *Simulation) newBall(pos, vel mgl64.Vec3) *Ball {
	s.nextID++
	b := &Ball{
		ID:       s.nextID,
		Number:   SpawnNumber(s.rng),
		Position: pos,
		Velocity: vel,
		Scale:    1,
	}

	tex, err := s.textures.TextureForNumber(b.Number)
	if err != nil {
		log.Printf("[GLASS] Texture for ball %d (%d) unavailable, using blank material: %v", b.ID, b.Number, err)
		tex = Texture{}
	}
	h, err := s.renderer.Create(Geometry{Kind: GeometryBall, Radius: s.params.BallRadius}, Material{Texture: tex, Color: 0xffffff})
	if err != nil {
		log.Printf("[GLASS] Ball %d has no visual: %v", b.ID, err)
		h = 0
	}
	b.Handle = h
	s.pushBall(b)
	return b
}

// Advance runs one frame: the win sequence first, then the integrator with the
// resulting wind and reveal state, then the renderer.
func (s *Simulation) Advance(elapsed time.Duration) {
	ms := msOf(elapsed)
	if ms < 0 {
		ms = 0
	}
	s.clockMs += ms
	s.frame++

	s.advanceSequence(ms)

	kept, removed := s.integrator.Step(s.balls, FrameInput{
		DeltaTime:     NormalizeDelta(ms),
		ClockMs:       s.clockMs,
		WindActive:    s.windActive,
		RevealPresent: s.reveal != nil,
	})
	s.balls = kept
	for _, b := range removed {
		s.renderer.Remove(b.Handle)
	}

	if r := s.reveal; r != nil && !r.Settled {
		r.Animate(s.clockMs, s.params.RevealDuration)
		s.pushReveal()
		r.Settled = r.Done(s.clockMs, s.params.RevealDuration)
	}
	for _, b := range s.balls {
		s.pushBall(b)
	}
	s.renderer.RenderFrame()
}

func (s *Simulation) pushBall(b *Ball) {
	if b.Handle == 0 {
		return
	}
	s.renderer.SetPosition(b.Handle, b.Position[0], b.Position[1], b.Position[2])
	s.renderer.SetRotation(b.Handle, b.Rotation[0], b.Rotation[1], b.Rotation[2])
	s.renderer.SetScale(b.Handle, b.Scale)
}

func (s *Simulation) pushReveal() {
	r := s.reveal
	if r == nil || r.Handle == 0 {
		return
	}
	s.renderer.SetPosition(r.Handle, 0, 0, 0)
	s.renderer.SetRotation(r.Handle, 0, r.RotationY, 0)
	s.renderer.SetScale(r.Handle, r.Scale)
}

func (s *Simulation) emit(eventType string, data map[string]interface{}) {
	s.events.Publish(Event{
		Type:       eventType,
		Generation: s.generation,
		ClockMs:    s.clockMs,
		Data:       data,
	})
}

// String is a one-line summary for logs.
func (s *Simulation) String() string {
	return fmt.Sprintf("glass(frame=%d balls=%d wind=%t reveal=%t gen=%d)",
		s.frame, len(s.balls), s.windActive, s.reveal != nil, s.generation)
}
