package glass

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// recordingRenderer keeps every handle it hands out so tests can check releases.
type recordingRenderer struct {
	next      Handle
	created   map[Handle]Geometry
	materials map[Handle]Material
	removed   []Handle
	scales    map[Handle]float64
	scaleSets map[Handle]int
	frames    int
	failBall  bool
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{
		created:   make(map[Handle]Geometry),
		materials: make(map[Handle]Material),
		scales:    make(map[Handle]float64),
		scaleSets: make(map[Handle]int),
	}
}

func (r *recordingRenderer) Create(g Geometry, m Material) (Handle, error) {
	if r.failBall && g.Kind == GeometryBall {
		return 0, errors.New("context lost")
	}
	r.next++
	r.created[r.next] = g
	r.materials[r.next] = m
	return r.next, nil
}

func (r *recordingRenderer) SetPosition(h Handle, x, y, z float64) {}
func (r *recordingRenderer) SetRotation(h Handle, x, y, z float64) {}
func (r *recordingRenderer) SetScale(h Handle, s float64) {
	r.scales[h] = s
	r.scaleSets[h]++
}
func (r *recordingRenderer) Remove(h Handle) { r.removed = append(r.removed, h) }
func (r *recordingRenderer) RenderFrame() { r.frames++ }

func (r *recordingRenderer) count(kind GeometryKind) int {
	n := 0
	for _, g := range r.created {
		if g.Kind == kind {
			n++
		}
	}
	return n
}

// failingTextures never produces a texture.
type failingTextures struct{}

func (failingTextures) TextureForNumber(int) (Texture, error) {
	return Texture{}, errors.New("canvas unavailable")
}

func (failingTextures) TextureForWinLabel() (Texture, error) {
	return Texture{}, errors.New("canvas unavailable")
}

type popupCall struct {
	id       string
	amount   *float64
	currency string
}

type recordingPresenter struct {
	calls []popupCall
}

func (p *recordingPresenter) PresentPopup(id string, amount *float64, currency string) {
	p.calls = append(p.calls, popupCall{id: id, amount: amount, currency: currency})
}

type recordingSink struct {
	events []Event
}

func (r *recordingSink) Publish(e Event) { r.events = append(r.events, e) }

func (r *recordingSink) types() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// testParams is the landing page tuning with a fixed seed.
func testParams(balls int) Params {
	p := DefaultParams()
	p.BallCount = balls
	p.Seed = 42
	return p
}

func newTestSimulation(t *testing.T, balls int, opts ...Option) *Simulation {
	t.Helper()
	sim, err := NewSimulation(testParams(balls), opts...)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return sim
}

func advanceFrames(sim *Simulation, n int) {
	for i := 0; i < n; i++ {
		sim.Advance(FrameUnit)
	}
}

func assertContained(t *testing.T, sim *Simulation, frame int) {
	t.Helper()
	r := sim.Params().BallRadius
	R := sim.Params().ContainerRadius
	for _, b := range sim.Balls() {
		if d := b.Position.Len(); d+r > R+1e-6 {
			t.Fatalf("frame %d: ball %d escaped: distance=%.6f radius=%.1f container=%.1f", frame, b.ID, d, r, R)
		}
	}
}

// closestPair returns the smallest center distance between any two balls.
func closestPair(balls []*Ball) float64 {
	closest := math.Inf(1)
	for i, a := range balls {
		for _, b := range balls[i+1:] {
			closest = math.Min(closest, Distance(a.Position, b.Position))
		}
	}
	return closest
}

// rollingRate is the spin of a ball rolling without slipping at velocity v.
func rollingRate(v mgl64.Vec3, radius float64) mgl64.Vec3 {
	return mgl64.Vec3{
		(v[2] + v[1]*SpinCrossWeight) / radius,
		(v[0] + v[2]*SpinCrossWeight) / radius,
		(-v[0] + v[1]*SpinCrossWeight) / radius,
	}
}
