package glass

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSpawnPositionFitsAndAvoidsOthers(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := Container{Radius: 330}
	const radius = 45.0

	var balls []*Ball
	for i := 0; i < 8; i++ {
		p := SpawnPosition(rng, balls, radius, c)
		if !c.Contains(p, radius) {
			t.Fatalf("ball %d spawned outside container: %v (|p|=%.2f)", i, p, p.Len())
		}
		for j, other := range balls {
			if d := Distance(p, other.Position); d < 2*radius {
				t.Fatalf("ball %d overlaps ball %d: distance %.2f", i, j, d)
			}
		}
		balls = append(balls, &Ball{Position: p})
	}
}

func TestSpawnPositionStartsInUpperCap(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	c := Container{Radius: 330}
	for i := 0; i < 200; i++ {
		p := SpawnPosition(rng, nil, 45, c)
		if p[1] < 0 {
			t.Fatalf("spawn %d below the equator: %v", i, p)
		}
		polar := math.Acos(p[1] / math.Max(p.Len(), 1e-12))
		if p.Len() > 1e-9 && polar > math.Pi*spawnPolarCap+1e-9 {
			t.Fatalf("spawn %d outside the upper cone: polar=%.3f", i, polar)
		}
	}
}

func TestSpawnPositionFallbackWhenCrowded(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	c := Container{Radius: 330}
	const radius = 45.0

	// A ball at the center of every candidate region leaves no room at all.
	var crowd []*Ball
	for x := -300.0; x <= 300; x += 30 {
		for y := -300.0; y <= 300; y += 30 {
			for z := -300.0; z <= 300; z += 30 {
				crowd = append(crowd, &Ball{Position: mgl64.Vec3{x, y, z}})
			}
		}
	}

	p := SpawnPosition(rng, crowd, radius, c)
	want := (c.Radius - radius) * spawnFallbackRadius
	if math.Abs(p.Len()-want) > 1e-9 {
		t.Errorf("fallback distance = %.3f, want %.3f", p.Len(), want)
	}
	if !c.Contains(p, radius) {
		t.Errorf("fallback position outside container: %v", p)
	}
}

func TestSpawnVelocityRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 500; i++ {
		v := SpawnVelocity(rng)
		h := math.Hypot(v[0], v[2])
		if h < 0.3-1e-9 || h >= 1.0 {
			t.Fatalf("horizontal speed %.3f outside [0.3, 1.0)", h)
		}
		if v[1] > -0.1 || v[1] <= -0.3 {
			t.Fatalf("vertical bias %.3f outside (-0.3, -0.1]", v[1])
		}
	}
}

func TestSpawnNumberIsTwoDigits(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 1000; i++ {
		if n := SpawnNumber(rng); n < 10 || n > 99 {
			t.Fatalf("label %d outside 10..99", n)
		}
	}
}
