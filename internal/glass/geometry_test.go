package glass

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestClampInsidePullsBackAlongNormal(t *testing.T) {
	p, n, hit := ClampInside(mgl64.Vec3{0, -400, 0}, 285)
	if !hit {
		t.Fatal("expected a correction")
	}
	if math.Abs(p[1]+285) > 1e-9 || p[0] != 0 || p[2] != 0 {
		t.Errorf("clamped to %v, want (0,-285,0)", p)
	}
	if math.Abs(n[1]+1) > 1e-9 {
		t.Errorf("normal %v, want (0,-1,0)", n)
	}
}

func TestClampInsideLeavesInteriorPoints(t *testing.T) {
	in := mgl64.Vec3{10, 20, 30}
	p, _, hit := ClampInside(in, 285)
	if hit || p != in {
		t.Errorf("interior point moved: %v -> %v", in, p)
	}
}

func TestDegenerateDistanceNeedsNoCorrection(t *testing.T) {
	if _, ok := SafeNormalize(mgl64.Vec3{}); ok {
		t.Error("zero vector must not normalize")
	}
	// A limit below zero would demand a correction of the center point, which
	// has no direction; it must be left alone rather than divided by zero.
	p, _, hit := ClampInside(mgl64.Vec3{}, -1)
	if hit || p != (mgl64.Vec3{}) {
		t.Errorf("center point corrected: %v", p)
	}
}

func TestIsOnFloor(t *testing.T) {
	c := Container{Radius: 330}
	tests := []struct {
		name string
		p    mgl64.Vec3
		want bool
	}{
		{"bottom of bowl", mgl64.Vec3{0, -280, 0}, true},
		{"lower side wall", mgl64.Vec3{200, -150, 0}, true},
		{"center", mgl64.Vec3{0, 0, 0}, false},
		{"just below equator near wall", mgl64.Vec3{280, -50, 0}, false},
		{"low but near axis", mgl64.Vec3{0, -200, 0}, false},
		{"top", mgl64.Vec3{0, 280, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsOnFloor(tt.p); got != tt.want {
				t.Errorf("IsOnFloor(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestNormalizedHeight(t *testing.T) {
	c := Container{Radius: 330}
	if h := c.NormalizedHeight(mgl64.Vec3{0, -330, 0}); h != 0 {
		t.Errorf("bottom height = %v, want 0", h)
	}
	if h := c.NormalizedHeight(mgl64.Vec3{0, 330, 0}); h != 1 {
		t.Errorf("top height = %v, want 1", h)
	}
	if h := c.NormalizedHeight(mgl64.Vec3{0, 0, 0}); h != 0.5 {
		t.Errorf("center height = %v, want 0.5", h)
	}
}

func TestReflectIsSpecular(t *testing.T) {
	v := Reflect(mgl64.Vec3{1, -2, 0}, mgl64.Vec3{0, -1, 0})
	if v != (mgl64.Vec3{1, 2, 0}) {
		t.Errorf("Reflect = %v, want (1,2,0)", v)
	}
}
