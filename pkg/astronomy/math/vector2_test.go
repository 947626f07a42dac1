package math

import (
	"math"
	"testing"
)

func TestVec2Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec2
		add  Vec2
		sub  Vec2
		dot  float64
	}{
		{"Zero vectors", Vec2{}, Vec2{}, Vec2{}, Vec2{}, 0},
		{"Axis aligned", Vec2{X: 1}, Vec2{Y: 2}, Vec2{X: 1, Y: 2}, Vec2{X: 1, Y: -2}, 0},
		{"General", Vec2{X: 3, Y: 4}, Vec2{X: -1, Y: 2}, Vec2{X: 2, Y: 6}, Vec2{X: 4, Y: 2}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Add(tt.b); got != tt.add {
				t.Errorf("Add: expected %v, got %v", tt.add, got)
			}
			if got := tt.a.Sub(tt.b); got != tt.sub {
				t.Errorf("Sub: expected %v, got %v", tt.sub, got)
			}
			if got := tt.a.Dot(tt.b); got != tt.dot {
				t.Errorf("Dot: expected %v, got %v", tt.dot, got)
			}
		})
	}
}

func TestVec2Magnitude(t *testing.T) {
	v := Vec2{X: 3, Y: 4}
	if got := v.Magnitude(); got != 5 {
		t.Errorf("Expected magnitude 5, got %v", got)
	}
	if got := v.Distance(Vec2{X: 3, Y: 4}); got != 0 {
		t.Errorf("Expected zero distance, got %v", got)
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{X: 0, Y: -7}.Normalize()
	if v.X != 0 || v.Y != -1 {
		t.Errorf("Expected (0, -1), got %v", v)
	}

	// The zero vector has no direction and must stay zero, not NaN.
	z := Vec2{}.Normalize()
	if math.IsNaN(z.X) || math.IsNaN(z.Y) || !z.IsZero() {
		t.Errorf("Expected zero vector, got %v", z)
	}
}

func TestVec2Perp(t *testing.T) {
	v := Vec2{X: 2, Y: 0}
	p := v.Perp()
	if p.X != 0 || p.Y != 2 {
		t.Errorf("Expected (0, 2), got %v", p)
	}
	if got := v.Dot(p); got != 0 {
		t.Errorf("Perpendicular should be orthogonal, dot = %v", got)
	}
}

func TestVec2Cross(t *testing.T) {
	a := Vec2{X: 1, Y: 0}
	b := Vec2{X: 0, Y: 1}
	if got := a.Cross(b); got != 1 {
		t.Errorf("Expected cross 1, got %v", got)
	}
	if got := b.Cross(a); got != -1 {
		t.Errorf("Expected cross -1, got %v", got)
	}
}

func TestVec2Scale(t *testing.T) {
	v := Vec2{X: 1.5, Y: -2}.Scale(-2)
	if v.X != -3 || v.Y != 4 {
		t.Errorf("Expected (-3, 4), got %v", v)
	}
}
