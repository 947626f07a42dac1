package orbital

import (
	"math"

	astromath "github.com/astroviz/solarsim/pkg/astronomy/math"
)

// CircularVelocity returns the speed of a circular orbit of radius r
// about a central mass, v = sqrt(G*M/r).
func CircularVelocity(g, centralMass, r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(g * centralMass / r)
}

// Period returns the Kepler period of a circular orbit of radius r
// about a central mass, T = 2*pi*sqrt(r^3/(G*M)).
func Period(g, centralMass, r float64) float64 {
	if r <= 0 || g <= 0 || centralMass <= 0 {
		return 0
	}
	return 2 * math.Pi * math.Sqrt(r*r*r/(g*centralMass))
}

// InsertionVelocity returns the velocity vector that puts a body at pos
// into a circular orbit about center. The tangent is counter-clockwise
// unless clockwise is set. A body at the center gets zero velocity.
func InsertionVelocity(g, centralMass float64, center, pos astromath.Vec2, clockwise bool) astromath.Vec2 {
	d := pos.Sub(center)
	r := d.Magnitude()
	if r == 0 {
		return astromath.Vec2{}
	}
	speed := CircularVelocity(g, centralMass, r)
	tangent := d.Perp().Normalize()
	if clockwise {
		tangent = tangent.Scale(-1)
	}
	return tangent.Scale(speed)
}
