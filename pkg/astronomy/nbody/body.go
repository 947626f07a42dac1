package nbody

import (
	astromath "github.com/astroviz/solarsim/pkg/astronomy/math"
)

// Body represents a celestial body in the simulated system.
// Mass, Position and Velocity drive the physics; Name, Radius and
// Color are display attributes the stepper never reads.
type Body struct {
	Name     string         `json:"name"`
	Mass     float64        `json:"mass"`   // kg, or scenario-scaled units
	Radius   float64        `json:"radius"` // rendering size only
	Color    string         `json:"color"`  // "#rrggbb", opaque to physics
	Position astromath.Vec2 `json:"position"`
	Velocity astromath.Vec2 `json:"velocity"`

	// Parent is the index of the body this one orbits, or -1 for the
	// central body. It seeds the initial orbital velocity and feeds the
	// distance readout; the force calculation ignores it.
	Parent int `json:"parent"`

	// Trail records past positions for orbit drawing. Nil when trails
	// are disabled or for the central body.
	Trail *Trail `json:"-"`
}

// DistanceToParent returns the current distance between the body and
// its parent, or 0 for the central body.
func (b Body) DistanceToParent(bodies []Body) float64 {
	if b.Parent < 0 || b.Parent >= len(bodies) {
		return 0
	}
	return b.Position.Distance(bodies[b.Parent].Position)
}

// Trail is a bounded ring of past positions, oldest first.
type Trail struct {
	points []astromath.Vec2
	head   int
	full   bool
	cap    int
}

// NewTrail creates a trail holding up to capacity points.
// A capacity of 0 or less means unbounded.
func NewTrail(capacity int) *Trail {
	t := &Trail{cap: capacity}
	if capacity > 0 {
		t.points = make([]astromath.Vec2, 0, capacity)
	}
	return t
}

// Append records a position, evicting the oldest point once the
// capacity is reached.
func (t *Trail) Append(p astromath.Vec2) {
	if t.cap <= 0 {
		t.points = append(t.points, p)
		return
	}
	if len(t.points) < t.cap {
		t.points = append(t.points, p)
		return
	}
	t.points[t.head] = p
	t.head = (t.head + 1) % t.cap
	t.full = true
}

// Len returns the number of recorded points.
func (t *Trail) Len() int {
	return len(t.points)
}

// Points returns the recorded positions in order, oldest first.
func (t *Trail) Points() []astromath.Vec2 {
	if !t.full || t.head == 0 {
		return t.points
	}
	out := make([]astromath.Vec2, 0, len(t.points))
	out = append(out, t.points[t.head:]...)
	out = append(out, t.points[:t.head]...)
	return out
}
