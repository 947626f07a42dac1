package nbody

import (
	"fmt"

	astromath "github.com/astroviz/solarsim/pkg/astronomy/math"
)

// System represents the simulated solar system: an ordered collection
// of bodies with exactly one central body, advanced one tick at a time.
type System struct {
	Bodies []Body
	Time   float64 // simulated seconds since start
}

// NewSystem validates the bodies and assembles a system. Every body
// needs positive mass and radius, parent indices must be in range, and
// exactly one body must be central (Parent < 0).
func NewSystem(bodies []Body, trailCapacity int) (*System, error) {
	if len(bodies) == 0 {
		return nil, fmt.Errorf("system needs at least one body")
	}

	central := 0
	for i, b := range bodies {
		if b.Mass <= 0 {
			return nil, fmt.Errorf("body %q: mass must be positive, got %g", b.Name, b.Mass)
		}
		if b.Radius <= 0 {
			return nil, fmt.Errorf("body %q: radius must be positive, got %g", b.Name, b.Radius)
		}
		if b.Parent < 0 {
			central++
			continue
		}
		if b.Parent >= len(bodies) || b.Parent == i {
			return nil, fmt.Errorf("body %q: invalid parent index %d", b.Name, b.Parent)
		}
	}
	if central != 1 {
		return nil, fmt.Errorf("system needs exactly one central body, got %d", central)
	}

	s := &System{Bodies: make([]Body, len(bodies))}
	copy(s.Bodies, bodies)
	for i := range s.Bodies {
		if s.Bodies[i].Parent >= 0 && trailCapacity != 0 {
			s.Bodies[i].Trail = NewTrail(trailCapacity)
		}
	}
	return s, nil
}

// Central returns the central body.
func (s *System) Central() *Body {
	for i := range s.Bodies {
		if s.Bodies[i].Parent < 0 {
			return &s.Bodies[i]
		}
	}
	return nil
}

// Copy creates a deep copy of the system, without trails.
func (s *System) Copy() *System {
	c := &System{
		Bodies: make([]Body, len(s.Bodies)),
		Time:   s.Time,
	}
	copy(c.Bodies, s.Bodies)
	for i := range c.Bodies {
		c.Bodies[i].Trail = nil
	}
	return c
}

// GetKineticEnergy calculates total kinetic energy of the system
func (s *System) GetKineticEnergy() float64 {
	energy := 0.0
	for _, body := range s.Bodies {
		v2 := body.Velocity.Dot(body.Velocity)
		energy += 0.5 * body.Mass * v2
	}
	return energy
}

// GetPotentialEnergy calculates total gravitational potential energy
// for the given gravitational constant
func (s *System) GetPotentialEnergy(g float64) float64 {
	energy := 0.0
	n := len(s.Bodies)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			r := s.Bodies[i].Position.Distance(s.Bodies[j].Position)
			if r > 0 {
				energy -= g * s.Bodies[i].Mass * s.Bodies[j].Mass / r
			}
		}
	}
	return energy
}

// GetTotalEnergy returns the total energy (drifts slowly under Euler
// integration, which is expected)
func (s *System) GetTotalEnergy(g float64) float64 {
	return s.GetKineticEnergy() + s.GetPotentialEnergy(g)
}

// GetMomentum calculates total linear momentum (should be conserved)
func (s *System) GetMomentum() astromath.Vec2 {
	total := astromath.Vec2{}
	for _, body := range s.Bodies {
		total = total.Add(body.Velocity.Scale(body.Mass))
	}
	return total
}

// GetAngularMomentum calculates total angular momentum about the origin
// (should be conserved)
func (s *System) GetAngularMomentum() float64 {
	total := 0.0
	for _, body := range s.Bodies {
		total += body.Mass * body.Position.Cross(body.Velocity)
	}
	return total
}
