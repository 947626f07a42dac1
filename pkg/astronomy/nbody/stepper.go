package nbody

import (
	"fmt"

	astromath "github.com/astroviz/solarsim/pkg/astronomy/math"
)

// DefaultMinDistance is the fallback floor for the pairwise distance
// when a scenario does not configure one.
const DefaultMinDistance = 1e-9

// Stepper advances a System by discrete time steps under mutual
// Newtonian gravity using Euler integration: all accelerations are
// computed from the pre-step snapshot, then velocity is updated first
// and position second. Energy drifts slowly over long runs; that is a
// property of the method, not corrected here.
type Stepper struct {
	G           float64 // gravitational constant, scenario-scaled units
	MinDistance float64 // pairwise distance floor for the force law
}

// NewStepper creates a stepper for the given gravitational constant.
// A minDistance of 0 or less falls back to DefaultMinDistance.
func NewStepper(g, minDistance float64) (*Stepper, error) {
	if g <= 0 {
		return nil, fmt.Errorf("gravitational constant must be positive, got %g", g)
	}
	if minDistance <= 0 {
		minDistance = DefaultMinDistance
	}
	return &Stepper{G: g, MinDistance: minDistance}, nil
}

// Step advances the system by dt seconds. After it returns, every
// body's position and velocity reflect exactly one dt of motion under
// gravity from all other bodies as they stood at the start of the tick.
// A non-positive dt is a configuration error and is rejected.
func (st *Stepper) Step(s *System, dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("time step must be positive, got %g", dt)
	}

	n := len(s.Bodies)
	pos := make([]astromath.Vec2, n)
	for i := range s.Bodies {
		pos[i] = s.Bodies[i].Position
	}

	// One force per unordered pair, applied equal and opposite.
	acc := make([]astromath.Vec2, n)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			d := pos[j].Sub(pos[i])
			r := d.Magnitude()
			if r < st.MinDistance {
				r = st.MinDistance
			}
			force := st.G * s.Bodies[i].Mass * s.Bodies[j].Mass / (r * r)
			// Coincident bodies have no direction; Normalize yields
			// the zero vector and the pair exerts no force.
			dir := d.Normalize()
			acc[i] = acc[i].Add(dir.Scale(force / s.Bodies[i].Mass))
			acc[j] = acc[j].Sub(dir.Scale(force / s.Bodies[j].Mass))
		}
	}

	for i := range s.Bodies {
		b := &s.Bodies[i]
		b.Velocity = b.Velocity.Add(acc[i].Scale(dt))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		if b.Trail != nil {
			b.Trail.Append(b.Position)
		}
	}

	s.Time += dt
	return nil
}

// Run advances the system by steps ticks of dt, feeding every
// snapEvery-th state to the sink when one is given.
func (st *Stepper) Run(s *System, dt float64, steps, snapEvery int, sink SnapshotSink) error {
	if steps <= 0 {
		return fmt.Errorf("step count must be positive, got %d", steps)
	}
	if snapEvery <= 0 {
		snapEvery = 1
	}
	if sink != nil {
		if err := sink.OnStart(steps, snapEvery); err != nil {
			return err
		}
	}
	for i := 0; i < steps; i++ {
		if err := st.Step(s, dt); err != nil {
			return err
		}
		if sink != nil && (i+1)%snapEvery == 0 {
			if err := sink.OnSnapshot(s.Time, s.Bodies); err != nil {
				return err
			}
		}
	}
	if sink != nil {
		return sink.OnEnd(s.Time)
	}
	return nil
}
