package nbody

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	astromath "github.com/astroviz/solarsim/pkg/astronomy/math"
)

func twoBodySystem(t *testing.T, separation float64) *System {
	t.Helper()
	sys, err := NewSystem([]Body{
		{Name: "a", Mass: 1000, Radius: 1, Parent: -1},
		{Name: "b", Mass: 1, Radius: 1, Parent: 0,
			Position: astromath.Vec2{X: separation}},
	}, 0)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	return sys
}

func TestStepRejectsNonPositiveDt(t *testing.T) {
	sys := twoBodySystem(t, 100)
	st, err := NewStepper(1, 0)
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}

	before := sys.Copy()
	for _, dt := range []float64{0, -1} {
		if err := st.Step(sys, dt); err == nil {
			t.Errorf("Expected error for dt = %g", dt)
		}
	}
	for i := range sys.Bodies {
		if sys.Bodies[i].Position != before.Bodies[i].Position ||
			sys.Bodies[i].Velocity != before.Bodies[i].Velocity {
			t.Errorf("Rejected step must not mutate body %d", i)
		}
	}
	if sys.Time != 0 {
		t.Errorf("Rejected step must not advance time, got %g", sys.Time)
	}
}

func TestNewStepperRejectsNonPositiveG(t *testing.T) {
	if _, err := NewStepper(0, 1); err == nil {
		t.Error("Expected error for G = 0")
	}
	if _, err := NewStepper(-1, 1); err == nil {
		t.Error("Expected error for G = -1")
	}
}

// Momentum transferred to each body of a pair must be equal and
// opposite: m1*dv1 = -m2*dv2 after a single tick from rest.
func TestThirdLawSymmetry(t *testing.T) {
	sys := twoBodySystem(t, 50)
	st, _ := NewStepper(1, 0)

	if err := st.Step(sys, 0.5); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	p1 := sys.Bodies[0].Velocity.Scale(sys.Bodies[0].Mass)
	p2 := sys.Bodies[1].Velocity.Scale(sys.Bodies[1].Mass)
	total := p1.Add(p2)

	scale := p1.Magnitude()
	if scale == 0 {
		t.Fatal("Expected nonzero momentum transfer")
	}
	if total.Magnitude()/scale > 1e-12 {
		t.Errorf("Momentum not equal and opposite: %v vs %v", p1, p2)
	}
}

func TestMomentumConservation(t *testing.T) {
	sys, err := NewSystem([]Body{
		{Name: "star", Mass: 500, Radius: 2, Parent: -1,
			Velocity: astromath.Vec2{X: 0.1, Y: -0.2}},
		{Name: "p1", Mass: 3, Radius: 1, Parent: 0,
			Position: astromath.Vec2{X: 40}, Velocity: astromath.Vec2{Y: 3.5}},
		{Name: "p2", Mass: 7, Radius: 1, Parent: 0,
			Position: astromath.Vec2{X: -25, Y: 10}, Velocity: astromath.Vec2{Y: -4}},
	}, 0)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	st, _ := NewStepper(1, 0)

	before := sys.GetMomentum()
	for i := 0; i < 5000; i++ {
		if err := st.Step(sys, 0.01); err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
	}
	after := sys.GetMomentum()

	scale := before.Magnitude()
	if scale == 0 {
		scale = 1
	}
	if drift := after.Sub(before).Magnitude() / scale; drift > 1e-9 {
		t.Errorf("Momentum drifted by %e", drift)
	}
}

// Bodies at or below the configured distance floor must produce a
// large but finite acceleration, never NaN or Inf.
func TestMinDistanceFloor(t *testing.T) {
	tests := []struct {
		name       string
		separation float64
	}{
		{"At the floor", 1.0},
		{"Below the floor", 0.25},
		{"Coincident", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := twoBodySystem(t, tt.separation)
			st, err := NewStepper(1, 1.0)
			if err != nil {
				t.Fatalf("NewStepper failed: %v", err)
			}
			if err := st.Step(sys, 0.1); err != nil {
				t.Fatalf("Step failed: %v", err)
			}
			for _, b := range sys.Bodies {
				for _, v := range []float64{b.Velocity.X, b.Velocity.Y, b.Position.X, b.Position.Y} {
					if math.IsNaN(v) || math.IsInf(v, 0) {
						t.Fatalf("Body %q degenerated: pos %v vel %v", b.Name, b.Position, b.Velocity)
					}
				}
			}
		})
	}
}

// A light body launched at the circular orbital velocity around a heavy
// one must come back to its starting position after one Kepler period,
// within 1%.
func TestCircularOrbitCloses(t *testing.T) {
	const (
		g = 1.0
		M = 1000.0
		m = 1.0
		r = 100.0
	)
	v := math.Sqrt(g * M / r)

	sys, err := NewSystem([]Body{
		// Counter-velocity on the star zeroes the system momentum so
		// the orbit is measured in a stationary frame.
		{Name: "star", Mass: M, Radius: 2, Parent: -1,
			Velocity: astromath.Vec2{Y: -v * m / M}},
		{Name: "planet", Mass: m, Radius: 1, Parent: 0,
			Position: astromath.Vec2{X: r},
			Velocity: astromath.Vec2{Y: v}},
	}, 0)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	st, _ := NewStepper(g, 0)

	period := 2 * math.Pi * math.Sqrt(r*r*r/(g*M))
	dt := 0.01
	steps := int(math.Round(period / dt))

	start := sys.Bodies[1].Position
	for i := 0; i < steps; i++ {
		if err := st.Step(sys, dt); err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
	}

	closure := sys.Bodies[1].Position.Distance(start)
	if closure > 0.01*r {
		t.Errorf("Orbit did not close: ended %.3f units from start (limit %.1f)", closure, 0.01*r)
	}

	// The orbit should stay near-circular throughout as well.
	radius := sys.Bodies[1].Position.Distance(sys.Bodies[0].Position)
	if !scalar.EqualWithinAbs(radius, r, 0.01*r) {
		t.Errorf("Orbital radius drifted to %.3f", radius)
	}
}

func TestStepAppendsTrails(t *testing.T) {
	sys, err := NewSystem([]Body{
		{Name: "star", Mass: 1000, Radius: 2, Parent: -1},
		{Name: "planet", Mass: 1, Radius: 1, Parent: 0,
			Position: astromath.Vec2{X: 100}, Velocity: astromath.Vec2{Y: 3}},
	}, 10)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	st, _ := NewStepper(1, 0)

	for i := 0; i < 4; i++ {
		if err := st.Step(sys, 0.1); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}

	if sys.Bodies[0].Trail != nil {
		t.Error("Central body must not record a trail")
	}
	trail := sys.Bodies[1].Trail
	if trail == nil || trail.Len() != 4 {
		t.Fatalf("Expected 4 trail points, got %v", trail)
	}
	points := trail.Points()
	if points[len(points)-1] != sys.Bodies[1].Position {
		t.Error("Last trail point should be the current position")
	}
}

func TestRunFeedsSink(t *testing.T) {
	sys := twoBodySystem(t, 100)
	st, _ := NewStepper(1, 0)

	sink := &recordingSink{}
	if err := st.Run(sys, 0.1, 10, 2, sink); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !sink.started || !sink.ended {
		t.Error("Expected OnStart and OnEnd calls")
	}
	if sink.snapshots != 5 {
		t.Errorf("Expected 5 snapshots, got %d", sink.snapshots)
	}
	if !scalar.EqualWithinAbs(sys.Time, 1.0, 1e-12) {
		t.Errorf("Expected 1.0 s of simulated time, got %g", sys.Time)
	}
}

type recordingSink struct {
	started   bool
	ended     bool
	snapshots int
}

func (r *recordingSink) OnStart(totalSteps, snapEvery int) error { r.started = true; return nil }
func (r *recordingSink) OnSnapshot(t float64, bodies []Body) error {
	r.snapshots++
	return nil
}
func (r *recordingSink) OnEnd(finalT float64) error { r.ended = true; return nil }
func (r *recordingSink) Close() error               { return nil }
