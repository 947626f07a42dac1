package analysis

import (
	"fmt"
	"log"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/astroviz/solarsim/internal/types"
	"github.com/astroviz/solarsim/pkg/astronomy/nbody"
	"github.com/astroviz/solarsim/pkg/astronomy/orbital"
	"github.com/astroviz/solarsim/pkg/utils"
)

// Manager runs headless analyses of a scenario
type Manager struct {
	cfg *utils.Config
}

// NewManager creates an analysis manager for the given scenario
func NewManager(cfg *utils.Config) *Manager {
	return &Manager{cfg: cfg}
}

// AnalyzeDrift advances the scenario for the given number of ticks
// without rendering, sampling total energy and momentum every
// sampleEvery ticks, and reports conservation statistics plus a
// closed-orbit check per auto-orbit planet. When sink is non-nil every
// sampled state is also written to it.
func (m *Manager) AnalyzeDrift(steps, sampleEvery int, sink nbody.SnapshotSink) (*types.DriftReport, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("step count must be positive, got %d", steps)
	}
	if sampleEvery <= 0 {
		sampleEvery = 1
	}

	start := time.Now()
	g := m.cfg.Simulation.G
	dt := m.cfg.Simulation.Dt

	sys, err := m.cfg.BuildSystem()
	if err != nil {
		return nil, err
	}
	stepper, err := nbody.NewStepper(g, m.cfg.Simulation.MinDistance)
	if err != nil {
		return nil, err
	}

	log.Printf("Analyzing drift over %d ticks of %g s (%d bodies)", steps, dt, len(sys.Bodies))

	energy0 := sys.GetTotalEnergy(g)
	momentum0 := sys.GetMomentum()

	energies := make([]float64, 0, steps/sampleEvery+1)
	energies = append(energies, energy0)

	if sink != nil {
		if err := sink.OnStart(steps, sampleEvery); err != nil {
			return nil, err
		}
	}
	for i := 0; i < steps; i++ {
		if err := stepper.Step(sys, dt); err != nil {
			return nil, err
		}
		if (i+1)%sampleEvery != 0 {
			continue
		}
		energies = append(energies, sys.GetTotalEnergy(g))
		if sink != nil {
			if err := sink.OnSnapshot(sys.Time, sys.Bodies); err != nil {
				return nil, err
			}
		}
	}
	if sink != nil {
		if err := sink.OnEnd(sys.Time); err != nil {
			return nil, err
		}
	}

	report := &types.DriftReport{
		Steps:        steps,
		Dt:           dt,
		Samples:      len(energies),
		EnergyMean:   stat.Mean(energies, nil),
		EnergyStdDev: stat.StdDev(energies, nil),
		Timestamp:    time.Now(),
	}
	if energy0 != 0 {
		report.EnergyDrift = (energies[len(energies)-1] - energy0) / math.Abs(energy0)
	}
	momentumScale := momentum0.Magnitude()
	if momentumScale == 0 {
		momentumScale = 1
	}
	report.MomentumDrift = sys.GetMomentum().Sub(momentum0).Magnitude() / momentumScale

	orbits, err := m.checkClosedOrbits()
	if err != nil {
		return nil, err
	}
	report.Orbits = orbits

	report.Duration = time.Since(start)
	log.Printf("Drift analysis completed in %v", report.Duration)
	return report, nil
}

// checkClosedOrbits runs each auto-orbit planet alone with its parent
// for one Kepler period and measures how far it lands from its start.
func (m *Manager) checkClosedOrbits() ([]types.OrbitCheck, error) {
	g := m.cfg.Simulation.G
	dt := m.cfg.Simulation.Dt

	var checks []types.OrbitCheck
	for _, bc := range m.cfg.Bodies {
		if !bc.AutoOrbit || bc.Parent == "" {
			continue
		}

		pair := &utils.Config{
			Simulation: m.cfg.Simulation,
			Bodies:     make([]utils.BodyConfig, 0, 2),
		}
		for _, other := range m.cfg.Bodies {
			if other.Name == bc.Parent {
				parent := other
				parent.Parent = ""
				parent.AutoOrbit = false
				pair.Bodies = append(pair.Bodies, parent)
			}
		}
		pair.Bodies = append(pair.Bodies, bc)

		sys, err := pair.BuildSystem()
		if err != nil {
			return nil, err
		}
		stepper, err := nbody.NewStepper(g, m.cfg.Simulation.MinDistance)
		if err != nil {
			return nil, err
		}

		planet := &sys.Bodies[len(sys.Bodies)-1]
		parent := sys.Central()
		radius := planet.Position.Distance(parent.Position)
		period := orbital.Period(g, parent.Mass, radius)
		steps := int(math.Round(period / dt))
		if steps <= 0 {
			continue
		}

		// Measured relative to the parent so that drift of the pair's
		// center of mass does not count against the orbit.
		startRel := planet.Position.Sub(parent.Position)
		for i := 0; i < steps; i++ {
			if err := stepper.Step(sys, dt); err != nil {
				return nil, err
			}
		}

		checks = append(checks, types.OrbitCheck{
			Name:    bc.Name,
			Radius:  radius,
			Period:  period,
			Steps:   steps,
			Closure: planet.Position.Sub(parent.Position).Distance(startRel) / radius,
		})
	}
	return checks, nil
}
