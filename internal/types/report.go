package types

import "time"

// DriftReport summarizes how well a scenario holds its conserved
// quantities over a headless run.
type DriftReport struct {
	Scenario  string        `json:"scenario"`
	Steps     int           `json:"steps"`
	Dt        float64       `json:"dt"`
	Samples   int           `json:"samples"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`

	// Total energy statistics across the sampled states. Energy drifts
	// under Euler integration; the drift is relative to the initial value.
	EnergyMean   float64 `json:"energy_mean"`
	EnergyStdDev float64 `json:"energy_std_dev"`
	EnergyDrift  float64 `json:"energy_drift"`

	// Momentum should be conserved to floating-point tolerance.
	MomentumDrift float64 `json:"momentum_drift"`

	Orbits []OrbitCheck `json:"orbits,omitempty"`
}

// OrbitCheck reports how closely a planet returns to its starting
// position after one Kepler period of ticks.
type OrbitCheck struct {
	Name    string  `json:"name"`
	Radius  float64 `json:"radius"`  // starting orbital radius
	Period  float64 `json:"period"`  // seconds
	Steps   int     `json:"steps"`   // ticks in one period
	Closure float64 `json:"closure"` // |end - start| / radius
}
