package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	astromath "github.com/astroviz/solarsim/pkg/astronomy/math"
	"github.com/astroviz/solarsim/pkg/astronomy/nbody"
	"github.com/astroviz/solarsim/pkg/astronomy/orbital"
)

// AU is one astronomical unit in meters.
const AU = 149.6e9

// Config represents a simulation scenario
type Config struct {
	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
	Display    DisplayConfig    `yaml:"display" mapstructure:"display"`
	Bodies     []BodyConfig     `yaml:"bodies" mapstructure:"bodies"`
}

// SimulationConfig contains the physics parameters
type SimulationConfig struct {
	G           float64 `yaml:"g" mapstructure:"g"`                       // gravitational constant
	Dt          float64 `yaml:"dt" mapstructure:"dt"`                     // seconds per tick
	MinDistance float64 `yaml:"min_distance" mapstructure:"min_distance"` // pairwise distance floor
	TrailLength int     `yaml:"trail_length" mapstructure:"trail_length"` // points per orbit trail, 0 disables
}

// DisplayConfig contains rendering preferences
type DisplayConfig struct {
	FPS        int  `yaml:"fps" mapstructure:"fps"`
	ShowTrails bool `yaml:"show_trails" mapstructure:"show_trails"`
	ShowLabels bool `yaml:"show_labels" mapstructure:"show_labels"`
}

// BodyConfig describes one celestial body of the scenario
type BodyConfig struct {
	Name     string     `yaml:"name" mapstructure:"name"`
	Mass     float64    `yaml:"mass" mapstructure:"mass"`
	Radius   float64    `yaml:"radius" mapstructure:"radius"`
	Color    string     `yaml:"color" mapstructure:"color"`
	Position [2]float64 `yaml:"position" mapstructure:"position"`
	Velocity [2]float64 `yaml:"velocity" mapstructure:"velocity"`
	// Parent names the body this one orbits; empty marks the central body.
	Parent string `yaml:"parent,omitempty" mapstructure:"parent"`
	// AutoOrbit replaces the configured velocity with the circular
	// orbital velocity about the parent at the starting distance.
	AutoOrbit bool `yaml:"auto_orbit,omitempty" mapstructure:"auto_orbit"`
}

// DefaultConfig returns the inner solar system: the Sun plus Mercury,
// Venus, Earth and Mars at their real masses, distances and tangential
// velocities, one simulated day per tick.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			G:           6.67428e-11,
			Dt:          60 * 60 * 24,
			MinDistance: 1e7,
			TrailLength: 600,
		},
		Display: DisplayConfig{
			FPS:        60,
			ShowTrails: true,
			ShowLabels: true,
		},
		Bodies: []BodyConfig{
			{
				Name:   "Sun",
				Mass:   1.98892e30,
				Radius: 16,
				Color:  "#ffff00",
			},
			{
				Name:     "Mercury",
				Mass:     3.30e23,
				Radius:   4,
				Color:    "#504e51",
				Position: [2]float64{0.387 * AU, 0},
				Velocity: [2]float64{0, 47400},
				Parent:   "Sun",
			},
			{
				Name:     "Venus",
				Mass:     4.8685e24,
				Radius:   5,
				Color:    "#ffc000",
				Position: [2]float64{-0.723 * AU, 0},
				Velocity: [2]float64{0, -35020},
				Parent:   "Sun",
			},
			{
				Name:     "Earth",
				Mass:     5.9742e24,
				Radius:   5,
				Color:    "#6495ed",
				Position: [2]float64{1 * AU, 0},
				Velocity: [2]float64{0, 29783},
				Parent:   "Sun",
			},
			{
				Name:     "Mars",
				Mass:     6.39e23,
				Radius:   4,
				Color:    "#bc2732",
				Position: [2]float64{-1.524 * AU, 0},
				Velocity: [2]float64{0, -24077},
				Parent:   "Sun",
			},
		},
	}
}

// LoadConfig loads a scenario from the given file, or from the default
// search path (., $HOME/.solarsim) when path is empty. Missing config
// falls back to the default scenario. SOLARSIM_* environment variables
// override individual values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("scenario")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".solarsim"))
		}
	}
	v.SetEnvPrefix("solarsim")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes the scenario to the given path as YAML.
func SaveConfig(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}
	return nil
}

// Validate fails fast on configuration errors: non-positive mass,
// radius, dt or G, unknown parents, or a system without exactly one
// central body.
func (c *Config) Validate() error {
	if c.Simulation.G <= 0 {
		return fmt.Errorf("simulation.g must be positive, got %g", c.Simulation.G)
	}
	if c.Simulation.Dt <= 0 {
		return fmt.Errorf("simulation.dt must be positive, got %g", c.Simulation.Dt)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("scenario needs at least one body")
	}

	names := make(map[string]int, len(c.Bodies))
	central := 0
	for i, b := range c.Bodies {
		if b.Name == "" {
			return fmt.Errorf("body %d: name is required", i)
		}
		if _, dup := names[b.Name]; dup {
			return fmt.Errorf("body %q: duplicate name", b.Name)
		}
		names[b.Name] = i
		if b.Mass <= 0 {
			return fmt.Errorf("body %q: mass must be positive, got %g", b.Name, b.Mass)
		}
		if b.Radius <= 0 {
			return fmt.Errorf("body %q: radius must be positive, got %g", b.Name, b.Radius)
		}
		if b.Parent == "" {
			central++
		}
	}
	if central != 1 {
		return fmt.Errorf("scenario needs exactly one central body, got %d", central)
	}
	for _, b := range c.Bodies {
		if b.Parent == "" {
			continue
		}
		if _, ok := names[b.Parent]; !ok {
			return fmt.Errorf("body %q: unknown parent %q", b.Name, b.Parent)
		}
		if b.Parent == b.Name {
			return fmt.Errorf("body %q: cannot orbit itself", b.Name)
		}
	}
	return nil
}

// BuildSystem assembles the simulated system from the scenario,
// seeding circular orbital velocities for auto-orbit bodies.
func (c *Config) BuildSystem() (*nbody.System, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(c.Bodies))
	for i, b := range c.Bodies {
		index[b.Name] = i
	}

	bodies := make([]nbody.Body, len(c.Bodies))
	for i, b := range c.Bodies {
		parent := -1
		if b.Parent != "" {
			parent = index[b.Parent]
		}
		bodies[i] = nbody.Body{
			Name:     b.Name,
			Mass:     b.Mass,
			Radius:   b.Radius,
			Color:    b.Color,
			Position: astromath.Vec2{X: b.Position[0], Y: b.Position[1]},
			Velocity: astromath.Vec2{X: b.Velocity[0], Y: b.Velocity[1]},
			Parent:   parent,
		}
	}

	for i, b := range c.Bodies {
		if !b.AutoOrbit || bodies[i].Parent < 0 {
			continue
		}
		p := bodies[bodies[i].Parent]
		bodies[i].Velocity = orbital.InsertionVelocity(
			c.Simulation.G, p.Mass, p.Position, bodies[i].Position, false,
		)
	}

	trailCap := 0
	if c.Display.ShowTrails {
		trailCap = c.Simulation.TrailLength
	}
	return nbody.NewSystem(bodies, trailCap)
}
