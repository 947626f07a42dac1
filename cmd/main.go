package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/astroviz/solarsim/pkg/analysis"
	"github.com/astroviz/solarsim/pkg/astronomy/nbody"
	"github.com/astroviz/solarsim/pkg/render"
	"github.com/astroviz/solarsim/pkg/utils"
)

const version = "1.0.0"

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "solarsim",
		Short: "Educational solar system visualization",
		Long: `A small solar system simulator: a central star and a handful of
planets under pairwise Newtonian gravity, integrated with Euler steps
and drawn in the terminal with orbit trails.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "scenario file (default is ./scenario.yaml or $HOME/.solarsim/scenario.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		initCmd(),
		runCmd(),
		analyzeCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default scenario (Sun through Mars) to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if err := utils.SaveConfig(utils.DefaultConfig(), output); err != nil {
				return err
			}
			fmt.Println("Wrote scenario to", output)
			return nil
		},
	}

	cmd.Flags().String("output", "scenario.yaml", "where to write the scenario")

	return cmd
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := utils.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			if dt, _ := cmd.Flags().GetFloat64("dt"); dt != 0 {
				cfg.Simulation.Dt = dt
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sys, err := cfg.BuildSystem()
			if err != nil {
				return err
			}
			stepper, err := nbody.NewStepper(cfg.Simulation.G, cfg.Simulation.MinDistance)
			if err != nil {
				return err
			}

			if verbose {
				log.Printf("Running %d bodies at %g s per tick", len(sys.Bodies), cfg.Simulation.Dt)
			}
			return render.Run(sys, stepper, cfg.Simulation.Dt, cfg.Display)
		},
	}

	cmd.Flags().Float64("dt", 0, "override the scenario time step in seconds")

	return cmd
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the scenario headless and report conservation drift",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			sampleEvery, _ := cmd.Flags().GetInt("sample-every")
			output, _ := cmd.Flags().GetString("output")

			cfg, err := utils.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var sink nbody.SnapshotSink
			if output != "" {
				w, err := nbody.NewJSONLSnapshotWriter(output)
				if err != nil {
					return fmt.Errorf("failed to open snapshot output: %w", err)
				}
				defer w.Close()
				sink = w
			}

			report, err := analysis.NewManager(cfg).AnalyzeDrift(steps, sampleEvery, sink)
			if err != nil {
				return err
			}

			fmt.Printf("Steps:           %d (dt %g s, %d samples)\n", report.Steps, report.Dt, report.Samples)
			fmt.Printf("Energy mean:     %.6e\n", report.EnergyMean)
			fmt.Printf("Energy stddev:   %.6e\n", report.EnergyStdDev)
			fmt.Printf("Energy drift:    %.3e (relative, Euler drift is expected)\n", report.EnergyDrift)
			fmt.Printf("Momentum drift:  %.3e (relative)\n", report.MomentumDrift)
			for _, o := range report.Orbits {
				fmt.Printf("Orbit %-10s closure %.4f%% after %d ticks (period %.1f days)\n",
					o.Name, o.Closure*100, o.Steps, o.Period/86400)
			}
			return nil
		},
	}

	cmd.Flags().Int("steps", 365, "number of ticks to simulate")
	cmd.Flags().Int("sample-every", 1, "sample conserved quantities every N ticks")
	cmd.Flags().String("output", "", "write sampled states as JSONL to this file")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("solarsim", version)
		},
	}
}
