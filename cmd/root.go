package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/gutflare/gutflare/sim"
	"github.com/gutflare/gutflare/sim/ml"
)

var (
	// CLI flags for the simulation run
	seed        int64  // Seed for all random draws (init, drift, training)
	totalSteps  int    // Number of discrete simulation steps
	logLevel    string // Log verbosity level
	configPath  string // Optional YAML engine config (trigger steps, total steps)
	antibiotics bool   // Apply antibiotics at the configured step
	probiotics  bool   // Apply probiotics at the configured step
	diet        bool   // Apply the diet change at the configured step
	outPath     string // Optional CSV output for the per-step series

	// CLI flags for model training
	trainSize    int     // Synthetic training set size
	boostRounds  int     // Boosting rounds
	learningRate float64 // Boosting shrinkage
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "gutflare",
	Short: "Discrete-time gut microbiome / immune flare simulator",
}

// trainModel generates the synthetic dataset and fits the flare
// regressor from the training RNG subsystem. Shared by run and predict.
func trainModel(rng *sim.PartitionedRNG, n int) (*ml.Model, error) {
	opts := ml.DefaultBoostOptions()
	if boostRounds > 0 {
		opts.Rounds = boostRounds
	}
	if learningRate > 0 {
		opts.LearningRate = learningRate
	}

	trainRNG := rng.ForSubsystem(sim.SubsystemTraining)
	records := ml.GenerateDataset(trainRNG, n)
	return ml.Train(records, opts, trainRNG)
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the microbiome/immune simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultEngineConfig()
		if configPath != "" {
			loaded, err := sim.LoadEngineConfig(configPath)
			if err != nil {
				logrus.Fatalf("unable to read engine config; %v", err)
			}
			cfg = *loaded
		}
		if cmd.Flags().Changed("steps") {
			cfg.TotalSteps = totalSteps
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("invalid configuration; %v", err)
		}

		schedule := sim.InterventionSchedule{
			Antibiotics: antibiotics,
			Probiotics:  probiotics,
			Diet:        diet,
		}

		logrus.Infof("Starting run with seed=%d, steps=%d, schedule=%+v, trainSize=%d",
			seed, cfg.TotalSteps, schedule, trainSize)

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
		model, err := trainModel(rng, trainSize)
		if err != nil {
			logrus.Fatalf("model training failed; %v", err)
		}

		engine := sim.NewEngine(cfg, schedule, model, rng)
		result, err := engine.Run()
		if err != nil {
			logrus.Fatalf("simulation failed; %v", err)
		}

		result.Print()
		if outPath != "" {
			if err := result.WriteCSV(outPath); err != nil {
				logrus.Fatalf("unable to write results; %v", err)
			}
			logrus.Infof("Results written to %s", outPath)
		}

		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random state initialization and drift")
	runCmd.Flags().IntVar(&totalSteps, "steps", 100, "Number of discrete simulation steps")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML engine config overriding the default schedule")
	runCmd.Flags().StringVar(&outPath, "out", "", "CSV file for the per-step population and flare series")

	// Intervention toggles
	runCmd.Flags().BoolVar(&antibiotics, "antibiotics", false, "Halve every population at the antibiotics step")
	runCmd.Flags().BoolVar(&probiotics, "probiotics", false, "Boost Lactobacillus and Faecalibacterium at the probiotics step")
	runCmd.Flags().BoolVar(&diet, "diet", false, "Shift Treg/IL6/TNF at the diet step")

	// Model training configs
	runCmd.Flags().IntVar(&trainSize, "train-size", ml.DefaultDatasetSize, "Synthetic training set size")
	runCmd.Flags().IntVar(&boostRounds, "rounds", 0, "Boosting rounds (0 = learner default)")
	runCmd.Flags().Float64Var(&learningRate, "learning-rate", 0, "Boosting shrinkage (0 = learner default)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
