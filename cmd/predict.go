package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/gutflare/gutflare/sim"
	"github.com/gutflare/gutflare/sim/ml"
)

// PredictedColumn is the column appended to a scored upload.
const PredictedColumn = "Predicted_Flare_Index"

var (
	predictInput  string // Input CSV path
	predictOutput string // Output CSV path ("" = stdout)
)

// ScoreTable validates an uploaded table against the model schema,
// scores every row, and appends the prediction column. The input table
// may carry extra columns; they pass through untouched, in order. On
// schema mismatch or malformed input no output is produced.
func ScoreTable(model *ml.Model, r io.Reader, w io.Writer) error {
	frame, err := ml.ReadFrame(r)
	if err != nil {
		return err
	}

	preds, err := model.PredictBatch(frame)
	if err != nil {
		return err
	}
	if err := frame.AppendColumn(PredictedColumn, preds); err != nil {
		return fmt.Errorf("append prediction column: %w", err)
	}
	return frame.Write(w)
}

// predictCmd scores an uploaded feature table with the trained model
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score an uploaded feature table with the trained flare model",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if predictInput == "" {
			logrus.Fatalf("No input table provided. Exiting.")
		}

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
		model, err := trainModel(rng, trainSize)
		if err != nil {
			logrus.Fatalf("model training failed; %v", err)
		}

		in, err := os.Open(predictInput)
		if err != nil {
			logrus.Fatalf("unable to open input table; %v", err)
		}
		defer in.Close()

		var out io.Writer = os.Stdout
		if predictOutput != "" {
			f, err := os.Create(predictOutput)
			if err != nil {
				logrus.Fatalf("unable to create output file; %v", err)
			}
			defer f.Close()
			out = f
		}

		if err := ScoreTable(model, in, out); err != nil {
			if errors.Is(err, ml.ErrSchemaMismatch) {
				logrus.Fatalf("upload rejected; %v (required columns: %s)",
					err, strings.Join(model.FeatureNames(), ", "))
			}
			logrus.Fatalf("scoring failed; %v", err)
		}

		if predictOutput != "" {
			logrus.Infof("Scored table written to %s", predictOutput)
		}
	},
}

func init() {
	predictCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for synthetic training data and fitting")
	predictCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	predictCmd.Flags().StringVar(&predictInput, "input", "", "CSV table to score (must contain all feature columns)")
	predictCmd.Flags().StringVar(&predictOutput, "output", "", "Output CSV path (default stdout)")
	predictCmd.Flags().IntVar(&trainSize, "train-size", ml.DefaultDatasetSize, "Synthetic training set size")
	predictCmd.Flags().IntVar(&boostRounds, "rounds", 0, "Boosting rounds (0 = learner default)")

	rootCmd.AddCommand(predictCmd)
}
