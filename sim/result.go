package sim

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// RunResult aggregates the per-step histories of a simulation run for
// final reporting and charting. Each taxon series and both flare
// series hold exactly TotalSteps values in chronological order.
type RunResult struct {
	Populations [NumTaxa][]int
	RuleIndex   []float64
	ModelIndex  []float64
}

// NewRunResult preallocates history slices for a run of the given length.
func NewRunResult(steps int) *RunResult {
	res := &RunResult{
		RuleIndex:  make([]float64, 0, steps),
		ModelIndex: make([]float64, 0, steps),
	}
	for t := Taxon(0); t < NumTaxa; t++ {
		res.Populations[t] = make([]int, 0, steps)
	}
	return res
}

// Steps returns the number of recorded steps.
func (r *RunResult) Steps() int {
	return len(r.RuleIndex)
}

// Print displays a run summary: final populations per taxon, the mean
// of both flare series, and how many steps each spent above the
// reference threshold.
func (r *RunResult) Print() {
	steps := r.Steps()
	fmt.Println("=== Simulation Results ===")
	fmt.Printf("Steps                : %d\n", steps)
	if steps == 0 {
		return
	}
	for t := Taxon(0); t < NumTaxa; t++ {
		fmt.Printf("Final %-16s: %d\n", t.String(), r.Populations[t][steps-1])
	}
	fmt.Printf("Mean rule-based flare: %.3f\n", mean(r.RuleIndex))
	fmt.Printf("Mean predicted flare : %.3f\n", mean(r.ModelIndex))
	fmt.Printf("Steps above %.0f (rule/model): %d/%d\n",
		FlareThreshold, countAbove(r.RuleIndex, FlareThreshold), countAbove(r.ModelIndex, FlareThreshold))
}

// WriteCSV exports the run as one row per step: step index, each taxon
// population in declared order, then the two flare series.
func (r *RunResult) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"step"}, TaxonNames()...)
	header = append(header, "Rule_Flare_Index", "Model_Flare_Index")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}
	for i := 0; i < r.Steps(); i++ {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(i))
		for t := Taxon(0); t < NumTaxa; t++ {
			row = append(row, strconv.Itoa(r.Populations[t][i]))
		}
		row = append(row,
			strconv.FormatFloat(r.RuleIndex[i], 'f', 6, 64),
			strconv.FormatFloat(r.ModelIndex[i], 'f', 6, 64))
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write results row %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func countAbove(values []float64, threshold float64) int {
	n := 0
	for _, v := range values {
		if v > threshold {
			n++
		}
	}
	return n
}
