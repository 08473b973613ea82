package ml

import (
	"math/rand"

	"github.com/gutflare/gutflare/sim"
)

// NumFeatures is the dimensionality of the model input: the 7 taxon
// populations plus Treg, IL6, TNF.
const NumFeatures = int(sim.NumTaxa) + 3

// DefaultDatasetSize is the standard synthetic training set size.
const DefaultDatasetSize = 500

// Synthetic draw ranges. The Treg lower bound of 10 keeps the label's
// denominator away from zero; do not lower it.
const (
	taxonMin = 50
	taxonMax = 250
	tregMin  = 10
	tregMax  = 60
	il6Min   = 5
	il6Max   = 50
	tnfMin   = 5
	tnfMax   = 40

	labelNoiseStdDev = 0.5
)

// Record is one labeled training row: a full feature vector in schema
// order and the continuous flare label.
type Record struct {
	Features [NumFeatures]float64
	Label    float64
}

// FeatureNames returns the training-time schema in canonical order:
// the 7 taxon names followed by Treg, IL6, TNF. External tables are
// matched against these names, not positions.
func FeatureNames() []string {
	names := sim.TaxonNames()
	return append(names, sim.Treg.String(), sim.IL6.String(), sim.TNF.String())
}

// GenerateDataset draws n labeled records. Taxon counts are uniform in
// [50, 250); Treg in [10, 60), IL6 in [5, 50), TNF in [5, 40). The
// label is (IL6+TNF)/Treg plus Gaussian noise with std dev 0.5.
// Deterministic for a fixed rng state.
func GenerateDataset(rng *rand.Rand, n int) []Record {
	records := make([]Record, n)
	for i := range records {
		rec := &records[i]
		for t := 0; t < int(sim.NumTaxa); t++ {
			rec.Features[t] = float64(taxonMin + rng.Intn(taxonMax-taxonMin))
		}
		treg := float64(tregMin + rng.Intn(tregMax-tregMin))
		il6 := float64(il6Min + rng.Intn(il6Max-il6Min))
		tnf := float64(tnfMin + rng.Intn(tnfMax-tnfMin))
		rec.Features[sim.NumTaxa] = treg
		rec.Features[sim.NumTaxa+1] = il6
		rec.Features[sim.NumTaxa+2] = tnf
		rec.Label = (il6+tnf)/treg + rng.NormFloat64()*labelNoiseStdDev
	}
	return records
}
