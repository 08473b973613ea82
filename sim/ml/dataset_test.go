package ml

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gutflare/gutflare/sim"
)

func TestFeatureNames_SchemaOrder(t *testing.T) {
	want := []string{
		"Bacteroides", "Firmicutes", "Lactobacillus", "Bifidobacterium",
		"Faecalibacterium", "Proteobacteria", "Akkermansia",
		"Treg", "IL6", "TNF",
	}
	assert.Equal(t, want, FeatureNames())
	assert.Len(t, FeatureNames(), NumFeatures)
}

func TestGenerateDataset_Ranges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	records := GenerateDataset(rng, DefaultDatasetSize)
	require.Len(t, records, DefaultDatasetSize)

	tregIdx := int(sim.NumTaxa)
	for i, rec := range records {
		for f := 0; f < int(sim.NumTaxa); f++ {
			if rec.Features[f] < taxonMin || rec.Features[f] >= taxonMax {
				t.Fatalf("record %d: taxon feature %d = %v outside [%d, %d)",
					i, f, rec.Features[f], taxonMin, taxonMax)
			}
		}
		treg := rec.Features[tregIdx]
		il6 := rec.Features[tregIdx+1]
		tnf := rec.Features[tregIdx+2]
		assert.GreaterOrEqual(t, treg, float64(tregMin))
		assert.Less(t, treg, float64(tregMax))
		assert.GreaterOrEqual(t, il6, float64(il6Min))
		assert.Less(t, il6, float64(il6Max))
		assert.GreaterOrEqual(t, tnf, float64(tnfMin))
		assert.Less(t, tnf, float64(tnfMax))

		if math.IsNaN(rec.Label) || math.IsInf(rec.Label, 0) {
			t.Fatalf("record %d: label %v not finite", i, rec.Label)
		}
		// Label is (IL6+TNF)/Treg plus N(0, 0.5) noise.
		assert.InDelta(t, (il6+tnf)/treg, rec.Label, 4.0, "record %d label far from formula", i)
	}
}

func TestGenerateDataset_Deterministic(t *testing.T) {
	r1 := GenerateDataset(rand.New(rand.NewSource(9)), 50)
	r2 := GenerateDataset(rand.New(rand.NewSource(9)), 50)
	assert.Equal(t, r1, r2)
}
