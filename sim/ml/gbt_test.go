package ml

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gutflare/gutflare/sim"
)

func trainFixedModel(t *testing.T, seed int64, n int) *Model {
	t.Helper()
	records := GenerateDataset(rand.New(rand.NewSource(seed)), n)
	model, err := Train(records, DefaultBoostOptions(), rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return model
}

func TestTrain_BeatsMeanBaseline(t *testing.T) {
	records := GenerateDataset(rand.New(rand.NewSource(42)), DefaultDatasetSize)
	model, err := Train(records, DefaultBoostOptions(), rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	var labelSum float64
	for _, rec := range records {
		labelSum += rec.Label
	}
	labelMean := labelSum / float64(len(records))

	var mseModel, mseBaseline float64
	for _, rec := range records {
		pred, err := model.Predict(rec.Features[:])
		require.NoError(t, err)
		mseModel += (pred - rec.Label) * (pred - rec.Label)
		mseBaseline += (labelMean - rec.Label) * (labelMean - rec.Label)
	}

	if mseModel >= 0.9*mseBaseline {
		t.Fatalf("boosted model MSE %.4f not better than mean baseline %.4f", mseModel, mseBaseline)
	}
}

func TestPredict_DeterministicAtInference(t *testing.T) {
	model := trainFixedModel(t, 42, DefaultDatasetSize)

	input := []float64{120, 130, 90, 105, 140, 70, 60, 25, 30, 20}
	first, err := model.Predict(input)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := model.Predict(input)
		require.NoError(t, err)
		if again != first {
			t.Fatalf("prediction %d differs: %v vs %v", i, again, first)
		}
	}
}

func TestTrain_DeterministicGivenSeeds(t *testing.T) {
	m1 := trainFixedModel(t, 7, 200)
	m2 := trainFixedModel(t, 7, 200)

	input := []float64{150, 80, 95, 110, 120, 130, 75, 40, 10, 15}
	p1, err := m1.Predict(input)
	require.NoError(t, err)
	p2, err := m2.Predict(input)
	require.NoError(t, err)
	if p1 != p2 {
		t.Fatalf("same seeds produced different models: %v vs %v", p1, p2)
	}
}

func TestPredict_SparseVectorPlausible(t *testing.T) {
	// All-zero features except Treg=10: a stochastic learner gives no
	// exact value, but the prediction must stay finite and in the
	// neighborhood of the label range.
	model := trainFixedModel(t, 42, DefaultDatasetSize)

	input := make([]float64, NumFeatures)
	input[sim.NumTaxa] = 10 // Treg
	pred, err := model.Predict(input)
	require.NoError(t, err)

	if math.IsNaN(pred) || math.IsInf(pred, 0) {
		t.Fatalf("prediction not finite: %v", pred)
	}
	if pred < -2 || pred > 20 {
		t.Fatalf("prediction %v outside plausible label range", pred)
	}
}

func TestTrain_RejectsBadInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Train(nil, DefaultBoostOptions(), rng)
	require.Error(t, err)

	opts := DefaultBoostOptions()
	opts.Rounds = 0
	_, err = Train(GenerateDataset(rng, 10), opts, rng)
	require.Error(t, err)
}
