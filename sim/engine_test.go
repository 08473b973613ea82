package sim

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constPredictor stands in for the trained model in engine tests.
type constPredictor struct {
	value float64
}

func (p constPredictor) Predict(features []float64) (float64, error) {
	return p.value, nil
}

type failingPredictor struct{}

func (failingPredictor) Predict(features []float64) (float64, error) {
	return 0, errors.New("boom")
}

func newTestEngine(seed int64, schedule InterventionSchedule, cfg EngineConfig) *Engine {
	rng := NewPartitionedRNG(NewSimulationKey(seed))
	return NewEngine(cfg, schedule, constPredictor{value: 1.5}, rng)
}

func allSchedules() []InterventionSchedule {
	var schedules []InterventionSchedule
	for i := 0; i < 8; i++ {
		schedules = append(schedules, InterventionSchedule{
			Antibiotics: i&1 != 0,
			Probiotics:  i&2 != 0,
			Diet:        i&4 != 0,
		})
	}
	return schedules
}

func TestEngineRun_SeriesLengthsAndBounds(t *testing.T) {
	cfg := DefaultEngineConfig()
	for _, schedule := range allSchedules() {
		t.Run(fmt.Sprintf("%+v", schedule), func(t *testing.T) {
			res, err := newTestEngine(42, schedule, cfg).Run()
			require.NoError(t, err)

			assert.Len(t, res.RuleIndex, cfg.TotalSteps)
			assert.Len(t, res.ModelIndex, cfg.TotalSteps)
			for tx := Taxon(0); tx < NumTaxa; tx++ {
				require.Len(t, res.Populations[tx], cfg.TotalSteps)
				for i, v := range res.Populations[tx] {
					if v < 0 {
						t.Fatalf("%s negative at step %d: %d", tx, i, v)
					}
				}
			}
			for i, v := range res.RuleIndex {
				if v < 0 {
					t.Fatalf("rule index negative at step %d: %v", i, v)
				}
			}
		})
	}
}

func TestEngineRun_Reproducible(t *testing.T) {
	cfg := DefaultEngineConfig()
	schedule := InterventionSchedule{Antibiotics: true, Diet: true}

	res1, err := newTestEngine(1234, schedule, cfg).Run()
	require.NoError(t, err)
	res2, err := newTestEngine(1234, schedule, cfg).Run()
	require.NoError(t, err)

	assert.Equal(t, res1, res2)
}

func TestEngineRun_AntibioticsRoughlyHalvesPopulations(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.TotalSteps = 25

	sumAt := func(res *RunResult, step int) int {
		total := 0
		for tx := Taxon(0); tx < NumTaxa; tx++ {
			total += res.Populations[tx][step]
		}
		return total
	}

	// Stochastic property: averaged over seeds, the population total
	// right after the antibiotics step is about half the total at the
	// previous step.
	var ratioSum float64
	const seeds = 50
	for seed := int64(1); seed <= seeds; seed++ {
		res, err := newTestEngine(seed, InterventionSchedule{Antibiotics: true}, cfg).Run()
		require.NoError(t, err)
		before := sumAt(res, cfg.AntibioticsStep-1)
		after := sumAt(res, cfg.AntibioticsStep)
		require.Greater(t, before, 0)
		ratioSum += float64(after) / float64(before)
	}
	ratio := ratioSum / seeds
	assert.InDelta(t, 0.5, ratio, 0.08, "mean post/pre antibiotics ratio")
}

func TestEngineRun_ProbioticsBoostLowerBound(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.TotalSteps = 55

	for seed := int64(1); seed <= 20; seed++ {
		res, err := newTestEngine(seed, InterventionSchedule{Probiotics: true}, cfg).Run()
		require.NoError(t, err)

		step := cfg.ProbioticsStep
		lactoBefore := res.Populations[Lactobacillus][step-1]
		faecalBefore := res.Populations[Faecalibacterium][step-1]
		// Worst case the same step's drift takes back 10.
		assert.GreaterOrEqual(t, res.Populations[Lactobacillus][step], lactoBefore+50-10,
			"seed %d: Lactobacillus boost", seed)
		assert.GreaterOrEqual(t, res.Populations[Faecalibacterium][step], faecalBefore+30-10,
			"seed %d: Faecalibacterium boost", seed)
	}
}

func TestEngineRun_PureDriftBound(t *testing.T) {
	// With every intervention disabled, a population can grow by at
	// most 10 per elapsed step and never goes negative.
	cfg := DefaultEngineConfig()
	engine := newTestEngine(987, InterventionSchedule{}, cfg)
	initial := engine.State

	res, err := engine.Run()
	require.NoError(t, err)

	for tx := Taxon(0); tx < NumTaxa; tx++ {
		for i, v := range res.Populations[tx] {
			upper := initial.Populations[tx] + 10*(i+1)
			if v > upper {
				t.Fatalf("%s at step %d: %d exceeds drift bound %d", tx, i, v, upper)
			}
			if v < 0 {
				t.Fatalf("%s at step %d: negative population %d", tx, i, v)
			}
		}
	}
}

func TestEngineRun_PredictorErrorAborts(t *testing.T) {
	cfg := DefaultEngineConfig()
	rng := NewPartitionedRNG(NewSimulationKey(42))
	engine := NewEngine(cfg, InterventionSchedule{}, failingPredictor{}, rng)

	_, err := engine.Run()
	assert.Error(t, err)
}

func TestEngineRun_RequiresPredictor(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	engine := NewEngine(DefaultEngineConfig(), InterventionSchedule{}, nil, rng)

	_, err := engine.Run()
	assert.Error(t, err)
}

func TestEngineRun_InvalidConfigRejected(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.TotalSteps = 0
	_, err := newTestEngine(42, InterventionSchedule{}, cfg).Run()
	assert.Error(t, err)
}
