package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Predictor scores a feature vector built by State.FeatureVector.
// Implementations must be deterministic for a fixed input and safe for
// read-only sharing; the engine never mutates the model.
// The concrete implementation lives in sim/ml.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// Engine advances the microbiome/immune state over a fixed number of
// discrete steps, applying scripted interventions, stochastic drift,
// and the bacterial→immune coupling. At each step it records a
// rule-based flare index and a model-predicted flare index.
//
// The per-step RNG draw order is fixed and documented: 7 taxa drift
// draws in declared taxon order, then 1 dysbiosis noise draw, then 6
// per-marker delta draws in declared marker order. Changing this order
// breaks seed reproducibility.
type Engine struct {
	Config    EngineConfig
	Schedule  InterventionSchedule
	State     State
	Predictor Predictor

	rng *rand.Rand
}

// NewEngine draws the initial state from the simulation subsystem of
// rng and prepares a run. The same PartitionedRNG key with the same
// configuration reproduces the run exactly.
func NewEngine(cfg EngineConfig, schedule InterventionSchedule, predictor Predictor, rng *PartitionedRNG) *Engine {
	r := rng.ForSubsystem(SubsystemSimulation)
	return &Engine{
		Config:    cfg,
		Schedule:  schedule,
		State:     NewInitialState(r),
		Predictor: predictor,
		rng:       r,
	}
}

// Run executes the full schedule and returns the per-step histories:
// one chronological series of length TotalSteps per taxon, plus the
// rule-based and model-predicted flare series aligned by step index.
func (e *Engine) Run() (*RunResult, error) {
	if err := e.Config.Validate(); err != nil {
		return nil, err
	}
	if e.Predictor == nil {
		return nil, fmt.Errorf("engine requires a trained predictor")
	}

	res := NewRunResult(e.Config.TotalSteps)
	for t := 0; t < e.Config.TotalSteps; t++ {
		if err := e.step(t, res); err != nil {
			return nil, fmt.Errorf("step %d: %w", t, err)
		}
	}
	logrus.Infof("[step %03d] simulation ended", e.Config.TotalSteps)
	return res, nil
}

// step advances the state by one discrete step and appends to res.
func (e *Engine) step(t int, res *RunResult) error {
	// Scripted interventions fire before the drift update, so an
	// intervened population is re-perturbed within the same step.
	if e.Schedule.Antibiotics && t == e.Config.AntibioticsStep {
		applyAntibiotics(&e.State)
		logrus.Debugf("[step %03d] antibiotics applied", t)
	}
	if e.Schedule.Probiotics && t == e.Config.ProbioticsStep {
		applyProbiotics(&e.State)
		logrus.Debugf("[step %03d] probiotics applied", t)
	}
	if e.Schedule.Diet && t == e.Config.DietStep {
		applyDiet(&e.State)
		logrus.Debugf("[step %03d] diet change applied", t)
	}

	// Population drift: independent uniform perturbation in [-10, 10)
	// per taxon, clamped at zero.
	for tx := Taxon(0); tx < NumTaxa; tx++ {
		delta := e.rng.Intn(20) - 10
		e.State.Populations[tx] = clampNonNegative(e.State.Populations[tx] + delta)
		res.Populations[tx] = append(res.Populations[tx], e.State.Populations[tx])
	}

	// Dysbiosis score couples bacterial imbalance into the immune
	// update. Computed once per step, not stored.
	dysbiosis := 0.01*float64(e.State.Populations[Proteobacteria]) -
		0.005*float64(e.State.Populations[Faecalibacterium]) +
		(e.rng.Float64() - 0.5)

	// Immune update: the same delta formula for every marker, but each
	// marker draws its own uniform term.
	baseDelta := e.State.TotalBacterial() / 1000
	for m := Marker(0); m < NumMarkers; m++ {
		delta := baseDelta + (e.rng.Intn(5) - 2) + int(dysbiosis)
		e.State.Markers[m] = clampNonNegative(e.State.Markers[m] + delta)
	}

	// Rule-based flare index. The max(1, Treg) guard keeps the
	// denominator positive even when Treg has been clamped to zero.
	ruleIndex := float64(e.State.Markers[IL6]+e.State.Markers[TNF]) /
		float64(max(1, e.State.Markers[Treg]))
	res.RuleIndex = append(res.RuleIndex, ruleIndex)

	predicted, err := e.Predictor.Predict(e.State.FeatureVector())
	if err != nil {
		return err
	}
	res.ModelIndex = append(res.ModelIndex, predicted)

	logrus.Debugf("[step %03d] total=%d dysbiosis=%.3f rule=%.3f model=%.3f",
		t, e.State.TotalBacterial(), dysbiosis, ruleIndex, predicted)
	return nil
}
