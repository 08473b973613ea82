package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FlareThreshold is the reference level above which a flare index is
// considered elevated. Consumed by the presentation layer as a guide
// line; the engine never branches on it.
const FlareThreshold = 5.0

// EngineConfig groups the fixed schedule parameters of a run: the total
// number of discrete steps and the trigger step for each scripted
// intervention. These are configuration constants, not per-run caller
// inputs; callers toggle interventions through InterventionSchedule.
type EngineConfig struct {
	TotalSteps      int `yaml:"total_steps"`      // number of discrete steps per run
	AntibioticsStep int `yaml:"antibiotics_step"` // step at which antibiotics halve every population
	ProbioticsStep  int `yaml:"probiotics_step"`  // step at which probiotics boost two taxa
	DietStep        int `yaml:"diet_step"`        // step at which the diet change shifts three markers
}

// DefaultEngineConfig returns the standard 100-step schedule.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TotalSteps:      100,
		AntibioticsStep: 20,
		ProbioticsStep:  50,
		DietStep:        70,
	}
}

// Validate checks structural invariants of the configuration.
// Trigger steps outside [0, TotalSteps) are allowed; the intervention
// simply never fires.
func (c EngineConfig) Validate() error {
	if c.TotalSteps <= 0 {
		return fmt.Errorf("total_steps must be positive, got %d", c.TotalSteps)
	}
	if c.AntibioticsStep < 0 || c.ProbioticsStep < 0 || c.DietStep < 0 {
		return fmt.Errorf("intervention trigger steps must be non-negative")
	}
	return nil
}

// LoadEngineConfig reads and parses a YAML engine configuration file.
// Unset fields keep their defaults; unknown fields are rejected.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read engine config %s: %w", path, err)
	}

	cfg := DefaultEngineConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse engine config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config %s: %w", path, err)
	}
	return &cfg, nil
}
