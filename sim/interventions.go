package sim

// InterventionSchedule enables the scripted one-shot perturbations.
// Flags are fixed before a run starts and never change mid-run; each
// enabled intervention fires exactly once, at its configured step.
type InterventionSchedule struct {
	Antibiotics bool
	Probiotics  bool
	Diet        bool
}

// Any reports whether at least one intervention is enabled.
func (s InterventionSchedule) Any() bool {
	return s.Antibiotics || s.Probiotics || s.Diet
}

// applyAntibiotics halves every taxon population, truncating toward
// zero. Fires before the same step's drift, so the halved populations
// still receive that step's random perturbation.
func applyAntibiotics(s *State) {
	for t := Taxon(0); t < NumTaxa; t++ {
		s.Populations[t] /= 2
	}
}

// applyProbiotics boosts the two supplemented taxa.
func applyProbiotics(s *State) {
	s.Populations[Lactobacillus] += 50
	s.Populations[Faecalibacterium] += 30
}

// applyDiet shifts the regulatory/inflammatory balance: Treg up,
// IL6 and TNF down with a floor at zero.
func applyDiet(s *State) {
	s.Markers[Treg] += 10
	s.Markers[IL6] = clampNonNegative(s.Markers[IL6] - 5)
	s.Markers[TNF] = clampNonNegative(s.Markers[TNF] - 5)
}
