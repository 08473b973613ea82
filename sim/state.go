package sim

import "math/rand"

// Initial draw ranges for populations and markers.
const (
	initPopulationMin = 50
	initPopulationMax = 200
	initMarkerMin     = 5
	initMarkerMax     = 30
)

// State holds the full simulation state at one step: every taxon
// population and every immune marker count. Enum-indexed arrays rather
// than name-keyed maps, so a missing key cannot exist and iteration
// order is the declared enum order. All counts are clamped ≥ 0 after
// every update.
type State struct {
	Populations [NumTaxa]int
	Markers     [NumMarkers]int
}

// NewInitialState draws a starting state: each taxon population uniform
// in [50, 200), each marker uniform in [5, 30). Draw order is taxa in
// declared order, then markers in declared order.
func NewInitialState(rng *rand.Rand) State {
	var s State
	for t := Taxon(0); t < NumTaxa; t++ {
		s.Populations[t] = initPopulationMin + rng.Intn(initPopulationMax-initPopulationMin)
	}
	for m := Marker(0); m < NumMarkers; m++ {
		s.Markers[m] = initMarkerMin + rng.Intn(initMarkerMax-initMarkerMin)
	}
	return s
}

// TotalBacterial returns the sum of all taxon populations.
func (s *State) TotalBacterial() int {
	total := 0
	for t := Taxon(0); t < NumTaxa; t++ {
		total += s.Populations[t]
	}
	return total
}

// FeatureVector builds the 10-dimensional model input from the current
// state: the 7 taxon populations in declared species order followed by
// Treg, IL6, TNF. Must stay aligned with ml.FeatureNames.
func (s *State) FeatureVector() []float64 {
	features := make([]float64, 0, NumTaxa+3)
	for t := Taxon(0); t < NumTaxa; t++ {
		features = append(features, float64(s.Populations[t]))
	}
	features = append(features,
		float64(s.Markers[Treg]),
		float64(s.Markers[IL6]),
		float64(s.Markers[TNF]))
	return features
}

// clampNonNegative floors a count at zero.
func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
