package sim

// Taxon indexes one of the tracked bacterial population categories.
// The declared order is the canonical iteration and serialization order
// for every per-taxon loop in the engine; seeded runs depend on it.
type Taxon int

const (
	Bacteroides Taxon = iota
	Firmicutes
	Lactobacillus
	Bifidobacterium
	Faecalibacterium
	Proteobacteria
	Akkermansia

	// NumTaxa is the number of tracked taxa.
	NumTaxa
)

var taxonNames = [NumTaxa]string{
	"Bacteroides",
	"Firmicutes",
	"Lactobacillus",
	"Bifidobacterium",
	"Faecalibacterium",
	"Proteobacteria",
	"Akkermansia",
}

// String returns the canonical taxon name used in external tables.
func (t Taxon) String() string {
	if t < 0 || t >= NumTaxa {
		return "unknown"
	}
	return taxonNames[t]
}

// TaxonNames returns all taxon names in declared order.
func TaxonNames() []string {
	names := make([]string, NumTaxa)
	for t := Taxon(0); t < NumTaxa; t++ {
		names[t] = taxonNames[t]
	}
	return names
}

// Marker indexes one of the tracked immune-system quantities:
// regulatory/effector cell types, antigen-presenting cell types,
// and pro-inflammatory cytokines. Declared order is canonical,
// same as for Taxon.
type Marker int

const (
	Treg Marker = iota
	Th17
	Dendritic
	Macrophage
	IL6
	TNF

	// NumMarkers is the number of tracked immune markers.
	NumMarkers
)

var markerNames = [NumMarkers]string{
	"Treg",
	"Th17",
	"Dendritic",
	"Macrophage",
	"IL6",
	"TNF",
}

// String returns the canonical marker name used in external tables.
func (m Marker) String() string {
	if m < 0 || m >= NumMarkers {
		return "unknown"
	}
	return markerNames[m]
}

// MarkerNames returns all marker names in declared order.
func MarkerNames() []string {
	names := make([]string, NumMarkers)
	for m := Marker(0); m < NumMarkers; m++ {
		names[m] = markerNames[m]
	}
	return names
}
