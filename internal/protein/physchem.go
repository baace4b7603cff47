package protein

import "math"

// Deltas holds the physicochemical differences between a mutated sequence and
// its wild type, each value computed as property(mutated) - property(wild).
type Deltas struct {
	MolecularWeight  float64 `json:"molecular_weight_change"`
	Aromaticity      float64 `json:"aromaticity_change"`
	InstabilityIndex float64 `json:"instability_index_change"`
	Gravy            float64 `json:"gravy_change"`
	IsoelectricPoint float64 `json:"isoelectric_point_change"`
}

// ComputeDeltas computes the property deltas between a wild-type and mutated
// sequence. Both inputs must be plain amino-acid strings with no stop marker;
// the pipeline filters premature-stop sequences before calling this.
func ComputeDeltas(wildType, mutated string) Deltas {
	return Deltas{
		MolecularWeight:  round(MolecularWeight(mutated)-MolecularWeight(wildType), 2),
		Aromaticity:      round(Aromaticity(mutated)-Aromaticity(wildType), 4),
		InstabilityIndex: round(InstabilityIndex(mutated)-InstabilityIndex(wildType), 2),
		Gravy:            round(Gravy(mutated)-Gravy(wildType), 4),
		IsoelectricPoint: round(IsoelectricPoint(mutated)-IsoelectricPoint(wildType), 2),
	}
}

func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

const waterMass = 18.0153

// Average masses of the free amino acids; peptide-bond formation releases
// one water per bond.
var residueMass = map[byte]float64{
	'A': 89.0932, 'R': 174.2010, 'N': 132.1179, 'D': 133.1027, 'C': 121.1582,
	'E': 147.1293, 'Q': 146.1445, 'G': 75.0666, 'H': 155.1546, 'I': 131.1729,
	'L': 131.1729, 'K': 146.1876, 'M': 149.2113, 'F': 165.1891, 'P': 115.1305,
	'S': 105.0926, 'T': 119.1192, 'W': 204.2252, 'Y': 181.1885, 'V': 117.1463,
}

// MolecularWeight returns the average molecular weight of the sequence.
// Unrecognized residues contribute nothing.
func MolecularWeight(seq string) float64 {
	if seq == "" {
		return 0
	}
	total := 0.0
	counted := 0
	for i := 0; i < len(seq); i++ {
		if m, ok := residueMass[seq[i]]; ok {
			total += m
			counted++
		}
	}
	if counted == 0 {
		return 0
	}
	return total - float64(counted-1)*waterMass
}

// Aromaticity returns the relative frequency of Phe, Trp and Tyr.
func Aromaticity(seq string) float64 {
	if seq == "" {
		return 0
	}
	n := 0
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'F', 'W', 'Y':
			n++
		}
	}
	return float64(n) / float64(len(seq))
}

// Kyte-Doolittle hydropathy values.
var hydropathy = map[byte]float64{
	'A': 1.8, 'R': -4.5, 'N': -3.5, 'D': -3.5, 'C': 2.5,
	'E': -3.5, 'Q': -3.5, 'G': -0.4, 'H': -3.2, 'I': 4.5,
	'L': 3.8, 'K': -3.9, 'M': 1.9, 'F': 2.8, 'P': -1.6,
	'S': -0.8, 'T': -0.7, 'W': -0.9, 'Y': -1.3, 'V': 4.2,
}

// Gravy returns the grand average of hydropathy over the sequence.
func Gravy(seq string) float64 {
	if seq == "" {
		return 0
	}
	total := 0.0
	for i := 0; i < len(seq); i++ {
		total += hydropathy[seq[i]]
	}
	return total / float64(len(seq))
}

// InstabilityIndex implements the Guruprasad et al. (1990) dipeptide method:
// 10/L times the sum of the dipeptide instability weights.
func InstabilityIndex(seq string) float64 {
	if len(seq) < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i+1 < len(seq); i++ {
		if row, ok := diwv[seq[i]]; ok {
			total += row[seq[i+1]]
		}
	}
	return total * 10.0 / float64(len(seq))
}

// pK values for the charged groups (Bjellqvist).
var (
	positivePK = map[byte]float64{'K': 10.0, 'R': 12.0, 'H': 5.98}
	negativePK = map[byte]float64{'D': 4.05, 'E': 4.45, 'C': 9.0, 'Y': 10.0}

	ntermPK = 7.5
	ctermPK = 3.55
)

// IsoelectricPoint estimates the pH at which the sequence carries no net
// charge, by bisection over [0, 14].
func IsoelectricPoint(seq string) float64 {
	if seq == "" {
		return 0
	}

	counts := make(map[byte]int)
	for i := 0; i < len(seq); i++ {
		counts[seq[i]]++
	}

	lo, hi := 0.0, 14.0
	pH := 7.0
	for hi-lo > 0.0001 {
		pH = (lo + hi) / 2
		if chargeAtPH(counts, pH) > 0 {
			lo = pH
		} else {
			hi = pH
		}
	}
	return pH
}

func chargeAtPH(counts map[byte]int, pH float64) float64 {
	charge := positiveCharge(ntermPK, pH)
	for aa, pk := range positivePK {
		charge += float64(counts[aa]) * positiveCharge(pk, pH)
	}
	charge -= negativeCharge(ctermPK, pH)
	for aa, pk := range negativePK {
		charge -= float64(counts[aa]) * negativeCharge(pk, pH)
	}
	return charge
}

func positiveCharge(pk, pH float64) float64 {
	ratio := math.Pow(10, pH-pk)
	return 1.0 / (1.0 + ratio)
}

func negativeCharge(pk, pH float64) float64 {
	ratio := math.Pow(10, pk-pH)
	return 1.0 / (1.0 + ratio)
}
