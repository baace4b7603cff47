// Package protein projects HGVS protein changes onto amino-acid sequences
// and computes physicochemical properties of the results.
package protein

// Stop is the premature-termination marker used in mutated sequences.
const Stop = '*'

// ThreeToOne converts a three-letter amino acid code to its single-letter code.
var ThreeToOne = map[string]byte{
	"Ala": 'A', "Arg": 'R', "Asn": 'N', "Asp": 'D', "Cys": 'C',
	"Glu": 'E', "Gln": 'Q', "Gly": 'G', "His": 'H', "Ile": 'I',
	"Leu": 'L', "Lys": 'K', "Met": 'M', "Phe": 'F', "Pro": 'P',
	"Ser": 'S', "Thr": 'T', "Trp": 'W', "Tyr": 'Y', "Val": 'V',
	"Ter": Stop,
}

// OneToThree converts a single-letter amino acid code to its three-letter code.
var OneToThree = map[byte]string{
	'A': "Ala", 'R': "Arg", 'N': "Asn", 'D': "Asp", 'C': "Cys",
	'E': "Glu", 'Q': "Gln", 'G': "Gly", 'H': "His", 'I': "Ile",
	'L': "Leu", 'K': "Lys", 'M': "Met", 'F': "Phe", 'P': "Pro",
	'S': "Ser", 'T': "Thr", 'W': "Trp", 'Y': "Tyr", 'V': "Val",
	Stop: "Ter",
}

// IsResidue reports whether b is one of the twenty standard amino acids.
func IsResidue(b byte) bool {
	_, ok := hydropathy[b]
	return ok
}
