package predict

import (
	"encoding/json"
	"fmt"
	"os"
)

// baseIndex maps a DNA base to its token index before the padding shift.
// Any base outside ACGT is treated as N.
func baseIndex(b byte) int {
	switch b {
	case 'A', 'a':
		return 0
	case 'C', 'c':
		return 1
	case 'G', 'g':
		return 2
	case 'T', 't':
		return 3
	default:
		return 4
	}
}

// EncodeDNA tokenizes a DNA sequence into model input indices. Bases map
// to ACGTN = 0..4 shifted up by one so that 0 is reserved for padding.
// Sequences longer than length are truncated, shorter ones padded with
// zeros on the right.
func EncodeDNA(seq string, length int) []int {
	tokens := make([]int, length)
	n := len(seq)
	if n > length {
		n = length
	}
	for i := 0; i < n; i++ {
		tokens[i] = baseIndex(seq[i]) + 1
	}
	return tokens
}

// GeneEncoder maps gene symbols to the integer indices the model was
// trained with. Unknown genes report ok=false so callers can score
// without gene conditioning.
type GeneEncoder struct {
	classes map[string]int
}

// LoadGeneEncoder reads a JSON object of {"GENE": index} pairs.
func LoadGeneEncoder(path string) (*GeneEncoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open gene encoder: %w", err)
	}
	var classes map[string]int
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, fmt.Errorf("parse gene encoder: %w", err)
	}
	return &GeneEncoder{classes: classes}, nil
}

// Encode returns the index for a gene symbol.
func (e *GeneEncoder) Encode(gene string) (int, bool) {
	idx, ok := e.classes[gene]
	return idx, ok
}

// ClassCount returns the number of known gene symbols.
func (e *GeneEncoder) ClassCount() int {
	return len(e.classes)
}
