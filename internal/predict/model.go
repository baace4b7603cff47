package predict

import (
	"encoding/json"
	"fmt"
	"os"
)

const vocabSize = 6 // padding + ACGTN

// Model scores an encoded sequence window, optionally conditioned on a
// gene index, and returns a raw logit.
type Model interface {
	Score(tokens []int, geneIdx int, hasGene bool) (float64, error)
	InputLength() int
}

// WeightModel is a linear positional-weight scorer loaded from a JSON
// artifact exported at training time. The logit is the bias plus one
// weight per sequence position and token, plus an optional per-gene term.
type WeightModel struct {
	Bias        float64     `json:"bias"`
	Positional  [][]float64 `json:"positional"` // [seq_len][vocab]
	GeneWeights []float64   `json:"gene_weights"`
}

// LoadWeightModel reads and validates a model artifact.
func LoadWeightModel(path string) (*WeightModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	var m WeightModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if len(m.Positional) == 0 {
		return nil, fmt.Errorf("model artifact %s: no positional weights", path)
	}
	for i, row := range m.Positional {
		if len(row) != vocabSize {
			return nil, fmt.Errorf("model artifact %s: position %d has %d weights, want %d",
				path, i, len(row), vocabSize)
		}
	}
	return &m, nil
}

// InputLength returns the sequence length the model expects.
func (m *WeightModel) InputLength() int {
	return len(m.Positional)
}

// Score computes the logit for an encoded window. The token slice must
// match the model's input length exactly.
func (m *WeightModel) Score(tokens []int, geneIdx int, hasGene bool) (float64, error) {
	if len(tokens) != len(m.Positional) {
		return 0, fmt.Errorf("score: got %d tokens, model expects %d", len(tokens), len(m.Positional))
	}
	logit := m.Bias
	for i, tok := range tokens {
		if tok < 0 || tok >= vocabSize {
			return 0, fmt.Errorf("score: token %d at position %d out of range", tok, i)
		}
		logit += m.Positional[i][tok]
	}
	if hasGene {
		if geneIdx < 0 || geneIdx >= len(m.GeneWeights) {
			return 0, fmt.Errorf("score: gene index %d out of range", geneIdx)
		}
		logit += m.GeneWeights[geneIdx]
	}
	return logit, nil
}
