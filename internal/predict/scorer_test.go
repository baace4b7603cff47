package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genorisk/genorisk/internal/vcf"
)

func TestEncodeDNA(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		len  int
		want []int
	}{
		{"bases", "ACGTN", 5, []int{1, 2, 3, 4, 5}},
		{"lowercase", "acgt", 4, []int{1, 2, 3, 4}},
		{"ambiguous maps to N", "ARGT", 4, []int{1, 5, 3, 4}},
		{"right padded with zero", "AC", 4, []int{1, 2, 0, 0}},
		{"truncated", "ACGTACGT", 4, []int{1, 2, 3, 4}},
		{"empty", "", 3, []int{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeDNA(tt.seq, tt.len))
		})
	}
}

func TestNearestLabel(t *testing.T) {
	tests := []struct {
		prob float64
		want string
	}{
		{0.0, "Benign"},
		{0.1, "Benign"},
		{0.2, "Likely_benign"},
		{0.5, "Uncertain_significance"},
		{0.6, "Uncertain_significance"},
		{0.7, "Likely_pathogenic"},
		{0.95, "Pathogenic"},
		{1.0, "Pathogenic"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NearestLabel(tt.prob), "prob %v", tt.prob)
	}
}

// tinyModel returns a 4-position weight model that favors G-rich windows.
func tinyModel() *WeightModel {
	pos := make([][]float64, 4)
	for i := range pos {
		pos[i] = []float64{0, -0.5, -0.5, 2.0, -0.5, 0}
	}
	return &WeightModel{
		Bias:        -1.0,
		Positional:  pos,
		GeneWeights: []float64{0.0, 3.0},
	}
}

func TestWeightModelScore(t *testing.T) {
	m := tinyModel()
	require.Equal(t, 4, m.InputLength())

	// GGGG: -1 + 4*2 = 7
	logit, err := m.Score([]int{3, 3, 3, 3}, 0, false)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, logit, 1e-9)

	// Gene conditioning adds the per-gene term.
	logit, err = m.Score([]int{3, 3, 3, 3}, 1, true)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, logit, 1e-9)

	// Wrong input length is rejected.
	_, err = m.Score([]int{3, 3}, 0, false)
	assert.Error(t, err)

	// Out-of-range gene index is rejected.
	_, err = m.Score([]int{3, 3, 3, 3}, 5, true)
	assert.Error(t, err)
}

type fixedGenome struct {
	seq string
}

func (g fixedGenome) Window(chrom string, pos, size int) string {
	return g.seq
}

func TestScoreVariant(t *testing.T) {
	s := NewScorer(fixedGenome{seq: "GGGG"}, tinyModel(), nil)

	p, err := s.ScoreVariant(vcf.Variant{ID: "rs1", Chrom: "1", Pos: 100}, "")
	require.NoError(t, err)
	assert.Equal(t, "rs1", p.VariantID)
	assert.Greater(t, p.Probability, 0.99)
	assert.Equal(t, "Pathogenic", p.Label)
}

func TestScoreVariantUnknownGeneFallsBack(t *testing.T) {
	genes := &GeneEncoder{classes: map[string]int{"BRCA1": 1}}
	s := NewScorer(fixedGenome{seq: "AAAA"}, tinyModel(), genes)

	with, err := s.ScoreVariant(vcf.Variant{ID: "rs1", Chrom: "1", Pos: 1}, "BRCA1")
	require.NoError(t, err)
	without, err := s.ScoreVariant(vcf.Variant{ID: "rs1", Chrom: "1", Pos: 1}, "UNKNOWN")
	require.NoError(t, err)

	// AAAA: -1 + 4*(-0.5) = -3, plus gene weight 3 when conditioned.
	assert.Greater(t, with.Probability, without.Probability)
	assert.Equal(t, round4(sigmoid(-3.0)), without.Probability)
}

func TestAggregate(t *testing.T) {
	preds := []Prediction{
		{VariantID: "a", Probability: 0.8},
		{VariantID: "b", Probability: 0.2},
	}

	t.Run("dosage weighted", func(t *testing.T) {
		// (0.8*2 + 0.2*1) / 3 = 0.6
		assert.InDelta(t, 0.6, Aggregate(preds, []float64{2, 1}), 1e-9)
	})

	t.Run("zero weights fall back to mean", func(t *testing.T) {
		assert.InDelta(t, 0.5, Aggregate(preds, []float64{0, 0}), 1e-9)
	})

	t.Run("empty cohort", func(t *testing.T) {
		assert.Equal(t, 0.0, Aggregate(nil, nil))
	})
}

func TestScoreAllIsolatesFailures(t *testing.T) {
	// Model expects 4 tokens but the scorer always supplies the model's
	// own input length, so force a failure through the gene path.
	genes := &GeneEncoder{classes: map[string]int{"FAR": 99}}
	s := NewScorer(fixedGenome{seq: "GGGG"}, tinyModel(), genes)

	preds := s.ScoreAll(
		[]vcf.Variant{{ID: "ok", Chrom: "1", Pos: 1}, {ID: "bad", Chrom: "1", Pos: 2}},
		map[string]string{"bad": "FAR"},
	)
	require.Len(t, preds, 1)
	assert.Equal(t, "ok", preds[0].VariantID)
}
