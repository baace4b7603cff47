package prs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/genorisk/genorisk/internal/vcf"
)

func TestComputeHomozygousEffectAllele(t *testing.T) {
	variants := []*vcf.Variant{
		{ID: "rs1001", Genotype: "A/A"},
	}
	// Panel id without the rs prefix still matches the prefixed variant id.
	s := NewScorer([]Entry{{RsID: "1001", EffectAllele: "A", EffectWeight: 0.8}})

	score, matched := s.Compute(variants)
	assert.Equal(t, 1.6, score)
	assert.Equal(t, 1, matched)
}

func TestComputeDosages(t *testing.T) {
	tests := []struct {
		name     string
		genotype string
		want     float64
	}{
		{"homozygous_effect", "G/G", 1.0},
		{"heterozygous", "A/G", 0.5},
		{"homozygous_reference", "A/A", 0.0},
		{"phased_separator", "G|G", 1.0},
	}

	panel := []Entry{{RsID: "rs7", EffectAllele: "G", EffectWeight: 0.5}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScorer(panel)
			score, matched := s.Compute([]*vcf.Variant{{ID: "rs7", Genotype: tt.genotype}})
			assert.Equal(t, tt.want, score)
			assert.Equal(t, 1, matched, "a resolvable genotype always counts as matched")
		})
	}
}

func TestComputeSkipsUnmatchedAndNoGenotype(t *testing.T) {
	variants := []*vcf.Variant{
		{ID: "rs1", Genotype: "T/T"},
		{ID: "rs2", Genotype: vcf.GenotypeNA},
	}
	s := NewScorer([]Entry{
		{RsID: "rs1", EffectAllele: "T", EffectWeight: 0.25},
		{RsID: "rs2", EffectAllele: "C", EffectWeight: 9.0}, // no genotype, skipped
		{RsID: "rs3", EffectAllele: "A", EffectWeight: 9.0}, // no variant, skipped
	})

	score, matched := s.Compute(variants)
	assert.Equal(t, 0.5, score)
	assert.Equal(t, 1, matched)
}

func TestComputeEmptyVariants(t *testing.T) {
	s := NewScorer([]Entry{{RsID: "rs1", EffectAllele: "A", EffectWeight: 1.0}})
	score, matched := s.Compute(nil)
	assert.Equal(t, 0.0, score)
	assert.Equal(t, 0, matched)
}

func TestComputeOrderIndependent(t *testing.T) {
	variants := []*vcf.Variant{
		{ID: "rs1", Genotype: "A/G"},
		{ID: "rs2", Genotype: "C/C"},
		{ID: "rs3", Genotype: "T/A"},
		{ID: "rs4", Genotype: vcf.GenotypeNA},
	}
	panel := []Entry{
		{RsID: "rs1", EffectAllele: "G", EffectWeight: 0.3},
		{RsID: "rs2", EffectAllele: "C", EffectWeight: -0.7},
		{RsID: "rs3", EffectAllele: "T", EffectWeight: 1.1},
		{RsID: "rs4", EffectAllele: "A", EffectWeight: 0.9},
	}

	wantScore, wantMatched := NewScorer(panel).Compute(variants)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffledVariants := append([]*vcf.Variant(nil), variants...)
		shuffledPanel := append([]Entry(nil), panel...)
		rng.Shuffle(len(shuffledVariants), func(a, b int) {
			shuffledVariants[a], shuffledVariants[b] = shuffledVariants[b], shuffledVariants[a]
		})
		rng.Shuffle(len(shuffledPanel), func(a, b int) {
			shuffledPanel[a], shuffledPanel[b] = shuffledPanel[b], shuffledPanel[a]
		})

		score, matched := NewScorer(shuffledPanel).Compute(shuffledVariants)
		assert.Equal(t, wantScore, score)
		assert.Equal(t, wantMatched, matched)
	}
}

func TestComputeCountOnDosagePolicy(t *testing.T) {
	variants := []*vcf.Variant{
		{ID: "rs1", Genotype: "A/A"}, // dosage 0 for effect allele G
	}
	s := NewScorer([]Entry{{RsID: "rs1", EffectAllele: "G", EffectWeight: 0.5}})
	s.SetMatchPolicy(CountOnDosage)

	score, matched := s.Compute(variants)
	assert.Equal(t, 0.0, score)
	assert.Equal(t, 0, matched)
}

func TestClassifyRisk(t *testing.T) {
	th := DefaultThresholds

	tests := []struct {
		score float64
		want  string
	}{
		{-2.0, RiskLow},
		{-1.0, RiskMedium}, // boundary falls into the higher tier
		{-0.5, RiskMedium},
		{0.0, RiskHigh},
		{0.5, RiskHigh},
		{1.0, RiskExtreme},
		{3.0, RiskExtreme},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRisk(tt.score, th), "score %v", tt.score)
	}
}

func TestThresholdSetForSex(t *testing.T) {
	ts := NewThresholdSet()
	ts.BySex = map[string]Thresholds{
		"female": {-0.8, 0.2, 1.2},
	}

	assert.Equal(t, Thresholds{-0.8, 0.2, 1.2}, ts.ForSex("female"))
	assert.Equal(t, DefaultThresholds, ts.ForSex("male"))
	assert.Equal(t, DefaultThresholds, ts.ForSex(""))
}
