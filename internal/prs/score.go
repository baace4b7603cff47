package prs

import (
	"math"

	"go.uber.org/zap"

	"github.com/genorisk/genorisk/internal/ident"
	"github.com/genorisk/genorisk/internal/vcf"
)

// MatchPolicy controls when a panel entry counts toward the matched total.
type MatchPolicy int

const (
	// CountOnGenotype counts every panel entry whose variant has a
	// resolvable genotype, even at dosage zero (homozygous reference is a
	// legitimate observation). This is the default.
	CountOnGenotype MatchPolicy = iota
	// CountOnDosage counts only entries contributing a positive dosage.
	CountOnDosage
)

// Scorer aggregates per-variant effect weights into a cohort score.
type Scorer struct {
	panel  []Entry
	policy MatchPolicy
	logger *zap.Logger
}

// NewScorer creates a scorer over the given reference panel.
func NewScorer(panel []Entry) *Scorer {
	return &Scorer{panel: panel, policy: CountOnGenotype, logger: zap.NewNop()}
}

// SetMatchPolicy overrides the default matched-count policy.
func (s *Scorer) SetMatchPolicy(p MatchPolicy) {
	s.policy = p
}

// SetLogger sets the logger for unmatched-entry messages.
func (s *Scorer) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Compute walks the reference panel and accumulates dosage-weighted effect
// weights over the observed variants. Panel entries with no matching variant
// or no genotype are skipped. The result is deterministic for identical
// inputs and independent of variant or panel ordering.
func (s *Scorer) Compute(variants []*vcf.Variant) (score float64, matched int) {
	// Index observed variants by rs-normalized identifier; take-first on
	// duplicate ids mirrors the reference table convention.
	byID := make(map[string]*vcf.Variant, len(variants))
	for _, v := range variants {
		key := ident.NormalizeRs(v.ID)
		if _, ok := byID[key]; !ok {
			byID[key] = v
		}
	}

	for _, e := range s.panel {
		v, ok := byID[ident.NormalizeRs(e.RsID)]
		if !ok {
			s.logger.Debug("prs panel entry unmatched", zap.String("rsid", e.RsID))
			continue
		}
		if !v.HasGenotype() {
			s.logger.Debug("prs panel entry without genotype", zap.String("rsid", e.RsID))
			continue
		}

		dosage := Dosage(v, e.EffectAllele)
		score += float64(dosage) * e.EffectWeight

		if s.policy == CountOnGenotype || dosage > 0 {
			matched++
		}
	}

	return round4(score), matched
}

// Dosage counts occurrences of the effect allele within the diploid genotype.
func Dosage(v *vcf.Variant, effectAllele string) int {
	n := 0
	for _, allele := range v.Alleles() {
		if allele == effectAllele {
			n++
		}
	}
	return n
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
