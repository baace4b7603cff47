package predict

import (
	"math"

	"go.uber.org/zap"

	"github.com/genorisk/genorisk/internal/vcf"
)

// significanceScale maps model probabilities back onto the clinical
// significance ladder used by the annotation sources.
var significanceScale = []struct {
	value float64
	label string
}{
	{0.0, "Benign"},
	{0.25, "Likely_benign"},
	{0.5, "Uncertain_significance"},
	{0.75, "Likely_pathogenic"},
	{1.0, "Pathogenic"},
}

// Prediction is the model outcome for a single variant.
type Prediction struct {
	VariantID   string  `json:"variant_id"`
	Probability float64 `json:"probability"`
	Label       string  `json:"label"`
}

// Scorer runs the pathogenicity model over reference windows.
type Scorer struct {
	genome Genome
	model  Model
	genes  *GeneEncoder
	logger *zap.Logger
}

// NewScorer creates a scorer. The gene encoder may be nil, in which case
// all variants are scored without gene conditioning.
func NewScorer(genome Genome, model Model, genes *GeneEncoder) *Scorer {
	return &Scorer{
		genome: genome,
		model:  model,
		genes:  genes,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger used for per-variant scoring faults.
func (s *Scorer) SetLogger(l *zap.Logger) {
	s.logger = l
}

// ScoreVariant scores one variant against its reference window. A gene
// symbol the encoder does not know falls back to unconditioned scoring.
func (s *Scorer) ScoreVariant(v vcf.Variant, gene string) (Prediction, error) {
	window := s.genome.Window(v.Chrom, int(v.Pos), s.model.InputLength())
	tokens := EncodeDNA(window, s.model.InputLength())

	var geneIdx int
	var hasGene bool
	if s.genes != nil && gene != "" {
		geneIdx, hasGene = s.genes.Encode(gene)
	}

	logit, err := s.model.Score(tokens, geneIdx, hasGene)
	if err != nil {
		return Prediction{}, err
	}

	prob := sigmoid(logit)
	return Prediction{
		VariantID:   v.ID,
		Probability: round4(prob),
		Label:       NearestLabel(prob),
	}, nil
}

// ScoreAll scores every variant, skipping ones that fail and logging the
// fault, so one bad record never sinks the batch.
func (s *Scorer) ScoreAll(variants []vcf.Variant, genes map[string]string) []Prediction {
	preds := make([]Prediction, 0, len(variants))
	for _, v := range variants {
		p, err := s.ScoreVariant(v, genes[v.ID])
		if err != nil {
			s.logger.Warn("variant scoring failed",
				zap.String("variant_id", v.ID), zap.Error(err))
			continue
		}
		preds = append(preds, p)
	}
	return preds
}

// NearestLabel snaps a probability to the closest clinical significance
// label. Ties resolve toward the more benign label.
func NearestLabel(prob float64) string {
	best := significanceScale[0]
	bestDist := math.Abs(prob - best.value)
	for _, step := range significanceScale[1:] {
		if d := math.Abs(prob - step.value); d < bestDist {
			best, bestDist = step, d
		}
	}
	return best.label
}

// Aggregate combines per-variant probabilities into one cohort score,
// weighting each by the supplied weight (typically allele dosage). When
// all weights are zero the unweighted mean is used; an empty cohort
// scores 0.0.
func Aggregate(preds []Prediction, weights []float64) float64 {
	if len(preds) == 0 {
		return 0.0
	}
	var sum, wsum float64
	for i, p := range preds {
		var w float64
		if i < len(weights) {
			w = weights[i]
		}
		sum += p.Probability * w
		wsum += w
	}
	if wsum == 0 {
		sum = 0
		for _, p := range preds {
			sum += p.Probability
		}
		return round4(sum / float64(len(preds)))
	}
	return round4(sum / wsum)
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
