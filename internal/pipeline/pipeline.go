package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/genorisk/genorisk/internal/annotate"
	"github.com/genorisk/genorisk/internal/clinvar"
	"github.com/genorisk/genorisk/internal/predict"
	"github.com/genorisk/genorisk/internal/protein"
	"github.com/genorisk/genorisk/internal/prs"
	"github.com/genorisk/genorisk/internal/regulome"
	"github.com/genorisk/genorisk/internal/task"
	"github.com/genorisk/genorisk/internal/uniprot"
	"github.com/genorisk/genorisk/internal/vcf"
)

// Progress checkpoints reported after each stage.
const (
	progressParsed     = 10
	progressClinical   = 20
	progressRegulatory = 30
	progressFeatures   = 50
	progressPRS        = 60
	progressModel      = 80
)

// ClinicalResolver annotates a variant identifier with clinical data.
type ClinicalResolver interface {
	Resolve(identifier string) *clinvar.Annotation
}

// RegulatoryResolver looks up a regulatory score for a position or rsID.
type RegulatoryResolver interface {
	Resolve(q regulome.Query) regulome.Result
}

// Tracker receives lifecycle updates as a run progresses. Pipeline calls
// are safe with the no-op tracker returned by NopTracker.
type Tracker interface {
	SetStatus(status task.Status)
	SetProgress(progress int)
}

type nopTracker struct{}

func (nopTracker) SetStatus(task.Status) {}
func (nopTracker) SetProgress(int)       {}

// NopTracker returns a tracker that discards all updates.
func NopTracker() Tracker {
	return nopTracker{}
}

// Pipeline runs the analysis stages over a variant set. Every stage
// component is optional; a missing component leaves its stage in the
// not-attempted state rather than failing the run.
type Pipeline struct {
	annotator  annotate.Annotator
	sequences  uniprot.SequenceSource
	clinical   ClinicalResolver
	regulatory RegulatoryResolver
	prsScorer  *prs.Scorer
	thresholds prs.ThresholdSet
	sex        string
	predictor  *predict.Scorer
	workers    int
	logger     *zap.Logger
}

// New creates a pipeline with no stage components configured.
func New() *Pipeline {
	return &Pipeline{
		thresholds: prs.NewThresholdSet(),
		logger:     zap.NewNop(),
	}
}

// SetAnnotator configures the external protein consequence annotator.
func (p *Pipeline) SetAnnotator(a annotate.Annotator) { p.annotator = a }

// SetSequenceSource configures the protein sequence repository.
func (p *Pipeline) SetSequenceSource(s uniprot.SequenceSource) { p.sequences = s }

// SetClinicalResolver configures the clinical annotation source.
func (p *Pipeline) SetClinicalResolver(r ClinicalResolver) { p.clinical = r }

// SetRegulatoryResolver configures the regulatory score source.
func (p *Pipeline) SetRegulatoryResolver(r RegulatoryResolver) { p.regulatory = r }

// SetPRS configures polygenic risk scoring with its risk thresholds.
func (p *Pipeline) SetPRS(s *prs.Scorer, t prs.ThresholdSet) {
	p.prsScorer = s
	p.thresholds = t
}

// SetSex selects the sex-specific risk thresholds when the set has them.
func (p *Pipeline) SetSex(sex string) { p.sex = sex }

// SetPredictor configures the pathogenicity model scorer.
func (p *Pipeline) SetPredictor(s *predict.Scorer) { p.predictor = s }

// SetWorkers bounds the sequence-resolution worker pool.
func (p *Pipeline) SetWorkers(n int) { p.workers = n }

// SetLogger sets the logger for stage progress and per-variant faults.
func (p *Pipeline) SetLogger(l *zap.Logger) { p.logger = l }

// RunFile analyzes the variants in a VCF file. The tracker may be nil.
func (p *Pipeline) RunFile(ctx context.Context, vcfPath string, tr Tracker) (*Result, error) {
	if tr == nil {
		tr = NopTracker()
	}
	tr.SetStatus(task.StatusParsing)

	parser, err := vcf.NewParser(vcfPath)
	if err != nil {
		return nil, fmt.Errorf("open vcf: %w", err)
	}
	variants, err := parser.ReadAll()
	parser.Close()
	if err != nil {
		return nil, fmt.Errorf("parse vcf: %w", err)
	}
	p.logger.Info("parsed variants", zap.Int("count", len(variants)))

	impacts, err := p.buildImpacts(ctx, vcfPath, variants)
	if err != nil {
		return nil, fmt.Errorf("annotate variants: %w", err)
	}
	tr.SetProgress(progressParsed)

	return p.run(ctx, variants, impacts, tr)
}

// run executes the annotation and scoring stages over parsed variants.
func (p *Pipeline) run(ctx context.Context, variants []*vcf.Variant, impacts map[string]*ProteinImpact, tr Tracker) (*Result, error) {
	tr.SetStatus(task.StatusRunning)

	results := make([]*VariantResult, len(variants))
	for i, v := range variants {
		vr := &VariantResult{Variant: v, Stages: newStageStates()}
		if impact, ok := impacts[v.ID]; ok {
			vr.Protein = impact
			vr.Stages.Protein = StagePresent
		} else if p.annotator != nil && p.sequences != nil {
			vr.Stages.Protein = StageAbsent
		}
		results[i] = vr
	}

	p.annotateClinical(results)
	tr.SetProgress(progressClinical)

	p.annotateRegulatory(results)
	tr.SetProgress(progressRegulatory)

	p.computeFeatures(results)
	tr.SetProgress(progressFeatures)

	prsScore, prsRisk, prsMatched := p.computePRS(variants)
	tr.SetProgress(progressPRS)

	modelScore := p.predictAll(results)
	tr.SetProgress(progressModel)

	return buildResult(results, prsScore, prsRisk, prsMatched, modelScore), nil
}

// annotateClinical resolves clinical annotations per variant. Misses are
// recorded as absent; resolver faults never abort the batch.
func (p *Pipeline) annotateClinical(results []*VariantResult) {
	if p.clinical == nil {
		return
	}
	var found int
	for _, vr := range results {
		if a := p.clinical.Resolve(vr.Variant.ID); a != nil {
			vr.Clinical = a
			vr.Stages.Clinical = StagePresent
			found++
		} else {
			vr.Stages.Clinical = StageAbsent
		}
	}
	p.logger.Info("clinical annotation done",
		zap.Int("annotated", found),
		zap.Int("unannotated", len(results)-found))
}

// annotateRegulatory looks up regulatory scores for variants whose clinical
// annotation pinned a position or rsID. Variants without clinical data are
// left not-attempted.
func (p *Pipeline) annotateRegulatory(results []*VariantResult) {
	if p.regulatory == nil {
		return
	}
	var matched int
	for _, vr := range results {
		if vr.Clinical == nil {
			continue
		}
		q := regulome.Query{}
		if id := vr.Clinical.ID; id != "" && id != "NA" {
			q.RsID = id
		}
		if vr.Clinical.Chrom != "" && vr.Clinical.Pos != 0 {
			q.Chrom = vr.Clinical.Chrom
			q.Start = vr.Clinical.Pos
		}

		r := p.regulatory.Resolve(q)
		vr.Regulome = &r
		if r.Outcome == regulome.Found {
			vr.Stages.Regulatory = StagePresent
			matched++
		} else {
			vr.Stages.Regulatory = StageAbsent
		}
	}
	p.logger.Info("regulatory annotation done", zap.Int("matched", matched))
}

// computeFeatures derives physicochemical deltas for variants with a
// projected protein impact. A premature stop in either sequence skips the
// computation for that variant.
func (p *Pipeline) computeFeatures(results []*VariantResult) {
	for _, vr := range results {
		if vr.Protein == nil {
			continue
		}
		wt, wtStop := protein.CheckStop(vr.Protein.WildTypeSeq)
		mut, mutStop := protein.CheckStop(vr.Protein.MutatedSeq)
		if wtStop || mutStop {
			vr.Stages.Features = StageSkipped
			continue
		}
		deltas := protein.ComputeDeltas(wt, mut)
		vr.Features = &deltas
		vr.Stages.Features = StagePresent
	}
}

// computePRS scores the full cohort, never just the capped subset.
func (p *Pipeline) computePRS(variants []*vcf.Variant) (score float64, risk string, matched int) {
	if p.prsScorer == nil {
		return 0, "", 0
	}
	score, matched = p.prsScorer.Compute(variants)
	risk = prs.ClassifyRisk(score, p.thresholds.ForSex(p.sex))
	p.logger.Info("prs computed",
		zap.Float64("score", score),
		zap.String("risk", risk),
		zap.Int("matched", matched))
	return score, risk, matched
}

// predictAll scores every variant with the model and aggregates the
// cohort score weighted by alternate allele dosage.
func (p *Pipeline) predictAll(results []*VariantResult) float64 {
	if p.predictor == nil {
		return 0
	}

	var preds []predict.Prediction
	var weights []float64
	for _, vr := range results {
		var gene string
		if vr.Clinical != nil {
			gene = vr.Clinical.Gene
		}
		pred, err := p.predictor.ScoreVariant(*vr.Variant, gene)
		if err != nil {
			p.logger.Warn("model prediction failed",
				zap.String("variant_id", vr.Variant.ID), zap.Error(err))
			vr.Stages.Prediction = StageAbsent
			continue
		}
		vr.Prediction = &pred
		vr.Stages.Prediction = StagePresent

		preds = append(preds, pred)
		weights = append(weights, float64(prs.Dosage(vr.Variant, vr.Variant.FirstAlt())))
	}

	score := predict.Aggregate(preds, weights)
	p.logger.Info("model prediction done",
		zap.Int("scored", len(preds)),
		zap.Float64("cohort_score", score))
	return score
}
