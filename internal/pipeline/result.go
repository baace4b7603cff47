// Package pipeline orchestrates a variant analysis run: VCF parsing,
// protein consequence projection, clinical and regulatory annotation,
// physicochemical feature computation, polygenic risk scoring and model
// prediction.
package pipeline

import (
	"github.com/genorisk/genorisk/internal/clinvar"
	"github.com/genorisk/genorisk/internal/predict"
	"github.com/genorisk/genorisk/internal/protein"
	"github.com/genorisk/genorisk/internal/regulome"
	"github.com/genorisk/genorisk/internal/vcf"
)

// resultCap bounds the per-variant detail returned to clients. Cohort
// scores are always computed over the full variant set.
const resultCap = 100

// StageState records what happened to one optional stage for one variant.
type StageState string

const (
	// StageNotAttempted means the stage never ran for this variant,
	// either because a prerequisite was missing or the component is
	// not configured.
	StageNotAttempted StageState = "not_attempted"
	// StageAbsent means the stage ran and found no data.
	StageAbsent StageState = "absent"
	// StagePresent means the stage produced data.
	StagePresent StageState = "present"
	// StageSkipped means the stage was deliberately bypassed, such as
	// feature computation on a premature-stop sequence.
	StageSkipped StageState = "skipped"
)

// StageStates tracks per-variant stage outcomes so a client can tell a
// miss apart from a stage that never ran.
type StageStates struct {
	Protein    StageState `json:"protein"`
	Clinical   StageState `json:"clinical"`
	Regulatory StageState `json:"regulatory"`
	Features   StageState `json:"features"`
	Prediction StageState `json:"prediction"`
}

func newStageStates() StageStates {
	return StageStates{
		Protein:    StageNotAttempted,
		Clinical:   StageNotAttempted,
		Regulatory: StageNotAttempted,
		Features:   StageNotAttempted,
		Prediction: StageNotAttempted,
	}
}

// ProteinImpact is the projected protein-level effect of one variant.
type ProteinImpact struct {
	ProteinID    string `json:"protein_id"`
	Position     int    `json:"position"`
	RefAA        string `json:"ref_aa"`
	AltAA        string `json:"alt_aa"`
	MutationType string `json:"mutation_type"`
	WildTypeSeq  string `json:"wt_seq"`
	MutatedSeq   string `json:"mut_seq"`
}

// VariantResult collects everything the pipeline learned about one variant.
type VariantResult struct {
	Variant    *vcf.Variant        `json:"variant_info"`
	Protein    *ProteinImpact      `json:"protein_info,omitempty"`
	Features   *protein.Deltas     `json:"protein_features,omitempty"`
	Regulome   *regulome.Result    `json:"regulome_score,omitempty"`
	Clinical   *clinvar.Annotation `json:"clinvar_data,omitempty"`
	Prediction *predict.Prediction `json:"predict_result,omitempty"`
	Stages     StageStates         `json:"stages"`
}

// Summary holds the per-stage columns of the capped variant subset, in
// variant order, with nil entries where a stage produced nothing.
type Summary struct {
	VariantInfo     []*vcf.Variant        `json:"variant_info"`
	ProteinInfo     []*ProteinImpact      `json:"protein_info"`
	ProteinFeatures []*protein.Deltas     `json:"protein_features"`
	RegulomeScores  []*regulome.Result    `json:"regulome_scores"`
	ClinvarData     []*clinvar.Annotation `json:"clinvar_data"`
	PredictResult   []*predict.Prediction `json:"predict_result"`
}

// Result is the completed analysis payload for one task.
type Result struct {
	TotalVariants int              `json:"total_variants"`
	Variants      []*VariantResult `json:"variants"`
	Summary       Summary          `json:"summary"`
	PRSScore      float64          `json:"prs_score"`
	PRSRisk       string           `json:"prs_risk"`
	PRSMatched    int              `json:"prs_matched"`
	ModelScore    float64          `json:"model_score"`
}

// buildResult assembles the client payload, capping per-variant detail.
func buildResult(all []*VariantResult, prsScore float64, prsRisk string, prsMatched int, modelScore float64) *Result {
	subset := all
	if len(subset) > resultCap {
		subset = subset[:resultCap]
	}

	summary := Summary{
		VariantInfo:     make([]*vcf.Variant, len(subset)),
		ProteinInfo:     make([]*ProteinImpact, len(subset)),
		ProteinFeatures: make([]*protein.Deltas, len(subset)),
		RegulomeScores:  make([]*regulome.Result, len(subset)),
		ClinvarData:     make([]*clinvar.Annotation, len(subset)),
		PredictResult:   make([]*predict.Prediction, len(subset)),
	}
	for i, vr := range subset {
		summary.VariantInfo[i] = vr.Variant
		summary.ProteinInfo[i] = vr.Protein
		summary.ProteinFeatures[i] = vr.Features
		summary.RegulomeScores[i] = vr.Regulome
		summary.ClinvarData[i] = vr.Clinical
		summary.PredictResult[i] = vr.Prediction
	}

	return &Result{
		TotalVariants: len(all),
		Variants:      subset,
		Summary:       summary,
		PRSScore:      prsScore,
		PRSRisk:       prsRisk,
		PRSMatched:    prsMatched,
		ModelScore:    modelScore,
	}
}
