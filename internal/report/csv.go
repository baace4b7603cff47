// Package report exports completed analysis results in tabular form.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/genorisk/genorisk/internal/pipeline"
	"github.com/genorisk/genorisk/internal/regulome"
)

// columns is the fixed CSV header, one row per variant.
var columns = []string{
	"variant_id",
	"chrom",
	"pos",
	"ref",
	"alt",
	"genotype",
	"gene",
	"clinical_significance",
	"phenotype",
	"clinical_note",
	"regulome_outcome",
	"regulome_ranking",
	"regulome_probability",
	"protein_id",
	"mutation_type",
	"protein_position",
	"ref_aa",
	"alt_aa",
	"molecular_weight_change",
	"instability_change",
	"gravy_change",
	"predict_score",
	"predict_label",
}

// CSVWriter writes one analysis result as CSV.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter creates a writer over the given output.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// WriteResult writes the header, every variant row, and a trailing
// cohort-summary comment row, then flushes.
func (cw *CSVWriter) WriteResult(res *pipeline.Result) error {
	if err := cw.w.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, vr := range res.Variants {
		if err := cw.w.Write(variantRow(vr)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	summary := []string{
		fmt.Sprintf("# prs_score=%s prs_risk=%s prs_matched=%d model_score=%s total_variants=%d",
			formatFloat(res.PRSScore), res.PRSRisk, res.PRSMatched,
			formatFloat(res.ModelScore), res.TotalVariants),
	}
	if err := cw.w.Write(summary); err != nil {
		return fmt.Errorf("write csv summary: %w", err)
	}

	cw.w.Flush()
	return cw.w.Error()
}

func variantRow(vr *pipeline.VariantResult) []string {
	row := make([]string, 0, len(columns))
	v := vr.Variant
	row = append(row, v.ID, v.Chrom, strconv.FormatInt(v.Pos, 10), v.Ref, v.Alt, v.Genotype)

	if c := vr.Clinical; c != nil {
		row = append(row, c.Gene, c.Significance, c.Phenotype, c.Note)
	} else {
		row = append(row, "", "", "", "")
	}

	if r := vr.Regulome; r != nil {
		row = append(row, r.Outcome.String())
		if r.Outcome == regulome.Found && r.Score != nil {
			row = append(row, r.Score.Ranking, formatFloat(r.Score.Probability))
		} else {
			row = append(row, "", "")
		}
	} else {
		row = append(row, "", "", "")
	}

	if p := vr.Protein; p != nil {
		row = append(row, p.ProteinID, p.MutationType, strconv.Itoa(p.Position), p.RefAA, p.AltAA)
	} else {
		row = append(row, "", "", "", "", "")
	}

	if f := vr.Features; f != nil {
		row = append(row,
			formatFloat(f.MolecularWeight),
			formatFloat(f.InstabilityIndex),
			formatFloat(f.Gravy))
	} else {
		row = append(row, "", "", "")
	}

	if pr := vr.Prediction; pr != nil {
		row = append(row, formatFloat(pr.Probability), pr.Label)
	} else {
		row = append(row, "", "")
	}

	return row
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
