package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genorisk/genorisk/internal/annotate"
	"github.com/genorisk/genorisk/internal/clinvar"
	"github.com/genorisk/genorisk/internal/predict"
	"github.com/genorisk/genorisk/internal/prs"
	"github.com/genorisk/genorisk/internal/regulome"
	"github.com/genorisk/genorisk/internal/task"
)

type fakeAnnotator struct {
	rows []annotate.Row
	err  error
}

func (f *fakeAnnotator) Annotate(ctx context.Context, vcfPath string) ([]annotate.Row, error) {
	return f.rows, f.err
}

type fakeSequences struct {
	seqs map[string]string
}

func (f *fakeSequences) FetchSequence(ctx context.Context, id string) (string, error) {
	seq, ok := f.seqs[id]
	if !ok {
		return "", fmt.Errorf("no such protein: %s", id)
	}
	return seq, nil
}

type fakeClinical struct {
	anns map[string]*clinvar.Annotation
}

func (f *fakeClinical) Resolve(identifier string) *clinvar.Annotation {
	return f.anns[identifier]
}

type fakeRegulatory struct {
	results map[string]regulome.Result
}

func (f *fakeRegulatory) Resolve(q regulome.Query) regulome.Result {
	if r, ok := f.results[q.RsID]; ok {
		return r
	}
	return regulome.Result{Outcome: regulome.NotFound}
}

type recordingTracker struct {
	statuses []task.Status
	progress []int
}

func (t *recordingTracker) SetStatus(s task.Status) { t.statuses = append(t.statuses, s) }
func (t *recordingTracker) SetProgress(p int)       { t.progress = append(t.progress, p) }

func writeVCF(t *testing.T, records []string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("##fileformat=VCFv4.2\n")
	b.WriteString("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n")
	for _, r := range records {
		b.WriteString(r + "\n")
	}
	path := filepath.Join(t.TempDir(), "in.vcf")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func testModel() *predict.WeightModel {
	pos := make([][]float64, 4)
	for i := range pos {
		pos[i] = []float64{0, 0.1, 0.1, 0.1, 0.1, 0.1}
	}
	return &predict.WeightModel{Bias: 0.5, Positional: pos}
}

type flatGenome struct{}

func (flatGenome) Window(chrom string, pos, size int) string {
	return strings.Repeat("A", size)
}

func fullPipeline(t *testing.T) (*Pipeline, *fakeRegulatory) {
	t.Helper()
	reg := &fakeRegulatory{results: map[string]regulome.Result{
		"rs1001": {Outcome: regulome.Found, Score: &regulome.Score{RsID: "rs1001", Ranking: "1a", Probability: 0.92}},
	}}

	p := New()
	p.SetAnnotator(&fakeAnnotator{rows: []annotate.Row{
		{VariantID: "rs1001", Gene: "BRCA1", ProteinID: "P001", HGVSp: "p.Arg2Cys"},
	}})
	p.SetSequenceSource(&fakeSequences{seqs: map[string]string{"P001": "MRKLV"}})
	p.SetClinicalResolver(&fakeClinical{anns: map[string]*clinvar.Annotation{
		"rs1001": {Chrom: "1", Pos: 100, ID: "rs1001", Ref: "A", Alt: "G", Significance: "Pathogenic", Gene: "BRCA1"},
	}})
	p.SetRegulatoryResolver(reg)
	p.SetPRS(prs.NewScorer([]prs.Entry{{RsID: "1001", EffectAllele: "G", EffectWeight: 0.5}}), prs.NewThresholdSet())
	p.SetPredictor(predict.NewScorer(flatGenome{}, testModel(), nil))
	return p, reg
}

func TestRunFileFullPipeline(t *testing.T) {
	path := writeVCF(t, []string{
		"1\t100\trs1001\tA\tG\t.\t.\t.\tGT\t0/1",
		"2\t200\t.\tC\tT\t.\t.\t.\tGT\t0/0",
	})
	p, _ := fullPipeline(t)
	tr := &recordingTracker{}

	res, err := p.RunFile(context.Background(), path, tr)
	require.NoError(t, err)
	require.Len(t, res.Variants, 2)
	assert.Equal(t, 2, res.TotalVariants)

	first := res.Variants[0]
	assert.Equal(t, "rs1001", first.Variant.ID)
	require.NotNil(t, first.Protein)
	assert.Equal(t, "MCKLV", first.Protein.MutatedSeq)
	assert.Equal(t, StagePresent, first.Stages.Protein)
	assert.Equal(t, StagePresent, first.Stages.Clinical)
	assert.Equal(t, StagePresent, first.Stages.Regulatory)
	assert.Equal(t, StagePresent, first.Stages.Features)
	assert.Equal(t, StagePresent, first.Stages.Prediction)
	require.NotNil(t, first.Features)
	require.NotNil(t, first.Regulome)
	assert.Equal(t, regulome.Found, first.Regulome.Outcome)

	// Second variant never matched the annotator or clinical tables.
	second := res.Variants[1]
	assert.Equal(t, "2:200", second.Variant.ID)
	assert.Equal(t, StageAbsent, second.Stages.Protein)
	assert.Equal(t, StageAbsent, second.Stages.Clinical)
	assert.Equal(t, StageNotAttempted, second.Stages.Regulatory)
	assert.Equal(t, StageNotAttempted, second.Stages.Features)
	assert.Nil(t, second.Features)

	// Heterozygous A/G against effect allele G gives dosage 1.
	assert.InDelta(t, 0.5, res.PRSScore, 1e-9)
	assert.Equal(t, 1, res.PRSMatched)
	assert.Equal(t, prs.RiskHigh, res.PRSRisk)
	assert.Greater(t, res.ModelScore, 0.0)

	assert.Equal(t, []task.Status{task.StatusParsing, task.StatusRunning}, tr.statuses)
	assert.Equal(t, []int{10, 20, 30, 50, 60, 80}, tr.progress)

	// Summary columns are aligned with the variant subset.
	require.Len(t, res.Summary.VariantInfo, 2)
	assert.Equal(t, first.Protein, res.Summary.ProteinInfo[0])
	assert.Nil(t, res.Summary.ProteinInfo[1])
	assert.Nil(t, res.Summary.ClinvarData[1])
}

func TestRunFilePrematureStopSkipsFeatures(t *testing.T) {
	path := writeVCF(t, []string{"1\t100\trs1001\tA\tG\t.\t.\t.\tGT\t0/1"})
	p, _ := fullPipeline(t)
	p.SetAnnotator(&fakeAnnotator{rows: []annotate.Row{
		{VariantID: "rs1001", Gene: "BRCA1", ProteinID: "P001", HGVSp: "p.Arg2Ter"},
	}})

	res, err := p.RunFile(context.Background(), path, nil)
	require.NoError(t, err)
	require.Len(t, res.Variants, 1)

	vr := res.Variants[0]
	require.NotNil(t, vr.Protein)
	assert.Equal(t, "M*KLV", vr.Protein.MutatedSeq)
	assert.Equal(t, StageSkipped, vr.Stages.Features)
	assert.Nil(t, vr.Features)
}

func TestRunFileAnnotatorFailureAborts(t *testing.T) {
	path := writeVCF(t, []string{"1\t100\trs1001\tA\tG\t.\t.\t.\tGT\t0/1"})
	p, _ := fullPipeline(t)
	p.SetAnnotator(&fakeAnnotator{err: fmt.Errorf("vep exited with status 2")})

	_, err := p.RunFile(context.Background(), path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "annotate variants")
}

func TestRunFileWithoutOptionalStages(t *testing.T) {
	path := writeVCF(t, []string{"1\t100\trs1001\tA\tG\t.\t.\t.\tGT\t0/1"})
	p := New()

	res, err := p.RunFile(context.Background(), path, nil)
	require.NoError(t, err)
	require.Len(t, res.Variants, 1)

	vr := res.Variants[0]
	assert.Equal(t, StageNotAttempted, vr.Stages.Protein)
	assert.Equal(t, StageNotAttempted, vr.Stages.Clinical)
	assert.Equal(t, StageNotAttempted, vr.Stages.Prediction)
	assert.Equal(t, "", res.PRSRisk)
}

func TestRunFileCapsDetailNotCohort(t *testing.T) {
	records := make([]string, 150)
	for i := range records {
		records[i] = fmt.Sprintf("1\t%d\trs%d\tA\tG\t.\t.\t.\tGT\t1/1", i+1, i+1)
	}
	path := writeVCF(t, records)

	panel := make([]prs.Entry, 150)
	for i := range panel {
		panel[i] = prs.Entry{RsID: fmt.Sprintf("%d", i+1), EffectAllele: "G", EffectWeight: 0.01}
	}
	p := New()
	p.SetPRS(prs.NewScorer(panel), prs.NewThresholdSet())

	res, err := p.RunFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, 150, res.TotalVariants)
	assert.Len(t, res.Variants, resultCap)
	assert.Len(t, res.Summary.VariantInfo, resultCap)

	// Every homozygous variant contributes dosage 2 to the cohort score.
	assert.InDelta(t, 3.0, res.PRSScore, 1e-9)
	assert.Equal(t, 150, res.PRSMatched)
}

func TestRunRsID(t *testing.T) {
	p, _ := fullPipeline(t)

	res, err := p.RunRsID(context.Background(), "rs1001", nil)
	require.NoError(t, err)
	require.Len(t, res.Variants, 1)
	assert.Equal(t, "rs1001", res.Variants[0].Variant.ID)
	assert.Equal(t, "1", res.Variants[0].Variant.Chrom)
}

func TestRunRsIDUnresolved(t *testing.T) {
	p, _ := fullPipeline(t)

	_, err := p.RunRsID(context.Background(), "rs424242", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
