package pipeline

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/genorisk/genorisk/internal/annotate"
	"github.com/genorisk/genorisk/internal/protein"
	"github.com/genorisk/genorisk/internal/uniprot"
	"github.com/genorisk/genorisk/internal/vcf"
)

// impactItem is one annotator row queued for sequence resolution.
type impactItem struct {
	seq int
	row annotate.Row
}

// impactResult pairs a resolved impact with its queue position so the
// take-first-per-variant rule stays deterministic under parallelism.
type impactResult struct {
	seq       int
	variantID string
	impact    *ProteinImpact
}

// buildImpacts runs the external annotator over the VCF file and resolves
// each consequence row into a protein impact, fetching sequences with a
// pool of workers. Per-row failures are logged and skipped; only an
// annotator failure aborts the run.
func (p *Pipeline) buildImpacts(ctx context.Context, vcfPath string, variants []*vcf.Variant) (map[string]*ProteinImpact, error) {
	if p.annotator == nil || p.sequences == nil {
		return nil, nil
	}

	rows, err := p.annotator.Annotate(ctx, vcfPath)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*vcf.Variant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}

	workers := p.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	items := make(chan impactItem, 2*workers)
	results := make(chan impactResult, 2*workers)

	go func() {
		defer close(items)
		for i, row := range rows {
			if _, ok := byID[row.VariantID]; !ok {
				p.logger.Warn("annotator row does not match any parsed variant",
					zap.String("variant_id", row.VariantID))
				continue
			}
			items <- impactItem{seq: i, row: row}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				impact := p.resolveImpact(ctx, item.row)
				results <- impactResult{
					seq:       item.seq,
					variantID: item.row.VariantID,
					impact:    impact,
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect out of order, then apply first-row-wins per variant.
	collected := make(map[int]impactResult, len(rows))
	firstSeq := make(map[string]int)
	for r := range results {
		collected[r.seq] = r
		if r.impact == nil {
			continue
		}
		if prev, ok := firstSeq[r.variantID]; !ok || r.seq < prev {
			firstSeq[r.variantID] = r.seq
		}
	}

	impacts := make(map[string]*ProteinImpact, len(firstSeq))
	for variantID, seq := range firstSeq {
		impacts[variantID] = collected[seq].impact
	}
	return impacts, nil
}

// resolveImpact turns one annotator row into a protein impact, or nil when
// the row cannot be used.
func (p *Pipeline) resolveImpact(ctx context.Context, row annotate.Row) *ProteinImpact {
	seq, err := p.sequences.FetchSequence(ctx, row.ProteinID)
	if err != nil {
		if !errors.Is(err, uniprot.ErrNotFound) {
			p.logger.Warn("sequence fetch failed",
				zap.String("protein_id", row.ProteinID), zap.Error(err))
		}
		return nil
	}

	m, err := protein.ParseChange(row.HGVSp)
	if err != nil {
		p.logger.Warn("unparseable protein notation",
			zap.String("hgvsp", row.HGVSp), zap.Error(err))
		return nil
	}
	if m.Type == protein.Unknown {
		return nil
	}
	if m.Position < 1 || m.Position > len(seq) {
		p.logger.Warn("mutation position outside sequence",
			zap.String("hgvsp", row.HGVSp),
			zap.Int("position", m.Position),
			zap.Int("sequence_length", len(seq)))
		return nil
	}

	mutated, ok := protein.Apply(seq, m)
	if !ok {
		p.logger.Warn("mutation could not be applied", zap.String("hgvsp", row.HGVSp))
		return nil
	}

	return &ProteinImpact{
		ProteinID:    row.ProteinID,
		Position:     m.Position,
		RefAA:        refAA(m),
		AltAA:        m.Alt,
		MutationType: string(m.Type),
		WildTypeSeq:  seq,
		MutatedSeq:   mutated,
	}
}

func refAA(m *protein.Mutation) string {
	if m.Ref == 0 {
		return ""
	}
	return string(m.Ref)
}
