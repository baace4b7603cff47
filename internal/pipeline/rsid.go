package pipeline

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// RunRsID analyzes a single variant given by dbSNP identifier. The
// clinical source resolves it to a genomic position, which is written to
// a transient single-record VCF and run through the file path. The
// transient file is always removed.
func (p *Pipeline) RunRsID(ctx context.Context, rsid string, tr Tracker) (*Result, error) {
	if p.clinical == nil {
		return nil, fmt.Errorf("rsid lookup requires a clinical source")
	}

	ann := p.clinical.Resolve(rsid)
	if ann == nil {
		return nil, fmt.Errorf("rsid %s not found in clinical reference", rsid)
	}
	if ann.Chrom == "" || ann.Pos == 0 || ann.Ref == "" || ann.Alt == "" {
		return nil, fmt.Errorf("rsid %s resolved without a usable position", rsid)
	}

	f, err := os.CreateTemp("", "genorisk-rsid-*.vcf")
	if err != nil {
		return nil, fmt.Errorf("create transient vcf: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	_, err = fmt.Fprintf(f,
		"##fileformat=VCFv4.2\n##contig=<ID=%s>\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n%s\t%d\t%s\t%s\t%s\t.\t.\t.\n",
		ann.Chrom, ann.Chrom, ann.Pos, rsid, ann.Ref, ann.Alt)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("write transient vcf: %w", err)
	}

	p.logger.Info("resolved rsid to position",
		zap.String("rsid", rsid),
		zap.String("chrom", ann.Chrom),
		zap.Int64("pos", ann.Pos))

	return p.RunFile(ctx, path, tr)
}
