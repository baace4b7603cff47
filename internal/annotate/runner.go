package annotate

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Annotator produces protein consequence rows for the variants in a VCF file.
type Annotator interface {
	Annotate(ctx context.Context, vcfPath string) ([]Row, error)
}

// Runner invokes a local VEP installation in offline cache mode.
type Runner struct {
	binary   string
	assembly string
	workDir  string
	logger   *zap.Logger
}

// NewRunner creates a runner for the given VEP binary. An empty binary
// defaults to "vep" on PATH, an empty workDir to the system temp dir.
func NewRunner(binary, workDir string) *Runner {
	if binary == "" {
		binary = "vep"
	}
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &Runner{
		binary:   binary,
		assembly: "GRCh38",
		workDir:  workDir,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for subprocess diagnostics.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// SetAssembly overrides the genome assembly passed to the annotator.
func (r *Runner) SetAssembly(assembly string) {
	r.assembly = assembly
}

// Annotate runs the annotator over the VCF file and parses the rows it
// produced. The intermediate output file is removed before returning.
func (r *Runner) Annotate(ctx context.Context, vcfPath string) ([]Row, error) {
	out, err := os.CreateTemp(r.workDir, "vep-out-*.tsv")
	if err != nil {
		return nil, fmt.Errorf("create annotator output file: %w", err)
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	cmd := exec.CommandContext(ctx, r.binary,
		"-i", vcfPath,
		"--cache",
		"--offline",
		"--assembly", r.assembly,
		"--format", "vcf",
		"--symbol",
		"--hgvs",
		"--protein",
		"--fields", "Uploaded_variation,"+strings.Join(outputFields, ","),
		"--tab",
		"--force_overwrite",
		"-o", outPath,
	)

	r.logger.Debug("running annotator",
		zap.String("binary", r.binary),
		zap.String("input", filepath.Base(vcfPath)))

	if output, err := cmd.CombinedOutput(); err != nil {
		r.logger.Error("annotator failed",
			zap.Error(err),
			zap.ByteString("output", tail(output, 2048)))
		return nil, fmt.Errorf("run annotator: %w", err)
	}

	return ParseOutputFile(outPath)
}

// tail returns the last n bytes of b for log output.
func tail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}
