// Package predict scores variant pathogenicity with a pre-trained
// sequence model over reference genome windows.
package predict

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// WindowSize is the reference window length fed to the model, centered
// on the variant position.
const WindowSize = 1000

// Genome provides reference sequence windows around genomic positions.
type Genome interface {
	Window(chrom string, pos int, size int) string
}

// FASTAGenome holds reference chromosome sequences loaded from a FASTA file.
type FASTAGenome struct {
	path      string
	sequences map[string]string // chromosome -> sequence
}

// NewFASTAGenome creates a genome loader for the given FASTA path.
func NewFASTAGenome(path string) *FASTAGenome {
	return &FASTAGenome{
		path:      path,
		sequences: make(map[string]string),
	}
}

// Load parses the FASTA file and indexes sequences by chromosome name.
func (g *FASTAGenome) Load() error {
	f, err := os.Open(g.path)
	if err != nil {
		return fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(g.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return g.parseFASTA(reader)
}

func (g *FASTAGenome) parseFASTA(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long sequence lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var currentChrom string
	var currentSeq strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, ">") {
			if currentChrom != "" && currentSeq.Len() > 0 {
				g.sequences[currentChrom] = currentSeq.String()
			}
			currentChrom = parseChromHeader(line)
			currentSeq.Reset()
		} else {
			currentSeq.WriteString(strings.ToUpper(strings.TrimSpace(line)))
		}
	}

	if currentChrom != "" && currentSeq.Len() > 0 {
		g.sequences[currentChrom] = currentSeq.String()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan FASTA: %w", err)
	}
	return nil
}

// parseChromHeader extracts the chromosome name from a FASTA header,
// normalizing away any "chr" prefix.
// Handles ">chr1 AC:..." and ">1 dna:chromosome ..." styles.
func parseChromHeader(header string) string {
	header = strings.TrimPrefix(header, ">")
	if idx := strings.IndexAny(header, " \t"); idx != -1 {
		header = header[:idx]
	}
	return strings.TrimPrefix(header, "chr")
}

// Window returns a reference window of the given size centered on the
// 1-based position. Regions beyond chromosome bounds are padded with N,
// and an unknown chromosome yields an all-N window, so the returned
// string always has exactly size bases.
func (g *FASTAGenome) Window(chrom string, pos int, size int) string {
	seq, ok := g.sequences[strings.TrimPrefix(chrom, "chr")]
	if !ok {
		return strings.Repeat("N", size)
	}

	// 0-based window around the variant position
	start := pos - 1 - size/2
	end := start + size

	var b strings.Builder
	b.Grow(size)
	if start < 0 {
		b.WriteString(strings.Repeat("N", -start))
		start = 0
	}
	if start < len(seq) {
		stop := end
		if stop > len(seq) {
			stop = len(seq)
		}
		b.WriteString(seq[start:stop])
	}
	for b.Len() < size {
		b.WriteByte('N')
	}
	return b.String()
}

// SequenceCount returns the number of loaded chromosomes.
func (g *FASTAGenome) SequenceCount() int {
	return len(g.sequences)
}
