// Package annotate drives an external Ensembl VEP installation and parses
// its tab-separated output into protein consequence rows.
package annotate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one protein-level consequence from the annotator output.
// Only rows with a usable HGVS protein notation are kept.
type Row struct {
	VariantID string
	Gene      string
	ProteinID string
	HGVSp     string
}

// Column order requested from the annotator. The tool prepends the
// uploaded variation identifier to every tab-format row.
var outputFields = []string{"SYMBOL", "Feature", "Protein_position", "Amino_acids", "HGVSp"}

// ParseOutput reads annotator TSV output, skipping comment and header
// lines and rows without a protein consequence. Malformed rows are
// dropped rather than failing the batch.
func ParseOutput(r io.Reader) ([]Row, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var rows []Row
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		// uploaded_variation + the requested fields
		if len(fields) < 6 {
			continue
		}
		hgvsp := strings.TrimSpace(fields[5])
		if !usableHGVSp(hgvsp) {
			continue
		}
		rows = append(rows, Row{
			VariantID: strings.TrimSpace(fields[0]),
			Gene:      strings.TrimSpace(fields[1]),
			ProteinID: strings.TrimSpace(fields[2]),
			HGVSp:     hgvsp,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan annotator output: %w", err)
	}
	return rows, nil
}

// ParseOutputFile parses an annotator output file on disk.
func ParseOutputFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotator output: %w", err)
	}
	defer f.Close()
	return ParseOutput(f)
}

// usableHGVSp reports whether the HGVSp field carries an actual protein
// notation rather than a placeholder like "-".
func usableHGVSp(s string) bool {
	return strings.HasPrefix(s, "ENSP") || strings.HasPrefix(s, "p.")
}
