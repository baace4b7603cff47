// Package prs computes polygenic risk scores from a weighted reference panel.
package prs

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Entry is one weighted reference-panel row.
type Entry struct {
	RsID         string
	EffectAllele string
	EffectWeight float64
}

// Column names accepted for the weight column, in precedence order.
// PGS Catalog files are inconsistent about this.
var weightColumnNames = []string{"effect_weight", "beta", "weight"}

// LoadPanel reads a PGS-catalog-style scoring file. Both comma and tab
// delimited files are accepted; metadata lines starting with "#" are skipped.
// Rows missing any of rsID, effect allele or weight are excluded.
func LoadPanel(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prs panel: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	// Find the header line.
	var header []string
	var delim string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		delim = detectDelimiter(line)
		header = strings.Split(line, delim)
		break
	}
	if header == nil {
		return nil, fmt.Errorf("prs panel %s: no header line found", path)
	}

	rsIdx, alleleIdx, weightIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "rsid", "rs_id":
			rsIdx = i
		case "effect_allele":
			alleleIdx = i
		default:
			if weightIdx < 0 && isWeightColumn(col) {
				weightIdx = i
			}
		}
	}
	if rsIdx < 0 || alleleIdx < 0 || weightIdx < 0 {
		return nil, fmt.Errorf("prs panel %s: missing rsID, effect_allele or weight column", path)
	}

	var entries []Entry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, delim)
		if len(fields) <= rsIdx || len(fields) <= alleleIdx || len(fields) <= weightIdx {
			continue
		}

		rsid := strings.TrimSpace(fields[rsIdx])
		allele := strings.TrimSpace(fields[alleleIdx])
		weightStr := strings.TrimSpace(fields[weightIdx])
		if rsid == "" || allele == "" || weightStr == "" {
			continue
		}

		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			continue
		}

		entries = append(entries, Entry{
			RsID:         rsid,
			EffectAllele: allele,
			EffectWeight: weight,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading prs panel: %w", err)
	}

	return entries, nil
}

func isWeightColumn(col string) bool {
	col = strings.ToLower(strings.TrimSpace(col))
	for _, name := range weightColumnNames {
		if col == name {
			return true
		}
	}
	return false
}

func detectDelimiter(line string) string {
	if strings.ContainsRune(line, '\t') {
		return "\t"
	}
	return ","
}
