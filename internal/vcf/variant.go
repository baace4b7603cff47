// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"fmt"
	"strings"
)

// GenotypeNA is the placeholder genotype for records without sample data.
const GenotypeNA = "NA"

// Variant represents a single genomic variant from a VCF file.
type Variant struct {
	ID       string // variant identifier (rs ID, or "chrom:pos" when absent)
	Chrom    string // chromosome name (e.g., "12", "chr12")
	Pos      int64  // 1-based genomic position
	Ref      string // reference allele
	Alt      string // alternate allele, comma-joined for multi-allelic records
	Genotype string // diploid base call (e.g., "A/G"), "NA" when unavailable
}

// FirstAlt returns the first alternate allele of a possibly multi-allelic record.
func (v *Variant) FirstAlt() string {
	if idx := strings.IndexByte(v.Alt, ','); idx >= 0 {
		return v.Alt[:idx]
	}
	return v.Alt
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.FirstAlt()) == 1
}

// HasGenotype reports whether a genotype call is available.
func (v *Variant) HasGenotype() bool {
	return v.Genotype != "" && v.Genotype != GenotypeNA
}

// Alleles splits the genotype call into its individual alleles.
// Both "/" and "|" separators are accepted. Returns nil when no call exists.
func (v *Variant) Alleles() []string {
	if !v.HasGenotype() {
		return nil
	}
	return strings.FieldsFunc(v.Genotype, func(r rune) bool {
		return r == '/' || r == '|'
	})
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}

// FormatID builds the composite identifier used when a record carries no rs ID.
func FormatID(chrom string, pos int64) string {
	return fmt.Sprintf("%s:%d", chrom, pos)
}
