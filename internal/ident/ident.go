// Package ident classifies variant identifiers into a closed set of shapes.
// Every resolver consumes the same classification instead of re-deriving it
// from prefix checks.
package ident

import (
	"strconv"
	"strings"
)

// Kind enumerates the recognized identifier shapes.
type Kind int

const (
	KindUnknown Kind = iota
	KindRsID
	KindCoordinate
	KindGeneSymbol
)

func (k Kind) String() string {
	switch k {
	case KindRsID:
		return "rsid"
	case KindCoordinate:
		return "coordinate"
	case KindGeneSymbol:
		return "gene_symbol"
	default:
		return "unknown"
	}
}

// Identifier is the parsed form of a variant identifier.
type Identifier struct {
	Kind  Kind
	Raw   string // the original input, unmodified
	RsID  string // normalized rs identifier (with "rs" prefix), set for KindRsID
	Chrom string // set for KindCoordinate
	Pos   int64  // set for KindCoordinate
	Gene  string // set for KindGeneSymbol
}

// Classify parses an identifier string into a tagged Identifier.
// An identifier that cannot be classified comes back as KindUnknown;
// classification never fails.
func Classify(s string) Identifier {
	id := Identifier{Kind: KindUnknown, Raw: s}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return id
	}

	if rest, ok := rsDigits(trimmed); ok {
		id.Kind = KindRsID
		id.RsID = "rs" + rest
		return id
	}

	if idx := strings.IndexByte(trimmed, ':'); idx > 0 {
		chrom := trimmed[:idx]
		pos, err := strconv.ParseInt(trimmed[idx+1:], 10, 64)
		if err == nil && pos > 0 {
			id.Kind = KindCoordinate
			id.Chrom = chrom
			id.Pos = pos
			return id
		}
		return id
	}

	if isGeneSymbol(trimmed) {
		id.Kind = KindGeneSymbol
		id.Gene = trimmed
		return id
	}

	return id
}

// NormalizeRs strips a leading "rs" prefix, returning the bare numeric part.
// Inputs without the prefix are returned unchanged. Used when matching PRS
// panel identifiers against observed variants, where the prefix is present
// inconsistently on both sides.
func NormalizeRs(s string) string {
	if rest, ok := rsDigits(s); ok {
		return rest
	}
	return s
}

func rsDigits(s string) (string, bool) {
	if len(s) < 3 || (s[0] != 'r' && s[0] != 'R') || (s[1] != 's' && s[1] != 'S') {
		return "", false
	}
	rest := s[2:]
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return "", false
		}
	}
	return rest, true
}

// isGeneSymbol reports whether s looks like a gene symbol: a letter followed
// by letters, digits or hyphens (e.g. BRCA1, HLA-DRB1).
func isGeneSymbol(s string) bool {
	if !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isLetter(c) && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
