package protein

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MutationType classifies a protein-level change.
type MutationType string

const (
	Missense   MutationType = "missense"
	Nonsense   MutationType = "nonsense"
	Synonymous MutationType = "synonymous"
	Frameshift MutationType = "frameshift"
	Deletion   MutationType = "deletion"
	Insertion  MutationType = "insertion"
	DelIns     MutationType = "delins"
	Unknown    MutationType = "unknown"
)

// Mutation is a parsed HGVS protein change.
type Mutation struct {
	Position int          // 1-based residue position
	Ref      byte         // reference residue (single-letter), 0 when unknown
	Alt      string       // replacement residues; "*" for nonsense, "" for del/fs/syn
	Type     MutationType // classification of the change
}

// ParseError reports an HGVS protein notation that could not be parsed at all.
type ParseError struct {
	Notation string
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("hgvs parse error for %q: %s", e.Notation, e.Message)
}

// HGVS.p notation is irregular; rather than a grammar we use an ordered set
// of fixed-shape matchers, first match wins. Substitutions dominate the
// real-world corpus and the rarer shapes are syntactically distinct, so the
// specific shapes (delins before del, ins before substitution) go first.
var (
	reDelIns = regexp.MustCompile(`^([A-Z][a-z]{2})(\d+)delins((?:[A-Z][a-z]{2})+)$`)
	reIns    = regexp.MustCompile(`^([A-Z][a-z]{2})(\d+)_([A-Z][a-z]{2})(\d+)ins((?:[A-Z][a-z]{2})+)$`)
	reDel    = regexp.MustCompile(`^([A-Z][a-z]{2})(\d+)del$`)
	reFs     = regexp.MustCompile(`^([A-Z][a-z]{2})(\d+)(?:[A-Z][a-z]{2})?fs`)
	reSyn    = regexp.MustCompile(`^([A-Z][a-z]{2})(\d+)=$`)
	reSubst  = regexp.MustCompile(`^([A-Z][a-z]{2})(\d+)([A-Z][a-z]{2}|\*)$`)
)

// ParseChange parses an HGVS protein notation such as "p.Arg97Cys".
// Notations that are well-formed but outside the recognized shapes (including
// the explicit unknown-effect marker "p.?") yield a Mutation with Type
// Unknown rather than an error; callers skip those variants.
// A ParseError is returned only for input that is not HGVS.p at all.
func ParseChange(notation string) (*Mutation, error) {
	s := strings.TrimSpace(notation)

	// VEP emits "ENSP00000123456.1:p.Arg97Cys"; keep only the change part.
	if idx := strings.LastIndexByte(s, ':'); idx >= 0 {
		s = s[idx+1:]
	}

	if !strings.HasPrefix(s, "p.") {
		return nil, &ParseError{Notation: notation, Message: "missing p. prefix"}
	}
	s = strings.TrimPrefix(s, "p.")
	s = strings.Trim(s, "()")

	if s == "" {
		return nil, &ParseError{Notation: notation, Message: "empty change"}
	}
	if s == "?" {
		return &Mutation{Type: Unknown}, nil
	}

	if m := reDelIns.FindStringSubmatch(s); m != nil {
		return buildMutation(m[1], m[2], decodeResidues(m[3]), DelIns)
	}
	if m := reIns.FindStringSubmatch(s); m != nil {
		return buildMutation(m[1], m[2], decodeResidues(m[5]), Insertion)
	}
	if m := reDel.FindStringSubmatch(s); m != nil {
		return buildMutation(m[1], m[2], "", Deletion)
	}
	if m := reFs.FindStringSubmatch(s); m != nil {
		return buildMutation(m[1], m[2], "", Frameshift)
	}
	if m := reSyn.FindStringSubmatch(s); m != nil {
		return buildMutation(m[1], m[2], "", Synonymous)
	}
	if m := reSubst.FindStringSubmatch(s); m != nil {
		alt := decodeResidues(m[3])
		if alt == "" {
			return &Mutation{Type: Unknown}, nil
		}
		typ := Missense
		if alt == string(Stop) {
			typ = Nonsense
		}
		return buildMutation(m[1], m[2], alt, typ)
	}

	return &Mutation{Type: Unknown}, nil
}

func buildMutation(refCode, posStr, alt string, typ MutationType) (*Mutation, error) {
	ref, ok := ThreeToOne[refCode]
	if !ok {
		// Unrecognized residue codes are an unknown outcome, not a failure.
		return &Mutation{Type: Unknown}, nil
	}
	pos, err := strconv.Atoi(posStr)
	if err != nil || pos < 1 {
		return &Mutation{Type: Unknown}, nil
	}
	return &Mutation{Position: pos, Ref: ref, Alt: alt, Type: typ}, nil
}

// decodeResidues converts a run of three-letter codes ("GlyPro") or "*" to
// single letters ("GP"). Returns "" when any code is unrecognized.
func decodeResidues(s string) string {
	if s == "*" {
		return string(Stop)
	}
	var b strings.Builder
	for i := 0; i+3 <= len(s); i += 3 {
		one, ok := ThreeToOne[s[i:i+3]]
		if !ok {
			return ""
		}
		b.WriteByte(one)
	}
	return b.String()
}
