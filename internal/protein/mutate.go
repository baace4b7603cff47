package protein

// Apply projects a parsed mutation onto a wild-type sequence and returns the
// mutated sequence. The second return value is false when the mutation cannot
// be applied: position outside [1, len(seq)], or an Unknown mutation type.
// Apply never panics and never silently truncates.
func Apply(seq string, m *Mutation) (string, bool) {
	if m.Type == Unknown {
		return "", false
	}
	if m.Position < 1 || m.Position > len(seq) {
		return "", false
	}

	i := m.Position - 1

	switch m.Type {
	case Missense, Nonsense:
		return seq[:i] + m.Alt + seq[i+1:], true
	case Synonymous:
		return seq, true
	case Frameshift:
		// Downstream of a frameshift the reading frame is lost; keep the
		// prefix and mark the truncation with a stop.
		return seq[:i] + string(Stop), true
	case Deletion:
		return seq[:i] + seq[i+1:], true
	case Insertion:
		// Residues are inserted immediately after the anchor position.
		return seq[:i+1] + m.Alt + seq[i+1:], true
	case DelIns:
		return seq[:i] + m.Alt + seq[i+1:], true
	default:
		return "", false
	}
}

// CheckStop reports whether the sequence carries a stop marker, returning the
// sequence truncated at the first stop. Nonsense and frameshift projections
// introduce the marker; wild-type sequences from the sequence repository
// never contain one.
func CheckStop(seq string) (string, bool) {
	for i := 0; i < len(seq); i++ {
		if seq[i] == Stop {
			return seq[:i], true
		}
	}
	return seq, false
}
