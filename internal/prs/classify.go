package prs

// Risk tiers in ascending order of concern.
const (
	RiskLow     = "low"
	RiskMedium  = "medium"
	RiskHigh    = "high"
	RiskExtreme = "extreme"
)

// Thresholds are the three tier boundaries [t0, t1, t2] in ascending order.
type Thresholds [3]float64

// DefaultThresholds is the reference triple used when no sex-specific
// thresholds apply.
var DefaultThresholds = Thresholds{-1.0, 0.0, 1.0}

// ThresholdSet holds per-sex threshold triples with a shared default.
type ThresholdSet struct {
	Default Thresholds
	BySex   map[string]Thresholds
}

// NewThresholdSet builds a set with the reference default and no per-sex
// overrides.
func NewThresholdSet() ThresholdSet {
	return ThresholdSet{Default: DefaultThresholds}
}

// ForSex returns the threshold triple for the reported sex, falling back to
// the default when the sex is unspecified or unlisted.
func (ts ThresholdSet) ForSex(sex string) Thresholds {
	if t, ok := ts.BySex[sex]; ok {
		return t
	}
	return ts.Default
}

// ClassifyRisk maps a PRS score to a tier using half-open intervals: a score
// exactly at a boundary falls into the higher tier.
func ClassifyRisk(score float64, t Thresholds) string {
	switch {
	case score < t[0]:
		return RiskLow
	case score < t[1]:
		return RiskMedium
	case score < t[2]:
		return RiskHigh
	default:
		return RiskExtreme
	}
}
