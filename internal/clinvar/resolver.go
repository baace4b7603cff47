package clinvar

import (
	"go.uber.org/zap"

	"github.com/genorisk/genorisk/internal/ident"
)

// NoteLowConfidence marks an annotation that came from the fallback table
// rather than the authoritative one.
const NoteLowConfidence = "low_confidence_source"

// Annotation is the uniform result shape of a clinical lookup, regardless of
// which backing table matched.
type Annotation struct {
	Chrom        string `json:"Chromosome"`
	Pos          int64  `json:"Start"`
	ID           string `json:"ID"`
	Ref          string `json:"Ref,omitempty"`
	Alt          string `json:"Alt,omitempty"`
	Significance string `json:"ClinicalSignificance"`
	Gene         string `json:"Gene"`
	Phenotype    string `json:"Phenotype"`
	Note         string `json:"note,omitempty"` // NoteLowConfidence when set
}

// Table is a clinical reference table that can be queried by classified
// identifier. A miss is (nil, nil); only lookup-layer faults return an error.
type Table interface {
	Lookup(id ident.Identifier) (*Annotation, error)
}

// Resolver chains a primary authoritative table with an optional secondary
// fallback table of lower confidence.
type Resolver struct {
	primary   Table
	secondary Table
	logger    *zap.Logger
}

// NewResolver creates a resolver over the given tables. secondary may be nil.
func NewResolver(primary, secondary Table) *Resolver {
	return &Resolver{
		primary:   primary,
		secondary: secondary,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for warning messages.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Resolve looks up a variant identifier and returns its clinical annotation,
// or nil when no table matches. Misses and unclassifiable identifiers are
// expected outcomes, not errors; lookup-layer faults are logged and also
// surface as nil so one bad lookup never aborts a batch.
//
// On a primary-table miss the secondary table is consulted, and a hit from it
// carries the NoteLowConfidence marker. The secondary table is not queried
// when the primary matches.
func (r *Resolver) Resolve(identifier string) *Annotation {
	id := ident.Classify(identifier)

	if r.primary != nil {
		a, err := r.primary.Lookup(id)
		if err != nil {
			r.logger.Warn("primary clinical lookup failed",
				zap.String("identifier", identifier),
				zap.Error(err))
		} else if a != nil {
			return a
		}
	}

	if r.secondary != nil {
		a, err := r.secondary.Lookup(id)
		if err != nil {
			r.logger.Warn("secondary clinical lookup failed",
				zap.String("identifier", identifier),
				zap.Error(err))
		} else if a != nil {
			a.Note = NoteLowConfidence
			return a
		}
	}

	return nil
}
