package domain

// ScoreDimension names one axis of the fixed quality-scoring vocabulary
type ScoreDimension string

const (
	DimMethodology     ScoreDimension = "methodology"
	DimProvenance      ScoreDimension = "provenance"
	DimTransparency    ScoreDimension = "transparency"
	DimReproducibility ScoreDimension = "reproducibility"
	DimRigor           ScoreDimension = "rigor"
)

// ScoreDimensions is the closed set of accepted dimensions, in display order.
var ScoreDimensions = []ScoreDimension{
	DimMethodology,
	DimProvenance,
	DimTransparency,
	DimReproducibility,
	DimRigor,
}

// KnownDimension reports whether d belongs to the fixed vocabulary.
func KnownDimension(d ScoreDimension) bool {
	for _, k := range ScoreDimensions {
		if k == d {
			return true
		}
	}
	return false
}

// ScoreSet maps supplied dimensions to values in [0,100] plus the derived
// overall mean. Dimensions absent from the set are excluded from the mean,
// not treated as zero.
type ScoreSet struct {
	Dimensions map[ScoreDimension]float64 `json:"dimensions"`
	Overall    float64                    `json:"overall"`
}

// NewScoreSet validates the supplied dimensions and derives the overall
// mean. Unknown dimensions are rejected as ErrInvalidInput; out-of-range
// values as a ScoreRangeError naming the dimension.
func NewScoreSet(dims map[ScoreDimension]float64) (*ScoreSet, error) {
	if len(dims) == 0 {
		return nil, ErrInvalidInput
	}
	set := &ScoreSet{Dimensions: make(map[ScoreDimension]float64, len(dims))}
	var sum float64
	for d, v := range dims {
		if !KnownDimension(d) {
			return nil, ErrInvalidInput
		}
		if v < 0 || v > 100 {
			return nil, &ScoreRangeError{Dimension: d, Value: v}
		}
		set.Dimensions[d] = v
		sum += v
	}
	set.Overall = sum / float64(len(dims))
	return set, nil
}

// ScorerScore is one scorer's contribution to a multi-scorer set.
type ScorerScore struct {
	Scorer string `json:"scorer"`
	ScoreSet
}

// Consensus classifies scorer agreement by value range.
type Consensus string

const (
	ConsensusHigh   Consensus = "high"   // range <= 20
	ConsensusMedium Consensus = "medium" // range <= 40
	ConsensusLow    Consensus = "low"
)

// ConsensusFor maps a dimension's value range to a consensus level.
func ConsensusFor(valueRange float64) Consensus {
	switch {
	case valueRange <= 20:
		return ConsensusHigh
	case valueRange <= 40:
		return ConsensusMedium
	default:
		return ConsensusLow
	}
}

// DimensionAggregate summarizes one dimension across scorers.
type DimensionAggregate struct {
	Mean      float64   `json:"mean"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Range     float64   `json:"range"`
	Scorers   int       `json:"scorers"`
	Consensus Consensus `json:"consensus"`
}

// ScoreAggregate summarizes a multi-scorer score set per dimension plus the
// scorers' own overall values.
type ScoreAggregate struct {
	Dimensions map[ScoreDimension]DimensionAggregate `json:"dimensions"`
	Overall    *DimensionAggregate                   `json:"overall,omitempty"`
}
