package services

import "github.com/refledger/refledger-core/internal/core/domain"

// SingleScore validates the supplied dimensions and derives the overall
// mean. Dimensions absent from the input are excluded from the mean.
func SingleScore(dims map[domain.ScoreDimension]float64) (*domain.ScoreSet, error) {
	return domain.NewScoreSet(dims)
}

// Aggregate summarizes a multi-scorer score set. For each dimension present
// in at least one scorer it computes mean/min/max/range and the consensus
// classification; the scorers' own overall values are aggregated the same
// way. Empty input yields an empty aggregate, not an error.
func Aggregate(scores []*domain.ScorerScore) *domain.ScoreAggregate {
	agg := &domain.ScoreAggregate{
		Dimensions: make(map[domain.ScoreDimension]domain.DimensionAggregate),
	}
	if len(scores) == 0 {
		return agg
	}

	for _, dim := range domain.ScoreDimensions {
		var values []float64
		for _, s := range scores {
			if v, ok := s.Dimensions[dim]; ok {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			agg.Dimensions[dim] = summarize(values)
		}
	}

	overalls := make([]float64, len(scores))
	for i, s := range scores {
		overalls[i] = s.Overall
	}
	overall := summarize(overalls)
	agg.Overall = &overall

	return agg
}

func summarize(values []float64) domain.DimensionAggregate {
	min, max, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	r := max - min
	return domain.DimensionAggregate{
		Mean:      sum / float64(len(values)),
		Min:       min,
		Max:       max,
		Range:     r,
		Scorers:   len(values),
		Consensus: domain.ConsensusFor(r),
	}
}
