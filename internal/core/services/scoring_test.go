package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refledger/refledger-core/internal/core/domain"
)

func scorer(t *testing.T, name string, dims map[domain.ScoreDimension]float64) *domain.ScorerScore {
	t.Helper()
	set, err := domain.NewScoreSet(dims)
	require.NoError(t, err)
	return &domain.ScorerScore{Scorer: name, ScoreSet: *set}
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil)
	assert.Empty(t, agg.Dimensions)
	assert.Nil(t, agg.Overall)
}

func TestAggregate_LowConsensus(t *testing.T) {
	scores := []*domain.ScorerScore{
		scorer(t, "alice", map[domain.ScoreDimension]float64{domain.DimMethodology: 40}),
		scorer(t, "bob", map[domain.ScoreDimension]float64{domain.DimMethodology: 50}),
		scorer(t, "carol", map[domain.ScoreDimension]float64{domain.DimMethodology: 90}),
	}

	agg := Aggregate(scores)
	m := agg.Dimensions[domain.DimMethodology]
	assert.Equal(t, 60.0, m.Mean)
	assert.Equal(t, 40.0, m.Min)
	assert.Equal(t, 90.0, m.Max)
	assert.Equal(t, 50.0, m.Range)
	assert.Equal(t, 3, m.Scorers)
	assert.Equal(t, domain.ConsensusLow, m.Consensus)

	require.NotNil(t, agg.Overall)
	assert.Equal(t, domain.ConsensusLow, agg.Overall.Consensus)
}

func TestAggregate_HighConsensus(t *testing.T) {
	scores := []*domain.ScorerScore{
		scorer(t, "alice", map[domain.ScoreDimension]float64{domain.DimRigor: 48}),
		scorer(t, "bob", map[domain.ScoreDimension]float64{domain.DimRigor: 50}),
		scorer(t, "carol", map[domain.ScoreDimension]float64{domain.DimRigor: 52}),
	}

	agg := Aggregate(scores)
	r := agg.Dimensions[domain.DimRigor]
	assert.Equal(t, 50.0, r.Mean)
	assert.Equal(t, 4.0, r.Range)
	assert.Equal(t, domain.ConsensusHigh, r.Consensus)
}

func TestAggregate_DimensionPresentInSomeScorers(t *testing.T) {
	scores := []*domain.ScorerScore{
		scorer(t, "alice", map[domain.ScoreDimension]float64{
			domain.DimMethodology: 80,
			domain.DimProvenance:  60,
		}),
		scorer(t, "bob", map[domain.ScoreDimension]float64{
			domain.DimMethodology: 70,
		}),
	}

	agg := Aggregate(scores)

	m := agg.Dimensions[domain.DimMethodology]
	assert.Equal(t, 2, m.Scorers)
	assert.Equal(t, 75.0, m.Mean)

	// Provenance only counts the scorer that supplied it
	p := agg.Dimensions[domain.DimProvenance]
	assert.Equal(t, 1, p.Scorers)
	assert.Equal(t, 60.0, p.Mean)

	_, ok := agg.Dimensions[domain.DimRigor]
	assert.False(t, ok)
}

func TestSingleScore_RejectsUnknownDimension(t *testing.T) {
	_, err := SingleScore(map[domain.ScoreDimension]float64{"vibes": 50})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
