package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScoreSet_OverallIsMeanOfSupplied(t *testing.T) {
	set, err := NewScoreSet(map[ScoreDimension]float64{
		DimMethodology: 80,
		DimProvenance:  60,
	})
	require.NoError(t, err)

	// Absent dimensions are excluded from the mean, not treated as zero
	assert.Equal(t, 70.0, set.Overall)
	assert.Len(t, set.Dimensions, 2)
}

func TestNewScoreSet_SingleDimension(t *testing.T) {
	set, err := NewScoreSet(map[ScoreDimension]float64{DimRigor: 45})
	require.NoError(t, err)
	assert.Equal(t, 45.0, set.Overall)
}

func TestNewScoreSet_UnknownDimension(t *testing.T) {
	_, err := NewScoreSet(map[ScoreDimension]float64{"novelty": 50})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewScoreSet_OutOfRange(t *testing.T) {
	_, err := NewScoreSet(map[ScoreDimension]float64{DimMethodology: 101})
	require.Error(t, err)

	var rangeErr *ScoreRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, DimMethodology, rangeErr.Dimension)
	assert.Equal(t, 101.0, rangeErr.Value)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = NewScoreSet(map[ScoreDimension]float64{DimMethodology: -1})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestNewScoreSet_BoundaryValues(t *testing.T) {
	set, err := NewScoreSet(map[ScoreDimension]float64{
		DimMethodology: 0,
		DimProvenance:  100,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, set.Overall)
}

func TestNewScoreSet_Empty(t *testing.T) {
	_, err := NewScoreSet(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConsensusFor(t *testing.T) {
	assert.Equal(t, ConsensusHigh, ConsensusFor(0))
	assert.Equal(t, ConsensusHigh, ConsensusFor(20))
	assert.Equal(t, ConsensusMedium, ConsensusFor(21))
	assert.Equal(t, ConsensusMedium, ConsensusFor(40))
	assert.Equal(t, ConsensusLow, ConsensusFor(41))
}
