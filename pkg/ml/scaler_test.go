package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitScaler(t *testing.T) {
	rows := []FeatureVector{
		{1, 10},
		{3, 10},
	}

	s, err := FitScaler(rows)
	require.NoError(t, err)
	assert.InDelta(t, 2, s.Mean[0], 1e-9)
	assert.InDelta(t, 1, s.Scale[0], 1e-9)
	// constant feature keeps scale 1 so transform yields 0
	assert.InDelta(t, 10, s.Mean[1], 1e-9)
	assert.InDelta(t, 1, s.Scale[1], 1e-9)

	scaled := s.Transform(FeatureVector{3, 10})
	assert.InDelta(t, 1, scaled[0], 1e-9)
	assert.InDelta(t, 0, scaled[1], 1e-9)
}

func TestFitScaler_Empty(t *testing.T) {
	_, err := FitScaler(nil)
	assert.Error(t, err)
}

func TestFitScaler_Ragged(t *testing.T) {
	_, err := FitScaler([]FeatureVector{{1, 2}, {1}})
	assert.Error(t, err)
}

func TestScaler_TransformAll(t *testing.T) {
	rows := []FeatureVector{{0}, {2}, {4}}
	s, err := FitScaler(rows)
	require.NoError(t, err)

	scaled := s.TransformAll(rows)
	require.Len(t, scaled, 3)

	// standardized values have zero mean
	sum := 0.0
	for _, r := range scaled {
		sum += r[0]
	}
	assert.InDelta(t, 0, sum, 1e-9)
}
