package ml

import (
	"math"
	"testing"

	"github.com/CHS18-77/FineEase/pkg/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplain_SortedByMagnitude(t *testing.T) {
	rows, labels := ternaryTrainingData()
	m, _, err := Train(rows, labels)
	require.NoError(t, err)

	fv := make(FeatureVector, FeatureCount)
	fv[0] = 12
	fv[1] = 2

	exp, err := Explain(m, fv)
	require.NoError(t, err)
	require.Len(t, exp.Contributions, FeatureCount)

	for i := 1; i < len(exp.Contributions); i++ {
		assert.GreaterOrEqual(t,
			math.Abs(exp.Contributions[i-1].Contribution),
			math.Abs(exp.Contributions[i].Contribution))
	}
}

func TestExplain_ContributionsMatchModel(t *testing.T) {
	rows, labels := ternaryTrainingData()
	m, _, err := Train(rows, labels)
	require.NoError(t, err)

	fv := make(FeatureVector, FeatureCount)
	fv[2] = 11

	exp, err := Explain(m, fv)
	require.NoError(t, err)

	classRow := -1
	for i, c := range m.Classes {
		if c == exp.Label {
			classRow = i
		}
	}
	require.GreaterOrEqual(t, classRow, 0)

	scaled := m.Scaler.Transform(fv)
	byName := map[string]Contribution{}
	for _, c := range exp.Contributions {
		byName[c.Feature] = c
	}
	for i, name := range m.FeatureSchema {
		c := byName[name]
		assert.Equal(t, fv[i], c.RawValue)
		assert.InDelta(t, scaled[i], c.ScaledValue, 1e-12)
		assert.InDelta(t, m.Coefs[classRow][i]*scaled[i], c.Contribution, 1e-12)
	}
}

func TestExplain_BinaryFirstClassNegatesWeights(t *testing.T) {
	rows, labels := binaryTrainingData()
	m, _, err := Train(rows, labels)
	require.NoError(t, err)

	// predicted as the first class in sorted order (Good)
	fv := make(FeatureVector, FeatureCount)
	fv[0] = 9

	exp, err := Explain(m, fv)
	require.NoError(t, err)
	require.Equal(t, m.Classes[0], exp.Label)

	// contributions are the exact featurewise negation of the raw
	// weight vector applied to the scaled features
	scaled := m.Scaler.Transform(fv)
	byName := map[string]Contribution{}
	for _, c := range exp.Contributions {
		byName[c.Feature] = c
	}
	for i, name := range m.FeatureSchema {
		assert.Equal(t, -(m.Coefs[0][i] * scaled[i]), byName[name].Contribution)
	}
}

func TestExplain_BinarySecondClassUsesRawWeights(t *testing.T) {
	rows, labels := binaryTrainingData()
	m, _, err := Train(rows, labels)
	require.NoError(t, err)

	fv := make(FeatureVector, FeatureCount)
	fv[0] = -9

	exp, err := Explain(m, fv)
	require.NoError(t, err)
	require.Equal(t, m.Classes[1], exp.Label)

	scaled := m.Scaler.Transform(fv)
	byName := map[string]Contribution{}
	for _, c := range exp.Contributions {
		byName[c.Feature] = c
	}
	for i, name := range m.FeatureSchema {
		assert.Equal(t, m.Coefs[0][i]*scaled[i], byName[name].Contribution)
	}
}

func TestExplain_UnsupportedShape(t *testing.T) {
	_, err := Explain(nil, make(FeatureVector, FeatureCount))
	assert.ErrorIs(t, err, ErrUnsupportedModelShape)

	_, err = Explain(&Model{Classes: finance.Categories}, make(FeatureVector, FeatureCount))
	assert.ErrorIs(t, err, ErrUnsupportedModelShape)
}

func TestExplanation_Top(t *testing.T) {
	e := &Explanation{Contributions: []Contribution{
		{Feature: "a", Contribution: 3},
		{Feature: "b", Contribution: -2},
		{Feature: "c", Contribution: 1},
	}}

	top := e.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].Feature)

	assert.Len(t, e.Top(10), 3)
}
