package ml

import (
	"math"

	"github.com/pkg/errors"
)

// Scaler standardizes features to zero mean and unit variance. It is
// fitted on the training partition only and applied unchanged to the
// held-out partition and at inference time.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitScaler computes per-feature mean and standard deviation over rows.
// A constant feature gets scale 1 so transforming it yields 0 rather
// than a division by zero.
func FitScaler(rows []FeatureVector) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, errors.New("cannot fit scaler on empty data")
	}
	n := len(rows[0])
	mean := make([]float64, n)
	scale := make([]float64, n)

	for _, row := range rows {
		if len(row) != n {
			return nil, errors.Errorf("ragged feature row: want %d values, got %d", n, len(row))
		}
		for i, v := range row {
			mean[i] += v
		}
	}
	for i := range mean {
		mean[i] /= float64(len(rows))
	}

	for _, row := range rows {
		for i, v := range row {
			d := v - mean[i]
			scale[i] += d * d
		}
	}
	for i := range scale {
		scale[i] = math.Sqrt(scale[i] / float64(len(rows)))
		if scale[i] == 0 {
			scale[i] = 1
		}
	}

	return &Scaler{Mean: mean, Scale: scale}, nil
}

// Transform standardizes a single vector.
func (s *Scaler) Transform(row FeatureVector) FeatureVector {
	out := make(FeatureVector, len(row))
	for i, v := range row {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out
}

// TransformAll standardizes a set of vectors.
func (s *Scaler) TransformAll(rows []FeatureVector) []FeatureVector {
	out := make([]FeatureVector, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
