package ml

import (
	"sort"

	"github.com/CHS18-77/FineEase/pkg/finance"
)

// Contribution is one feature's signed share of the predicted class's
// decision value. It is a first-order decomposition valid for linear
// models: an approximation of influence, not a causal claim.
type Contribution struct {
	Feature      string  `json:"feature" yaml:"feature"`
	RawValue     float64 `json:"raw_value" yaml:"rawValue"`
	ScaledValue  float64 `json:"scaled_value" yaml:"scaledValue"`
	Contribution float64 `json:"contribution" yaml:"contribution"`
}

// Explanation decomposes one prediction into per-feature contributions,
// sorted by descending absolute contribution.
type Explanation struct {
	Label         finance.HealthCategory `json:"prediction" yaml:"prediction"`
	Contributions []Contribution         `json:"contributions" yaml:"contributions"`
}

// Explain standardizes the vector with the model's own scaler and
// multiplies it elementwise by the predicted class's weight row. For a
// binary model the single stored row points toward the second class, so
// when the first class is predicted the row is negated first: the
// contributions then always push toward the predicted label's log-odds.
func Explain(m *Model, fv FeatureVector) (*Explanation, error) {
	if m == nil || m.Scaler == nil || len(m.Coefs) == 0 {
		return nil, ErrUnsupportedModelShape
	}

	pred, err := m.Predict(fv)
	if err != nil {
		return nil, err
	}
	scaled := m.Scaler.Transform(fv)

	var weights []float64
	if len(m.Classes) == 2 {
		weights = m.Coefs[0]
		if pred.Label == m.Classes[0] {
			neg := make([]float64, len(weights))
			for i, w := range weights {
				neg[i] = -w
			}
			weights = neg
		}
	} else {
		for i, c := range m.Classes {
			if c == pred.Label {
				weights = m.Coefs[i]
				break
			}
		}
	}

	contribs := make([]Contribution, len(m.FeatureSchema))
	for i, name := range m.FeatureSchema {
		contribs[i] = Contribution{
			Feature:      name,
			RawValue:     fv[i],
			ScaledValue:  scaled[i],
			Contribution: weights[i] * scaled[i],
		}
	}
	sort.SliceStable(contribs, func(i, j int) bool {
		return abs(contribs[i].Contribution) > abs(contribs[j].Contribution)
	})

	return &Explanation{Label: pred.Label, Contributions: contribs}, nil
}

// Top returns the k largest contributions by magnitude.
func (e *Explanation) Top(k int) []Contribution {
	if k > len(e.Contributions) {
		k = len(e.Contributions)
	}
	return e.Contributions[:k]
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
