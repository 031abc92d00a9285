package ml

import (
	"github.com/CHS18-77/FineEase/pkg/finance"
	"github.com/pkg/errors"
)

// ClassMetrics holds per-class precision, recall, F1, and support.
type ClassMetrics struct {
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
	Support   int     `json:"support" yaml:"support"`
}

// Evaluation is the advisory report produced against the held-out
// partition. It is reported, never gating: a weak model still ships.
type Evaluation struct {
	Classes   []finance.HealthCategory                `json:"classes" yaml:"classes"`
	Report    map[finance.HealthCategory]ClassMetrics `json:"report" yaml:"report"`
	Accuracy  float64                                 `json:"accuracy" yaml:"accuracy"`
	Confusion [][]int                                 `json:"confusion_matrix" yaml:"confusionMatrix"`
}

// Evaluate predicts the held-out rows and builds the classification
// report and confusion matrix. Confusion rows are true classes, columns
// predicted, both in m.Classes order.
func Evaluate(m *Model, rows []FeatureVector, labels []finance.HealthCategory) (*Evaluation, error) {
	pos := make(map[finance.HealthCategory]int, len(m.Classes))
	for i, c := range m.Classes {
		pos[c] = i
	}

	confusion := make([][]int, len(m.Classes))
	for i := range confusion {
		confusion[i] = make([]int, len(m.Classes))
	}

	correct := 0
	for i, row := range rows {
		p, err := m.Predict(row)
		if err != nil {
			return nil, errors.Wrapf(err, "predicting held-out row %d", i)
		}
		truth, ok := pos[labels[i]]
		if !ok {
			return nil, errors.Errorf("held-out label %q absent from trained classes", labels[i])
		}
		confusion[truth][pos[p.Label]]++
		if p.Label == labels[i] {
			correct++
		}
	}

	report := make(map[finance.HealthCategory]ClassMetrics, len(m.Classes))
	for i, c := range m.Classes {
		tp := confusion[i][i]
		support, predicted := 0, 0
		for j := range m.Classes {
			support += confusion[i][j]
			predicted += confusion[j][i]
		}
		report[c] = ClassMetrics{
			Precision: safeRate(tp, predicted),
			Recall:    safeRate(tp, support),
			F1:        f1(safeRate(tp, predicted), safeRate(tp, support)),
			Support:   support,
		}
	}

	accuracy := 0.0
	if len(rows) > 0 {
		accuracy = float64(correct) / float64(len(rows))
	}

	return &Evaluation{
		Classes:   m.Classes,
		Report:    report,
		Accuracy:  accuracy,
		Confusion: confusion,
	}, nil
}

func safeRate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
