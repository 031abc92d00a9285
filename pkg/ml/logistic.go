package ml

import "math"

const (
	trainEpochs       = 500
	trainLearningRate = 0.1
)

// fitLogistic trains a logistic regression on standardized rows by batch
// gradient descent. With two classes it produces a single weight vector
// whose positive direction points toward the second class in sorted label
// order; with more it produces one weight row per class (multinomial
// softmax). Zero initialization and a fixed epoch count keep training
// fully deterministic.
func fitLogistic(rows []FeatureVector, classIdx []int, numClasses int) (coefs [][]float64, intercepts []float64) {
	if numClasses == 2 {
		w, b := fitBinary(rows, classIdx)
		return [][]float64{w}, []float64{b}
	}
	return fitMultinomial(rows, classIdx, numClasses)
}

func fitBinary(rows []FeatureVector, classIdx []int) ([]float64, float64) {
	nFeat := len(rows[0])
	w := make([]float64, nFeat)
	b := 0.0
	n := float64(len(rows))

	gradW := make([]float64, nFeat)
	for epoch := 0; epoch < trainEpochs; epoch++ {
		for i := range gradW {
			gradW[i] = 0
		}
		gradB := 0.0
		for r, row := range rows {
			p := sigmoid(dot(w, row) + b)
			// class index 1 is the positive class
			err := p - float64(classIdx[r])
			for i, v := range row {
				gradW[i] += err * v
			}
			gradB += err
		}
		for i := range w {
			w[i] -= trainLearningRate * gradW[i] / n
		}
		b -= trainLearningRate * gradB / n
	}
	return w, b
}

func fitMultinomial(rows []FeatureVector, classIdx []int, numClasses int) ([][]float64, []float64) {
	nFeat := len(rows[0])
	w := make([][]float64, numClasses)
	gradW := make([][]float64, numClasses)
	for c := range w {
		w[c] = make([]float64, nFeat)
		gradW[c] = make([]float64, nFeat)
	}
	b := make([]float64, numClasses)
	gradB := make([]float64, numClasses)
	n := float64(len(rows))

	logits := make([]float64, numClasses)
	for epoch := 0; epoch < trainEpochs; epoch++ {
		for c := range gradW {
			for i := range gradW[c] {
				gradW[c][i] = 0
			}
			gradB[c] = 0
		}
		for r, row := range rows {
			for c := range logits {
				logits[c] = dot(w[c], row) + b[c]
			}
			probs := softmax(logits)
			for c := range probs {
				err := probs[c]
				if c == classIdx[r] {
					err -= 1
				}
				for i, v := range row {
					gradW[c][i] += err * v
				}
				gradB[c] += err
			}
		}
		for c := range w {
			for i := range w[c] {
				w[c][i] -= trainLearningRate * gradW[c][i] / n
			}
			b[c] -= trainLearningRate * gradB[c] / n
		}
	}
	return w, b
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// softmax is computed with the max subtracted for numeric stability.
func softmax(logits []float64) []float64 {
	maxL := logits[0]
	for _, l := range logits[1:] {
		if l > maxL {
			maxL = l
		}
	}
	out := make([]float64, len(logits))
	sum := 0.0
	for i, l := range logits {
		out[i] = math.Exp(l - maxL)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
