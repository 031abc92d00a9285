package ml

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/CHS18-77/FineEase/pkg/finance"
	"github.com/pkg/errors"
)

const artifactFileMode = 0600

var (
	// ErrModelUnavailable means the model artifact is missing or corrupt.
	// It is raised once at load, not per request: the artifact is static
	// for the process lifetime, so retrying cannot help.
	ErrModelUnavailable = errors.New("model artifact unavailable")

	// ErrUnsupportedModelShape means the explainer was handed a model
	// without the separable scaler + linear stages it assumes.
	ErrUnsupportedModelShape = errors.New("model does not expose scaler and linear stages")

	// ErrSchemaMismatch means the artifact's embedded feature schema does
	// not match FeatureNames. Predicting through such a model would bind
	// coefficients to the wrong fields, so it fails instead.
	ErrSchemaMismatch = errors.New("model feature schema does not match feature builder order")
)

// Model is the trained artifact: the fitted standardization transform,
// the linear classifier, the class labels in training order, and the
// feature schema the coefficients are bound to. It is read-only after
// load and safe to share across concurrent predictions.
type Model struct {
	FeatureSchema []string                 `json:"feature_schema"`
	Scaler        *Scaler                  `json:"scaler"`
	Classes       []finance.HealthCategory `json:"classes"`
	Coefs         [][]float64              `json:"coefs"`
	Intercepts    []float64                `json:"intercepts"`
}

// Prediction is the inference result for one feature vector.
type Prediction struct {
	Label         finance.HealthCategory             `json:"prediction" yaml:"prediction"`
	Confidence    float64                            `json:"confidence" yaml:"confidence"`
	Probabilities map[finance.HealthCategory]float64 `json:"probabilities" yaml:"probabilities"`
}

// Train fits a model on labeled feature vectors: stratified seeded
// split, scaler fitted on the training partition only, then the logistic
// fit on standardized training rows. The returned Evaluation is advisory
// and computed against the held-out partition.
func Train(rows []FeatureVector, labels []finance.HealthCategory) (*Model, *Evaluation, error) {
	split, err := StratifiedSplit(rows, labels, TestFraction, SplitSeed)
	if err != nil {
		return nil, nil, errors.Wrap(err, "splitting training data")
	}

	scaler, err := FitScaler(split.TrainX)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fitting scaler")
	}

	classes := distinctSorted(split.TrainY)
	if len(classes) < 2 {
		return nil, nil, errors.Errorf("training data has %d distinct labels, need at least 2", len(classes))
	}
	classPos := make(map[finance.HealthCategory]int, len(classes))
	for i, c := range classes {
		classPos[c] = i
	}
	classIdx := make([]int, len(split.TrainY))
	for i, l := range split.TrainY {
		classIdx[i] = classPos[l]
	}

	coefs, intercepts := fitLogistic(scaler.TransformAll(split.TrainX), classIdx, len(classes))

	m := &Model{
		FeatureSchema: append([]string(nil), FeatureNames...),
		Scaler:        scaler,
		Classes:       classes,
		Coefs:         coefs,
		Intercepts:    intercepts,
	}

	eval, err := Evaluate(m, split.TestX, split.TestY)
	if err != nil {
		return nil, nil, errors.Wrap(err, "evaluating held-out partition")
	}
	return m, eval, nil
}

// Predict returns the label with the highest probability, its
// probability as the confidence, and the full probability map over all
// three categories. Categories absent from the training data report 0.
func (m *Model) Predict(fv FeatureVector) (*Prediction, error) {
	if err := m.checkShape(fv); err != nil {
		return nil, err
	}

	probs := m.probabilities(m.Scaler.Transform(fv))

	out := make(map[finance.HealthCategory]float64, len(finance.Categories))
	for _, c := range finance.Categories {
		out[c] = 0
	}
	best := 0
	for i, p := range probs {
		out[m.Classes[i]] = p
		if p > probs[best] {
			best = i
		}
	}

	return &Prediction{
		Label:         m.Classes[best],
		Confidence:    probs[best],
		Probabilities: out,
	}, nil
}

// probabilities computes class probabilities for a standardized vector,
// ordered as m.Classes. Binary models hold a single weight vector whose
// sigmoid output is the probability of the second class.
func (m *Model) probabilities(scaled FeatureVector) []float64 {
	if len(m.Classes) == 2 {
		p := sigmoid(dot(m.Coefs[0], scaled) + m.Intercepts[0])
		return []float64{1 - p, p}
	}
	logits := make([]float64, len(m.Classes))
	for c := range logits {
		logits[c] = dot(m.Coefs[c], scaled) + m.Intercepts[c]
	}
	return softmax(logits)
}

func (m *Model) checkShape(fv FeatureVector) error {
	if m.Scaler == nil || len(m.Coefs) == 0 {
		return ErrUnsupportedModelShape
	}
	if !schemaEqual(m.FeatureSchema, FeatureNames) {
		return ErrSchemaMismatch
	}
	if len(fv) != len(m.FeatureSchema) {
		return errors.Wrapf(ErrSchemaMismatch, "feature vector has %d values, schema has %d", len(fv), len(m.FeatureSchema))
	}
	return nil
}

// Save writes the artifact as indented JSON.
func (m *Model) Save(path string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling model artifact")
	}
	if err := os.WriteFile(path, b, artifactFileMode); err != nil {
		return errors.Wrapf(err, "writing model artifact: %s", path)
	}
	return nil
}

// Load reads and validates a model artifact. Any failure wraps
// ErrModelUnavailable so callers can fail fast at process start.
func Load(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrModelUnavailable, "reading %s: %v", path, err)
	}
	var m Model
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrapf(ErrModelUnavailable, "decoding %s: %v", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Model) validate() error {
	if m.Scaler == nil || len(m.Coefs) == 0 || len(m.Classes) == 0 {
		return errors.Wrap(ErrModelUnavailable, "artifact missing scaler, coefficients, or classes")
	}
	if !schemaEqual(m.FeatureSchema, FeatureNames) {
		return ErrSchemaMismatch
	}
	// The learned label set must map onto the closed enumeration.
	for _, c := range m.Classes {
		if _, err := finance.ParseHealthCategory(string(c)); err != nil {
			return errors.Wrapf(ErrModelUnavailable, "artifact carries unexpected class label %q", c)
		}
	}
	wantRows := len(m.Classes)
	if wantRows == 2 {
		wantRows = 1
	}
	if len(m.Coefs) != wantRows || len(m.Intercepts) != wantRows {
		return errors.Wrapf(ErrModelUnavailable,
			"artifact has %d coefficient rows and %d intercepts for %d classes",
			len(m.Coefs), len(m.Intercepts), len(m.Classes))
	}
	for _, row := range m.Coefs {
		if len(row) != len(m.FeatureSchema) {
			return errors.Wrapf(ErrModelUnavailable,
				"coefficient row has %d values for %d features", len(row), len(m.FeatureSchema))
		}
	}
	return nil
}

func schemaEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func distinctSorted(labels []finance.HealthCategory) []finance.HealthCategory {
	seen := make(map[finance.HealthCategory]bool)
	var out []finance.HealthCategory
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
