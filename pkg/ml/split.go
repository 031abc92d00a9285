package ml

import (
	"math/rand"
	"sort"

	"github.com/CHS18-77/FineEase/pkg/finance"
	"github.com/pkg/errors"
)

// SplitSeed makes the training partition reproducible across runs.
const SplitSeed = 42

// TestFraction is the share of rows held out for evaluation.
const TestFraction = 0.25

// Split is a stratified train/held-out partition of a labeled dataset.
type Split struct {
	TrainX []FeatureVector
	TrainY []finance.HealthCategory
	TestX  []FeatureVector
	TestY  []finance.HealthCategory
}

// StratifiedSplit partitions rows so that each label keeps roughly the
// same proportion in both partitions. The shuffle is seeded, so the same
// input always produces the same partition.
func StratifiedSplit(rows []FeatureVector, labels []finance.HealthCategory, testFraction float64, seed int64) (*Split, error) {
	if len(rows) != len(labels) {
		return nil, errors.Errorf("rows and labels length mismatch: %d vs %d", len(rows), len(labels))
	}
	if len(rows) == 0 {
		return nil, errors.New("cannot split empty dataset")
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, errors.Errorf("test fraction must be in (0,1), got %v", testFraction)
	}

	byLabel := make(map[finance.HealthCategory][]int)
	for i, l := range labels {
		byLabel[l] = append(byLabel[l], i)
	}

	// Iterate labels in sorted order so the rng consumption is stable.
	sorted := make([]string, 0, len(byLabel))
	for l := range byLabel {
		sorted = append(sorted, string(l))
	}
	sort.Strings(sorted)

	rng := rand.New(rand.NewSource(seed))
	s := &Split{}
	for _, name := range sorted {
		idx := byLabel[finance.HealthCategory(name)]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		nTest := int(float64(len(idx)) * testFraction)
		if nTest == 0 && len(idx) > 1 {
			nTest = 1
		}
		for k, i := range idx {
			if k < nTest {
				s.TestX = append(s.TestX, rows[i])
				s.TestY = append(s.TestY, labels[i])
			} else {
				s.TrainX = append(s.TrainX, rows[i])
				s.TrainY = append(s.TrainY, labels[i])
			}
		}
	}

	if len(s.TrainX) == 0 {
		return nil, errors.New("split produced empty training partition")
	}
	return s, nil
}
