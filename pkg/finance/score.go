package finance

import (
	"math"

	"github.com/pkg/errors"
)

// HealthCategory is the ordinal risk bucket a score falls into.
// It is a closed enumeration: anything else coming out of a model
// artifact is rejected at load time.
type HealthCategory string

const (
	CategoryGood     HealthCategory = "Good"
	CategoryModerate HealthCategory = "Moderate"
	CategoryRisk     HealthCategory = "Risk"
)

// Categories lists all health categories in lexicographic order. The
// trained model reports a probability for each of these, zero for any
// category absent from its training data.
var Categories = []HealthCategory{CategoryGood, CategoryModerate, CategoryRisk}

// ParseHealthCategory maps an external label onto the closed enumeration.
func ParseHealthCategory(s string) (HealthCategory, error) {
	switch HealthCategory(s) {
	case CategoryGood, CategoryModerate, CategoryRisk:
		return HealthCategory(s), nil
	}
	return "", errors.Errorf("unknown health category: %q", s)
}

const (
	programWeight = 0.4
	adminWeight   = 0.3
	surplusWeight = 0.3

	goodThreshold     = 70
	moderateThreshold = 50
)

// Score combines a RatioSet into the composite health score, rounded to
// two decimals. The weights and the surplus rescale ((x+1)/2 maps the
// [-1,1] surplus range onto [0,1]) are fixed constants of the scoring
// design. The result is not clamped: pathological records with ratios
// outside [0,1] legitimately score outside [0,100], and the category
// thresholds below tolerate that.
func Score(r *RatioSet) float64 {
	s := (r.ProgramRatio*programWeight +
		(1-r.AdminRatio)*adminWeight +
		((r.SurplusRatio+1)/2)*surplusWeight) * 100
	return math.Round(s*100) / 100
}

// Categorize maps a score to its category. Total over all reals:
// score >= 70 is Good, 50 <= score < 70 is Moderate, below 50 is Risk.
// Used only to manufacture training labels; inference relies on the
// classifier's own learned boundary.
func Categorize(score float64) HealthCategory {
	switch {
	case score >= goodThreshold:
		return CategoryGood
	case score >= moderateThreshold:
		return CategoryModerate
	default:
		return CategoryRisk
	}
}
