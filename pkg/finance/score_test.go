package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	r := &RatioSet{ProgramRatio: 0.8, AdminRatio: 0.2, SurplusRatio: 0.1}
	// (0.8*0.4 + 0.8*0.3 + 0.55*0.3) * 100
	assert.Equal(t, 72.5, Score(r))
	assert.Equal(t, CategoryGood, Categorize(Score(r)))
}

func TestScore_NotClamped(t *testing.T) {
	// Pathological records can legitimately score outside [0,100].
	high := &RatioSet{ProgramRatio: 2, AdminRatio: -1, SurplusRatio: 3}
	assert.Greater(t, Score(high), 100.0)

	low := &RatioSet{ProgramRatio: 0, AdminRatio: 3, SurplusRatio: -5}
	assert.Less(t, Score(low), 0.0)
}

func TestScore_Rounding(t *testing.T) {
	r := &RatioSet{ProgramRatio: 1.0 / 3.0}
	// 0.333... * 0.4 + 0.3 + 0.15 = 0.58333... -> 58.33
	assert.Equal(t, 58.33, Score(r))
}

func TestCategorize_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  HealthCategory
	}{
		{100, CategoryGood},
		{70.0, CategoryGood},
		{69.99, CategoryModerate},
		{50.0, CategoryModerate},
		{49.99, CategoryRisk},
		{0, CategoryRisk},
		{-20, CategoryRisk},
		{140, CategoryGood},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.score), "score %v", tt.score)
	}
}

func TestScore_Monotonicity(t *testing.T) {
	base := &RatioSet{ProgramRatio: 0.5, AdminRatio: 0.3, SurplusRatio: 0.1}
	s := Score(base)

	moreProgram := *base
	moreProgram.ProgramRatio = 0.7
	assert.GreaterOrEqual(t, Score(&moreProgram), s)

	moreAdmin := *base
	moreAdmin.AdminRatio = 0.6
	assert.LessOrEqual(t, Score(&moreAdmin), s)

	moreSurplus := *base
	moreSurplus.SurplusRatio = 0.5
	assert.GreaterOrEqual(t, Score(&moreSurplus), s)
}

func TestScoreRoundTrip_Deterministic(t *testing.T) {
	rec := &FinancialRecord{
		RegNo:            "REG010",
		Year:             2023,
		TotalIncome:      5000000,
		TotalExpenditure: 4500000,
		ProgramExpense:   3600000,
		AdminExpense:     450000,
	}

	var categories []HealthCategory
	for i := 0; i < 3; i++ {
		r, err := ComputeRatios(rec)
		require.NoError(t, err)
		categories = append(categories, Categorize(Score(r)))
	}
	assert.Equal(t, categories[0], categories[1])
	assert.Equal(t, categories[1], categories[2])
}

func TestParseHealthCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseHealthCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseHealthCategory("Excellent")
	assert.Error(t, err)
}
