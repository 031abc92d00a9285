package data

import (
	"database/sql"
	"testing"

	"github.com/CHS18-77/FineEase/pkg/finance"
	"github.com/CHS18-77/FineEase/pkg/ml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredFixture(t *testing.T, db *sql.DB) []*ScoredRecord {
	t.Helper()
	require.NoError(t, SaveFinancials(db, testRecords()))
	res, err := ScoreAndSave(db)
	require.NoError(t, err)
	return res.Records
}

func TestScoreAndSave(t *testing.T) {
	db := setupTestDB(t)
	recs := scoredFixture(t, db)
	require.Len(t, recs, 3)

	got, err := GetScores(db)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// REG001/2024: program 0.8, admin 0.2, surplus 0.2
	row := got[1]
	assert.Equal(t, "REG001", row.RegNo)
	assert.Equal(t, 2024, row.Year)
	assert.InDelta(t, 0.8, row.ProgramRatio, 1e-9)
	assert.InDelta(t, 0.2, row.AdminRatio, 1e-9)
	assert.Equal(t, 74.0, row.HealthScore)
	assert.Equal(t, finance.CategoryGood, row.HealthCategory)
}

func TestGetLatestScores(t *testing.T) {
	db := setupTestDB(t)
	scoredFixture(t, db)

	latest, err := GetLatestScores(db)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, 2024, latest[0].Year)
	assert.Equal(t, "REG001", latest[0].RegNo)
	assert.Equal(t, "REG002", latest[1].RegNo)
}

func TestGetLatestScoreByRegNo(t *testing.T) {
	db := setupTestDB(t)
	scoredFixture(t, db)

	row, err := GetLatestScoreByRegNo(db, "REG001")
	require.NoError(t, err)
	assert.Equal(t, 2024, row.Year)

	_, err = GetLatestScoreByRegNo(db, "REG999")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetTrainingData(t *testing.T) {
	db := setupTestDB(t)
	scoredFixture(t, db)

	rows, labels, err := GetTrainingData(db)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Len(t, labels, 3)

	for _, fv := range rows {
		assert.Len(t, fv, ml.FeatureCount)
	}
	assert.Equal(t, finance.CategoryGood, labels[1])
}

func TestScoredRecord_Features(t *testing.T) {
	s := &ScoredRecord{
		FinancialRecord: finance.FinancialRecord{TotalIncome: 1000, Assets: 500},
		RatioSet:        finance.RatioSet{ProgramRatio: 0.8},
	}

	fv := s.Features()
	require.Len(t, fv, ml.FeatureCount)
	assert.Equal(t, 0.8, fv[0])
	assert.Equal(t, 500.0, fv[6])
	assert.Equal(t, 1000.0, fv[8])
}

func TestScores_NilDB(t *testing.T) {
	assert.Error(t, SaveScores(nil, nil))

	_, err := GetScores(nil)
	assert.Error(t, err)
}
