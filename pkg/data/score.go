package data

import (
	"database/sql"

	"github.com/CHS18-77/FineEase/pkg/finance"
	"github.com/CHS18-77/FineEase/pkg/ml"
	"github.com/pkg/errors"
)

const (
	insertScoreSQL = `INSERT INTO financial_score (
			reg_no,
			name,
			year,
			total_income,
			total_expenditure,
			program_expense,
			admin_expense,
			assets,
			liabilities,
			inventory_value,
			program_ratio,
			admin_ratio,
			surplus_ratio,
			inventory_expense_ratio,
			inventory_asset_ratio,
			health_score,
			health_category
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(reg_no, year) DO UPDATE SET
			name = excluded.name,
			total_income = excluded.total_income,
			total_expenditure = excluded.total_expenditure,
			program_expense = excluded.program_expense,
			admin_expense = excluded.admin_expense,
			assets = excluded.assets,
			liabilities = excluded.liabilities,
			inventory_value = excluded.inventory_value,
			program_ratio = excluded.program_ratio,
			admin_ratio = excluded.admin_ratio,
			surplus_ratio = excluded.surplus_ratio,
			inventory_expense_ratio = excluded.inventory_expense_ratio,
			inventory_asset_ratio = excluded.inventory_asset_ratio,
			health_score = excluded.health_score,
			health_category = excluded.health_category
	`

	scoreColumns = `reg_no,
			name,
			year,
			total_income,
			total_expenditure,
			program_expense,
			admin_expense,
			assets,
			liabilities,
			inventory_value,
			program_ratio,
			admin_ratio,
			surplus_ratio,
			inventory_expense_ratio,
			inventory_asset_ratio,
			health_score,
			health_category`

	selectScoresSQL = `SELECT ` + scoreColumns + `
		FROM financial_score
		ORDER BY reg_no, year
	`

	// Latest year per NGO, the slice batch inference reads.
	selectLatestScoresSQL = `SELECT ` + scoreColumns + `
		FROM financial_score s
		WHERE year = (
			SELECT MAX(year) FROM financial_score WHERE reg_no = s.reg_no
		)
		ORDER BY reg_no
	`

	selectLatestScoreByRegNoSQL = `SELECT ` + scoreColumns + `
		FROM financial_score
		WHERE LOWER(reg_no) = LOWER(?)
		ORDER BY year DESC
		LIMIT 1
	`
)

// ScoredRecord is one row of the derived score table: the raw filing,
// its ratios, and the manufactured label. This is the artifact the
// training and batch-inference paths read.
type ScoredRecord struct {
	finance.FinancialRecord `yaml:",inline"`
	finance.RatioSet        `yaml:",inline"`

	HealthScore    float64                `json:"health_score" yaml:"healthScore"`
	HealthCategory finance.HealthCategory `json:"health_category" yaml:"healthCategory"`
}

// Features projects the row onto the model's feature order.
func (s *ScoredRecord) Features() ml.FeatureVector {
	return ml.BuildFeatureVector(&s.FinancialRecord, &s.RatioSet)
}

// SaveScores upserts derived rows in a single transaction.
func SaveScores(db *sql.DB, recs []*ScoredRecord) error {
	if db == nil {
		return errors.New("database not initialized")
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	stmt, err := tx.Prepare(insertScoreSQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare score insert")
	}
	defer stmt.Close()

	for _, s := range recs {
		if _, err := stmt.Exec(s.RegNo, s.Name, s.Year,
			s.TotalIncome, s.TotalExpenditure, s.ProgramExpense, s.AdminExpense,
			s.Assets, s.Liabilities, s.InventoryValue,
			s.ProgramRatio, s.AdminRatio, s.SurplusRatio,
			s.InventoryExpenseRatio, s.InventoryAssetRatio,
			s.HealthScore, string(s.HealthCategory)); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return errors.Wrap(rbErr, "failed to rollback transaction")
			}
			return errors.Wrapf(err, "failed to insert score %s/%d", s.RegNo, s.Year)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// GetScores returns all derived rows ordered by reg_no, year.
func GetScores(db *sql.DB) ([]*ScoredRecord, error) {
	return queryScores(db, selectScoresSQL)
}

// GetLatestScores returns the most recent derived row per NGO.
func GetLatestScores(db *sql.DB) ([]*ScoredRecord, error) {
	return queryScores(db, selectLatestScoresSQL)
}

// GetLatestScoreByRegNo returns the most recent derived row for one NGO,
// or sql.ErrNoRows if it has none.
func GetLatestScoreByRegNo(db *sql.DB, regNo string) (*ScoredRecord, error) {
	list, err := queryScores(db, selectLatestScoreByRegNoSQL, regNo)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, sql.ErrNoRows
	}
	return list[0], nil
}

// GetTrainingData reads the derived table as a feature matrix with its
// manufactured category labels.
func GetTrainingData(db *sql.DB) ([]ml.FeatureVector, []finance.HealthCategory, error) {
	scores, err := GetScores(db)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]ml.FeatureVector, 0, len(scores))
	labels := make([]finance.HealthCategory, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, s.Features())
		labels = append(labels, s.HealthCategory)
	}
	return rows, labels, nil
}

func queryScores(db *sql.DB, query string, args ...any) ([]*ScoredRecord, error) {
	if db == nil {
		return nil, errors.New("database not initialized")
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query score records")
	}
	defer rows.Close()

	list := make([]*ScoredRecord, 0)
	for rows.Next() {
		s := &ScoredRecord{}
		var category string
		if err := rows.Scan(&s.RegNo, &s.Name, &s.Year,
			&s.TotalIncome, &s.TotalExpenditure, &s.ProgramExpense, &s.AdminExpense,
			&s.Assets, &s.Liabilities, &s.InventoryValue,
			&s.ProgramRatio, &s.AdminRatio, &s.SurplusRatio,
			&s.InventoryExpenseRatio, &s.InventoryAssetRatio,
			&s.HealthScore, &category); err != nil {
			return nil, errors.Wrap(err, "failed to scan score record")
		}
		c, err := finance.ParseHealthCategory(category)
		if err != nil {
			return nil, errors.Wrapf(err, "row %s/%d", s.RegNo, s.Year)
		}
		s.HealthCategory = c
		list = append(list, s)
	}
	return list, rows.Err()
}
