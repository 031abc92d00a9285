package data

import (
	"database/sql"

	"github.com/CHS18-77/FineEase/pkg/finance"
	"github.com/pkg/errors"
)

const (
	insertFinancialSQL = `INSERT INTO financial (
			reg_no,
			name,
			year,
			total_income,
			total_expenditure,
			program_expense,
			admin_expense,
			assets,
			liabilities,
			inventory_value
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(reg_no, year) DO UPDATE SET
			name = excluded.name,
			total_income = excluded.total_income,
			total_expenditure = excluded.total_expenditure,
			program_expense = excluded.program_expense,
			admin_expense = excluded.admin_expense,
			assets = excluded.assets,
			liabilities = excluded.liabilities,
			inventory_value = excluded.inventory_value
	`

	selectFinancialSQL = `SELECT
			reg_no,
			name,
			year,
			total_income,
			total_expenditure,
			program_expense,
			admin_expense,
			assets,
			liabilities,
			inventory_value
		FROM financial
		ORDER BY reg_no, year
	`

	selectFinancialByRegNoSQL = `SELECT
			reg_no,
			name,
			year,
			total_income,
			total_expenditure,
			program_expense,
			admin_expense,
			assets,
			liabilities,
			inventory_value
		FROM financial
		WHERE LOWER(reg_no) = LOWER(?)
		ORDER BY year DESC
	`

	countFinancialSQL = `SELECT COUNT(*) FROM financial`
)

// SaveFinancials upserts records into the financial table in a single
// transaction.
func SaveFinancials(db *sql.DB, recs []*finance.FinancialRecord) error {
	if db == nil {
		return errors.New("database not initialized")
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	stmt, err := tx.Prepare(insertFinancialSQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare financial insert")
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.Exec(r.RegNo, r.Name, r.Year,
			r.TotalIncome, r.TotalExpenditure, r.ProgramExpense, r.AdminExpense,
			r.Assets, r.Liabilities, r.InventoryValue); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return errors.Wrap(rbErr, "failed to rollback transaction")
			}
			return errors.Wrapf(err, "failed to insert record %s/%d", r.RegNo, r.Year)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// GetFinancials returns all records ordered by reg_no, year.
func GetFinancials(db *sql.DB) ([]*finance.FinancialRecord, error) {
	if db == nil {
		return nil, errors.New("database not initialized")
	}

	rows, err := db.Query(selectFinancialSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query financial records")
	}
	defer rows.Close()

	return scanFinancials(rows)
}

// GetFinancialsByRegNo returns all years for one NGO, most recent first.
// Reg number matching is case-insensitive.
func GetFinancialsByRegNo(db *sql.DB, regNo string) ([]*finance.FinancialRecord, error) {
	if db == nil {
		return nil, errors.New("database not initialized")
	}

	rows, err := db.Query(selectFinancialByRegNoSQL, regNo)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query records for %s", regNo)
	}
	defer rows.Close()

	return scanFinancials(rows)
}

// CountFinancials returns the number of stored records.
func CountFinancials(db *sql.DB) (int, error) {
	if db == nil {
		return 0, errors.New("database not initialized")
	}
	var n int
	if err := db.QueryRow(countFinancialSQL).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count financial records")
	}
	return n, nil
}

func scanFinancials(rows *sql.Rows) ([]*finance.FinancialRecord, error) {
	list := make([]*finance.FinancialRecord, 0)
	for rows.Next() {
		r := &finance.FinancialRecord{}
		if err := rows.Scan(&r.RegNo, &r.Name, &r.Year,
			&r.TotalIncome, &r.TotalExpenditure, &r.ProgramExpense, &r.AdminExpense,
			&r.Assets, &r.Liabilities, &r.InventoryValue); err != nil {
			return nil, errors.Wrap(err, "failed to scan financial record")
		}
		list = append(list, r)
	}
	return list, rows.Err()
}
