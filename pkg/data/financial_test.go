package data

import (
	"testing"

	"github.com/CHS18-77/FineEase/pkg/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []*finance.FinancialRecord {
	return []*finance.FinancialRecord{
		{
			RegNo: "REG001", Name: "Helping Hands", Year: 2023,
			TotalIncome: 900, TotalExpenditure: 850,
			ProgramExpense: 600, AdminExpense: 170,
			Assets: 400, Liabilities: 120, InventoryValue: 40,
		},
		{
			RegNo: "REG001", Name: "Helping Hands", Year: 2024,
			TotalIncome: 1000, TotalExpenditure: 800,
			ProgramExpense: 640, AdminExpense: 160,
			Assets: 500, Liabilities: 100, InventoryValue: 50,
		},
		{
			RegNo: "REG002", Name: "Green Earth", Year: 2024,
			TotalIncome: 200, TotalExpenditure: 400,
			ProgramExpense: 100, AdminExpense: 250,
			Assets: 50, Liabilities: 300,
		},
	}
}

func TestSaveAndGetFinancials(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveFinancials(db, testRecords()))

	got, err := GetFinancials(db)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "REG001", got[0].RegNo)
	assert.Equal(t, 2023, got[0].Year)
	assert.Equal(t, 640.0, got[1].ProgramExpense)

	n, err := CountFinancials(db)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSaveFinancials_UpsertsOnRegNoYear(t *testing.T) {
	db := setupTestDB(t)

	recs := testRecords()
	require.NoError(t, SaveFinancials(db, recs))

	recs[1].TotalIncome = 1200
	require.NoError(t, SaveFinancials(db, recs))

	n, err := CountFinancials(db)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := GetFinancialsByRegNo(db, "REG001")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// most recent year first
	assert.Equal(t, 2024, got[0].Year)
	assert.Equal(t, 1200.0, got[0].TotalIncome)
}

func TestGetFinancialsByRegNo_CaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveFinancials(db, testRecords()))

	got, err := GetFinancialsByRegNo(db, "reg002")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Green Earth", got[0].Name)
}

func TestFinancials_NilDB(t *testing.T) {
	assert.Error(t, SaveFinancials(nil, testRecords()))

	_, err := GetFinancials(nil)
	assert.Error(t, err)

	_, err = CountFinancials(nil)
	assert.Error(t, err)
}
