package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRatios(t *testing.T) {
	rec := &FinancialRecord{
		RegNo:            "REG001",
		Name:             "Helping Hands",
		Year:             2024,
		TotalIncome:      1000,
		TotalExpenditure: 800,
		ProgramExpense:   640,
		AdminExpense:     160,
		Assets:           500,
		Liabilities:      100,
		InventoryValue:   50,
	}

	r, err := ComputeRatios(rec)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, r.ProgramRatio, 1e-9)
	assert.InDelta(t, 0.2, r.AdminRatio, 1e-9)
	assert.InDelta(t, 0.2, r.SurplusRatio, 1e-9)
	assert.InDelta(t, 0.0625, r.InventoryExpenseRatio, 1e-9)
	assert.InDelta(t, 0.1, r.InventoryAssetRatio, 1e-9)
}

func TestComputeRatios_ZeroExpenditure(t *testing.T) {
	rec := &FinancialRecord{
		RegNo:          "REG002",
		Year:           2024,
		TotalIncome:    1000,
		InventoryValue: 50,
		Assets:         200,
	}

	r, err := ComputeRatios(rec)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.ProgramRatio)
	assert.Equal(t, 0.0, r.AdminRatio)
	assert.Equal(t, 0.0, r.InventoryExpenseRatio)
	// income is non-zero so surplus ratio is still defined
	assert.Equal(t, 1.0, r.SurplusRatio)
}

func TestComputeRatios_AllZero(t *testing.T) {
	r, err := ComputeRatios(&FinancialRecord{RegNo: "REG003", Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, &RatioSet{}, r)
}

func TestComputeRatios_ZeroAssets(t *testing.T) {
	rec := &FinancialRecord{RegNo: "REG004", Year: 2024, InventoryValue: 50}
	r, err := ComputeRatios(rec)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.InventoryAssetRatio)
}

func TestComputeRatios_NonFinite(t *testing.T) {
	rec := &FinancialRecord{RegNo: "REG005", Year: 2024, TotalIncome: math.NaN()}
	_, err := ComputeRatios(rec)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "REG005", verr.RegNo)
	assert.Equal(t, "total_income", verr.Field)
}

func TestComputeRatios_Idempotent(t *testing.T) {
	rec := &FinancialRecord{
		RegNo:            "REG006",
		Year:             2024,
		TotalIncome:      300,
		TotalExpenditure: 700,
		ProgramExpense:   350,
		AdminExpense:     210,
		Assets:           90,
		InventoryValue:   30,
	}

	a, err := ComputeRatios(rec)
	require.NoError(t, err)
	b, err := ComputeRatios(rec)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
