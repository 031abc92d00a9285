package finance

import "math"

// RatioSet holds the normalized ratios derived from one FinancialRecord.
type RatioSet struct {
	ProgramRatio          float64 `json:"program_ratio" yaml:"programRatio"`
	AdminRatio            float64 `json:"admin_ratio" yaml:"adminRatio"`
	SurplusRatio          float64 `json:"surplus_ratio" yaml:"surplusRatio"`
	InventoryExpenseRatio float64 `json:"inventory_expense_ratio" yaml:"inventoryExpenseRatio"`
	InventoryAssetRatio   float64 `json:"inventory_asset_ratio" yaml:"inventoryAssetRatio"`
}

// ComputeRatios derives the RatioSet for a record. A zero denominator
// yields a ratio of exactly 0, never NaN or an error: sparse and all-zero
// filings are common in the source data and must stay scoreable. The only
// error returned is a ValidationError for non-finite monetary fields.
func ComputeRatios(r *FinancialRecord) (*RatioSet, error) {
	if err := checkFinite(r); err != nil {
		return nil, err
	}
	return &RatioSet{
		ProgramRatio:          ratio(r.ProgramExpense, r.TotalExpenditure),
		AdminRatio:            ratio(r.AdminExpense, r.TotalExpenditure),
		SurplusRatio:          ratio(r.TotalIncome-r.TotalExpenditure, r.TotalIncome),
		InventoryExpenseRatio: ratio(r.InventoryValue, r.TotalExpenditure),
		InventoryAssetRatio:   ratio(r.InventoryValue, r.Assets),
	}, nil
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func checkFinite(r *FinancialRecord) error {
	fields := map[string]float64{
		"total_income":      r.TotalIncome,
		"total_expenditure": r.TotalExpenditure,
		"program_expense":   r.ProgramExpense,
		"admin_expense":     r.AdminExpense,
		"assets":            r.Assets,
		"liabilities":       r.Liabilities,
		"inventory_value":   r.InventoryValue,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ValidationError{RegNo: r.RegNo, Year: r.Year, Field: name, Cause: "not a finite number"}
		}
	}
	return nil
}
