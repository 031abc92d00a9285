package ml

import "github.com/CHS18-77/FineEase/pkg/finance"

// FeatureNames fixes the order of the model's input features. The order
// is a contract: trained coefficients are positionally bound to it, and
// every artifact embeds a copy that is checked on load and before each
// prediction. Changing this list requires retraining.
var FeatureNames = []string{
	"program_ratio",
	"admin_ratio",
	"surplus_ratio",
	"inventory_value",
	"inventory_expense_ratio",
	"inventory_asset_ratio",
	"assets",
	"liabilities",
	"total_income",
	"total_expenditure",
}

// FeatureCount is the length of FeatureNames.
const FeatureCount = 10

// FeatureVector is a record projected onto FeatureNames order.
type FeatureVector []float64

// BuildFeatureVector assembles the feature vector for a record. Either
// argument may be nil; absent values become 0 so that sparse filings
// never fail to produce a vector.
func BuildFeatureVector(rec *finance.FinancialRecord, ratios *finance.RatioSet) FeatureVector {
	if rec == nil {
		rec = &finance.FinancialRecord{}
	}
	if ratios == nil {
		ratios = &finance.RatioSet{}
	}
	return FeatureVector{
		ratios.ProgramRatio,
		ratios.AdminRatio,
		ratios.SurplusRatio,
		rec.InventoryValue,
		ratios.InventoryExpenseRatio,
		ratios.InventoryAssetRatio,
		rec.Assets,
		rec.Liabilities,
		rec.TotalIncome,
		rec.TotalExpenditure,
	}
}
