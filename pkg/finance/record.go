package finance

import (
	"fmt"
	"strings"
)

// FinancialRecord is a single NGO filing for one fiscal year.
// Records are immutable once read from the source table.
type FinancialRecord struct {
	RegNo            string  `json:"reg_no" yaml:"regNo"`
	Name             string  `json:"name" yaml:"name"`
	Year             int     `json:"year" yaml:"year"`
	TotalIncome      float64 `json:"total_income" yaml:"totalIncome"`
	TotalExpenditure float64 `json:"total_expenditure" yaml:"totalExpenditure"`
	ProgramExpense   float64 `json:"program_expense" yaml:"programExpense"`
	AdminExpense     float64 `json:"admin_expense" yaml:"adminExpense"`
	Assets           float64 `json:"assets" yaml:"assets"`
	Liabilities      float64 `json:"liabilities" yaml:"liabilities"`
	InventoryValue   float64 `json:"inventory_value" yaml:"inventoryValue"`
}

// ValidationError marks a single malformed record. It is local to that
// record: batch operations report it and continue with the remainder.
type ValidationError struct {
	RegNo string
	Year  int
	Field string
	Cause string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record %s/%d: field %s: %s", e.RegNo, e.Year, e.Field, e.Cause)
}

// SchemaError means required identity columns are absent from an input
// table. It is fatal to that table's processing.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input table missing required columns: %s", strings.Join(e.Missing, ", "))
}
