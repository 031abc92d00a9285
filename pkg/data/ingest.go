package data

import (
	"database/sql"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/CHS18-77/FineEase/pkg/finance"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// IngestResult reports the per-record outcomes of one CSV load. A
// malformed row never aborts the batch; it is recorded here instead.
type IngestResult struct {
	Imported int      `json:"imported" yaml:"imported"`
	Skipped  int      `json:"skipped" yaml:"skipped"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Identity columns that must be present in the source header. Monetary
// columns are optional and default to 0 when absent.
var requiredColumns = []string{"reg_no", "name", "year"}

// headerAliases maps known alternate column spellings onto canonical
// names. The upstream exports use ngo_name interchangeably with name.
var headerAliases = map[string]string{
	"ngo_name": "name",
}

// ReadFinancialCSV parses a FINANCIALS export. Missing required identity
// columns fail the whole file with a SchemaError; a row whose numeric
// cell does not parse is skipped and reported in the result.
func ReadFinancialCSV(r io.Reader) ([]*finance.FinancialRecord, *IngestResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read CSV header")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := headerAliases[name]; ok {
			name = canonical
		}
		cols[name] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &finance.SchemaError{Missing: missing}
	}

	res := &IngestResult{}
	recs := make([]*finance.FinancialRecord, 0)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to read CSV line %d", line)
		}

		rec, err := parseRow(row, cols)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, errors.Wrapf(err, "line %d", line).Error())
			log.Debugf("skipping line %d: %v", line, err)
			continue
		}
		recs = append(recs, rec)
		res.Imported++
	}

	return recs, res, nil
}

// ImportFinancialCSV reads a CSV file and saves its valid rows.
func ImportFinancialCSV(db *sql.DB, path string) (*IngestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV file: %s", path)
	}
	defer f.Close()

	recs, res, err := ReadFinancialCSV(f)
	if err != nil {
		return nil, err
	}
	if err := SaveFinancials(db, recs); err != nil {
		return nil, err
	}
	return res, nil
}

func parseRow(row []string, cols map[string]int) (*finance.FinancialRecord, error) {
	regNo := cell(row, cols, "reg_no")
	name := cell(row, cols, "name")
	if regNo == "" {
		return nil, errors.New("empty reg_no")
	}

	year, err := strconv.Atoi(cell(row, cols, "year"))
	if err != nil {
		return nil, &finance.ValidationError{RegNo: regNo, Field: "year", Cause: "not an integer"}
	}

	rec := &finance.FinancialRecord{RegNo: regNo, Name: name, Year: year}
	for field, dst := range map[string]*float64{
		"total_income":      &rec.TotalIncome,
		"total_expenditure": &rec.TotalExpenditure,
		"program_expense":   &rec.ProgramExpense,
		"admin_expense":     &rec.AdminExpense,
		"assets":            &rec.Assets,
		"liabilities":       &rec.Liabilities,
		"inventory_value":   &rec.InventoryValue,
	} {
		v := cell(row, cols, field)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &finance.ValidationError{RegNo: regNo, Year: year, Field: field, Cause: "not a number"}
		}
		*dst = f
	}

	return rec, nil
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
