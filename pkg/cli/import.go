package cli

import (
	"log/slog"
	"time"

	"github.com/CHS18-77/FineEase/pkg/data"
	"github.com/urfave/cli/v2"
)

var (
	csvFileFlag = &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Path to the FINANCIALS CSV file",
		Required: true,
	}

	importCmd = &cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Import raw NGO financial records from a CSV file",
		UsageText: `finease import --file data/FINANCIALS.csv
   finease import -f financials_2024.csv --format yaml`,
		Action: cmdImport,
		Flags: []cli.Flag{
			csvFileFlag,
		},
	}
)

// ImportReport is the import command output.
type ImportReport struct {
	File     string   `json:"file" yaml:"file"`
	Imported int      `json:"imported" yaml:"imported"`
	Skipped  int      `json:"skipped" yaml:"skipped"`
	Total    int      `json:"total_records" yaml:"totalRecords"`
	Duration string   `json:"duration" yaml:"duration"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func cmdImport(c *cli.Context) error {
	start := time.Now()
	cfg := getConfig(c)
	file := c.String(csvFileFlag.Name)

	res, err := data.ImportFinancialCSV(cfg.DB, file)
	if err != nil {
		return err
	}

	total, err := data.CountFinancials(cfg.DB)
	if err != nil {
		return err
	}

	slog.Info("import complete", "file", file, "imported", res.Imported, "skipped", res.Skipped)

	return encode(&ImportReport{
		File:     file,
		Imported: res.Imported,
		Skipped:  res.Skipped,
		Total:    total,
		Duration: time.Since(start).String(),
		Errors:   res.Errors,
	})
}
