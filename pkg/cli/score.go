package cli

import (
	"log/slog"
	"time"

	"github.com/CHS18-77/FineEase/pkg/data"
	"github.com/urfave/cli/v2"
)

var (
	scoreCmd = &cli.Command{
		Name:    "score",
		Aliases: []string{"s"},
		Usage:   "Compute ratios, health scores, and categories for all imported records",
		Action:  cmdScore,
	}

	latestFlag = &cli.BoolFlag{
		Name:  "latest",
		Usage: "Only the most recent year per NGO",
	}

	regNoQueryFlag = &cli.StringFlag{
		Name:  "reg-no",
		Usage: "Registration number of a single NGO",
	}

	queryCmd = &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "List rows from the derived score table",
		UsageText: `finease query                    # all scored rows
   finease query --latest           # latest year per NGO
   finease query --reg-no REG123    # latest row for one NGO`,
		Action: cmdQuery,
		Flags: []cli.Flag{
			latestFlag,
			regNoQueryFlag,
		},
	}
)

// ScoreReport is the score command output.
type ScoreReport struct {
	Scored   int      `json:"scored" yaml:"scored"`
	Failed   int      `json:"failed" yaml:"failed"`
	Duration string   `json:"duration" yaml:"duration"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func cmdScore(c *cli.Context) error {
	start := time.Now()
	cfg := getConfig(c)

	res, err := data.ScoreAndSave(cfg.DB)
	if err != nil {
		return err
	}

	slog.Info("scoring complete", "scored", res.Scored, "failed", res.Failed)

	return encode(&ScoreReport{
		Scored:   res.Scored,
		Failed:   res.Failed,
		Duration: time.Since(start).String(),
		Errors:   res.Errors,
	})
}

func cmdQuery(c *cli.Context) error {
	cfg := getConfig(c)

	if regNo := c.String(regNoQueryFlag.Name); regNo != "" {
		row, err := data.GetLatestScoreByRegNo(cfg.DB, regNo)
		if err != nil {
			return err
		}
		return encode(row)
	}

	var rows []*data.ScoredRecord
	var err error
	if c.Bool(latestFlag.Name) {
		rows, err = data.GetLatestScores(cfg.DB)
	} else {
		rows, err = data.GetScores(cfg.DB)
	}
	if err != nil {
		return err
	}
	return encode(rows)
}
