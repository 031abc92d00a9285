package cli

import (
	"github.com/CHS18-77/FineEase/pkg/data"
	"github.com/CHS18-77/FineEase/pkg/ml"
	"github.com/urfave/cli/v2"
)

const explainTopDefault = 5

var (
	regNoFlag = &cli.StringFlag{
		Name:     "reg-no",
		Usage:    "Registration number of the NGO",
		Required: true,
	}

	topFlag = &cli.IntFlag{
		Name:  "top",
		Usage: "Number of top contributions to report",
		Value: explainTopDefault,
	}

	predictCmd = &cli.Command{
		Name:    "predict",
		Aliases: []string{"p"},
		Usage:   "Predict the health category for an NGO's latest scored year",
		Action:  cmdPredict,
		Flags: []cli.Flag{
			regNoFlag,
		},
	}

	explainCmd = &cli.Command{
		Name:    "explain",
		Aliases: []string{"e"},
		Usage:   "Explain the prediction for an NGO as per-feature contributions",
		Action:  cmdExplain,
		Flags: []cli.Flag{
			regNoFlag,
			topFlag,
		},
	}
)

// PredictReport is the predict command output.
type PredictReport struct {
	*ml.Prediction `yaml:",inline"`

	RegNo       string  `json:"reg_no" yaml:"regNo"`
	Name        string  `json:"name" yaml:"name"`
	Year        int     `json:"year" yaml:"year"`
	HealthScore float64 `json:"health_score" yaml:"healthScore"`
}

// ExplainReport is the explain command output.
type ExplainReport struct {
	RegNo string            `json:"reg_no" yaml:"regNo"`
	Name  string            `json:"name" yaml:"name"`
	Year  int               `json:"year" yaml:"year"`
	Label string            `json:"prediction" yaml:"prediction"`
	Top   []ml.Contribution `json:"explanation_top" yaml:"explanationTop"`
	All   []ml.Contribution `json:"all_contributions" yaml:"allContributions"`
}

func cmdPredict(c *cli.Context) error {
	cfg := getConfig(c)

	model, err := ml.Load(cfg.ModelPath)
	if err != nil {
		return err
	}

	row, err := data.GetLatestScoreByRegNo(cfg.DB, c.String(regNoFlag.Name))
	if err != nil {
		return err
	}

	pred, err := model.Predict(row.Features())
	if err != nil {
		return err
	}

	return encode(&PredictReport{
		RegNo:       row.RegNo,
		Name:        row.Name,
		Year:        row.Year,
		HealthScore: row.HealthScore,
		Prediction:  pred,
	})
}

func cmdExplain(c *cli.Context) error {
	cfg := getConfig(c)

	model, err := ml.Load(cfg.ModelPath)
	if err != nil {
		return err
	}

	row, err := data.GetLatestScoreByRegNo(cfg.DB, c.String(regNoFlag.Name))
	if err != nil {
		return err
	}

	exp, err := ml.Explain(model, row.Features())
	if err != nil {
		return err
	}

	return encode(&ExplainReport{
		RegNo: row.RegNo,
		Name:  row.Name,
		Year:  row.Year,
		Label: string(exp.Label),
		Top:   exp.Top(c.Int(topFlag.Name)),
		All:   exp.Contributions,
	})
}
