package cli

import (
	"log/slog"
	"time"

	"github.com/CHS18-77/FineEase/pkg/data"
	"github.com/CHS18-77/FineEase/pkg/ml"
	"github.com/urfave/cli/v2"
)

var trainCmd = &cli.Command{
	Name:    "train",
	Aliases: []string{"t"},
	Usage:   "Train the health classifier on the derived score table and save the artifact",
	Action:  cmdTrain,
}

// TrainReport is the train command output. The evaluation is advisory:
// it describes the held-out partition, it does not gate the artifact.
type TrainReport struct {
	ModelPath  string         `json:"model_path" yaml:"modelPath"`
	Rows       int            `json:"training_rows" yaml:"trainingRows"`
	Duration   string         `json:"duration" yaml:"duration"`
	Evaluation *ml.Evaluation `json:"evaluation" yaml:"evaluation"`
}

func cmdTrain(c *cli.Context) error {
	start := time.Now()
	cfg := getConfig(c)

	rows, labels, err := data.GetTrainingData(cfg.DB)
	if err != nil {
		return err
	}

	model, eval, err := ml.Train(rows, labels)
	if err != nil {
		return err
	}

	if err := model.Save(cfg.ModelPath); err != nil {
		return err
	}

	slog.Info("model trained", "rows", len(rows), "path", cfg.ModelPath, "accuracy", eval.Accuracy)

	return encode(&TrainReport{
		ModelPath:  cfg.ModelPath,
		Rows:       len(rows),
		Duration:   time.Since(start).String(),
		Evaluation: eval,
	})
}
