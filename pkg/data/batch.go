package data

import (
	"database/sql"
	"runtime"

	"github.com/CHS18-77/FineEase/pkg/finance"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ScoreBatchResult reports the per-record outcomes of one scoring run.
type ScoreBatchResult struct {
	Scored  int             `json:"scored" yaml:"scored"`
	Failed  int             `json:"failed" yaml:"failed"`
	Errors  []string        `json:"errors,omitempty" yaml:"errors,omitempty"`
	Records []*ScoredRecord `json:"-" yaml:"-"`
}

// ScoreRecords derives ratios, health score, and category for each
// record. Records are independent and the computation is pure, so it
// fans out across CPUs. A record failing validation is reported in the
// result and does not abort the rest of the batch.
func ScoreRecords(recs []*finance.FinancialRecord) *ScoreBatchResult {
	scored := make([]*ScoredRecord, len(recs))
	errs := make([]error, len(recs))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, rec := range recs {
		i, rec := i, rec
		g.Go(func() error {
			ratios, err := finance.ComputeRatios(rec)
			if err != nil {
				errs[i] = err
				return nil
			}
			score := finance.Score(ratios)
			scored[i] = &ScoredRecord{
				FinancialRecord: *rec,
				RatioSet:        *ratios,
				HealthScore:     score,
				HealthCategory:  finance.Categorize(score),
			}
			return nil
		})
	}
	// Workers never return errors; per-record failures land in errs.
	_ = g.Wait()

	res := &ScoreBatchResult{}
	for i := range recs {
		if errs[i] != nil {
			res.Failed++
			res.Errors = append(res.Errors, errs[i].Error())
			continue
		}
		res.Scored++
		res.Records = append(res.Records, scored[i])
	}
	return res
}

// ScoreAndSave scores every stored record and writes the derived table.
func ScoreAndSave(db *sql.DB) (*ScoreBatchResult, error) {
	recs, err := GetFinancials(db)
	if err != nil {
		return nil, errors.Wrap(err, "reading financial records")
	}
	if len(recs) == 0 {
		return nil, errors.New("no financial records to score, run import first")
	}

	res := ScoreRecords(recs)
	log.Debugf("scored %d records, %d failed", res.Scored, res.Failed)

	if err := SaveScores(db, res.Records); err != nil {
		return nil, errors.Wrap(err, "saving derived scores")
	}
	return res, nil
}
