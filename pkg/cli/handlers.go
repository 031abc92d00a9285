package cli

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/CHS18-77/FineEase/pkg/data"
	"github.com/CHS18-77/FineEase/pkg/finance"
	"github.com/CHS18-77/FineEase/pkg/ml"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func homeHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "FineEase API is running",
		"endpoints": []string{
			"POST /api/predict-health",
			"GET /api/ngos/predict-all",
			"GET /api/ngos/{regNo}/predict",
			"GET /api/ngos/{regNo}/explain",
		},
	})
}

// ManualFeatures is the request body for a manual prediction: the ten
// contractual features by name. Absent fields decode to 0.
type ManualFeatures struct {
	ProgramRatio          float64 `json:"program_ratio"`
	AdminRatio            float64 `json:"admin_ratio"`
	SurplusRatio          float64 `json:"surplus_ratio"`
	InventoryValue        float64 `json:"inventory_value"`
	InventoryExpenseRatio float64 `json:"inventory_expense_ratio"`
	InventoryAssetRatio   float64 `json:"inventory_asset_ratio"`
	Assets                float64 `json:"assets"`
	Liabilities           float64 `json:"liabilities"`
	TotalIncome           float64 `json:"total_income"`
	TotalExpenditure      float64 `json:"total_expenditure"`
}

// Vector projects the payload onto the model feature order.
func (f *ManualFeatures) Vector() ml.FeatureVector {
	return ml.BuildFeatureVector(
		&finance.FinancialRecord{
			InventoryValue:   f.InventoryValue,
			Assets:           f.Assets,
			Liabilities:      f.Liabilities,
			TotalIncome:      f.TotalIncome,
			TotalExpenditure: f.TotalExpenditure,
		},
		&finance.RatioSet{
			ProgramRatio:          f.ProgramRatio,
			AdminRatio:            f.AdminRatio,
			SurplusRatio:          f.SurplusRatio,
			InventoryExpenseRatio: f.InventoryExpenseRatio,
			InventoryAssetRatio:   f.InventoryAssetRatio,
		},
	)
}

func predictManualHandler(model *ml.Model) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body ManualFeatures
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pred, err := model.Predict(body.Vector())
		if err != nil {
			slog.Error("prediction failed", "error", err)
			writeError(w, http.StatusInternalServerError, "prediction failed")
			return
		}
		writeJSON(w, http.StatusOK, pred)
	}
}

func predictNGOHandler(db *sql.DB, model *ml.Model) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regNo := mux.Vars(r)["regNo"]

		row, err := data.GetLatestScoreByRegNo(db, regNo)
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "NGO not found in scored financials")
			return
		}
		if err != nil {
			slog.Error("failed to read scored record", "reg_no", regNo, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to read scored record")
			return
		}

		pred, err := model.Predict(row.Features())
		if err != nil {
			slog.Error("prediction failed", "reg_no", regNo, "error", err)
			writeError(w, http.StatusInternalServerError, "prediction failed")
			return
		}

		writeJSON(w, http.StatusOK, &PredictReport{
			Prediction:  pred,
			RegNo:       row.RegNo,
			Name:        row.Name,
			Year:        row.Year,
			HealthScore: row.HealthScore,
		})
	}
}

func predictAllHandler(db *sql.DB, model *ml.Model) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := data.GetLatestScores(db)
		if err != nil {
			slog.Error("failed to read scored records", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to read scored records")
			return
		}

		// The model is read-only, so per-NGO predictions fan out freely.
		out := make([]*PredictReport, len(rows))
		var g errgroup.Group
		g.SetLimit(runtime.NumCPU())
		for i, row := range rows {
			i, row := i, row
			g.Go(func() error {
				pred, err := model.Predict(row.Features())
				if err != nil {
					return err
				}
				out[i] = &PredictReport{
					Prediction:  pred,
					RegNo:       row.RegNo,
					Name:        row.Name,
					Year:        row.Year,
					HealthScore: row.HealthScore,
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			slog.Error("batch prediction failed", "error", err)
			writeError(w, http.StatusInternalServerError, "batch prediction failed")
			return
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func explainNGOHandler(db *sql.DB, model *ml.Model) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regNo := mux.Vars(r)["regNo"]

		row, err := data.GetLatestScoreByRegNo(db, regNo)
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "NGO not found in scored financials")
			return
		}
		if err != nil {
			slog.Error("failed to read scored record", "reg_no", regNo, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to read scored record")
			return
		}

		exp, err := ml.Explain(model, row.Features())
		if err != nil {
			slog.Error("explanation failed", "reg_no", regNo, "error", err)
			writeError(w, http.StatusInternalServerError, "explanation failed")
			return
		}

		writeJSON(w, http.StatusOK, &ExplainReport{
			RegNo: row.RegNo,
			Name:  row.Name,
			Year:  row.Year,
			Label: string(exp.Label),
			Top:   exp.Top(explainTopDefault),
			All:   exp.Contributions,
		})
	}
}
