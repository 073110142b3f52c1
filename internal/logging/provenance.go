package logging

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/store"
)

// #region log-prediction
// LogPrediction writes a prediction to the predictions table and returns its id.
func LogPrediction(db *sql.DB, entry PredictionEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	req, tr, p := entry.Request, entry.Outcome.Trace, entry.Outcome.Prediction
	_, err := db.Exec(
		`INSERT INTO predictions (id, request_id, crop_type, location, farm_size, soil_ph, soil_type,
		   rainfall, temperature, humidity, base_yield, soil_factor, weather_factor,
		   fusion_mode, multiplier, estimate, suitability, source,
		   current_yield, optimized_yield, improvement, suitability_score, unit, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		nullIfEmpty(entry.RequestID),
		req.CropType,
		nullIfEmpty(req.Location),
		req.FarmSize,
		req.Soil.PH,
		nullIfEmpty(req.Soil.SoilType),
		req.Weather.Rainfall,
		req.Weather.Temperature,
		req.Weather.Humidity,
		tr.BaseYield,
		tr.SoilFactor,
		tr.WeatherFactor,
		string(tr.Fusion.Mode),
		tr.Fusion.Multiplier,
		tr.Signal.Estimate,
		tr.Signal.Suitability,
		string(tr.Signal.Source),
		p.CurrentYield,
		p.OptimizedYield,
		p.ImprovementPct,
		p.SuitabilityScore,
		string(p.Unit),
		entry.CreatedAt.UTC().Format(store.TimeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("log prediction: %w", err)
	}
	return entry.ID, nil
}

// #endregion log-prediction

// #region log-diagnosis
// LogDiagnosis writes a diagnosis to the diagnoses table and returns its id.
func LogDiagnosis(db *sql.DB, entry DiagnosisEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	r := entry.Result
	_, err := db.Exec(
		`INSERT INTO diagnoses (id, request_id, digest, class_id, confidence, language, disease, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		nullIfEmpty(entry.RequestID),
		r.Digest,
		r.ClassID,
		r.ConfidencePct,
		r.Language,
		r.Disease,
		entry.CreatedAt.UTC().Format(store.TimeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("log diagnosis: %w", err)
	}
	return entry.ID, nil
}

// #endregion log-diagnosis

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
