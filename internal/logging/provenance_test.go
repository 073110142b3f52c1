package logging

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/diagnosis"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/factors"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/fusion"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/store"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.DB()
}

func sampleOutcome() (ensemble.Request, ensemble.Outcome) {
	req := ensemble.Request{
		CropType: "Rice",
		Location: "Cuttack",
		FarmSize: 2,
		Soil:     factors.SoilInput{PH: 7.0, SoilType: "Alluvial"},
		Weather:  factors.WeatherInput{Rainfall: 800, Temperature: 25, Humidity: 60},
	}
	out := ensemble.Outcome{
		Prediction: ensemble.YieldPrediction{
			CurrentYield: 11.2575195, OptimizedYield: 13.3401606, ImprovementPct: 18.5,
			SuitabilityScore: 85, Unit: ensemble.UnitTons,
		},
		Trace: ensemble.Trace{
			BaseYield: 3.8, SoilFactor: 1.155, WeatherFactor: 1.21275,
			Fusion: fusion.Result{Multiplier: 1.40074, Value: 5.32276, Mode: fusion.ModeSynergy},
			Signal: ensemble.Signal{Estimate: 3.6, Suitability: 0.85, Source: ensemble.SourceHeuristic},
		},
	}
	return req, out
}

// #endregion helpers

// #region log-prediction-tests
func TestLogPrediction_Success(t *testing.T) {
	db := setupDB(t)
	req, out := sampleOutcome()

	id, err := LogPrediction(db, PredictionEntry{
		RequestID: "req-1",
		Request:   req,
		Outcome:   out,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	var (
		crop, mode, source, unit, created string
		current                           float64
	)
	err = db.QueryRow(`SELECT crop_type, fusion_mode, source, unit, current_yield, created_at FROM predictions WHERE id = ?`, id).
		Scan(&crop, &mode, &source, &unit, &current, &created)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if crop != "Rice" || mode != "synergy" || source != "heuristic" || unit != "tons" {
		t.Errorf("unexpected row: crop=%s mode=%s source=%s unit=%s", crop, mode, source, unit)
	}
	if current != 11.2575195 {
		t.Errorf("expected unrounded current yield, got %v", current)
	}
	if created != "2026-01-01T00:00:00.000000000Z" {
		t.Errorf("expected fixed-width timestamp, got %q", created)
	}
}

func TestLogPrediction_EmptyOptionalFields(t *testing.T) {
	db := setupDB(t)
	req, out := sampleOutcome()
	req.Location = ""
	req.Soil.SoilType = ""

	id, err := LogPrediction(db, PredictionEntry{Request: req, Outcome: out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var requestID, location, soilType sql.NullString
	db.QueryRow("SELECT request_id, location, soil_type FROM predictions WHERE id = ?", id).
		Scan(&requestID, &location, &soilType)
	if requestID.Valid || location.Valid || soilType.Valid {
		t.Error("expected NULL for empty optional fields")
	}
}

func TestLogPrediction_Error(t *testing.T) {
	db := setupDB(t)
	db.Close() // close to force error

	req, out := sampleOutcome()
	if _, err := LogPrediction(db, PredictionEntry{Request: req, Outcome: out}); err == nil {
		t.Fatal("expected error on closed db")
	}
}

// #endregion log-prediction-tests

// #region log-diagnosis-tests
func TestLogDiagnosis_Success(t *testing.T) {
	db := setupDB(t)

	id, err := LogDiagnosis(db, DiagnosisEntry{
		ID:        "fixed-id",
		RequestID: "req-2",
		Result: diagnosis.Result{
			ClassID: 1, ConfidencePct: 91.29, Digest: "7257217d58501a0837283a793855624c",
			Language: "en", Disease: "Rice Blast (Magnaporthe oryzae)",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("expected caller id to be kept, got %s", id)
	}

	var classID int
	var digest string
	db.QueryRow("SELECT class_id, digest FROM diagnoses WHERE id = ?", id).Scan(&classID, &digest)
	if classID != 1 || digest != "7257217d58501a0837283a793855624c" {
		t.Errorf("unexpected row: class=%d digest=%s", classID, digest)
	}
}

func TestLogDiagnosis_Error(t *testing.T) {
	db := setupDB(t)
	db.Close()

	if _, err := LogDiagnosis(db, DiagnosisEntry{}); err == nil {
		t.Fatal("expected error on closed db")
	}
}

// #endregion log-diagnosis-tests

// #region null-if-empty-tests
func TestNullIfEmpty_Empty(t *testing.T) {
	result := nullIfEmpty("")
	if result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestNullIfEmpty_NonEmpty(t *testing.T) {
	result := nullIfEmpty("hello")
	if result != "hello" {
		t.Errorf("expected 'hello', got %v", result)
	}
}

// #endregion null-if-empty-tests
