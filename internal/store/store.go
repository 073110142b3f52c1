package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	id                TEXT PRIMARY KEY,
	request_id        TEXT,
	crop_type         TEXT NOT NULL,
	location          TEXT,
	farm_size         REAL NOT NULL,
	soil_ph           REAL NOT NULL,
	soil_type         TEXT,
	rainfall          REAL NOT NULL,
	temperature       REAL NOT NULL,
	humidity          REAL NOT NULL,
	base_yield        REAL NOT NULL,
	soil_factor       REAL NOT NULL,
	weather_factor    REAL NOT NULL,
	fusion_mode       TEXT NOT NULL,
	multiplier        REAL NOT NULL,
	estimate          REAL NOT NULL,
	suitability       REAL NOT NULL,
	source            TEXT NOT NULL,
	current_yield     REAL NOT NULL,
	optimized_yield   REAL NOT NULL,
	improvement       REAL NOT NULL,
	suitability_score REAL NOT NULL,
	unit              TEXT NOT NULL,
	created_at        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_created ON predictions(created_at);

CREATE TABLE IF NOT EXISTS diagnoses (
	id          TEXT PRIMARY KEY,
	request_id  TEXT,
	digest      TEXT NOT NULL,
	class_id    INTEGER NOT NULL,
	confidence  REAL NOT NULL,
	language    TEXT NOT NULL,
	disease     TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_diagnoses_created ON diagnoses(created_at);
`

// #endregion schema

// TimeLayout is the fixed-width timestamp format of created_at columns, so that
// lexical order matches time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region store-struct
// Store is the SQLite audit log of predictions and diagnoses.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for the provenance writers in logging.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region list
// ListPredictions returns up to limit predictions, newest first.
func (s *Store) ListPredictions(limit int) ([]PredictionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, request_id, crop_type, location, farm_size, soil_ph, soil_type,
		        rainfall, temperature, humidity, base_yield, soil_factor, weather_factor,
		        fusion_mode, multiplier, estimate, suitability, source,
		        current_yield, optimized_yield, improvement, suitability_score, unit, created_at
		 FROM predictions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var out []PredictionRecord
	for rows.Next() {
		var (
			rec                           PredictionRecord
			requestID, location, soilType sql.NullString
			createdStr                    string
		)
		if err := rows.Scan(
			&rec.ID, &requestID, &rec.CropType, &location, &rec.FarmSize, &rec.SoilPH, &soilType,
			&rec.Rainfall, &rec.Temperature, &rec.Humidity, &rec.BaseYield, &rec.SoilFactor, &rec.WeatherFactor,
			&rec.FusionMode, &rec.Multiplier, &rec.Estimate, &rec.Suitability, &rec.Source,
			&rec.CurrentYield, &rec.OptimizedYield, &rec.ImprovementPct, &rec.SuitabilityScore, &rec.Unit, &createdStr,
		); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		rec.RequestID = requestID.String
		rec.Location = location.String
		rec.SoilType = soilType.String
		rec.CreatedAt, _ = time.Parse(TimeLayout, createdStr)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListDiagnoses returns up to limit diagnoses, newest first.
func (s *Store) ListDiagnoses(limit int) ([]DiagnosisRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, request_id, digest, class_id, confidence, language, disease, created_at
		 FROM diagnoses ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query diagnoses: %w", err)
	}
	defer rows.Close()

	var out []DiagnosisRecord
	for rows.Next() {
		var (
			rec        DiagnosisRecord
			requestID  sql.NullString
			createdStr string
		)
		if err := rows.Scan(&rec.ID, &requestID, &rec.Digest, &rec.ClassID, &rec.ConfidencePct,
			&rec.Language, &rec.Disease, &createdStr); err != nil {
			return nil, fmt.Errorf("scan diagnosis: %w", err)
		}
		rec.RequestID = requestID.String
		rec.CreatedAt, _ = time.Parse(TimeLayout, createdStr)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Recent bundles the newest rows of both tables.
type Recent struct {
	Predictions []PredictionRecord
	Diagnoses   []DiagnosisRecord
}

// ListRecent returns up to limit rows from each table, newest first.
func (s *Store) ListRecent(limit int) (Recent, error) {
	preds, err := s.ListPredictions(limit)
	if err != nil {
		return Recent{}, err
	}
	diags, err := s.ListDiagnoses(limit)
	if err != nil {
		return Recent{}, err
	}
	return Recent{Predictions: preds, Diagnoses: diags}, nil
}

// #endregion list
