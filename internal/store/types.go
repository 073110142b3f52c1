package store

import "time"

// #region records
// PredictionRecord is one row of the predictions table.
type PredictionRecord struct {
	ID        string
	RequestID string
	CreatedAt time.Time

	CropType    string
	Location    string
	FarmSize    float64
	SoilPH      float64
	SoilType    string
	Rainfall    float64
	Temperature float64
	Humidity    float64

	BaseYield     float64
	SoilFactor    float64
	WeatherFactor float64
	FusionMode    string
	Multiplier    float64
	Estimate      float64
	Suitability   float64
	Source        string

	CurrentYield     float64
	OptimizedYield   float64
	ImprovementPct   float64
	SuitabilityScore float64
	Unit             string
}

// DiagnosisRecord is one row of the diagnoses table.
type DiagnosisRecord struct {
	ID            string
	RequestID     string
	CreatedAt     time.Time
	Digest        string
	ClassID       int
	ConfidencePct float64
	Language      string
	Disease       string
}

// #endregion records
