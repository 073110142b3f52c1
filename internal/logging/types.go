package logging

import (
	"time"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/diagnosis"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
)

// #region prediction-entry
// PredictionEntry is a single row in the predictions table: the request, the
// intermediate trace and the unrounded outcome.
type PredictionEntry struct {
	ID        string // generated when empty
	RequestID string
	Request   ensemble.Request
	Outcome   ensemble.Outcome
	CreatedAt time.Time
}

// #endregion prediction-entry

// #region diagnosis-entry
// DiagnosisEntry is a single row in the diagnoses table.
type DiagnosisEntry struct {
	ID        string // generated when empty
	RequestID string
	Result    diagnosis.Result
	CreatedAt time.Time
}

// #endregion diagnosis-entry
