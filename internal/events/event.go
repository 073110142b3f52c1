package events

import (
	"context"
	"time"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/diagnosis"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
)

// #region types
// Kind distinguishes event payloads.
type Kind string

const (
	KindPrediction Kind = "prediction"
	KindDiagnosis  Kind = "diagnosis"
)

// Event is one outbound notification. Exactly one payload is set.
type Event struct {
	Kind       Kind               `json:"kind"`
	RequestID  string             `json:"requestId,omitempty"`
	Time       time.Time          `json:"time"`
	Prediction *PredictionPayload `json:"prediction,omitempty"`
	Diagnosis  *DiagnosisPayload  `json:"diagnosis,omitempty"`
}

// PredictionPayload carries the rounded prediction and how it was produced.
type PredictionPayload struct {
	Crop             string  `json:"crop"`
	Location         string  `json:"location,omitempty"`
	FarmSize         float64 `json:"farmSize"`
	FusionMode       string  `json:"fusionMode"`
	Source           string  `json:"source"`
	CurrentYield     float64 `json:"currentYield"`
	OptimizedYield   float64 `json:"optimizedYield"`
	Improvement      float64 `json:"improvement"`
	SuitabilityScore float64 `json:"suitabilityScore"`
	Unit             string  `json:"unit"`
}

// DiagnosisPayload carries the classification of one image.
type DiagnosisPayload struct {
	ClassID    int     `json:"classId"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
	Disease    string  `json:"disease"`
	Digest     string  `json:"digest"`
}

// Sink receives events.
type Sink interface {
	Publish(ctx context.Context, evt Event) error
	Close()
}

// #endregion types

// #region constructors
// NewPredictionEvent builds a prediction event with wire-rounded values.
func NewPredictionEvent(requestID string, req ensemble.Request, out ensemble.Outcome) Event {
	p := ensemble.Round(out.Prediction)
	return Event{
		Kind:      KindPrediction,
		RequestID: requestID,
		Time:      time.Now().UTC(),
		Prediction: &PredictionPayload{
			Crop:             req.CropType,
			Location:         req.Location,
			FarmSize:         req.FarmSize,
			FusionMode:       string(out.Trace.Fusion.Mode),
			Source:           string(out.Trace.Signal.Source),
			CurrentYield:     p.CurrentYield,
			OptimizedYield:   p.OptimizedYield,
			Improvement:      p.ImprovementPct,
			SuitabilityScore: p.SuitabilityScore,
			Unit:             string(p.Unit),
		},
	}
}

// NewDiagnosisEvent builds a diagnosis event.
func NewDiagnosisEvent(requestID string, res diagnosis.Result) Event {
	return Event{
		Kind:      KindDiagnosis,
		RequestID: requestID,
		Time:      time.Now().UTC(),
		Diagnosis: &DiagnosisPayload{
			ClassID:    res.ClassID,
			Confidence: res.RoundedConfidence(),
			Language:   res.Language,
			Disease:    res.Disease,
			Digest:     res.Digest,
		},
	}
}

// #endregion constructors

// #region nop
// NopSink discards events.
type NopSink struct{}

func (NopSink) Publish(context.Context, Event) error { return nil }
func (NopSink) Close()                               {}

// #endregion nop
