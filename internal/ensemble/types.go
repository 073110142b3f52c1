package ensemble

import "context"

// #region features
// Features is the feature vector handed to a secondary estimator.
type Features struct {
	SoilPH      float64
	Rainfall    float64
	Temperature float64
	Humidity    float64
}

// #endregion features

// #region signal
// Source records which estimator produced a Signal.
type Source string

const (
	SourceHeuristic Source = "heuristic"
	SourceRemote    Source = "remote"
	SourceFallback  Source = "fallback" // remote failed, heuristic used
)

// Signal is the secondary model output blended into the fused base yield.
type Signal struct {
	Estimate    float64 // coarse secondary yield estimate
	Suitability float64 // probability in [0,1]
	Source      Source
}

// #endregion signal

// #region estimator-interface
// Estimator is any secondary model able to score a feature vector.
// The combiner treats its output as opaque.
type Estimator interface {
	Estimate(ctx context.Context, f Features) (Signal, error)
}

// #endregion estimator-interface

// #region prediction
// Unit is the output unit of a yield prediction.
type Unit string

const (
	UnitTons     Unit = "tons"
	UnitQuintals Unit = "quintals"
)

// YieldPrediction is the combined output for one request.
// OptimizedYield >= CurrentYield for any suitability in [0,1].
type YieldPrediction struct {
	CurrentYield     float64
	OptimizedYield   float64
	ImprovementPct   float64
	SuitabilityScore float64 // 0-100
	Unit             Unit
}

// CombineInput bundles everything Combine needs.
type CombineInput struct {
	BaseYield     float64
	SoilFactor    float64
	WeatherFactor float64
	FarmSize      float64
	Signal        Signal
}

// #endregion prediction
