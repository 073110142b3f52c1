package ensemble

import "context"

// #region heuristic
// HeuristicEstimator is the deterministic stand-in for a trained regressor and
// suitability classifier. It never fails.
type HeuristicEstimator struct{}

// NewHeuristicEstimator returns the local heuristic estimator.
func NewHeuristicEstimator() *HeuristicEstimator { return &HeuristicEstimator{} }

// Estimate returns 3.2 + rainfall/1000*0.5 and a suitability of 0.85 when
// pH is in [6.0, 7.5], else 0.45.
func (HeuristicEstimator) Estimate(_ context.Context, f Features) (Signal, error) {
	return HeuristicSignal(f), nil
}

// HeuristicSignal is the pure form of HeuristicEstimator.Estimate.
func HeuristicSignal(f Features) Signal {
	suitability := 0.45
	if f.SoilPH >= 6.0 && f.SoilPH <= 7.5 {
		suitability = 0.85
	}
	return Signal{
		Estimate:    3.2 + (f.Rainfall/1000)*0.5,
		Suitability: suitability,
		Source:      SourceHeuristic,
	}
}

// #endregion heuristic

// #region fallback
// FallbackEstimator tries Primary and uses Fallback when it errors.
// OnFallback, when set, is called with the primary error.
type FallbackEstimator struct {
	Primary    Estimator
	Fallback   Estimator
	OnFallback func(err error)
}

// Estimate implements Estimator.
func (e *FallbackEstimator) Estimate(ctx context.Context, f Features) (Signal, error) {
	sig, err := e.Primary.Estimate(ctx, f)
	if err == nil {
		return sig, nil
	}
	if e.OnFallback != nil {
		e.OnFallback(err)
	}
	sig, ferr := e.Fallback.Estimate(ctx, f)
	if ferr != nil {
		return Signal{}, ferr
	}
	sig.Source = SourceFallback
	return sig, nil
}

// #endregion fallback
