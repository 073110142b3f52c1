package ensemble

import (
	"strconv"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/fusion"
)

// #region combine
// Combine blends the fused base yield with the secondary signal and scales it
// by farm size. Unit is left empty; callers set it from the catalog.
func Combine(in CombineInput) YieldPrediction {
	return combineWith(fusion.Fuse(in.BaseYield, in.SoilFactor, in.WeatherFactor), in)
}

func combineWith(fused fusion.Result, in CombineInput) YieldPrediction {
	s := in.Signal
	variation := s.Estimate * 0.1 * s.Suitability
	current := (fused.Value + variation) * in.FarmSize

	// multiplier is >= 1.1 for suitability in [0,1]
	optimized := current * (1.1 + 0.1*s.Suitability)

	var improvement float64
	if current != 0 {
		improvement = (optimized - current) / current * 100
	}

	return YieldPrediction{
		CurrentYield:     current,
		OptimizedYield:   optimized,
		ImprovementPct:   improvement,
		SuitabilityScore: s.Suitability * 100,
	}
}

// #endregion combine

// #region rounding
// Round applies the wire precision: yields to 2 decimals, percentages to 1.
// Values round on their exact decimal expansion, ties to even.
func Round(p YieldPrediction) YieldPrediction {
	return YieldPrediction{
		CurrentYield:     roundTo(p.CurrentYield, 2),
		OptimizedYield:   roundTo(p.OptimizedYield, 2),
		ImprovementPct:   roundTo(p.ImprovementPct, 1),
		SuitabilityScore: roundTo(p.SuitabilityScore, 1),
		Unit:             p.Unit,
	}
}

func roundTo(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// #endregion rounding
