package ensemble

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/factors"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/fusion"
)

// #region request
// Request carries the validated fields of a yield prediction.
type Request struct {
	CropType string
	Location string
	FarmSize float64
	Soil     factors.SoilInput
	Weather  factors.WeatherInput
}

// Features extracts the estimator feature vector.
func (r Request) Features() Features {
	return Features{
		SoilPH:      r.Soil.PH,
		Rainfall:    r.Weather.Rainfall,
		Temperature: r.Weather.Temperature,
		Humidity:    r.Weather.Humidity,
	}
}

// #endregion request

// #region outcome
// Trace records the intermediate values of one prediction.
type Trace struct {
	BaseYield     float64
	SoilFactor    float64
	WeatherFactor float64
	Fusion        fusion.Result
	Signal        Signal
}

// Outcome is an unrounded prediction plus its trace.
type Outcome struct {
	Prediction YieldPrediction
	Trace      Trace
}

// #endregion outcome

// #region predictor
// Predictor wires factors, fusion and a secondary estimator together.
type Predictor struct {
	catalog   Catalog
	engine    *fusion.Engine
	estimator Estimator
}

// NewPredictor creates a predictor. A nil estimator selects the heuristic one.
func NewPredictor(catalog Catalog, engine *fusion.Engine, estimator Estimator) *Predictor {
	if engine == nil {
		engine = fusion.NewEngine(fusion.DefaultConfig())
	}
	if estimator == nil {
		estimator = NewHeuristicEstimator()
	}
	return &Predictor{catalog: catalog, engine: engine, estimator: estimator}
}

// Predict runs the full pipeline. It fails only when the estimator fails.
func (p *Predictor) Predict(ctx context.Context, req Request) (Outcome, error) {
	base := p.catalog.BaseYield(req.CropType)
	soil := factors.Soil(req.Soil, p.catalog.PreferredSoils)
	weather := factors.WeatherFactor(req.Weather)

	sig, err := p.estimator.Estimate(ctx, req.Features())
	if err != nil {
		return Outcome{}, fmt.Errorf("secondary estimate: %w", err)
	}

	fused := p.engine.Fuse(base, soil, weather)
	pred := combineWith(fused, CombineInput{
		BaseYield:     base,
		SoilFactor:    soil,
		WeatherFactor: weather,
		FarmSize:      req.FarmSize,
		Signal:        sig,
	})
	pred.Unit = p.catalog.UnitFor(req.CropType)

	return Outcome{
		Prediction: pred,
		Trace: Trace{
			BaseYield:     base,
			SoilFactor:    soil,
			WeatherFactor: weather,
			Fusion:        fused,
			Signal:        sig,
		},
	}, nil
}

// #endregion predictor
