package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// #region logger
// NewLogger builds a zap logger. format is "json" (production encoder) or
// "console" (development encoder); level is a zap level name.
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var cfg zap.Config
	switch format {
	case "", "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("log format %q not supported", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// #endregion logger

// #region fields
// PredictionFields are the structured log fields of one prediction.
func PredictionFields(e PredictionEntry) []zap.Field {
	tr, p := e.Outcome.Trace, e.Outcome.Prediction
	return []zap.Field{
		zap.String("request_id", e.RequestID),
		zap.String("crop", e.Request.CropType),
		zap.Float64("soil_factor", tr.SoilFactor),
		zap.Float64("weather_factor", tr.WeatherFactor),
		zap.String("fusion_mode", string(tr.Fusion.Mode)),
		zap.Float64("multiplier", tr.Fusion.Multiplier),
		zap.String("estimator", string(tr.Signal.Source)),
		zap.Float64("current_yield", p.CurrentYield),
		zap.Float64("optimized_yield", p.OptimizedYield),
	}
}

// DiagnosisFields are the structured log fields of one diagnosis.
func DiagnosisFields(e DiagnosisEntry) []zap.Field {
	return []zap.Field{
		zap.String("request_id", e.RequestID),
		zap.String("digest", e.Result.Digest),
		zap.Int("class_id", e.Result.ClassID),
		zap.Float64("confidence", e.Result.ConfidencePct),
		zap.String("language", e.Result.Language),
	}
}

// #endregion fields
