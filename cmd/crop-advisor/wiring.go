package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/config"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/diagnosis"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/estimator"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/events"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/fusion"
)

// #region predictor
// buildPredictor returns the predictor and a cleanup func. With an estimator
// address configured, remote failures fall back to the heuristic.
func buildPredictor(c *config.Config, logger *zap.Logger) (*ensemble.Predictor, func(), error) {
	engine := fusion.NewEngine(c.FusionEngineConfig())
	heuristic := ensemble.NewHeuristicEstimator()

	if c.Estimator.Addr == "" {
		logger.Info("estimator: using local heuristic")
		return ensemble.NewPredictor(ensemble.DefaultCatalog(), engine, heuristic), func() {}, nil
	}

	cc := estimator.DefaultClientConfig()
	cc.Addr = c.Estimator.Addr
	cc.Timeout = c.Estimator.Timeout
	cc.MaxRetries = c.Estimator.MaxRetries
	cc.BreakerFailures = c.Estimator.BreakerFailures
	cc.BreakerOpen = c.Estimator.BreakerOpen

	client, err := estimator.NewClient(cc)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("estimator: remote", zap.String("addr", cc.Addr))

	est := &ensemble.FallbackEstimator{
		Primary:  client,
		Fallback: heuristic,
		OnFallback: func(err error) {
			logger.Warn("estimator unavailable, using heuristic",
				zap.Error(err),
				zap.String("breaker", client.State().String()))
		},
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("close estimator client", zap.Error(err))
		}
	}
	return ensemble.NewPredictor(ensemble.DefaultCatalog(), engine, est), cleanup, nil
}

// #endregion predictor

// #region diagnoser
func buildDiagnoser(c *config.Config) (*diagnosis.Diagnoser, error) {
	var (
		table *diagnosis.Table
		err   error
	)
	if c.Diagnosis.TablePath != "" {
		table, err = diagnosis.LoadTable(c.Diagnosis.TablePath)
	} else {
		table, err = diagnosis.DefaultTable()
	}
	if err != nil {
		return nil, fmt.Errorf("disease table: %w", err)
	}
	return diagnosis.NewDiagnoser(table), nil
}

// #endregion diagnoser

// #region sinks
// buildFanout connects the configured event sinks. A sink that fails to
// connect is logged and skipped.
func buildFanout(ctx context.Context, c *config.Config, logger *zap.Logger) *events.Fanout {
	var sinks []events.Sink

	if c.MQTT.Broker != "" {
		client, err := events.ConnectMQTT(ctx, c.MQTT, logger)
		if err != nil {
			logger.Warn("mqtt disabled", zap.String("broker", c.MQTT.Broker), zap.Error(err))
		} else {
			sinks = append(sinks, events.NewMQTTPublisher(client, byte(c.MQTT.QoS), logger))
		}
	}
	if c.Influx.URL != "" {
		sinks = append(sinks, events.NewInfluxSink(c.Influx))
		logger.Info("influx telemetry enabled", zap.String("url", c.Influx.URL), zap.String("bucket", c.Influx.Bucket))
	}

	return events.NewFanout(logger, 5*time.Second, sinks...)
}

// #endregion sinks
