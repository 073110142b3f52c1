package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/api"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/metrics"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves /health, /predict and /analyze-disease.

Optional integrations are enabled by configuration:
  estimator.addr  remote yield estimator (gRPC), heuristic fallback
  audit.db_path   SQLite audit log of every prediction and diagnosis
  mqtt.broker     prediction and diagnosis events over MQTT
  influx.url      prediction telemetry in InfluxDB`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	predictor, closeEstimator, err := buildPredictor(cfg, logger)
	if err != nil {
		return err
	}
	defer closeEstimator()

	diagnoser, err := buildDiagnoser(cfg)
	if err != nil {
		return err
	}

	deps := api.Deps{
		Predictor: predictor,
		Diagnoser: diagnoser,
		Metrics:   metrics.New(),
		Logger:    logger,
	}

	if cfg.Audit.DBPath != "" {
		st, err := store.NewStore(cfg.Audit.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		deps.AuditDB = st.DB()
		logger.Info("audit log enabled", zap.String("db", cfg.Audit.DBPath))
	}

	fanout := buildFanout(ctx, cfg, logger)
	defer fanout.Close()
	if fanout.Len() > 0 {
		deps.Events = fanout
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := api.NewHTTPServer(cfg.HTTP.Addr, api.NewServer(deps).Router(), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.Int("disease_classes", diagnoser.Table().Classes()),
			zap.Int("event_sinks", fanout.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
