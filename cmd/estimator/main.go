package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/config"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/estimator"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/logging"
)

// #region main
// estimator serves the heuristic secondary estimator over gRPC so the HTTP
// service can be pointed at it with CROP_ESTIMATOR_ADDR.
func main() {
	configPath := flag.String("config", "", "path to YAML config")
	addr := flag.String("addr", "", "listen address (default: estimator.listen_addr)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}
	if *addr == "" {
		*addr = cfg.Estimator.ListenAddr
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		logger.Fatal("listen", zap.String("addr", *addr), zap.Error(err))
	}

	gs := grpc.NewServer(grpc.UnaryInterceptor(estimator.LoggingInterceptor(logger)))
	estimator.Register(gs, estimator.NewServer(ensemble.NewHeuristicEstimator(), logger))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("stopping estimator")
		gs.GracefulStop()
	}()

	logger.Info("estimator listening", zap.String("addr", lis.Addr().String()))
	if err := gs.Serve(lis); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}

// #endregion main
