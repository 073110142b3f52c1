package estimator

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
)

// #region server
// Server exposes an ensemble.Estimator over gRPC.
type Server struct {
	estimator ensemble.Estimator
	logger    *zap.Logger
}

// NewServer wraps est. A nil logger disables logging.
func NewServer(est ensemble.Estimator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{estimator: est, logger: logger}
}

// Estimate implements EstimatorServer.
func (s *Server) Estimate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f, err := decodeFeatures(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "features: %v", err)
	}
	sig, err := s.estimator.Estimate(ctx, f)
	if err != nil {
		s.logger.Warn("estimator failed", zap.Error(err))
		return nil, status.Errorf(codes.Internal, "estimate: %v", err)
	}
	resp, err := encodeSignal(sig)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	return resp, nil
}

// #endregion server

// #region interceptor
// LoggingInterceptor logs every unary call with its code and latency.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("rpc",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}

// #endregion interceptor
