package estimator

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
)

// The estimator service exchanges google.protobuf.Struct messages so that any
// gRPC runtime can serve it without shared generated code.
//
//	service Estimator { rpc Estimate(google.protobuf.Struct) returns (google.protobuf.Struct); }
const (
	serviceName    = "cropadvisor.estimator.v1.Estimator"
	estimateMethod = "/" + serviceName + "/Estimate"
)

// #region field-names
const (
	fieldSoilPH      = "soil_ph"
	fieldRainfall    = "rainfall"
	fieldTemperature = "temperature"
	fieldHumidity    = "humidity"

	fieldEstimate    = "estimate"
	fieldSuitability = "suitability"
)

// #endregion field-names

// #region service-desc
// EstimatorServer is the server API of the estimator service.
type EstimatorServer interface {
	Estimate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*EstimatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Estimate", Handler: estimateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "estimator.proto",
}

// Register attaches srv to a gRPC server.
func Register(gs *grpc.Server, srv EstimatorServer) {
	gs.RegisterService(&serviceDesc, srv)
}

func estimateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EstimatorServer).Estimate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: estimateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EstimatorServer).Estimate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion service-desc

// #region codec
func encodeFeatures(f ensemble.Features) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		fieldSoilPH:      f.SoilPH,
		fieldRainfall:    f.Rainfall,
		fieldTemperature: f.Temperature,
		fieldHumidity:    f.Humidity,
	})
}

func decodeFeatures(s *structpb.Struct) (ensemble.Features, error) {
	var f ensemble.Features
	var err error
	if f.SoilPH, err = number(s, fieldSoilPH); err != nil {
		return f, err
	}
	if f.Rainfall, err = number(s, fieldRainfall); err != nil {
		return f, err
	}
	if f.Temperature, err = number(s, fieldTemperature); err != nil {
		return f, err
	}
	if f.Humidity, err = number(s, fieldHumidity); err != nil {
		return f, err
	}
	return f, nil
}

func encodeSignal(sig ensemble.Signal) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		fieldEstimate:    sig.Estimate,
		fieldSuitability: sig.Suitability,
	})
}

// decodeSignal rejects suitability outside [0,1].
func decodeSignal(s *structpb.Struct) (ensemble.Signal, error) {
	est, err := number(s, fieldEstimate)
	if err != nil {
		return ensemble.Signal{}, err
	}
	suit, err := number(s, fieldSuitability)
	if err != nil {
		return ensemble.Signal{}, err
	}
	if suit < 0 || suit > 1 {
		return ensemble.Signal{}, fmt.Errorf("suitability %v out of range", suit)
	}
	return ensemble.Signal{Estimate: est, Suitability: suit, Source: ensemble.SourceRemote}, nil
}

func number(s *structpb.Struct, key string) (float64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", key)
	}
	return n.NumberValue, nil
}

// #endregion codec
