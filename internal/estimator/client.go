package estimator

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
)

// #region config
// ClientConfig controls timeouts, retries and circuit breaking for remote calls.
type ClientConfig struct {
	Addr            string
	Timeout         time.Duration // per attempt
	MaxRetries      int
	RetryInitial    time.Duration
	BreakerFailures int           // consecutive failures before opening
	BreakerOpen     time.Duration // how long the breaker stays open
	BreakerInterval time.Duration // closed-state count reset period
}

// DefaultClientConfig returns production client settings.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:         800 * time.Millisecond,
		MaxRetries:      2,
		RetryInitial:    100 * time.Millisecond,
		BreakerFailures: 5,
		BreakerOpen:     30 * time.Second,
		BreakerInterval: 60 * time.Second,
	}
}

// #endregion config

// #region client-struct
// Client is an ensemble.Estimator backed by the remote estimator service.
type Client struct {
	conn    *grpc.ClientConn
	breaker *gobreaker.CircuitBreaker
	config  ClientConfig
}

// #endregion client-struct

// #region constructor
// NewClient creates a client for config.Addr. The connection is lazy; the
// first RPC dials. Extra options are appended after insecure credentials.
func NewClient(config ClientConfig, opts ...grpc.DialOption) (*Client, error) {
	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(config.Addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", config.Addr, err)
	}
	return &Client{
		conn:    conn,
		breaker: newBreaker(config),
		config:  config,
	}, nil
}

func newBreaker(config ClientConfig) *gobreaker.CircuitBreaker {
	fails := config.BreakerFailures
	if fails < 1 {
		fails = 1
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "remote-estimator",
		Interval: config.BreakerInterval,
		Timeout:  config.BreakerOpen,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
	})
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// #endregion close

// #region estimate
// Estimate implements ensemble.Estimator. Transient gRPC failures are retried
// with exponential backoff inside a single breaker call.
func (c *Client) Estimate(ctx context.Context, f ensemble.Features) (ensemble.Signal, error) {
	req, err := encodeFeatures(f)
	if err != nil {
		return ensemble.Signal{}, fmt.Errorf("encode features: %w", err)
	}

	res, err := c.breaker.Execute(func() (any, error) {
		return c.invokeWithRetry(ctx, req)
	})
	if err != nil {
		return ensemble.Signal{}, fmt.Errorf("estimate rpc: %w", err)
	}

	sig, err := decodeSignal(res.(*structpb.Struct))
	if err != nil {
		return ensemble.Signal{}, fmt.Errorf("decode signal: %w", err)
	}
	return sig, nil
}

// State reports the circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

func (c *Client) invokeWithRetry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.RetryInitial
	bo.MaxElapsedTime = 0

	var out *structpb.Struct
	err := backoff.Retry(func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()

		resp := new(structpb.Struct)
		if err := c.conn.Invoke(callCtx, estimateMethod, req, resp); err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = resp
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(max(c.config.MaxRetries, 0))), ctx))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func retryable(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return true
	}
	return false
}

// #endregion estimate
