package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// #region fanout
// Fanout delivers each event to every sink concurrently. Sink failures are
// logged and never reach the caller of Dispatch.
type Fanout struct {
	sinks   []Sink
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewFanout creates a fan-out over sinks. timeout bounds each Dispatch.
func NewFanout(logger *zap.Logger, timeout time.Duration, sinks ...Sink) *Fanout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fanout{sinks: sinks, timeout: timeout, logger: logger}
}

// Len reports the number of sinks.
func (f *Fanout) Len() int { return len(f.sinks) }

// Publish sends evt to all sinks and waits for them. It returns the first
// sink error after every sink has finished.
func (f *Fanout) Publish(ctx context.Context, evt Event) error {
	var g errgroup.Group
	for _, s := range f.sinks {
		g.Go(func() error {
			if err := s.Publish(ctx, evt); err != nil {
				f.logger.Warn("event sink failed", zap.String("kind", string(evt.Kind)), zap.Error(err))
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// Dispatch publishes in the background, detached from the request context.
func (f *Fanout) Dispatch(evt Event) {
	if len(f.sinks) == 0 {
		return
	}
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()
		_ = f.Publish(ctx, evt)
	}()
}

// Close waits for in-flight dispatches and closes every sink.
func (f *Fanout) Close() {
	f.wg.Wait()
	for _, s := range f.sinks {
		s.Close()
	}
}

// #endregion fanout
