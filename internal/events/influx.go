package events

import (
	"context"
	"fmt"
	"strconv"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/config"
)

// #region sink
// InfluxSink writes events as time-series points.
type InfluxSink struct {
	client   influxdb2.Client // nil when the writer was injected
	writeAPI api.WriteAPIBlocking
}

// NewInfluxSink creates a client for cfg and a blocking writer.
func NewInfluxSink(cfg config.InfluxConfig) *InfluxSink {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
	}
}

// NewInfluxSinkWithWriter wraps an existing writer.
func NewInfluxSinkWithWriter(w api.WriteAPIBlocking) *InfluxSink {
	return &InfluxSink{writeAPI: w}
}

// Publish implements Sink.
func (s *InfluxSink) Publish(ctx context.Context, evt Event) error {
	point := Point(evt)
	if point == nil {
		return nil
	}
	if err := s.writeAPI.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("influx write %s: %w", evt.Kind, err)
	}
	return nil
}

// Close releases the client.
func (s *InfluxSink) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// #endregion sink

// #region points
// Point converts evt to crop_prediction or disease_diagnosis. Events with no
// payload yield nil.
func Point(evt Event) *write.Point {
	switch {
	case evt.Prediction != nil:
		p := evt.Prediction
		return influxdb2.NewPoint("crop_prediction",
			map[string]string{
				"crop":        p.Crop,
				"unit":        p.Unit,
				"fusion_mode": p.FusionMode,
				"source":      p.Source,
			},
			map[string]interface{}{
				"farm_size":         p.FarmSize,
				"current_yield":     p.CurrentYield,
				"optimized_yield":   p.OptimizedYield,
				"improvement":       p.Improvement,
				"suitability_score": p.SuitabilityScore,
			},
			evt.Time,
		)
	case evt.Diagnosis != nil:
		d := evt.Diagnosis
		return influxdb2.NewPoint("disease_diagnosis",
			map[string]string{
				"class_id": strconv.Itoa(d.ClassID),
				"language": d.Language,
			},
			map[string]interface{}{
				"confidence": d.Confidence,
			},
			evt.Time,
		)
	}
	return nil
}

// #endregion points
