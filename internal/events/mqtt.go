package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/config"
)

// #region connect
// ConnectMQTT connects to cfg.Broker, retrying with exponential backoff.
func ConnectMQTT(ctx context.Context, cfg config.MQTTConfig, logger *zap.Logger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", zap.Error(err))
	})

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			logger.Warn("mqtt connect failed", zap.String("broker", cfg.Broker), zap.Error(token.Error()))
			return token.Error()
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, 4), ctx))
	if err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}

	logger.Info("connected to mqtt broker", zap.String("broker", cfg.Broker))
	return client, nil
}

// #endregion connect

// #region publisher
// MQTTPublisher publishes events as JSON on per-subject topics.
type MQTTPublisher struct {
	client mqtt.Client
	qos    byte
	logger *zap.Logger
}

// NewMQTTPublisher wraps a connected client.
func NewMQTTPublisher(client mqtt.Client, qos byte, logger *zap.Logger) *MQTTPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MQTTPublisher{client: client, qos: qos, logger: logger}
}

// Topic returns event/prediction/<crop> or event/diagnosis/<classId>.
func Topic(evt Event) string {
	switch {
	case evt.Prediction != nil:
		return "event/prediction/" + topicSegment(evt.Prediction.Crop)
	case evt.Diagnosis != nil:
		return "event/diagnosis/" + strconv.Itoa(evt.Diagnosis.ClassID)
	}
	return "event/" + string(evt.Kind)
}

// topicSegment keeps crop names from introducing levels or wildcards.
func topicSegment(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', ' ':
			return '_'
		}
		return r
	}, s)
}

// Publish implements Sink.
func (p *MQTTPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	topic := Topic(evt)

	token := p.client.Publish(topic, p.qos, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("publish %s: %w", topic, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	p.logger.Debug("event published", zap.String("topic", topic))
	return nil
}

// Close disconnects the client.
func (p *MQTTPublisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

// #endregion publisher
