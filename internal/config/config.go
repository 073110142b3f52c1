package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/fusion"
)

// #region types
// Config is the service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Logging   LoggingConfig   `yaml:"logging"`
	Fusion    FusionConfig    `yaml:"fusion"`
	Estimator EstimatorConfig `yaml:"estimator"`
	Diagnosis DiagnosisConfig `yaml:"diagnosis"`
	Audit     AuditConfig     `yaml:"audit"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Influx    InfluxConfig    `yaml:"influx"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

type FusionConfig struct {
	FavorableAbove float64 `yaml:"favorable_above"`
	AdverseBelow   float64 `yaml:"adverse_below"`
	DominantWeight float64 `yaml:"dominant_weight"`
}

// EstimatorConfig configures the remote estimator client. An empty Addr
// selects the local heuristic.
type EstimatorConfig struct {
	Addr            string        `yaml:"addr"`
	ListenAddr      string        `yaml:"listen_addr"` // cmd/estimator
	Timeout         time.Duration `yaml:"timeout"`
	MaxRetries      int           `yaml:"max_retries"`
	BreakerFailures int           `yaml:"breaker_failures"`
	BreakerOpen     time.Duration `yaml:"breaker_open"`
}

type DiagnosisConfig struct {
	TablePath string `yaml:"table_path"` // empty uses the embedded table
}

type AuditConfig struct {
	DBPath string `yaml:"db_path"` // empty disables the audit log
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"` // empty disables MQTT events
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      int    `yaml:"qos"`
}

type InfluxConfig struct {
	URL    string `yaml:"url"` // empty disables Influx telemetry
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// #endregion types

// #region defaults
// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	fc := fusion.DefaultConfig()
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8002",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Fusion: FusionConfig{
			FavorableAbove: fc.FavorableAbove,
			AdverseBelow:   fc.AdverseBelow,
			DominantWeight: fc.DominantWeight,
		},
		Estimator: EstimatorConfig{
			ListenAddr:      ":50051",
			Timeout:         800 * time.Millisecond,
			MaxRetries:      2,
			BreakerFailures: 5,
			BreakerOpen:     30 * time.Second,
		},
		MQTT:   MQTTConfig{ClientID: "crop-advisor", QoS: 1},
		Influx: InfluxConfig{Org: "crop-advisor", Bucket: "predictions"},
	}
}

// FusionEngineConfig converts the fusion section.
func (c *Config) FusionEngineConfig() fusion.Config {
	return fusion.Config{
		FavorableAbove: c.Fusion.FavorableAbove,
		AdverseBelow:   c.Fusion.AdverseBelow,
		DominantWeight: c.Fusion.DominantWeight,
	}
}

// #endregion defaults

// #region load
// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty or missing path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files, skipping missing
// ones. Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// #endregion load

// #region env
func (c *Config) applyEnvOverrides() error {
	// PORT is honoured for parity with platform launchers
	if port := os.Getenv("PORT"); port != "" {
		c.HTTP.Addr = ":" + port
	}
	setString(&c.HTTP.Addr, "CROP_HTTP_ADDR")
	setString(&c.Logging.Level, "CROP_LOG_LEVEL")
	setString(&c.Logging.Format, "CROP_LOG_FORMAT")
	setString(&c.Estimator.Addr, "CROP_ESTIMATOR_ADDR")
	setString(&c.Estimator.ListenAddr, "CROP_ESTIMATOR_LISTEN")
	setString(&c.Diagnosis.TablePath, "CROP_DIAGNOSIS_TABLE")
	setString(&c.Audit.DBPath, "CROP_AUDIT_DB")
	setString(&c.MQTT.Broker, "CROP_MQTT_BROKER")
	setString(&c.MQTT.Username, "CROP_MQTT_USERNAME")
	setString(&c.MQTT.Password, "CROP_MQTT_PASSWORD")
	setString(&c.Influx.URL, "CROP_INFLUX_URL")
	setString(&c.Influx.Token, "CROP_INFLUX_TOKEN")
	setString(&c.Influx.Org, "CROP_INFLUX_ORG")
	setString(&c.Influx.Bucket, "CROP_INFLUX_BUCKET")

	if v := os.Getenv("CROP_ESTIMATOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CROP_ESTIMATOR_TIMEOUT: %w", err)
		}
		c.Estimator.Timeout = d
	}
	if v := os.Getenv("CROP_ESTIMATOR_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CROP_ESTIMATOR_RETRIES: %w", err)
		}
		c.Estimator.MaxRetries = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// #endregion env

// #region validate
// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr must not be empty")
	}
	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 || c.HTTP.ShutdownTimeout <= 0 {
		return errors.New("http timeouts must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q not one of json, console", c.Logging.Format)
	}
	if c.Fusion.DominantWeight < 0 || c.Fusion.DominantWeight > 1 {
		return fmt.Errorf("fusion.dominant_weight %v outside [0,1]", c.Fusion.DominantWeight)
	}
	if c.Fusion.AdverseBelow > c.Fusion.FavorableAbove {
		return fmt.Errorf("fusion.adverse_below %v above favorable_above %v", c.Fusion.AdverseBelow, c.Fusion.FavorableAbove)
	}
	if c.Estimator.Timeout <= 0 {
		return errors.New("estimator.timeout must be positive")
	}
	if c.Estimator.MaxRetries < 0 {
		return errors.New("estimator.max_retries must not be negative")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos %d outside 0..2", c.MQTT.QoS)
	}
	if c.Influx.URL != "" && c.Influx.Bucket == "" {
		return errors.New("influx.bucket required when influx.url is set")
	}
	return nil
}

// #endregion validate
