package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Web       WebConfig       `mapstructure:"web"`
	Audio     AudioConfig     `mapstructure:"audio"`
	M17       M17Config       `mapstructure:"m17"`
	CTCSS     CTCSSConfig     `mapstructure:"ctcss"`
	Correlator CorrelatorConfig `mapstructure:"correlator"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig holds modem identification.
type ServerConfig struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Callsign    string `mapstructure:"callsign"`
}

// WebConfig holds web dashboard configuration.
type WebConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	AuthRequired bool   `mapstructure:"auth_required"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
}

// AudioConfig holds the PCM sample I/O parameters for the ADC/DAC path.
type AudioConfig struct {
	SampleRateTX int    `mapstructure:"sample_rate_tx"`
	SampleRateRX int     `mapstructure:"sample_rate_rx"`
	BlockSize    int     `mapstructure:"block_size"`
	Mode         string  `mapstructure:"mode"` // "linear" or "circ_double"
	Device       string  `mapstructure:"device"`
	EnvelopeAlpha float64 `mapstructure:"envelope_alpha"`
}

// M17Config holds frame-layer parameters for the modem's own station.
type M17Config struct {
	Callsign                  string `mapstructure:"callsign"`
	Destination               string `mapstructure:"destination"`
	CorrectErrors             bool   `mapstructure:"correct_errors"`
	MaxGolayCorrection        int    `mapstructure:"max_golay_correction"`
	MaxConsecutiveCRCFailures int    `mapstructure:"max_consecutive_crc_failures"`
}

// CTCSSConfig holds sub-audible tone detection parameters.
type CTCSSConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sample_rate"`
	BlockSize  int     `mapstructure:"block_size"`
	Threshold  float64 `mapstructure:"threshold"`
	TXTone     float64 `mapstructure:"tx_tone"`
}

// CorrelatorConfig holds synchroniser tuning parameters.
type CorrelatorConfig struct {
	PositiveThreshold int32   `mapstructure:"positive_threshold"`
	NegativeThreshold int32   `mapstructure:"negative_threshold"`
	StatsAlpha        float64 `mapstructure:"stats_alpha"`
}

// MQTTConfig holds MQTT client configuration for call-event publishing.
type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	QoS         byte   `mapstructure:"qos"`
	Retained    bool   `mapstructure:"retained"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled    bool             `mapstructure:"enabled"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig holds Prometheus metrics configuration.
type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from file and environment variables.
func Load(configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/m17modem")
	}

	viper.SetEnvPrefix("M17MODEM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is OK, use defaults.
		} else if os.IsNotExist(err) {
			// File explicitly specified but doesn't exist - also OK.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.name", "m17modem")
	viper.SetDefault("server.description", "Go M17 baseband modem")
	viper.SetDefault("server.callsign", "N0CALL")

	viper.SetDefault("web.enabled", true)
	viper.SetDefault("web.host", "0.0.0.0")
	viper.SetDefault("web.port", 8080)
	viper.SetDefault("web.auth_required", false)

	viper.SetDefault("audio.sample_rate_tx", 48000)
	viper.SetDefault("audio.sample_rate_rx", 24000)
	viper.SetDefault("audio.block_size", 960)
	viper.SetDefault("audio.mode", "circ_double")
	viper.SetDefault("audio.device", "default")
	viper.SetDefault("audio.envelope_alpha", 0.999)

	viper.SetDefault("m17.callsign", "N0CALL")
	viper.SetDefault("m17.destination", "ALL")
	viper.SetDefault("m17.correct_errors", true)
	viper.SetDefault("m17.max_golay_correction", 3)
	viper.SetDefault("m17.max_consecutive_crc_failures", 5)

	viper.SetDefault("ctcss.enabled", false)
	viper.SetDefault("ctcss.sample_rate", 2000.0)
	viper.SetDefault("ctcss.block_size", 400)
	viper.SetDefault("ctcss.threshold", 8.0)
	viper.SetDefault("ctcss.tx_tone", 0.0)

	viper.SetDefault("correlator.positive_threshold", 1<<20)
	viper.SetDefault("correlator.negative_threshold", -(1 << 20))
	viper.SetDefault("correlator.stats_alpha", 0.01)

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.topic_prefix", "m17modem")
	viper.SetDefault("mqtt.client_id", "m17modem")
	viper.SetDefault("mqtt.qos", 1)
	viper.SetDefault("mqtt.retained", false)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 7)

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.prometheus.enabled", true)
	viper.SetDefault("metrics.prometheus.port", 9090)
	viper.SetDefault("metrics.prometheus.path", "/metrics")
}
