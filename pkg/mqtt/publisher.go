package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openrtx/m17modem/pkg/logger"
)

// Config holds MQTT publisher configuration
type Config struct {
	Enabled     bool
	Broker      string
	TopicPrefix string
	ClientID    string
	Username    string
	Password    string
	QoS         byte
	Retained    bool
}

// Publisher handles MQTT event publishing
type Publisher struct {
	config Config
	log    *logger.Logger
}

// Event types for MQTT publishing

// CallStartEvent represents the start of a received voice call
type CallStartEvent struct {
	SrcCallsign string    `json:"src_callsign"`
	DstCallsign string    `json:"dst_callsign"`
	Timestamp   time.Time `json:"timestamp"`
}

// CallEndEvent represents the end of a received voice call
type CallEndEvent struct {
	SrcCallsign string    `json:"src_callsign"`
	DstCallsign string    `json:"dst_callsign"`
	Duration    float64   `json:"duration"`
	FrameCount  int       `json:"frame_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// LockStateEvent represents a syncword lock state transition
type LockStateEvent struct {
	Locked    bool      `json:"locked"`
	Timestamp time.Time `json:"timestamp"`
}

// CTCSSEvent represents a CTCSS tone detection event
type CTCSSEvent struct {
	ToneHz    float64   `json:"tone_hz"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a new MQTT publisher
func New(config Config, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}

	return &Publisher{
		config: config,
		log:    log.WithComponent("mqtt"),
	}
}

// Start starts the MQTT publisher
func (p *Publisher) Start(ctx context.Context) error {
	if !p.config.Enabled {
		p.log.Info("MQTT publisher disabled")
		return nil
	}

	p.log.Info("Starting MQTT publisher",
		logger.String("broker", p.config.Broker),
		logger.String("client_id", p.config.ClientID))

	// TODO: wire an actual MQTT client (paho.mqtt or similar) once the
	// ecosystem dependency is approved; until then this is a logging stub.
	p.log.Warn("MQTT connection not yet implemented - events will not be published")

	return nil
}

// Stop stops the MQTT publisher
func (p *Publisher) Stop() {
	if !p.config.Enabled {
		return
	}

	p.log.Info("Stopping MQTT publisher")
}

// PublishCallStart publishes a call-start event
func (p *Publisher) PublishCallStart(event CallStartEvent) error {
	if !p.config.Enabled {
		return nil
	}

	topic := p.formatTopic("calls/start")
	return p.publish(topic, event)
}

// PublishCallEnd publishes a call-end event
func (p *Publisher) PublishCallEnd(event CallEndEvent) error {
	if !p.config.Enabled {
		return nil
	}

	topic := p.formatTopic("calls/end")
	return p.publish(topic, event)
}

// PublishLockState publishes a syncword lock state transition
func (p *Publisher) PublishLockState(event LockStateEvent) error {
	if !p.config.Enabled {
		return nil
	}

	topic := p.formatTopic("lock")
	return p.publish(topic, event)
}

// PublishCTCSS publishes a CTCSS tone detection event
func (p *Publisher) PublishCTCSS(event CTCSSEvent) error {
	if !p.config.Enabled {
		return nil
	}

	topic := p.formatTopic("ctcss")
	return p.publish(topic, event)
}

// publish publishes an event to a topic
func (p *Publisher) publish(topic string, event interface{}) error {
	payload, err := p.serializeEvent(event)
	if err != nil {
		p.log.Error("Failed to serialize event",
			logger.String("topic", topic),
			logger.Error(err))
		return err
	}

	// TODO: publish over the real MQTT connection once wired.
	p.log.Debug("Would publish MQTT event",
		logger.String("topic", topic),
		logger.Int("payload_size", len(payload)))

	return nil
}

// serializeEvent serializes an event to JSON
func (p *Publisher) serializeEvent(event interface{}) ([]byte, error) {
	return json.Marshal(event)
}

// formatTopic formats a topic with the configured prefix
func (p *Publisher) formatTopic(suffix string) string {
	prefix := strings.TrimSuffix(p.config.TopicPrefix, "/")
	if prefix == "" {
		return suffix
	}
	return fmt.Sprintf("%s/%s", prefix, suffix)
}
