package mqtt

import (
	"context"
	"testing"
	"time"
)

func TestNewPublisher(t *testing.T) {
	config := Config{
		Enabled:     true,
		Broker:      "tcp://localhost:1883",
		TopicPrefix: "m17modem/test",
		ClientID:    "test-client",
		QoS:         1,
		Retained:    false,
	}

	pub := New(config, nil)
	if pub == nil {
		t.Fatal("Expected non-nil publisher")
	}

	if pub.config.Broker != config.Broker {
		t.Errorf("Expected broker %s, got %s", config.Broker, pub.config.Broker)
	}
}

func TestPublisher_StartWhenDisabled(t *testing.T) {
	config := Config{
		Enabled: false,
	}

	pub := New(config, nil)
	ctx := context.Background()

	err := pub.Start(ctx)
	if err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}
}

func TestPublisher_Stop(t *testing.T) {
	config := Config{
		Enabled: false,
	}

	pub := New(config, nil)
	pub.Stop()
}

func TestPublisher_PublishCallStart(t *testing.T) {
	config := Config{
		Enabled:     false,
		TopicPrefix: "m17modem/test",
	}

	pub := New(config, nil)

	event := CallStartEvent{
		SrcCallsign: "N0CALL",
		DstCallsign: "ALL",
		Timestamp:   time.Now(),
	}

	if err := pub.PublishCallStart(event); err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}
}

func TestPublisher_PublishCallEnd(t *testing.T) {
	config := Config{
		Enabled:     false,
		TopicPrefix: "m17modem/test",
	}

	pub := New(config, nil)

	event := CallEndEvent{
		SrcCallsign: "N0CALL",
		DstCallsign: "ALL",
		Duration:    5.5,
		FrameCount:  20,
		Timestamp:   time.Now(),
	}

	if err := pub.PublishCallEnd(event); err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}
}

func TestPublisher_PublishLockState(t *testing.T) {
	config := Config{
		Enabled:     false,
		TopicPrefix: "m17modem/test",
	}

	pub := New(config, nil)

	event := LockStateEvent{
		Locked:    true,
		Timestamp: time.Now(),
	}

	if err := pub.PublishLockState(event); err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}
}

func TestPublisher_PublishCTCSS(t *testing.T) {
	config := Config{
		Enabled:     false,
		TopicPrefix: "m17modem/test",
	}

	pub := New(config, nil)

	event := CTCSSEvent{
		ToneHz:    100.0,
		Timestamp: time.Now(),
	}

	if err := pub.PublishCTCSS(event); err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}
}

func TestTopicFormat(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		suffix   string
		expected string
	}{
		{
			name:     "simple topic",
			prefix:   "m17modem",
			suffix:   "calls/start",
			expected: "m17modem/calls/start",
		},
		{
			name:     "trailing slash in prefix",
			prefix:   "m17modem/",
			suffix:   "calls/start",
			expected: "m17modem/calls/start",
		},
		{
			name:     "empty prefix",
			prefix:   "",
			suffix:   "calls/start",
			expected: "calls/start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Config{
				TopicPrefix: tt.prefix,
			}
			pub := New(config, nil)
			topic := pub.formatTopic(tt.suffix)
			if topic != tt.expected {
				t.Errorf("Expected topic %s, got %s", tt.expected, topic)
			}
		})
	}
}

func TestEventSerialization(t *testing.T) {
	tests := []struct {
		name  string
		event interface{}
	}{
		{
			name: "CallStartEvent",
			event: CallStartEvent{
				SrcCallsign: "N0CALL",
				DstCallsign: "ALL",
				Timestamp:   time.Now(),
			},
		},
		{
			name: "CallEndEvent",
			event: CallEndEvent{
				SrcCallsign: "N0CALL",
				DstCallsign: "ALL",
				Duration:    5.5,
				FrameCount:  20,
				Timestamp:   time.Now(),
			},
		},
		{
			name: "LockStateEvent",
			event: LockStateEvent{
				Locked:    true,
				Timestamp: time.Now(),
			},
		},
		{
			name: "CTCSSEvent",
			event: CTCSSEvent{
				ToneHz:    100.0,
				Timestamp: time.Now(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Config{
				Enabled: false,
			}
			pub := New(config, nil)

			_, err := pub.serializeEvent(tt.event)
			if err != nil {
				t.Errorf("Failed to serialize %s: %v", tt.name, err)
			}
		})
	}
}
