package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"Gin_postgres_redis_device_rental/config"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	mqttConnectTimeout = 10 * time.Second
	mqttPublishTimeout = 5 * time.Second
	mqttKeepAlive      = 60 * time.Second
	mqttQuiesceMillis  = 1000
)

var ErrPublishTimeout = errors.New("mqtt: publish timed out")

// Publisher is the part of pahomqtt.Client the sink uses.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
}

// ConnectMQTT opens an auto-reconnecting client and waits for the first connection.
func ConnectMQTT(cfg config.MQTTConfig) (pahomqtt.Client, error) {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(mqttConnectTimeout)
	opts.SetKeepAlive(mqttKeepAlive)

	c := pahomqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("mqtt connect %s: timeout after %v", cfg.Broker, mqttConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}
	return c, nil
}

// MQTTSink publishes reminders on <prefix>/<recipient>.
type MQTTSink struct {
	client Publisher
	prefix string
	qos    byte
	now    func() time.Time
}

func NewMQTTSink(client Publisher, prefix string, qos byte) *MQTTSink {
	return &MQTTSink{client: client, prefix: strings.TrimRight(prefix, "/"), qos: qos, now: time.Now}
}

// Topic returns the topic for a recipient. MQTT wildcards and separators are replaced
// so an address always maps to exactly one level.
func (s *MQTTSink) Topic(to string) string {
	r := strings.NewReplacer("/", "_", "+", "_", "#", "_")
	return s.prefix + "/" + r.Replace(to)
}

func (s *MQTTSink) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(Message{To: to, Subject: subject, Body: body, SentAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}

	token := s.client.Publish(s.Topic(to), s.qos, false, payload)
	select {
	case <-token.Done():
	case <-time.After(mqttPublishTimeout):
		return ErrPublishTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish: %w", err)
	}
	return nil
}

// DisconnectMQTT waits for in-flight publishes before closing.
func DisconnectMQTT(c pahomqtt.Client) {
	c.Disconnect(mqttQuiesceMillis)
}
