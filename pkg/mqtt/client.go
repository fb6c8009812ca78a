// Package mqtt wraps the paho client for publishing JSON messages.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Config broker settings
type Config struct {
	Broker         string // tcp://host:1883
	ClientID       string
	Username       string
	Password       string
	QoS            byte
	ConnectTimeout time.Duration
}

// Client publishes messages to a broker and reconnects automatically.
type Client struct {
	config *Config
	client paho.Client
}

// NewClient creates a Client; call Connect before publishing.
func NewClient(cfg *Config) *Client {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	return &Client{config: cfg}
}

// Connect dials the broker
func (c *Client) Connect() error {
	opts := paho.NewClientOptions()
	opts.AddBroker(c.config.Broker)
	opts.SetClientID(c.config.ClientID)
	opts.SetUsername(c.config.Username)
	opts.SetPassword(c.config.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(c.config.ConnectTimeout)

	c.client = paho.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(c.config.ConnectTimeout) {
		return fmt.Errorf("mqtt: connect timeout after %s", c.config.ConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: connect: %w", err)
	}
	return nil
}

// IsConnected reports the connection state
func (c *Client) IsConnected() bool {
	return c.client != nil && c.client.IsConnected()
}

// Publish sends payload as JSON, waiting for the broker ack or ctx.
func (c *Client) Publish(ctx context.Context, topic string, payload interface{}) error {
	if !c.IsConnected() {
		return fmt.Errorf("mqtt: not connected")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mqtt: encode: %w", err)
	}
	token := c.client.Publish(topic, c.config.QoS, false, data)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects, allowing 250ms for in-flight work
func (c *Client) Close() {
	if c.IsConnected() {
		c.client.Disconnect(250)
	}
}

// Published a message captured by MemoryClient
type Published struct {
	Topic   string
	Payload []byte
}

// MemoryClient records publishes, for development and tests.
type MemoryClient struct {
	mu       sync.Mutex
	messages []Published
}

// NewMemoryClient creates a MemoryClient
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// Publish records payload as JSON
func (m *MemoryClient) Publish(ctx context.Context, topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.messages = append(m.messages, Published{Topic: topic, Payload: data})
	m.mu.Unlock()
	return nil
}

// Close no-op
func (m *MemoryClient) Close() {}

// Messages returns a copy of the recorded messages
func (m *MemoryClient) Messages() []Published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Published(nil), m.messages...)
}
