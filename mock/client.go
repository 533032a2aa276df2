// Package mock provides an in-memory MQTT client for tests.
package mock

import (
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Client is a [mqtt.Client] that records published payloads and routes
// them back to matching subscribers.
type Client struct {
	connected bool

	opts     *mqtt.ClientOptions
	handlers map[string]mqtt.MessageHandler

	mu        sync.Mutex
	published map[string][][]byte
}

func NewClient(o *mqtt.ClientOptions) *Client {
	return &Client{
		opts:      o,
		handlers:  make(map[string]mqtt.MessageHandler),
		published: make(map[string][][]byte),
	}
}

func (c *Client) IsConnected() bool {
	return c.connected
}

func (c *Client) IsConnectionOpen() bool {
	return c.connected
}

func (c *Client) Connect() mqtt.Token {
	c.connected = true
	return &mqtt.DummyToken{}
}

func (c *Client) Disconnect(_ uint) {
	c.connected = false
}

// Payloads returns every payload published to topic, oldest first.
func (c *Client) Payloads(topic string) [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.published[topic]
}

// LastPayload returns the most recent payload published to topic.
func (c *Client) LastPayload(topic string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.published[topic]
	if len(p) == 0 {
		return nil, false
	}
	return p[len(p)-1], true
}

// Receive delivers a payload to the handler subscribed to topic, as if
// it arrived from the broker.
func (c *Client) Receive(topic string, payload []byte) bool {
	c.mu.Lock()
	h, ok := c.handlers[topic]
	c.mu.Unlock()
	if !ok {
		return false
	}
	h(c, &message{topic: topic, payload: payload})
	return true
}

func (c *Client) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	var p []byte
	switch v := payload.(type) {
	case []byte:
		p = v
	case string:
		p = []byte(v)
	}
	c.mu.Lock()
	c.published[topic] = append(c.published[topic], p)
	c.mu.Unlock()
	return &mqtt.DummyToken{}
}

func (c *Client) Subscribe(topic string, _ byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	c.handlers[topic] = callback
	c.mu.Unlock()
	return &mqtt.DummyToken{}
}

func (c *Client) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	for topic := range filters {
		c.handlers[topic] = callback
	}
	c.mu.Unlock()
	return &mqtt.DummyToken{}
}

func (c *Client) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	for _, topic := range topics {
		delete(c.handlers, topic)
	}
	c.mu.Unlock()
	return &mqtt.DummyToken{}
}

func (c *Client) AddRoute(topic string, callback mqtt.MessageHandler) {}

func (c *Client) OptionsReader() mqtt.ClientOptionsReader {
	if c.opts == nil {
		c.opts = mqtt.NewClientOptions().SetWill("mqttmiio/bridge/status", "offline", 1, true)
	}
	return mqtt.NewOptionsReader(c.opts)
}

// Topics returns the published topics containing the given substring.
func (c *Client) Topics(contains string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var topics []string
	for topic := range c.published {
		if strings.Contains(topic, contains) {
			topics = append(topics, topic)
		}
	}
	return topics
}

type message struct {
	topic   string
	payload []byte
}

func (m *message) Duplicate() bool   { return false }
func (m *message) Qos() byte         { return 0 }
func (m *message) Retained() bool    { return false }
func (m *message) MessageID() uint16 { return 0 }
func (m *message) Ack()              {}

func (m *message) Topic() string {
	return m.topic
}

func (m *message) Payload() []byte {
	return m.payload
}
