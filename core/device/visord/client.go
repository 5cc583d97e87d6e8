// Package visord implements the websocket client for the visord tracking
// daemon. The daemon pushes JSON tracking frames and binary image
// envelopes at its own cadence; the client turns them into
// [device.Source] events fired on its read goroutine.
package visord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jverbic/iris-core/core/device"
)

const (
	defaultAddr       = "ws://127.0.0.1:6437/v1/stream"
	keepAliveInterval = 5 * time.Second
)

type Client struct {
	conn   *websocket.Conn
	connMu sync.Mutex

	source *device.Source

	infoMu sync.Mutex
	info   device.Info
	hasDev bool

	closeOnce sync.Once
	done      chan struct{}
}

type DialOption func(*dialOptions)

type dialOptions struct {
	addr string
}

// WithAddress overrides the daemon address (also settable through the
// VISORD_URL environment variable).
func WithAddress(addr string) DialOption {
	return func(o *dialOptions) { o.addr = addr }
}

// Dial connects to the visord stream socket and starts the read and
// keepalive loops. ctx bounds the dial only; the connection outlives it
// until Close.
func Dial(ctx context.Context, opts ...DialOption) (*Client, error) {
	options := dialOptions{addr: defaultAddr}
	if addr, ok := os.LookupEnv("VISORD_URL"); ok {
		options.addr = addr
	}
	for _, opt := range opts {
		opt(&options)
	}

	streamURL, err := url.Parse(options.addr)
	if err != nil {
		return nil, fmt.Errorf("invalid visord address: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to visord: %w", err)
	}

	c := &Client{
		conn:   conn,
		source: device.NewSource(),
		done:   make(chan struct{}),
	}
	go c.readAndProcessMessages(conn)
	go c.keepAliveLoop()

	return c, nil
}

// Source returns the event surface fed by this connection.
func (c *Client) Source() *device.Source {
	return c.source
}

// CurrentDevice implements [device.Controller].
func (c *Client) CurrentDevice() (device.Info, bool) {
	c.infoMu.Lock()
	defer c.infoMu.Unlock()
	return c.info, c.hasDev
}

// SetPolicy implements [device.Controller].
func (c *Client) SetPolicy(policy device.Policy) error {
	return c.writePolicy(messageTypeSetPolicy, policy)
}

// ClearPolicy implements [device.Controller].
func (c *Client) ClearPolicy(policy device.Policy) error {
	return c.writePolicy(messageTypeClearPolicy, policy)
}

func (c *Client) writePolicy(messageType string, policy device.Policy) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if err := c.conn.WriteJSON(policyMessage{Type: messageType, Policy: string(policy)}); err != nil {
		return fmt.Errorf("failed to write policy to visord: %w", err)
	}
	return nil
}

func (c *Client) keepAliveLoop() {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			err := c.conn.WriteJSON(envelope{Type: messageTypeKeepAlive})
			c.connMu.Unlock()
			if err != nil {
				logger.Warn("failed to write keepalive to visord", "error", err)
			}
		}
	}
}

func (c *Client) readAndProcessMessages(conn *websocket.Conn) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				// Closed locally, not a service loss.
			default:
				logger.Warn("visord connection lost", "error", err)
				c.source.EmitDisconnect()
			}
			return
		}

		switch messageType {
		case websocket.TextMessage:
			c.processTextMessage(data)
		case websocket.BinaryMessage:
			c.processImageMessage(data)
		}
	}
}

func (c *Client) processTextMessage(data []byte) {
	var header envelope
	if err := json.Unmarshal(data, &header); err != nil {
		logger.Warn("discarding malformed visord message", "error", err)
		return
	}

	switch header.Type {
	case messageTypeDevice:
		var message deviceMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Warn("discarding malformed device message", "error", err)
			return
		}
		c.infoMu.Lock()
		c.info = device.Info{ID: message.ID, Type: message.Model, Slots: message.Slots}
		c.hasDev = true
		c.infoMu.Unlock()

	case messageTypeFrame:
		var message frameMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Warn("discarding malformed frame message", "error", err)
			return
		}
		c.source.EmitFrame(message.toFrame())

	case messageTypeDistortion:
		var message distortionMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Warn("discarding malformed distortion message", "error", err)
			return
		}
		c.source.EmitDistortionChange(message.Slot)

	case messageTypeKeepAlive:
		// Server-side ack, nothing to do.
	}
}

func (c *Client) processImageMessage(data []byte) {
	c.infoMu.Lock()
	deviceType := c.info.Type
	c.infoMu.Unlock()

	image, err := parseImageEnvelope(data, deviceType)
	if err != nil {
		logger.Warn("discarding malformed image envelope", "error", err)
		return
	}
	c.source.EmitImage(image)
}

// Close tears the connection down. Delivery policies should be cleared by
// the consumer before closing.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.connMu.Lock()
		defer c.connMu.Unlock()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = c.conn.Close()
	})
	return err
}
