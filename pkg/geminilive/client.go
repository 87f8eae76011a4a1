package geminilive

import (
	"context"
	"time"
)

// DefaultWebSocketURL is the default Live API websocket endpoint.
const DefaultWebSocketURL = "wss://generativelanguage.googleapis.com/ws/" +
	"google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

// Client is the Gemini Live API client.
type Client struct {
	config *clientConfig
}

// clientConfig holds the client configuration.
type clientConfig struct {
	apiKey           string
	wsURL            string
	handshakeTimeout time.Duration
}

// Option configures the Client.
type Option func(*clientConfig)

// NewClient creates a new Live API client.
//
// The apiKey is required and can be obtained from Google AI Studio.
func NewClient(apiKey string, opts ...Option) *Client {
	if apiKey == "" {
		panic("geminilive: API key is required")
	}

	cfg := &clientConfig{
		apiKey:           apiKey,
		wsURL:            DefaultWebSocketURL,
		handshakeTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Client{config: cfg}
}

// WithWebSocketURL sets the websocket endpoint URL.
func WithWebSocketURL(url string) Option {
	return func(c *clientConfig) {
		c.wsURL = url
	}
}

// WithHandshakeTimeout sets the websocket handshake timeout.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.handshakeTimeout = d
	}
}

// Connect establishes a websocket connection, sends the session setup and
// waits for the server's setup acknowledgment before returning.
func (c *Client) Connect(ctx context.Context, config *ConnectConfig) (Session, error) {
	return c.connectWebSocket(ctx, config)
}
