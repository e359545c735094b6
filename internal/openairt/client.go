package openairt

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"voice-agent-server/internal/observability"

	"github.com/gorilla/websocket"
)

const (
	realtimeURL  = "wss://api.openai.com/v1/realtime"
	defaultModel = "gpt-realtime"
)

// Config holds what is needed to dial and configure a realtime session.
type Config struct {
	APIKey      string
	Temperature float64
}

// Client is one realtime WebSocket session. Reads happen from a single
// goroutine (the relay's outbound pump); writes are serialized by
// writeMutex because both pumps send on this socket.
type Client struct {
	conn       *websocket.Conn
	logger     *observability.Logger
	writeMutex sync.Mutex
	closed     atomic.Bool
	closeOnce  sync.Once
}

// Dial connects to the realtime API with bearer auth.
func Dial(ctx context.Context, cfg Config, logger *observability.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	url := fmt.Sprintf("%s?model=%s&temperature=%g", realtimeURL, defaultModel, cfg.Temperature)
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+cfg.APIKey)

	dialer := websocket.Dialer{}
	conn, _, err := dialer.DialContext(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("dial realtime API: %w", err)
	}

	return &Client{conn: conn, logger: logger}, nil
}

// Initialize sends the session configuration and, when greeting is
// non-empty, a synthetic first turn so the assistant speaks before the
// caller does.
func (c *Client) Initialize(cfg SessionConfig, greeting string) error {
	if err := c.writeJSON(sessionUpdateMessage(cfg)); err != nil {
		return fmt.Errorf("send session.update: %w", err)
	}
	if greeting != "" {
		if err := c.writeJSON(greetingMessage(greeting)); err != nil {
			return fmt.Errorf("send greeting item: %w", err)
		}
		if err := c.CreateResponse(); err != nil {
			return err
		}
	}
	return nil
}

// ReadEvent blocks for the next server event. A transport error marks the
// session closed and ends the call.
func (c *Client) ReadEvent(ctx context.Context) (any, error) {
	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		c.closed.Store(true)
		return nil, fmt.Errorf("realtime read: %w", err)
	}
	event, err := ParseEvent(msg)
	if err != nil {
		// Undecodable payloads are logged and skipped like unknown kinds.
		c.logger.Error(ctx, "Failed to parse realtime event", err)
		return &UnknownEvent{Raw: msg}, nil
	}
	return event, nil
}

// Open reports whether the socket is still usable. Caller audio arriving
// while it is closed is dropped upstream.
func (c *Client) Open() bool {
	return !c.closed.Load()
}

// AppendAudio forwards one base64 caller-audio payload unchanged.
func (c *Client) AppendAudio(payload string) error {
	return c.writeJSON(map[string]any{
		"type":  "input_audio_buffer.append",
		"audio": payload,
	})
}

// TruncateItem tells the session only audioEndMs of the item reached the
// caller, so conversation state reflects what was actually heard.
func (c *Client) TruncateItem(itemID string, audioEndMs int64) error {
	return c.writeJSON(map[string]any{
		"type":          "conversation.item.truncate",
		"item_id":       itemID,
		"content_index": 0,
		"audio_end_ms":  audioEndMs,
	})
}

// SendFunctionOutput delivers one completed tool result for callID.
func (c *Client) SendFunctionOutput(callID, output string) error {
	return c.writeJSON(map[string]any{
		"type": "conversation.item.create",
		"item": map[string]any{
			"type":    "function_call_output",
			"call_id": callID,
			"output":  output,
		},
	})
}

// CreateResponse asks the model to continue generating.
func (c *Client) CreateResponse() error {
	return c.writeJSON(map[string]any{"type": "response.create"})
}

func (c *Client) writeJSON(v any) error {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		err = c.conn.Close()
	})
	return err
}
