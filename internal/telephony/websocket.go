package telephony

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"

	"voice-agent-server/internal/observability"

	"github.com/gorilla/websocket"
)

// Leg wraps the Twilio media-stream WebSocket. Reads happen from a single
// goroutine (the relay's inbound pump); writes can come from either pump,
// so they are serialized by writeMutex.
type Leg struct {
	conn       *websocket.Conn
	logger     *observability.Logger
	writeMutex sync.Mutex
	closeOnce  sync.Once
}

func NewLeg(conn *websocket.Conn, logger *observability.Logger) *Leg {
	return &Leg{conn: conn, logger: logger}
}

// ReadEvent blocks for the next Twilio event. A malformed message is
// skipped, not fatal; a transport error ends the call.
func (l *Leg) ReadEvent(ctx context.Context) (Event, error) {
	for {
		_, msg, err := l.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.logger.Info(ctx, "Twilio WebSocket closed normally")
			}
			return Event{}, fmt.Errorf("twilio read: %w", err)
		}
		var event Event
		if err := json.Unmarshal(msg, &event); err != nil {
			l.logger.Error(ctx, "Failed to parse Twilio event", err)
			continue
		}
		return event, nil
	}
}

// SendMedia sends one audio frame, base64-encoded, tagged with streamSID.
func (l *Leg) SendMedia(streamSID string, frame []byte) error {
	return l.writeJSON(mediaMessage{
		Event:     EventMedia,
		StreamSid: streamSID,
		Media:     mediaPayload{Payload: base64.StdEncoding.EncodeToString(frame)},
	})
}

// SendMark asks Twilio to echo a playback acknowledgment once everything
// queued before it has been played.
func (l *Leg) SendMark(streamSID, name string) error {
	return l.writeJSON(markMessage{
		Event:     EventMark,
		StreamSid: streamSID,
		Mark:      markPayload{Name: name},
	})
}

// SendClear discards any audio Twilio still has buffered downstream.
func (l *Leg) SendClear(streamSID string) error {
	return l.writeJSON(clearMessage{Event: "clear", StreamSid: streamSID})
}

func (l *Leg) writeJSON(v any) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal twilio message: %w", err)
	}
	l.writeMutex.Lock()
	defer l.writeMutex.Unlock()
	return l.conn.WriteMessage(websocket.TextMessage, msg)
}

func (l *Leg) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.writeMutex.Lock()
		l.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		l.writeMutex.Unlock()
		err = l.conn.Close()
	})
	return err
}
