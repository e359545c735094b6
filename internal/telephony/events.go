package telephony

import "strconv"

// Event kinds on the Twilio media-stream socket.
const (
	EventStart = "start"
	EventMedia = "media"
	EventMark  = "mark"
	EventStop  = "stop"
)

// Event is one inbound message on the media-stream WebSocket.
type Event struct {
	Event string `json:"event"`
	Start struct {
		StreamSid string `json:"streamSid"`
	} `json:"start,omitempty"`
	Media struct {
		// Twilio sends the timestamp as a decimal string of milliseconds
		// since stream start.
		Timestamp string `json:"timestamp"`
		Payload   string `json:"payload"`
	} `json:"media,omitempty"`
	Mark struct {
		Name string `json:"name"`
	} `json:"mark,omitempty"`
	Stop struct {
		StreamSid string `json:"streamSid"`
	} `json:"stop,omitempty"`
}

// MediaTimestampMs parses the media timestamp, returning 0 for anything
// unparseable rather than failing the call.
func (e *Event) MediaTimestampMs() int64 {
	ts, err := strconv.ParseInt(e.Media.Timestamp, 10, 64)
	if err != nil {
		return 0
	}
	return ts
}

// Outbound message shapes.

type mediaMessage struct {
	Event     string       `json:"event"`
	StreamSid string       `json:"streamSid"`
	Media     mediaPayload `json:"media"`
}

type mediaPayload struct {
	Payload string `json:"payload"`
}

type markMessage struct {
	Event     string      `json:"event"`
	StreamSid string      `json:"streamSid"`
	Mark      markPayload `json:"mark"`
}

type markPayload struct {
	Name string `json:"name"`
}

type clearMessage struct {
	Event     string `json:"event"`
	StreamSid string `json:"streamSid"`
}
