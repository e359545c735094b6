package openairt

import (
	"encoding/json"
	"fmt"
)

// envelope is used for initial JSON parsing to determine the event type
// before unmarshaling into the specific event struct.
type envelope struct {
	Type string `json:"type"`
}

// ErrorEvent represents an error surfaced by the realtime API.
type ErrorEvent struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type,omitempty"`
		Code    string `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// ResponseAudioDelta carries one base64-encoded chunk of assistant audio.
type ResponseAudioDelta struct {
	Type         string `json:"type"`
	ResponseID   string `json:"response_id"`
	ItemID       string `json:"item_id"`
	ContentIndex int    `json:"content_index"`
	Delta        string `json:"delta"`
}

// SpeechStarted means server VAD detected the caller speaking. During an
// active assistant turn this is the barge-in trigger.
type SpeechStarted struct {
	Type         string `json:"type"`
	AudioStartMs int64  `json:"audio_start_ms"`
	ItemID       string `json:"item_id"`
}

// SpeechStopped means server VAD detected the caller going quiet.
type SpeechStopped struct {
	Type       string `json:"type"`
	AudioEndMs int64  `json:"audio_end_ms"`
	ItemID     string `json:"item_id"`
}

// FunctionCallArgumentsDelta carries one streamed fragment of a tool
// call's argument text.
type FunctionCallArgumentsDelta struct {
	Type       string `json:"type"`
	ResponseID string `json:"response_id"`
	CallID     string `json:"call_id"`
	Delta      string `json:"delta"`
}

// FunctionCallArgumentsDone closes a streamed tool call and names the tool.
type FunctionCallArgumentsDone struct {
	Type       string `json:"type"`
	ResponseID string `json:"response_id"`
	CallID     string `json:"call_id"`
	Name       string `json:"name"`
	Arguments  string `json:"arguments"`
}

// ResponseDone marks the end of a full model response.
type ResponseDone struct {
	Type     string          `json:"type"`
	Response json.RawMessage `json:"response,omitempty"`
}

// UnknownEvent is any server event the relay does not act on. Kept so
// callers can log the type without the protocol evolving into crashes.
type UnknownEvent struct {
	Type string
	Raw  json.RawMessage
}

// ParseEvent decodes a raw server message into its typed event, or an
// UnknownEvent for types the relay does not handle.
func ParseEvent(raw []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parse realtime event: %w", err)
	}

	decode := func(v any) (any, error) {
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, fmt.Errorf("parse %s event: %w", env.Type, err)
		}
		return v, nil
	}

	switch env.Type {
	case "error":
		v := &ErrorEvent{}
		return decode(v)
	case "response.output_audio.delta", "response.audio.delta":
		v := &ResponseAudioDelta{}
		return decode(v)
	case "input_audio_buffer.speech_started":
		v := &SpeechStarted{}
		return decode(v)
	case "input_audio_buffer.speech_stopped":
		v := &SpeechStopped{}
		return decode(v)
	case "response.function_call_arguments.delta":
		v := &FunctionCallArgumentsDelta{}
		return decode(v)
	case "response.function_call_arguments.done":
		v := &FunctionCallArgumentsDone{}
		return decode(v)
	case "response.done":
		v := &ResponseDone{}
		return decode(v)
	default:
		return &UnknownEvent{Type: env.Type, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}
