package telephony

import (
	"encoding/json"
	"testing"
)

func TestEventUnmarshalStart(t *testing.T) {
	raw := `{"event":"start","sequenceNumber":"1","start":{"accountSid":"ACxxxx","streamSid":"MZ18ad3ab5","callSid":"CAxxxx","tracks":["inbound"],"mediaFormat":{"encoding":"audio/x-mulaw","sampleRate":8000,"channels":1}},"streamSid":"MZ18ad3ab5"}`

	var event Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		t.Fatalf("unmarshal start: %v", err)
	}
	if event.Event != EventStart {
		t.Errorf("expected start event, got %q", event.Event)
	}
	if event.Start.StreamSid != "MZ18ad3ab5" {
		t.Errorf("expected stream SID MZ18ad3ab5, got %q", event.Start.StreamSid)
	}
}

func TestEventUnmarshalMedia(t *testing.T) {
	raw := `{"event":"media","sequenceNumber":"4","media":{"track":"inbound","chunk":"2","timestamp":"5","payload":"fn/+fQ=="},"streamSid":"MZ18ad3ab5"}`

	var event Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		t.Fatalf("unmarshal media: %v", err)
	}
	if event.Event != EventMedia {
		t.Errorf("expected media event, got %q", event.Event)
	}
	if event.Media.Payload != "fn/+fQ==" {
		t.Errorf("expected payload fn/+fQ==, got %q", event.Media.Payload)
	}
	if event.MediaTimestampMs() != 5 {
		t.Errorf("expected timestamp 5, got %d", event.MediaTimestampMs())
	}
}

func TestEventUnmarshalMark(t *testing.T) {
	raw := `{"event":"mark","sequenceNumber":"7","streamSid":"MZ18ad3ab5","mark":{"name":"responsePart"}}`

	var event Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		t.Fatalf("unmarshal mark: %v", err)
	}
	if event.Event != EventMark || event.Mark.Name != "responsePart" {
		t.Errorf("unexpected mark event: %+v", event)
	}
}

func TestMediaTimestampMsUnparseable(t *testing.T) {
	var event Event
	event.Media.Timestamp = "not-a-number"
	if got := event.MediaTimestampMs(); got != 0 {
		t.Errorf("expected 0 for unparseable timestamp, got %d", got)
	}
	event.Media.Timestamp = ""
	if got := event.MediaTimestampMs(); got != 0 {
		t.Errorf("expected 0 for empty timestamp, got %d", got)
	}
}
