package relay

import (
	"sync"
	"time"
)

// turnPhase tracks where the current assistant turn is in its lifecycle.
// Tool outputs may only leave the session during phaseDelivering, which is
// entered exclusively from the response.done handler.
type turnPhase int

const (
	phaseIdle turnPhase = iota
	phaseStreaming
	phaseAwaitingCompletion
	phaseDelivering
)

type toolResult struct {
	callID string
	result map[string]any
}

// CallSession holds all per-call state shared by the two relay pumps.
// Every field is guarded by mu; the interruption sequence holds the lock
// for its full duration so it cannot interleave with frame emission.
type CallSession struct {
	mu sync.Mutex

	streamSID              string
	latestMediaTimestampMs int64

	currentAssistantItemID   string
	responseStartTimestampMs int64
	markQueue                []string
	phase                    turnPhase

	repacker frameRepacker

	pendingToolCalls     map[string][]string
	completedToolResults []toolResult

	// Latency observability only, never control flow.
	speechStoppedAt         time.Time
	assistantAudioStartedAt time.Time
}

func NewCallSession() *CallSession {
	return &CallSession{
		repacker:         frameRepacker{frameSize: FrameSize},
		pendingToolCalls: make(map[string][]string),
	}
}

// beginStream records the stream SID from Twilio's start event and resets
// all timing and turn state. Twilio can reuse a socket for a new call leg,
// so this is full new-call semantics.
func (s *CallSession) beginStream(streamSID string) {
	s.streamSID = streamSID
	s.latestMediaTimestampMs = 0
	s.resetTurn()
	s.repacker.Reset()
	s.speechStoppedAt = time.Time{}
	s.assistantAudioStartedAt = time.Time{}
}

// noteAssistantItem starts a new turn when the item ID changes. This is the
// sole write path for currentAssistantItemID and responseStartTimestampMs.
func (s *CallSession) noteAssistantItem(itemID string) {
	if itemID == "" || itemID == s.currentAssistantItemID {
		return
	}
	s.currentAssistantItemID = itemID
	s.responseStartTimestampMs = s.latestMediaTimestampMs
	s.assistantAudioStartedAt = time.Time{}
	if s.phase == phaseIdle {
		s.phase = phaseStreaming
	}
}

func (s *CallSession) pushMark(name string) {
	s.markQueue = append(s.markQueue, name)
}

// popMark drops the oldest pending mark. Twilio acknowledgments are FIFO
// and carry no correlation data, so an empty queue just means a late or
// duplicate ack; that is tolerated, not an error.
func (s *CallSession) popMark() {
	if len(s.markQueue) > 0 {
		s.markQueue = s.markQueue[1:]
	}
}

// resetTurn clears the current assistant item, its start timestamp and the
// mark queue. Invoked on interruption and on new-call start.
func (s *CallSession) resetTurn() {
	s.currentAssistantItemID = ""
	s.responseStartTimestampMs = 0
	s.markQueue = nil
	s.phase = phaseIdle
}
