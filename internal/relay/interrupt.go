package relay

import (
	"context"
	"fmt"
	"time"
)

// handleSpeechStarted is the barge-in path: the caller began speaking while
// an assistant item was in flight. The whole sequence runs under the
// session lock so no frame emission can race the clear.
func (r *Relay) handleSpeechStarted(ctx context.Context) {
	s := r.session
	s.mu.Lock()
	defer s.mu.Unlock()

	s.speechStoppedAt = time.Time{}
	s.assistantAudioStartedAt = time.Time{}

	if s.currentAssistantItemID == "" {
		// Nothing playing, nothing to interrupt.
		return
	}

	// Bytes already handed to the repacker were decided before the
	// interruption; they must reach Twilio ahead of the truncation
	// bookkeeping.
	r.flushResidualLocked(ctx)

	// The truncation point is how much assistant audio the caller has
	// actually heard, measured in caller-media time.
	elapsedMs := s.latestMediaTimestampMs - s.responseStartTimestampMs
	if elapsedMs < 0 {
		elapsedMs = 0
	}

	r.logger.Info(ctx, fmt.Sprintf("Interrupting item %s at %dms", s.currentAssistantItemID, elapsedMs))

	if err := r.ai.TruncateItem(s.currentAssistantItemID, elapsedMs); err != nil {
		r.logger.Error(ctx, "Failed to truncate assistant item", err)
	}
	if err := r.twilio.SendClear(s.streamSID); err != nil {
		r.logger.Error(ctx, "Failed to clear Twilio buffer", err)
	}

	s.resetTurn()
	s.repacker.Reset()
}
