package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"voice-agent-server/internal/openairt"
)

// bufferToolFragment appends one streamed argument fragment for a call.
// No side effect beyond buffering until the matching done event.
func (r *Relay) bufferToolFragment(ev *openairt.FunctionCallArgumentsDelta) {
	s := r.session
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingToolCalls[ev.CallID] = append(s.pendingToolCalls[ev.CallID], ev.Delta)
}

// completeToolCall concatenates the buffered fragments, dispatches the
// tool, and queues the result for delivery after response.done. The
// dispatcher runs outside the session lock so caller audio keeps flowing.
func (r *Relay) completeToolCall(ctx context.Context, ev *openairt.FunctionCallArgumentsDone) {
	s := r.session
	s.mu.Lock()
	fragments := s.pendingToolCalls[ev.CallID]
	delete(s.pendingToolCalls, ev.CallID)
	if s.phase == phaseIdle || s.phase == phaseStreaming {
		s.phase = phaseAwaitingCompletion
	}
	s.mu.Unlock()

	raw := strings.Join(fragments, "")
	args := parseArguments(raw)

	r.logger.Info(ctx, fmt.Sprintf("Dispatching tool call %s (%s)", ev.Name, ev.CallID))

	result, err := r.tools.Dispatch(ctx, ev.Name, args)
	if err != nil {
		result = map[string]any{"error": err.Error()}
	}

	s.mu.Lock()
	s.completedToolResults = append(s.completedToolResults, toolResult{callID: ev.CallID, result: result})
	s.mu.Unlock()
}

// parseArguments decodes the concatenated argument text. Missing text is
// empty arguments; undecodable text is preserved under "_raw" so the
// invocation still proceeds and the handler can decide what to do.
func parseArguments(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return map[string]any{"_raw": raw}
	}
	return args
}

// handleResponseDone always flushes trailing audio, then delivers every
// completed tool result in completion order followed by one continuation.
// This is the only path that sends function outputs: the protocol needs
// the turn's full output set before generation continues.
func (r *Relay) handleResponseDone(ctx context.Context) {
	s := r.session
	s.mu.Lock()
	r.flushResidualLocked(ctx)
	results := s.completedToolResults
	s.completedToolResults = nil
	if len(results) == 0 {
		s.phase = phaseIdle
		s.mu.Unlock()
		return
	}
	s.phase = phaseDelivering
	s.mu.Unlock()

	r.logger.Info(ctx, fmt.Sprintf("Delivering %d tool results", len(results)))

	for _, res := range results {
		output, err := json.Marshal(res.result)
		if err != nil {
			r.logger.Error(ctx, "Failed to serialize tool result", err)
			output = []byte(`{"error":"unserializable tool result"}`)
		}
		if err := r.ai.SendFunctionOutput(res.callID, string(output)); err != nil {
			r.logger.Error(ctx, "Failed to send function output", err)
		}
	}
	if err := r.ai.CreateResponse(); err != nil {
		r.logger.Error(ctx, "Failed to request continuation", err)
	}

	s.mu.Lock()
	s.phase = phaseIdle
	s.mu.Unlock()
}
