package relay

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"voice-agent-server/internal/observability"
	"voice-agent-server/internal/openairt"
	"voice-agent-server/internal/telephony"
)

// markName is the label attached to every playback mark; Twilio echoes it
// back but only the count matters.
const markName = "responsePart"

// TelephonyConn is the Twilio media-stream leg as the relay sees it.
type TelephonyConn interface {
	ReadEvent(ctx context.Context) (telephony.Event, error)
	SendMedia(streamSID string, frame []byte) error
	SendMark(streamSID, name string) error
	SendClear(streamSID string) error
	Close() error
}

// RealtimeConn is the AI session leg as the relay sees it.
type RealtimeConn interface {
	ReadEvent(ctx context.Context) (any, error)
	Open() bool
	AppendAudio(payload string) error
	TruncateItem(itemID string, audioEndMs int64) error
	SendFunctionOutput(callID, output string) error
	CreateResponse() error
	Close() error
}

// ToolDispatcher executes one tool invocation. A returned error is folded
// into a structured error result; it never aborts the turn.
type ToolDispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]any) (map[string]any, error)
}

// Relay runs one call: the inbound pump moves caller audio from Twilio
// into the AI session, the outbound pump moves AI events back out through
// the repacker, turn tracking, interruption and tool-call handling.
type Relay struct {
	session *CallSession
	twilio  TelephonyConn
	ai      RealtimeConn
	tools   ToolDispatcher
	logger  *observability.Logger
}

func New(twilio TelephonyConn, ai RealtimeConn, tools ToolDispatcher, logger *observability.Logger) *Relay {
	return &Relay{
		session: NewCallSession(),
		twilio:  twilio,
		ai:      ai,
		tools:   tools,
		logger:  logger,
	}
}

// Run pumps both directions until either leg ends, then tears down the
// other so no pump outlives the call.
func (r *Relay) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.runInbound(ctx)
		cancel()
		r.ai.Close()
	}()
	go func() {
		defer wg.Done()
		r.runOutbound(ctx)
		cancel()
		r.twilio.Close()
	}()
	wg.Wait()
}

func (r *Relay) runInbound(ctx context.Context) {
	for {
		event, err := r.twilio.ReadEvent(ctx)
		if err != nil {
			r.logger.InfoWithError(ctx, "Twilio leg ended", err)
			return
		}

		switch event.Event {
		case telephony.EventMedia:
			r.handleCallerMedia(ctx, &event)

		case telephony.EventStart:
			r.session.mu.Lock()
			r.session.beginStream(event.Start.StreamSid)
			r.session.mu.Unlock()
			r.logger.Info(ctx, fmt.Sprintf("Twilio stream started: %s", event.Start.StreamSid))

		case telephony.EventMark:
			r.session.mu.Lock()
			r.session.popMark()
			r.session.mu.Unlock()

		case telephony.EventStop:
			r.logger.Info(ctx, fmt.Sprintf("Twilio stream stopped: %s", event.Stop.StreamSid))
			return

		default:
			r.logger.Debug(ctx, fmt.Sprintf("Unknown Twilio event: %s", event.Event))
		}
	}
}

func (r *Relay) handleCallerMedia(ctx context.Context, event *telephony.Event) {
	r.session.mu.Lock()
	r.session.latestMediaTimestampMs = event.MediaTimestampMs()
	r.session.mu.Unlock()

	// Audio arriving before the AI socket is usable is dropped, not
	// buffered; a lost prefix is acceptable, a stalled pump is not.
	if !r.ai.Open() {
		return
	}
	if err := r.ai.AppendAudio(event.Media.Payload); err != nil {
		r.logger.Error(ctx, "Failed to forward caller audio", err)
	}
}

func (r *Relay) runOutbound(ctx context.Context) {
	for {
		event, err := r.ai.ReadEvent(ctx)
		if err != nil {
			r.logger.InfoWithError(ctx, "Realtime leg ended", err)
			return
		}

		switch ev := event.(type) {
		case *openairt.ResponseAudioDelta:
			r.handleAudioDelta(ctx, ev)
		case *openairt.SpeechStarted:
			r.handleSpeechStarted(ctx)
		case *openairt.SpeechStopped:
			r.session.mu.Lock()
			r.session.speechStoppedAt = time.Now()
			r.session.mu.Unlock()
		case *openairt.FunctionCallArgumentsDelta:
			r.bufferToolFragment(ev)
		case *openairt.FunctionCallArgumentsDone:
			r.completeToolCall(ctx, ev)
		case *openairt.ResponseDone:
			r.handleResponseDone(ctx)
		case *openairt.ErrorEvent:
			r.logger.Error(ctx, "Realtime API error",
				fmt.Errorf("%s: %s", ev.Error.Code, ev.Error.Message))
		case *openairt.UnknownEvent:
			r.logger.Debug(ctx, fmt.Sprintf("Ignoring realtime event: %s", ev.Type))
		}
	}
}

func (r *Relay) handleAudioDelta(ctx context.Context, ev *openairt.ResponseAudioDelta) {
	audio, err := base64.StdEncoding.DecodeString(ev.Delta)
	if err != nil {
		r.logger.Error(ctx, "Failed to decode assistant audio delta", err)
		return
	}

	s := r.session
	s.mu.Lock()
	defer s.mu.Unlock()

	s.noteAssistantItem(ev.ItemID)

	if s.assistantAudioStartedAt.IsZero() {
		s.assistantAudioStartedAt = time.Now()
		if !s.speechStoppedAt.IsZero() {
			r.logger.Metrics(ctx, observability.MetricField{
				Key:   "response_latency_ms",
				Value: time.Since(s.speechStoppedAt).Milliseconds(),
			})
		}
	}

	for _, frame := range s.repacker.Push(audio) {
		r.emitFrameLocked(ctx, frame)
	}
}

// emitFrameLocked sends one full frame plus its playback mark. Callers
// hold s.mu. Without a stream SID the frame is dropped outright.
func (r *Relay) emitFrameLocked(ctx context.Context, frame []byte) {
	s := r.session
	if s.streamSID == "" {
		return
	}
	if err := r.twilio.SendMedia(s.streamSID, frame); err != nil {
		r.logger.Error(ctx, "Failed to send audio frame to Twilio", err)
		return
	}
	if err := r.twilio.SendMark(s.streamSID, markName); err != nil {
		r.logger.Error(ctx, "Failed to send mark to Twilio", err)
		return
	}
	s.pushMark(markName)
}

// flushResidualLocked emits whatever partial frame remains. The short
// trailing frame carries no mark; marks track full-frame playback cadence.
func (r *Relay) flushResidualLocked(ctx context.Context) {
	s := r.session
	frame := s.repacker.Flush()
	if frame == nil || s.streamSID == "" {
		return
	}
	if err := r.twilio.SendMedia(s.streamSID, frame); err != nil {
		r.logger.Error(ctx, "Failed to flush audio to Twilio", err)
	}
}
