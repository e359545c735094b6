package relay

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"voice-agent-server/internal/openairt"
)

func fragment(callID, delta string) *openairt.FunctionCallArgumentsDelta {
	return &openairt.FunctionCallArgumentsDelta{CallID: callID, Delta: delta}
}

func done(callID, name string) *openairt.FunctionCallArgumentsDone {
	return &openairt.FunctionCallArgumentsDone{CallID: callID, Name: name}
}

func TestParseArguments(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{"empty text means empty arguments", "", map[string]any{}},
		{"valid object", `{"email":"a@b.com"}`, map[string]any{"email": "a@b.com"}},
		{"truncated json preserved raw", `{"email":"a@b`, map[string]any{"_raw": `{"email":"a@b`}},
		{"non-object json preserved raw", `[1,2]`, map[string]any{"_raw": `[1,2]`}},
		{"json null preserved raw", `null`, map[string]any{"_raw": `null`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseArguments(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("parseArguments(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestToolCallFragmentsConcatenatedInOrder(t *testing.T) {
	r, _, _, tools := newTestRelay()
	ctx := context.Background()

	// Interleaved fragments for two distinct calls must not cross-contaminate.
	r.bufferToolFragment(fragment("call_x", `{"ord`))
	r.bufferToolFragment(fragment("call_y", `{"pro`))
	r.bufferToolFragment(fragment("call_x", `er_id":`))
	r.bufferToolFragment(fragment("call_y", `duct":"mug"}`))
	r.bufferToolFragment(fragment("call_x", `"o1"}`))

	r.completeToolCall(ctx, done("call_x", "get_order"))
	r.completeToolCall(ctx, done("call_y", "check_inventory"))

	calls := tools.dispatched()
	if len(calls) != 2 {
		t.Fatalf("expected 2 dispatches, got %d", len(calls))
	}
	if !reflect.DeepEqual(calls[0].args, map[string]any{"order_id": "o1"}) {
		t.Errorf("call_x args = %v", calls[0].args)
	}
	if !reflect.DeepEqual(calls[1].args, map[string]any{"product": "mug"}) {
		t.Errorf("call_y args = %v", calls[1].args)
	}
	if len(r.session.pendingToolCalls) != 0 {
		t.Errorf("expected fragment buffers drained, got %d", len(r.session.pendingToolCalls))
	}
}

func TestToolResultsHeldUntilResponseDone(t *testing.T) {
	r, _, ai, tools := newTestRelay()
	ctx := context.Background()
	tools.results["get_order"] = map[string]any{"status": "shipped"}
	tools.results["check_inventory"] = map[string]any{"quantity": float64(3)}

	r.completeToolCall(ctx, done("call_x", "get_order"))
	r.completeToolCall(ctx, done("call_y", "check_inventory"))

	// Both calls dispatched, nothing delivered yet.
	if len(ai.messages()) != 0 {
		t.Fatalf("expected no realtime messages before response.done, got %+v", ai.messages())
	}

	r.handleResponseDone(ctx)

	messages := ai.messages()
	if len(messages) != 3 {
		t.Fatalf("expected 2 outputs + 1 continuation, got %+v", messages)
	}
	if messages[0].kind != "output" || messages[0].callID != "call_x" {
		t.Errorf("first delivery should be call_x, got %+v", messages[0])
	}
	if messages[0].output != `{"status":"shipped"}` {
		t.Errorf("call_x output = %q", messages[0].output)
	}
	if messages[1].kind != "output" || messages[1].callID != "call_y" {
		t.Errorf("second delivery should be call_y, got %+v", messages[1])
	}
	if messages[2].kind != "create" {
		t.Errorf("final message should be the continuation, got %+v", messages[2])
	}
	if r.session.phase != phaseIdle {
		t.Errorf("expected phase back to idle, got %d", r.session.phase)
	}
}

func TestResponseDoneDeliversExactlyOnce(t *testing.T) {
	r, _, ai, _ := newTestRelay()
	ctx := context.Background()

	r.completeToolCall(ctx, done("call_x", "get_order"))
	r.handleResponseDone(ctx)
	before := len(ai.messages())

	r.handleResponseDone(ctx)

	if len(ai.messages()) != before {
		t.Fatalf("second response.done resent results: %+v", ai.messages())
	}
}

func TestResponseDoneWithoutToolsSendsNothing(t *testing.T) {
	r, _, ai, _ := newTestRelay()

	r.handleResponseDone(context.Background())

	if len(ai.messages()) != 0 {
		t.Fatalf("expected no continuation without tool results, got %+v", ai.messages())
	}
}

func TestResponseDoneFlushesResidualAudio(t *testing.T) {
	r, twilio, _, _ := newTestRelay()
	ctx := context.Background()
	r.session.beginStream("MZabc")

	r.handleAudioDelta(ctx, audioDelta("item_1", encodeAudio(200)))
	r.handleResponseDone(ctx)

	messages := twilio.messages()
	last := messages[len(messages)-1]
	if last.kind != "media" || len(last.payload) != 40 {
		t.Fatalf("expected 40-byte trailing flush, got %+v", last)
	}
	// The short frame carries no mark.
	if countKind(messages, "mark") != 1 {
		t.Errorf("expected one mark for the one full frame, got %d", countKind(messages, "mark"))
	}
}

func TestDispatcherErrorBecomesStructuredResult(t *testing.T) {
	r, _, ai, tools := newTestRelay()
	ctx := context.Background()
	tools.errs["get_order"] = errors.New("order not found")

	r.completeToolCall(ctx, done("call_x", "get_order"))
	r.handleResponseDone(ctx)

	messages := ai.messages()
	if len(messages) != 2 {
		t.Fatalf("expected output + continuation, got %+v", messages)
	}
	if messages[0].output != `{"error":"order not found"}` {
		t.Errorf("expected error folded into result, got %q", messages[0].output)
	}
}

func TestToolCallWithoutFragmentsDispatchesEmptyArgs(t *testing.T) {
	r, _, _, tools := newTestRelay()

	r.completeToolCall(context.Background(), done("call_x", "get_order"))

	calls := tools.dispatched()
	if len(calls) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(calls))
	}
	if len(calls[0].args) != 0 {
		t.Errorf("expected empty args, got %v", calls[0].args)
	}
}
