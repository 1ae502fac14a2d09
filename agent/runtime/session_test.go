package runtime

import (
	"context"
	"errors"
	"fmt"
	"testing"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
	statex "github.com/cartuplabs/cartup-agent/agent/state"
)

type fakeAgent struct {
	name     contractx.AgentName
	tools    []contractx.ToolInfo
	greeting string
}

func (f *fakeAgent) Name() contractx.AgentName { return f.name }

func (f *fakeAgent) DisplayName() string { return string(f.name) }

func (f *fakeAgent) Instructions(string) string { return "instructions for " + string(f.name) }

func (f *fakeAgent) Tools() []contractx.ToolInfo { return f.tools }

func (f *fakeAgent) Voice(string) contractx.VoiceConfig { return contractx.VoiceConfig{} }

func (f *fakeAgent) TransferTargets() []contractx.AgentName { return nil }

func (f *fakeAgent) TransferGreeting(string) string { return f.greeting }

type fakeResponder struct {
	responses []contractx.ResponderResponse
	requests  []contractx.ResponderRequest
	err       error
	idx       int
}

func (f *fakeResponder) Respond(_ context.Context, req contractx.ResponderRequest) (contractx.ResponderResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return contractx.ResponderResponse{}, f.err
	}
	if f.idx >= len(f.responses) {
		return contractx.ResponderResponse{}, errors.New("no fake response left")
	}
	resp := f.responses[f.idx]
	f.idx++
	return resp, nil
}

type fakePublisher struct {
	events []any
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event any) error {
	f.events = append(f.events, event)
	return f.err
}

func transferTool(name string) contractx.ToolInfo {
	return contractx.ToolInfo{Name: name, Desc: "transfer"}
}

func newTestState(t *testing.T) (*statex.SessionState, *fakeAgent, *fakeAgent) {
	t.Helper()

	greeter := &fakeAgent{
		name:     contractx.AgentGreeter,
		tools:    []contractx.ToolInfo{transferTool("to_order"), {Name: "set_user"}},
		greeting: "Say the branded welcome.",
	}
	order := &fakeAgent{
		name:     contractx.AgentOrder,
		tools:    []contractx.ToolInfo{{Name: "get_order_details"}},
		greeting: "Greet briefly about orders.",
	}
	state, err := statex.New(map[contractx.AgentName]contractx.Agent{
		contractx.AgentGreeter: greeter,
		contractx.AgentOrder:   order,
	})
	if err != nil {
		t.Fatalf("statex.New() error = %v", err)
	}
	return state, greeter, order
}

func passthroughExecutor(t *testing.T) contractx.ToolExecutor {
	t.Helper()
	return func(_ context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{Tool: tool, Result: "ok"}, nil
	}
}

func TestStartGeneratesInitialGreeting(t *testing.T) {
	t.Parallel()

	state, _, _ := newTestState(t)
	responder := &fakeResponder{
		responses: []contractx.ResponderResponse{{Message: "Welcome to CartUp. How can I help you today?"}},
	}
	session, err := NewSession(state, responder, passthroughExecutor(t))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	greeting, err := session.Start(context.Background(), contractx.AgentGreeter)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if greeting == "" {
		t.Fatal("expected a greeting")
	}
	if state.PrevAgent() != nil {
		t.Fatal("first activation must leave prev agent nil")
	}
	if responder.requests[0].Directive == "" {
		t.Fatal("initial greeting must be driven by a directive")
	}
	if len(responder.requests[0].Tools) != 0 {
		t.Fatal("greeting generation must not offer tools")
	}

	history := session.History(contractx.AgentGreeter)
	if len(history) != 2 {
		t.Fatalf("expected system entry plus greeting, got %d entries", len(history))
	}
	if history[0].Role != contractx.RoleSystem {
		t.Fatalf("first entry must be the instruction entry, got %s", history[0].Role)
	}
	if history[1].Role != contractx.RoleAssistant || history[1].Content != greeting {
		t.Fatalf("greeting not committed: %+v", history[1])
	}
}

func TestStartUnknownAgent(t *testing.T) {
	t.Parallel()

	state, _, _ := newTestState(t)
	session, err := NewSession(state, &fakeResponder{}, passthroughExecutor(t))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if _, err := session.Start(context.Background(), "billing"); !errors.Is(err, contractx.ErrUnknownAgent) {
		t.Fatalf("Start() error = %v, want ErrUnknownAgent", err)
	}
}

func TestHandleTranscriptPlainReply(t *testing.T) {
	t.Parallel()

	state, _, _ := newTestState(t)
	responder := &fakeResponder{
		responses: []contractx.ResponderResponse{
			{Message: "Welcome."},
			{Message: "I can help with that."},
		},
	}
	publisher := &fakePublisher{}
	session, err := NewSession(state, responder, passthroughExecutor(t), WithPublisher(publisher))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if _, err := session.Start(context.Background(), contractx.AgentGreeter); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	reply, err := session.HandleTranscript(context.Background(), "I need help")
	if err != nil {
		t.Fatalf("HandleTranscript() error = %v", err)
	}
	if reply != "I can help with that." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	// Start greeting plus the completed turn.
	if len(publisher.events) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.events))
	}
	event, ok := publisher.events[1].(TurnEvent)
	if !ok {
		t.Fatalf("unexpected event type: %T", publisher.events[1])
	}
	if event.UserText != "I need help" || event.Reply != reply {
		t.Fatalf("unexpected turn event: %+v", event)
	}
}

func TestHandleTranscriptRunsToolLoop(t *testing.T) {
	t.Parallel()

	state, _, _ := newTestState(t)
	responder := &fakeResponder{
		responses: []contractx.ResponderResponse{
			{Message: "Welcome."},
			{ToolRequests: []contractx.ToolRequest{{Tool: "set_user", Args: map[string]any{"user_id": "u101"}}}},
			{Message: "Done, Alex."},
		},
	}

	var calls []string
	executor := func(_ context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		calls = append(calls, tool)
		return contractx.ToolResult{Tool: tool, Result: "ok"}, nil
	}

	session, err := NewSession(state, responder, executor)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if _, err := session.Start(context.Background(), contractx.AgentGreeter); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	reply, err := session.HandleTranscript(context.Background(), "my user id is u101")
	if err != nil {
		t.Fatalf("HandleTranscript() error = %v", err)
	}
	if reply != "Done, Alex." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(calls) != 1 || calls[0] != "set_user" {
		t.Fatalf("unexpected executor calls: %v", calls)
	}

	history := session.History(contractx.AgentGreeter)
	var sawToolEntry bool
	for _, item := range history {
		if item.Role == contractx.RoleTool && item.ToolName == "set_user" {
			sawToolEntry = true
		}
	}
	if !sawToolEntry {
		t.Fatal("tool outcome must be recorded in history")
	}
}

func TestHandleTranscriptRejectsDisallowedTool(t *testing.T) {
	t.Parallel()

	state, _, _ := newTestState(t)
	responder := &fakeResponder{
		responses: []contractx.ResponderResponse{
			{Message: "Welcome."},
			{ToolRequests: []contractx.ToolRequest{{Tool: "update_refund_status"}}},
		},
	}
	session, err := NewSession(state, responder, passthroughExecutor(t))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if _, err := session.Start(context.Background(), contractx.AgentGreeter); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if _, err := session.HandleTranscript(context.Background(), "refund me"); !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("HandleTranscript() error = %v, want ErrSchemaViolation", err)
	}
}

func TestHandleTranscriptHandsOff(t *testing.T) {
	t.Parallel()

	state, _, order := newTestState(t)
	responder := &fakeResponder{
		responses: []contractx.ResponderResponse{
			{Message: "Welcome."},
			{ToolRequests: []contractx.ToolRequest{{Tool: "to_order"}}},
			{Message: "Hi, I can check your orders."},
		},
	}
	executor := func(_ context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		if tool != "to_order" {
			t.Fatalf("unexpected tool: %s", tool)
		}
		return contractx.ToolResult{Tool: tool, Transfer: contractx.AgentOrder}, nil
	}

	session, err := NewSession(state, responder, executor)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if _, err := session.Start(context.Background(), contractx.AgentGreeter); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	reply, err := session.HandleTranscript(context.Background(), "where is my order")
	if err != nil {
		t.Fatalf("HandleTranscript() error = %v", err)
	}
	if reply != "Hi, I can check your orders." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	active := session.ActiveAgent()
	if active == nil || active.Name() != contractx.AgentOrder {
		t.Fatalf("hand-off did not activate target, active=%v", active)
	}
	if prev := state.PrevAgent(); prev == nil || prev.Name() != contractx.AgentGreeter {
		t.Fatalf("predecessor not recorded: %v", prev)
	}

	// The greeting request went to the order persona with its directive.
	last := responder.requests[len(responder.requests)-1]
	if last.Directive != order.greeting {
		t.Fatalf("unexpected greeting directive: %q", last.Directive)
	}

	orderHistory := session.History(contractx.AgentOrder)
	var carriedUser bool
	for _, item := range orderHistory {
		if item.Role == contractx.RoleUser && item.Content == "where is my order" {
			carriedUser = true
		}
		if item.Role == contractx.RoleSystem && item.Content == "instructions for greeter" {
			t.Fatal("predecessor instructions must not be carried over")
		}
	}
	if !carriedUser {
		t.Fatal("caller turn must be carried into the target context")
	}

	greeterHistory := session.History(contractx.AgentGreeter)
	var sawAnnouncement bool
	for _, item := range greeterHistory {
		if item.Role == contractx.RoleTool && item.Content == "Transferring to order." {
			sawAnnouncement = true
		}
	}
	if !sawAnnouncement {
		t.Fatal("transfer announcement must be recorded in the source context")
	}
}

func TestHandleTranscriptCarryoverIsBounded(t *testing.T) {
	t.Parallel()

	state, _, _ := newTestState(t)
	carryover := 3

	responses := []contractx.ResponderResponse{{Message: "Welcome."}}
	for i := 0; i < 6; i++ {
		responses = append(responses, contractx.ResponderResponse{Message: fmt.Sprintf("reply %d", i)})
	}
	responses = append(responses,
		contractx.ResponderResponse{ToolRequests: []contractx.ToolRequest{{Tool: "to_order"}}},
		contractx.ResponderResponse{Message: "Order help here."},
	)
	responder := &fakeResponder{responses: responses}
	executor := func(_ context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{Tool: tool, Transfer: contractx.AgentOrder}, nil
	}

	session, err := NewSession(state, responder, executor, WithHistoryCarryover(carryover))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if _, err := session.Start(context.Background(), contractx.AgentGreeter); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for i := 0; i < 6; i++ {
		if _, err := session.HandleTranscript(context.Background(), fmt.Sprintf("turn %d", i)); err != nil {
			t.Fatalf("HandleTranscript() error = %v", err)
		}
	}
	if _, err := session.HandleTranscript(context.Background(), "take me to orders"); err != nil {
		t.Fatalf("HandleTranscript() error = %v", err)
	}

	// Target context: carried slice, its own instruction entry, and its greeting.
	orderHistory := session.History(contractx.AgentOrder)
	if len(orderHistory) != carryover+2 {
		t.Fatalf("expected %d entries, got %d", carryover+2, len(orderHistory))
	}
}

func TestHandleTranscriptExhaustsToolSteps(t *testing.T) {
	t.Parallel()

	state, _, _ := newTestState(t)
	responder := &fakeResponder{
		responses: []contractx.ResponderResponse{
			{Message: "Welcome."},
			{ToolRequests: []contractx.ToolRequest{{Tool: "set_user"}}},
			{ToolRequests: []contractx.ToolRequest{{Tool: "set_user"}}},
		},
	}
	session, err := NewSession(state, responder, passthroughExecutor(t), WithMaxToolSteps(2))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if _, err := session.Start(context.Background(), contractx.AgentGreeter); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if _, err := session.HandleTranscript(context.Background(), "loop forever"); !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("HandleTranscript() error = %v, want ErrSchemaViolation", err)
	}
}

func TestHandleTranscriptModelFailure(t *testing.T) {
	t.Parallel()

	state, _, _ := newTestState(t)
	responder := &fakeResponder{
		responses: []contractx.ResponderResponse{{Message: "Welcome."}},
	}
	session, err := NewSession(state, responder, passthroughExecutor(t))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if _, err := session.Start(context.Background(), contractx.AgentGreeter); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	responder.err = errors.New("upstream unavailable")
	if _, err := session.HandleTranscript(context.Background(), "hello"); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("HandleTranscript() error = %v, want ErrModelInvoke", err)
	}
}

func TestHandleTranscriptRequiresStart(t *testing.T) {
	t.Parallel()

	state, _, _ := newTestState(t)
	session, err := NewSession(state, &fakeResponder{}, passthroughExecutor(t))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if _, err := session.HandleTranscript(context.Background(), "hello"); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("HandleTranscript() error = %v, want ErrValidation", err)
	}
}
