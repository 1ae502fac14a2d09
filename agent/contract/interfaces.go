package contract

import "context"

// Agent is an immutable persona bundle: instruction text, bound tool set,
// voice configuration, and the fixed set of personas it can hand off to.
// All mutable conversation state lives outside the agent.
type Agent interface {
	Name() AgentName
	DisplayName() string
	Instructions(language string) string
	Tools() []ToolInfo
	Voice(language string) VoiceConfig
	TransferTargets() []AgentName
	// TransferGreeting returns the directive used to greet the caller after a
	// hand-off to this agent. Empty means no greeting is generated.
	TransferGreeting(language string) string
}

// Responder is the external decision oracle: the LLM that answers directly
// or requests tool invocations on behalf of the active persona.
type Responder interface {
	Respond(ctx context.Context, req ResponderRequest) (ResponderResponse, error)
}

// ToolExecutor runs a named tool with its arguments. Data-store faults are
// resolved inside the executor; the returned error is reserved for argument
// decoding defects.
type ToolExecutor func(ctx context.Context, tool string, args map[string]any) (ToolResult, error)

// Publisher delivers conversation lifecycle events to an external consumer.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// Transcriber is the external speech-to-text collaborator. The channel is
// closed when the audio stream ends.
type Transcriber interface {
	Transcripts(ctx context.Context) (<-chan string, error)
}

// Synthesizer is the external text-to-speech collaborator.
type Synthesizer interface {
	Speak(ctx context.Context, text string, voice VoiceConfig) error
}
