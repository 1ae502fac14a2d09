package contract

// AgentName identifies one of the fixed conversational personas.
type AgentName string

const (
	AgentGreeter   AgentName = "greeter"
	AgentOrder     AgentName = "order"
	AgentTicket    AgentName = "ticket"
	AgentReturns   AgentName = "returns"
	AgentRecommend AgentName = "recommend"
)

// KnownAgents returns the fixed persona set, greeter first.
func KnownAgents() []AgentName {
	return []AgentName{AgentGreeter, AgentOrder, AgentTicket, AgentReturns, AgentRecommend}
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn record in a conversation history. ID is a stable
// identity used for de-duplication during hand-off carry-over.
type Message struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	Content  string `json:"content"`
	ToolName string `json:"tool_name,omitempty"`
}

// IsInstruction reports whether the message is a system/instruction entry.
// Tool invocation entries are not instructions and survive carry-over.
func (m Message) IsInstruction() bool {
	return m.Role == RoleSystem
}

type ToolParam struct {
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	Required bool   `json:"required"`
}

type ToolInfo struct {
	Name   string      `json:"name"`
	Desc   string      `json:"desc"`
	Params []ToolParam `json:"params,omitempty"`
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the outcome of a single tool invocation. Error carries the
// not-found/write-failure marker surfaced to the model; it is never a Go
// error, so a failed lookup cannot crash a conversation. Transfer is set by
// hand-off tools and names the persona that should take over.
type ToolResult struct {
	Tool     string    `json:"tool"`
	Result   any       `json:"result,omitempty"`
	Error    string    `json:"error,omitempty"`
	Transfer AgentName `json:"transfer,omitempty"`
}

// ResponderRequest is the input for one model turn of the active persona.
type ResponderRequest struct {
	Instructions string     `json:"instructions"`
	History      []Message  `json:"history"`
	Tools        []ToolInfo `json:"tools,omitempty"`
	// Directive is a one-off instruction for generated utterances such as
	// greetings ("Say concisely: ...").
	Directive string `json:"directive,omitempty"`
}

// ResponderResponse is either a spoken message or a batch of tool requests.
type ResponderResponse struct {
	Message      string        `json:"message,omitempty"`
	ToolRequests []ToolRequest `json:"tool_requests,omitempty"`
}

// VoiceConfig is the synthesis configuration bound to a persona.
type VoiceConfig struct {
	VoiceName    string  `json:"voice_name"`
	Language     string  `json:"language"`
	SpeakingRate float64 `json:"speaking_rate"`
}
