package runtime

import (
	"github.com/google/uuid"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
)

// ChatContext is one persona's conversation history: a copyable,
// truncatable, appendable ordered sequence of turn records with stable
// identities. The runtime owns one per persona; hand-off logic only reads,
// filters, and re-injects slices of it.
type ChatContext struct {
	items []contractx.Message
}

func NewChatContext() *ChatContext {
	return &ChatContext{}
}

// Items returns a copy of the entries in order.
func (c *ChatContext) Items() []contractx.Message {
	out := make([]contractx.Message, len(c.items))
	copy(out, c.items)
	return out
}

func (c *ChatContext) Len() int {
	return len(c.items)
}

// Append adds an entry, assigning a fresh identity when the entry has none.
func (c *ChatContext) Append(msg contractx.Message) contractx.Message {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	c.items = append(c.items, msg)
	return msg
}

// AddMessage appends a new entry with the given role and content.
func (c *ChatContext) AddMessage(role contractx.Role, content string) contractx.Message {
	return c.Append(contractx.Message{Role: role, Content: content})
}

// AddToolMessage appends a tool-invocation entry.
func (c *ChatContext) AddToolMessage(toolName, content string) contractx.Message {
	return c.Append(contractx.Message{Role: contractx.RoleTool, ToolName: toolName, Content: content})
}

// Copy returns an independent copy of the context.
func (c *ChatContext) Copy() *ChatContext {
	return &ChatContext{items: c.Items()}
}

// WithoutInstructions returns a copy excluding system/instruction entries.
// Tool-invocation entries are retained: they carry facts the next persona
// should see.
func (c *ChatContext) WithoutInstructions() *ChatContext {
	out := &ChatContext{items: make([]contractx.Message, 0, len(c.items))}
	for _, item := range c.items {
		if item.IsInstruction() {
			continue
		}
		out.items = append(out.items, item)
	}
	return out
}

// Truncate returns a copy keeping at most the maxItems most recent entries,
// order preserved. Non-positive maxItems keeps nothing.
func (c *ChatContext) Truncate(maxItems int) *ChatContext {
	if maxItems <= 0 {
		return &ChatContext{}
	}
	items := c.items
	if len(items) > maxItems {
		items = items[len(items)-maxItems:]
	}
	out := make([]contractx.Message, len(items))
	copy(out, items)
	return &ChatContext{items: out}
}

// MergeAbsent appends, in order, the entries whose identity is not already
// present. Existing entries keep their positions; merged entries land after
// them.
func (c *ChatContext) MergeAbsent(items []contractx.Message) {
	existing := make(map[string]struct{}, len(c.items))
	for _, item := range c.items {
		existing[item.ID] = struct{}{}
	}
	for _, item := range items {
		if _, ok := existing[item.ID]; ok {
			continue
		}
		existing[item.ID] = struct{}{}
		c.items = append(c.items, item)
	}
}
