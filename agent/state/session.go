package state

import (
	"fmt"

	"gopkg.in/yaml.v3"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
)

// DefaultLanguage is assumed whenever no language preference has been set.
const DefaultLanguage = "en-IN"

// SupportedLanguages lists the selectable language tags.
var SupportedLanguages = []string{"en-IN", "bn-BD"}

// SessionState is the single mutable record carrying cross-persona context
// for one conversation. Exactly one persona is active at any instant; the
// runtime serializes activation and hand-off, so SessionState needs no
// internal locking.
type SessionState struct {
	// Identity and focus fields. Each focus id holds at most one recent
	// value per entity type, last write wins.
	UserID           string
	CurrentOrderID   string
	CurrentTicketID  string
	CurrentProductID string

	// LastIntent is a free-text tag of the caller's most recent goal. No
	// tool writes it today; it is kept in the summary for forward
	// compatibility with intent tracking.
	LastIntent string

	// Language is the caller's selected language tag ("en-IN" or "bn-BD").
	Language string

	agents    map[contractx.AgentName]contractx.Agent
	prevAgent contractx.Agent
}

// New builds a SessionState over a fixed persona registry. The registry is
// copied and never mutated afterwards.
func New(agents map[contractx.AgentName]contractx.Agent) (*SessionState, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("%w: agent registry is empty", contractx.ErrValidation)
	}
	registry := make(map[contractx.AgentName]contractx.Agent, len(agents))
	for name, ag := range agents {
		if ag == nil {
			return nil, fmt.Errorf("%w: nil agent registered as %q", contractx.ErrValidation, name)
		}
		registry[name] = ag
	}
	return &SessionState{agents: registry}, nil
}

// Agent looks up a persona by name in the fixed registry.
func (s *SessionState) Agent(name contractx.AgentName) (contractx.Agent, bool) {
	ag, ok := s.agents[name]
	return ag, ok
}

// PrevAgent returns the persona that was active immediately before the
// current one, or nil for the conversation's very first activation. The
// reference is non-owning: agent instances live exactly as long as the
// session.
func (s *SessionState) PrevAgent() contractx.Agent {
	return s.prevAgent
}

// LanguageOrDefault resolves the language preference, falling back to
// DefaultLanguage when unset.
func (s *SessionState) LanguageOrDefault() string {
	if s.Language == "" {
		return DefaultLanguage
	}
	return s.Language
}

// Transfer cedes control from the currently active persona to the named
// target. It records the predecessor so the target's activation can carry
// history over, and returns the target instance plus a short announcement.
// Conversation history is not touched here; that happens when the target
// activates.
func (s *SessionState) Transfer(current contractx.Agent, target contractx.AgentName) (contractx.Agent, string, error) {
	next, ok := s.agents[target]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", contractx.ErrUnknownAgent, target)
	}
	s.prevAgent = current
	return next, fmt.Sprintf("Transferring to %s.", target), nil
}

// Summary is the deterministic snapshot of the focus fields, with sentinels
// substituted for anything unset.
type Summary struct {
	UserID           string `yaml:"user_id"`
	CurrentOrderID   string `yaml:"current_order_id"`
	CurrentTicketID  string `yaml:"current_ticket_id"`
	CurrentProductID string `yaml:"current_product_id"`
	LastIntent       string `yaml:"last_intent"`
	Language         string `yaml:"language"`
}

// Summarize projects the session state into a Summary. It is total and
// read-only: every field gets a sentinel when unset.
func (s *SessionState) Summarize() Summary {
	return Summary{
		UserID:           orSentinel(s.UserID, "unknown"),
		CurrentOrderID:   orSentinel(s.CurrentOrderID, "none"),
		CurrentTicketID:  orSentinel(s.CurrentTicketID, "none"),
		CurrentProductID: orSentinel(s.CurrentProductID, "none"),
		LastIntent:       orSentinel(s.LastIntent, "none"),
		Language:         s.LanguageOrDefault(),
	}
}

// SummaryYAML renders the summary for injection into an instruction entry.
func (s *SessionState) SummaryYAML() string {
	out, err := yaml.Marshal(s.Summarize())
	if err != nil {
		// Summary is a flat struct of strings; marshalling cannot fail.
		return ""
	}
	return string(out)
}

func orSentinel(v, sentinel string) string {
	if v == "" {
		return sentinel
	}
	return v
}
