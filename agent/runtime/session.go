package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
	promptx "github.com/cartuplabs/cartup-agent/agent/prompt"
	statex "github.com/cartuplabs/cartup-agent/agent/state"
)

const (
	// defaultHistoryCarryover bounds how many predecessor entries a
	// hand-off carries into the next persona's context.
	defaultHistoryCarryover = 10
	// defaultMaxToolSteps bounds tool rounds within one caller turn.
	defaultMaxToolSteps = 5
)

// SessionOption customizes a Session.
type SessionOption func(*Session)

func WithHistoryCarryover(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.historyCarryover = n
		}
	}
}

func WithMaxToolSteps(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxToolSteps = n
		}
	}
}

func WithPublisher(p contractx.Publisher) SessionOption {
	return func(s *Session) {
		s.publisher = p
	}
}

// TurnEvent is published after each completed caller turn.
type TurnEvent struct {
	SessionID string    `json:"session_id"`
	Agent     string    `json:"agent"`
	UserText  string    `json:"user_text,omitempty"`
	Reply     string    `json:"reply"`
	At        time.Time `json:"at"`
}

// Session drives one conversation: it owns the per-persona chat contexts,
// the shared session state, and the serialized turn loop. Activation and
// hand-off are never concurrent within one session; independent sessions
// share nothing but the data store.
type Session struct {
	id        string
	state     *statex.SessionState
	responder contractx.Responder
	execute   contractx.ToolExecutor
	publisher contractx.Publisher

	historyCarryover int
	maxToolSteps     int
	now              func() time.Time

	mu        sync.Mutex
	active    contractx.Agent
	histories map[contractx.AgentName]*ChatContext
}

// NewSession wires a conversation together. The session state must already
// carry the fixed persona registry and any externally determined language
// preference.
func NewSession(
	st *statex.SessionState,
	responder contractx.Responder,
	execute contractx.ToolExecutor,
	opts ...SessionOption,
) (*Session, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: session state is required", contractx.ErrValidation)
	}
	if responder == nil {
		return nil, fmt.Errorf("%w: responder is required", contractx.ErrValidation)
	}
	if execute == nil {
		return nil, fmt.Errorf("%w: tool executor is required", contractx.ErrValidation)
	}

	s := &Session{
		id:               uuid.NewString(),
		state:            st,
		responder:        responder,
		execute:          execute,
		historyCarryover: defaultHistoryCarryover,
		maxToolSteps:     defaultMaxToolSteps,
		now:              time.Now,
		histories:        make(map[contractx.AgentName]*ChatContext),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// ID returns the conversation id.
func (s *Session) ID() string {
	return s.id
}

// ActiveAgent returns the currently active persona.
func (s *Session) ActiveAgent() contractx.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// State exposes the shared session state.
func (s *Session) State() *statex.SessionState {
	return s.state
}

// History returns a copy of a persona's committed context, mainly for
// inspection and tests.
func (s *Session) History(name contractx.AgentName) []contractx.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	hist, ok := s.histories[name]
	if !ok {
		return nil
	}
	return hist.Items()
}

// Start activates the first persona of the conversation and returns its
// greeting.
func (s *Session) Start(ctx context.Context, first contractx.AgentName) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.state.Agent(first)
	if !ok {
		return "", fmt.Errorf("%w: %s", contractx.ErrUnknownAgent, first)
	}

	greeting, err := s.activate(ctx, agent)
	if err != nil {
		return "", err
	}
	s.publish(ctx, "", greeting)
	return greeting, nil
}

// HandleTranscript runs one caller turn: the transcript is appended to the
// active persona's context, the responder decides to answer, invoke tools,
// or hand off, and the reply text is returned for synthesis.
func (s *Session) HandleTranscript(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return "", fmt.Errorf("%w: session not started", contractx.ErrValidation)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: transcript is empty", contractx.ErrValidation)
	}

	hist := s.histories[s.active.Name()]
	hist.AddMessage(contractx.RoleUser, text)

	language := s.state.LanguageOrDefault()
	for step := 0; step < s.maxToolSteps; step++ {
		resp, err := s.responder.Respond(ctx, contractx.ResponderRequest{
			Instructions: s.active.Instructions(language),
			History:      hist.Items(),
			Tools:        s.active.Tools(),
		})
		if err != nil {
			return "", fmt.Errorf("%w: respond for agent=%s: %v", contractx.ErrModelInvoke, s.active.Name(), err)
		}

		if len(resp.ToolRequests) == 0 {
			reply := strings.TrimSpace(resp.Message)
			if reply == "" {
				return "", fmt.Errorf("%w: empty reply from agent=%s", contractx.ErrSchemaViolation, s.active.Name())
			}
			hist.AddMessage(contractx.RoleAssistant, reply)
			s.publish(ctx, text, reply)
			return reply, nil
		}

		allowed := allowedTools(s.active)
		for _, req := range resp.ToolRequests {
			if _, ok := allowed[req.Tool]; !ok {
				return "", fmt.Errorf("%w: tool=%s is not allowed for agent=%s", contractx.ErrSchemaViolation, req.Tool, s.active.Name())
			}

			result, err := s.execute(ctx, req.Tool, req.Args)
			if err != nil {
				return "", fmt.Errorf("execute tool=%s: %w", req.Tool, err)
			}

			if result.Transfer != "" {
				reply, err := s.handoff(ctx, hist, req.Tool, result.Transfer)
				if err != nil {
					return "", err
				}
				s.publish(ctx, text, reply)
				return reply, nil
			}

			hist.AddToolMessage(req.Tool, renderToolResult(result))
		}
	}

	return "", fmt.Errorf("%w: agent=%s exhausted %d tool steps without a reply", contractx.ErrSchemaViolation, s.active.Name(), s.maxToolSteps)
}

// handoff cedes control to the target persona. The predecessor is recorded
// before the switch so the target's activation sees the right history to
// carry over.
func (s *Session) handoff(ctx context.Context, hist *ChatContext, tool string, target contractx.AgentName) (string, error) {
	next, announcement, err := s.state.Transfer(s.active, target)
	if err != nil {
		return "", err
	}
	hist.AddToolMessage(tool, announcement)

	log.Info().
		Str("session_id", s.id).
		Str("from", string(s.active.Name())).
		Str("to", string(target)).
		Msg("agent hand-off")

	greeting, err := s.activate(ctx, next)
	if err != nil {
		return "", err
	}
	if greeting == "" {
		// Target declined to greet; the announcement is all the caller hears.
		return announcement, nil
	}
	return greeting, nil
}

// activate runs the target persona's activation lifecycle: carry over a
// bounded, de-duplicated slice of the predecessor's history, inject the
// session summary entry, commit the context, then greet.
func (s *Session) activate(ctx context.Context, agent contractx.Agent) (string, error) {
	name := agent.Name()
	hist, ok := s.histories[name]
	if !ok {
		hist = NewChatContext()
	}
	chatCtx := hist.Copy()

	prev := s.state.PrevAgent()
	if prev != nil && prev.Name() != name {
		if prevHist, ok := s.histories[prev.Name()]; ok {
			carried := prevHist.WithoutInstructions().Truncate(s.historyCarryover)
			chatCtx.MergeAbsent(carried.Items())
		}
	}

	language := s.state.LanguageOrDefault()
	chatCtx.AddMessage(contractx.RoleSystem, promptx.SystemEntry(
		agent.DisplayName(),
		s.state.SummaryYAML(),
		language,
		name == contractx.AgentGreeter,
	))

	s.histories[name] = chatCtx
	s.active = agent

	log.Debug().
		Str("session_id", s.id).
		Str("agent", string(name)).
		Int("history_items", chatCtx.Len()).
		Msg("agent activated")

	if prev == nil {
		return s.generate(ctx, agent, promptx.InitialGreetingDirective(language))
	}
	if directive := agent.TransferGreeting(language); directive != "" {
		return s.generate(ctx, agent, directive)
	}
	return "", nil
}

// generate produces a single directed utterance (greetings) with no tool
// access.
func (s *Session) generate(ctx context.Context, agent contractx.Agent, directive string) (string, error) {
	hist := s.histories[agent.Name()]
	resp, err := s.responder.Respond(ctx, contractx.ResponderRequest{
		Instructions: agent.Instructions(s.state.LanguageOrDefault()),
		History:      hist.Items(),
		Directive:    directive,
	})
	if err != nil {
		return "", fmt.Errorf("%w: greeting for agent=%s: %v", contractx.ErrModelInvoke, agent.Name(), err)
	}
	reply := strings.TrimSpace(resp.Message)
	if reply == "" {
		return "", fmt.Errorf("%w: empty greeting from agent=%s", contractx.ErrSchemaViolation, agent.Name())
	}
	hist.AddMessage(contractx.RoleAssistant, reply)
	return reply, nil
}

func (s *Session) publish(ctx context.Context, userText, reply string) {
	if s.publisher == nil || reply == "" {
		return
	}
	event := TurnEvent{
		SessionID: s.id,
		Agent:     string(s.active.Name()),
		UserText:  userText,
		Reply:     reply,
		At:        s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("session_id", s.id).Msg("turn event publish failed")
	}
}

func allowedTools(agent contractx.Agent) map[string]struct{} {
	infos := agent.Tools()
	allowed := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		if info.Name == "" {
			continue
		}
		allowed[info.Name] = struct{}{}
	}
	return allowed
}

func renderToolResult(result contractx.ToolResult) string {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf(`{"tool":%q,"error":"unencodable result"}`, result.Tool)
	}
	return string(payload)
}
