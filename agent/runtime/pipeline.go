package runtime

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
)

// VoicePipeline connects a transcript source and a speech sink to a session:
// recognized utterances flow into the turn loop, replies flow out through the
// active persona's voice.
type VoicePipeline struct {
	session     *Session
	transcriber contractx.Transcriber
	synthesizer contractx.Synthesizer
}

func NewVoicePipeline(session *Session, transcriber contractx.Transcriber, synthesizer contractx.Synthesizer) (*VoicePipeline, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: session is required", contractx.ErrValidation)
	}
	if transcriber == nil {
		return nil, fmt.Errorf("%w: transcriber is required", contractx.ErrValidation)
	}
	if synthesizer == nil {
		return nil, fmt.Errorf("%w: synthesizer is required", contractx.ErrValidation)
	}
	return &VoicePipeline{
		session:     session,
		transcriber: transcriber,
		synthesizer: synthesizer,
	}, nil
}

// Run starts the session with the given persona, speaks its greeting, then
// consumes transcripts until the source closes or the context is cancelled.
// Turn-level failures are logged and skipped so one bad utterance does not
// end the call.
func (p *VoicePipeline) Run(ctx context.Context, first contractx.AgentName) error {
	greeting, err := p.session.Start(ctx, first)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	p.speak(ctx, greeting)

	transcripts, err := p.transcriber.Transcripts(ctx)
	if err != nil {
		return fmt.Errorf("open transcript stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case text, ok := <-transcripts:
			if !ok {
				return nil
			}
			reply, err := p.session.HandleTranscript(ctx, text)
			if err != nil {
				log.Error().Err(err).Str("session_id", p.session.ID()).Msg("turn failed")
				continue
			}
			p.speak(ctx, reply)
		}
	}
}

func (p *VoicePipeline) speak(ctx context.Context, text string) {
	if text == "" {
		return
	}
	agent := p.session.ActiveAgent()
	voice := agent.Voice(p.session.State().LanguageOrDefault())
	if err := p.synthesizer.Speak(ctx, text, voice); err != nil {
		log.Error().Err(err).Str("session_id", p.session.ID()).Str("voice", voice.VoiceName).Msg("speech synthesis failed")
	}
}
