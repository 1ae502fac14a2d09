package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	agentsx "github.com/cartuplabs/cartup-agent/agent/agents"
	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
	llmx "github.com/cartuplabs/cartup-agent/agent/llm"
	runtimex "github.com/cartuplabs/cartup-agent/agent/runtime"
	statex "github.com/cartuplabs/cartup-agent/agent/state"
	toolx "github.com/cartuplabs/cartup-agent/agent/tool"
	configx "github.com/cartuplabs/cartup-agent/pkg/config"
	_ "github.com/cartuplabs/cartup-agent/pkg/logger/autoload"
	webhookx "github.com/cartuplabs/cartup-agent/pkg/webhook"
	storex "github.com/cartuplabs/cartup-agent/store"
)

type AppConfig struct {
	// RoomName carries the session language by convention:
	// voice_assistant_room_{language}_{random}.
	RoomName         string `envconfig:"ROOM_NAME" split_words:"true"`
	Language         string `envconfig:"LANGUAGE" split_words:"true"`
	DBPath           string `envconfig:"DB_PATH" split_words:"true" default:"cartup.db"`
	HistoryCarryover int    `envconfig:"HISTORY_CARRYOVER" split_words:"true" default:"10"`
	MaxToolSteps     int    `envconfig:"MAX_TOOL_STEPS" split_words:"true" default:"5"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	language := resolveLanguage(appCfg)
	log.Info().Str("language", language).Str("room", appCfg.RoomName).Msg("session language resolved")

	st, err := storex.Open(appCfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", appCfg.DBPath).Msg("open data store")
	}
	defer st.Close()
	if err := st.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("init data store")
	}
	if err := st.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed data store")
	}

	sessionState, err := statex.New(agentsx.NewRegistry())
	if err != nil {
		log.Fatal().Err(err).Msg("build session state")
	}
	sessionState.Language = language

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	responder, err := llmx.NewResponder(*llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build responder")
	}

	opts := []runtimex.SessionOption{
		runtimex.WithHistoryCarryover(appCfg.HistoryCarryover),
		runtimex.WithMaxToolSteps(appCfg.MaxToolSteps),
	}
	if webhookCfg, err := configx.New[webhookx.Config]("WEBHOOK"); err == nil {
		opts = append(opts, runtimex.WithPublisher(webhookx.MustNew(*webhookCfg)))
		log.Info().Str("url", webhookCfg.URL).Msg("turn event webhook enabled")
	}

	session, err := runtimex.NewSession(
		sessionState,
		responder,
		toolx.NewExecutor(st, sessionState),
		opts...,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("build session")
	}

	console := newConsole(os.Stdin, os.Stdout)
	pipeline, err := runtimex.NewVoicePipeline(session, console, console)
	if err != nil {
		log.Fatal().Err(err).Msg("build voice pipeline")
	}

	log.Info().Str("session_id", session.ID()).Msg("starting session with greeter")
	if err := pipeline.Run(ctx, contractx.AgentGreeter); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("session ended with error")
	}
}

// resolveLanguage prefers an explicit LANGUAGE setting, then the room-name
// convention, then the default.
func resolveLanguage(cfg *AppConfig) string {
	if lang := strings.TrimSpace(cfg.Language); lang != "" {
		return lang
	}
	return languageFromRoomName(cfg.RoomName)
}

func languageFromRoomName(room string) string {
	parts := strings.Split(room, "_")
	if len(parts) >= 4 && supportedLanguage(parts[len(parts)-2]) {
		return parts[len(parts)-2]
	}
	for _, part := range parts {
		if supportedLanguage(part) {
			return part
		}
	}
	return statex.DefaultLanguage
}

func supportedLanguage(code string) bool {
	for _, lang := range statex.SupportedLanguages {
		if code == lang {
			return true
		}
	}
	return false
}

// console stands in for the audio stack: transcripts come from stdin lines,
// synthesized speech goes to stdout tagged with the voice that would say it.
type console struct {
	in  *bufio.Scanner
	out *bufio.Writer
}

func newConsole(in *os.File, out *os.File) *console {
	return &console{
		in:  bufio.NewScanner(in),
		out: bufio.NewWriter(out),
	}
}

func (c *console) Transcripts(ctx context.Context) (<-chan string, error) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for c.in.Scan() {
			text := strings.TrimSpace(c.in.Text())
			if text == "" {
				continue
			}
			select {
			case lines <- text:
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines, nil
}

func (c *console) Speak(_ context.Context, text string, voice contractx.VoiceConfig) error {
	if _, err := fmt.Fprintf(c.out, "[%s] %s\n", voice.VoiceName, text); err != nil {
		return err
	}
	return c.out.Flush()
}
