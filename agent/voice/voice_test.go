package voice

import (
	"testing"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
)

func TestForAgentEnglish(t *testing.T) {
	t.Parallel()

	for _, name := range contractx.KnownAgents() {
		cfg := ForAgent(name, "en-IN")
		if cfg.VoiceName != englishVoice {
			t.Fatalf("persona %s: unexpected english voice %s", name, cfg.VoiceName)
		}
		if cfg.Language != "en-IN" {
			t.Fatalf("persona %s: unexpected language %s", name, cfg.Language)
		}
	}
}

func TestForAgentBengaliUsesIndianVoices(t *testing.T) {
	t.Parallel()

	cfg := ForAgent(contractx.AgentGreeter, "bn-BD")
	if cfg.Language != "bn-IN" {
		t.Fatalf("unexpected language: %s", cfg.Language)
	}
	if cfg.VoiceName != bengaliVoiceFemale {
		t.Fatalf("unexpected voice: %s", cfg.VoiceName)
	}

	recommend := ForAgent(contractx.AgentRecommend, "bn-BD")
	if recommend.VoiceName != bengaliVoiceRecommend {
		t.Fatalf("recommend persona must use its own voice, got %s", recommend.VoiceName)
	}
}

func TestSpeakingRates(t *testing.T) {
	t.Parallel()

	if rate := ForAgent(contractx.AgentGreeter, "en-IN").SpeakingRate; rate != 1.1 {
		t.Fatalf("unexpected greeter rate: %v", rate)
	}
	if rate := ForAgent(contractx.AgentOrder, "en-IN").SpeakingRate; rate != defaultSpeakingRate {
		t.Fatalf("unexpected default rate: %v", rate)
	}
}
