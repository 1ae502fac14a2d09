package agents

import (
	"strings"
	"testing"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
)

func TestNewRegistryCoversAllPersonas(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	for _, name := range contractx.KnownAgents() {
		agent, ok := registry[name]
		if !ok {
			t.Fatalf("missing persona: %s", name)
		}
		if agent.Name() != name {
			t.Fatalf("registry key %s holds agent %s", name, agent.Name())
		}
		if agent.DisplayName() == "" {
			t.Fatalf("persona %s has no display name", name)
		}
		if agent.Instructions("en-IN") == "" {
			t.Fatalf("persona %s has no instructions", name)
		}
		if len(agent.Tools()) == 0 {
			t.Fatalf("persona %s has no tools", name)
		}
	}
}

func TestTransferTargetsExcludeSelf(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	for name, agent := range registry {
		targets := agent.TransferTargets()
		if len(targets) != 4 {
			t.Fatalf("persona %s: expected 4 transfer targets, got %v", name, targets)
		}
		for _, target := range targets {
			if target == name {
				t.Fatalf("persona %s lists itself as a transfer target", name)
			}
			if _, ok := registry[target]; !ok {
				t.Fatalf("persona %s targets unknown persona %s", name, target)
			}
		}
	}
}

func TestInstructionsCarryLanguageDirective(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	order := registry[contractx.AgentOrder]

	english := order.Instructions("en-IN")
	bengali := order.Instructions("bn-BD")
	if english == bengali {
		t.Fatal("instructions must differ by language")
	}
	if !strings.Contains(bengali, "bn-BD") {
		t.Fatal("bengali instructions must carry the bn-BD directive")
	}
}

func TestTransferGreetings(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	for _, name := range contractx.KnownAgents() {
		if registry[name].TransferGreeting("en-IN") == "" {
			t.Fatalf("persona %s has no transfer greeting", name)
		}
	}

	greeter := registry[contractx.AgentGreeter].TransferGreeting("bn-BD")
	if !strings.Contains(greeter, "স্বাগতম") {
		t.Fatalf("greeter must use the Bengali branded welcome, got %q", greeter)
	}
}

func TestVoiceFollowsLanguage(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	greeter := registry[contractx.AgentGreeter]

	english := greeter.Voice("en-IN")
	if english.Language != "en-IN" {
		t.Fatalf("unexpected english voice language: %s", english.Language)
	}

	bengali := greeter.Voice("bn-BD")
	if bengali.Language != "bn-IN" {
		t.Fatalf("bengali sessions must use bn-IN voices, got %s", bengali.Language)
	}
	if bengali.VoiceName == english.VoiceName {
		t.Fatal("voice must change with language")
	}
}
