// Package agents defines the five customer-service personas. Each persona is
// declarative data over shared machinery: a name, an instruction prompt, a
// tool list, and an optional hand-off greeting directive.
package agents

import (
	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
	promptx "github.com/cartuplabs/cartup-agent/agent/prompt"
	toolx "github.com/cartuplabs/cartup-agent/agent/tool"
	voicex "github.com/cartuplabs/cartup-agent/agent/voice"
)

type persona struct {
	name    contractx.AgentName
	display string
	prompt  string
	tools   []contractx.ToolInfo
	targets []contractx.AgentName

	// transferGreeting produces the directive spoken when this persona
	// becomes active through a hand-off. Nil means no greeting.
	transferGreeting func(language string) string
}

func (p *persona) Name() contractx.AgentName {
	return p.name
}

func (p *persona) DisplayName() string {
	return p.display
}

func (p *persona) Instructions(language string) string {
	return p.prompt + "\n" + promptx.LanguageDirective(language)
}

func (p *persona) Tools() []contractx.ToolInfo {
	out := make([]contractx.ToolInfo, len(p.tools))
	copy(out, p.tools)
	return out
}

func (p *persona) Voice(language string) contractx.VoiceConfig {
	return voicex.ForAgent(p.name, language)
}

func (p *persona) TransferTargets() []contractx.AgentName {
	out := make([]contractx.AgentName, len(p.targets))
	copy(out, p.targets)
	return out
}

func (p *persona) TransferGreeting(language string) string {
	if p.transferGreeting == nil {
		return ""
	}
	return p.transferGreeting(language)
}

func newPersona(name contractx.AgentName, display string, prompt string, greeting func(string) string) *persona {
	infos := toolx.InfosForAgent(name)
	var targets []contractx.AgentName
	for _, info := range infos {
		if target, ok := toolx.TransferTarget(info.Name); ok {
			targets = append(targets, target)
		}
	}
	return &persona{
		name:             name,
		display:          display,
		prompt:           prompt,
		tools:            infos,
		targets:          targets,
		transferGreeting: greeting,
	}
}
