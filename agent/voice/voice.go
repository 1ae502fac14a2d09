// Package voice holds the per-persona synthesis configuration as enumerated
// data: role name and language in, voice parameters out. The actual speech
// synthesis lives with the external provider.
package voice

import (
	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
	promptx "github.com/cartuplabs/cartup-agent/agent/prompt"
)

const (
	englishVoice       = "en-IN-Chirp-HD-F"
	bengaliVoiceFemale = "bn-IN-Chirp3-HD-Despina"
	// A warmer voice used by the recommend persona in Bengali sessions.
	bengaliVoiceRecommend = "bn-IN-Chirp3-HD-Pulcherrima"
)

// Bengali sessions use bn-IN voices; the Bangladesh accent is carried by the
// language directives, not the voice model.
var bengaliVoices = map[contractx.AgentName]string{
	contractx.AgentGreeter:   bengaliVoiceFemale,
	contractx.AgentOrder:     bengaliVoiceFemale,
	contractx.AgentTicket:    bengaliVoiceFemale,
	contractx.AgentReturns:   bengaliVoiceFemale,
	contractx.AgentRecommend: bengaliVoiceRecommend,
}

var speakingRates = map[contractx.AgentName]float64{
	contractx.AgentGreeter: 1.1,
}

const defaultSpeakingRate = 1.2

// ForAgent resolves the voice configuration for a persona in the session's
// language.
func ForAgent(name contractx.AgentName, language string) contractx.VoiceConfig {
	rate, ok := speakingRates[name]
	if !ok {
		rate = defaultSpeakingRate
	}

	if promptx.IsBengali(language) {
		voiceName, ok := bengaliVoices[name]
		if !ok {
			voiceName = bengaliVoiceFemale
		}
		return contractx.VoiceConfig{
			VoiceName:    voiceName,
			Language:     "bn-IN",
			SpeakingRate: rate,
		}
	}

	return contractx.VoiceConfig{
		VoiceName:    englishVoice,
		Language:     "en-IN",
		SpeakingRate: rate,
	}
}
