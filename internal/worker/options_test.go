package worker

import (
	"testing"

	"leadvoice/internal/agent"
	"leadvoice/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestBuildOptionsDefaults(t *testing.T) {
	o := BuildOptions(agent.DefaultProfile("ta-IN", "vidya"), agent.RoomMetadata{}, config.LLMConfig{Provider: "groq"})

	assert.Equal(t, STTOptions{Model: "saaras:v3", Language: "ta-IN"}, o.STT)
	assert.Equal(t, TTSOptions{Model: "bulbul:v2", Speaker: "vidya", TargetLanguage: "ta-IN"}, o.TTS)
	assert.Equal(t, "groq", o.LLM.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", o.LLM.Model)
	assert.Equal(t, "https://api.groq.com/openai/v1", o.LLM.BaseURL)
	assert.Equal(t, "stt", o.TurnDetection)
	assert.Equal(t, MinEndpointingDelay, o.MinEndpointingDelay)
}

func TestBuildOptionsAutoLanguage(t *testing.T) {
	o := BuildOptions(agent.DefaultProfile(agent.LanguageAuto, "arya"), agent.RoomMetadata{}, config.LLMConfig{})

	assert.Equal(t, "unknown", o.STT.Language)
	assert.Equal(t, "hi-IN", o.TTS.TargetLanguage)
}

func TestBuildOptionsMetadataOverrides(t *testing.T) {
	p := agent.DefaultProfile("hi-IN", "arya")
	o := BuildOptions(p, agent.RoomMetadata{Language: "en-IN", Voice: "karun"}, config.LLMConfig{})

	assert.Equal(t, "en-IN", o.STT.Language)
	assert.Equal(t, "karun", o.TTS.Speaker)
	assert.Equal(t, "hi-IN", p.Language, "profile untouched")

	o = BuildOptions(p, agent.RoomMetadata{Voice: "not-a-voice"}, config.LLMConfig{})
	assert.Equal(t, "arya", o.TTS.Speaker)
}

func TestBuildOptionsOpenAI(t *testing.T) {
	o := BuildOptions(agent.DefaultProfile("", ""), agent.RoomMetadata{}, config.LLMConfig{Provider: "openai"})

	assert.Equal(t, "openai", o.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", o.LLM.Model)
	assert.Empty(t, o.LLM.BaseURL)
}
