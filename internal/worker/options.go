package worker

import (
	"time"

	"leadvoice/internal/agent"
	"leadvoice/internal/config"
)

const (
	STTModel            = "saaras:v3"
	TTSModel            = "bulbul:v2"
	TurnDetectionSTT    = "stt"
	MinEndpointingDelay = 70 * time.Millisecond

	// ttsFallbackLanguage is spoken when recognition runs in auto-detect mode.
	ttsFallbackLanguage = "hi-IN"
)

type STTOptions struct {
	Model    string `json:"model"`
	Language string `json:"language"`
}

type TTSOptions struct {
	Model          string `json:"model"`
	Speaker        string `json:"speaker"`
	TargetLanguage string `json:"target_language"`
}

type LLMOptions struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	BaseURL  string `json:"base_url,omitempty"`
}

// SessionOptions are the media pipeline parameters computed for one session.
// They are logged at session start and listed by the worker's /sessions
// endpoint.
type SessionOptions struct {
	STT                 STTOptions    `json:"stt"`
	TTS                 TTSOptions    `json:"tts"`
	LLM                 LLMOptions    `json:"llm"`
	TurnDetection       string        `json:"turn_detection"`
	MinEndpointingDelay time.Duration `json:"min_endpointing_delay"`
}

// BuildOptions derives session options from the profile. Language and voice
// from room metadata apply to this session only; an unknown voice is ignored.
func BuildOptions(p agent.AgentProfile, md agent.RoomMetadata, llm config.LLMConfig) SessionOptions {
	language := p.Language
	if md.Language != "" {
		language = md.Language
	}
	voice := p.Voice
	if md.Voice != "" && agent.KnownVoice(md.Voice) {
		voice = md.Voice
	}

	target := language
	if target == agent.LanguageAuto {
		target = ttsFallbackLanguage
	}

	baseURL, _, model := llm.Endpoint()
	provider := config.ProviderOpenAI
	if baseURL != "" {
		provider = config.ProviderGroq
	}

	return SessionOptions{
		STT: STTOptions{Model: STTModel, Language: language},
		TTS: TTSOptions{Model: TTSModel, Speaker: voice, TargetLanguage: target},
		LLM: LLMOptions{
			Provider: provider,
			Model:    model,
			BaseURL:  baseURL,
		},
		TurnDetection:       TurnDetectionSTT,
		MinEndpointingDelay: MinEndpointingDelay,
	}
}
