package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	DefaultID = "default"

	// LanguageAuto asks speech recognition to detect the language.
	LanguageAuto = "unknown"
)

var ErrInvalidProfile = errors.New("invalid agent profile")

// AgentProfile is the configuration of one conversational persona.
type AgentProfile struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Language               string   `json:"language"`
	Voice                  string   `json:"voice"`
	SystemPrompt           string   `json:"system_prompt"`
	Greeting               string   `json:"greeting"`
	QualificationQuestions []string `json:"qualification_questions"`
	TransferKeywords       []string `json:"transfer_keywords"`
	FallbackMessage        string   `json:"fallback_message"`
}

// Clone returns a copy that shares no slices with p.
func (p AgentProfile) Clone() AgentProfile {
	p.QualificationQuestions = slices.Clone(p.QualificationQuestions)
	p.TransferKeywords = slices.Clone(p.TransferKeywords)
	return p
}

// NormalizeID maps an empty agent id to DefaultID.
func NormalizeID(id string) string {
	if id = strings.TrimSpace(id); id == "" {
		return DefaultID
	}
	return id
}

const defaultSystemPrompt = `You are a friendly lead nurturing agent for real estate.

Your role:
- Greet callers warmly in Hindi or their preferred language
- Understand their property requirements
- Qualify leads by asking about budget, location, timeline
- Schedule property visits

Guidelines:
- Be warm, professional, and patient
- Use Hinglish (Hindi + English mix) naturally
- Always confirm information before ending

Collect these details:
1. Name
2. Budget range
3. Preferred location/area
4. Property type (apartment/villa/plot)
5. Timeline to buy
6. Best time for site visit`

// DefaultProfile builds the built-in profile used whenever no other profile
// can be resolved. Empty language or voice fall back to hi-IN and arya.
func DefaultProfile(language, voice string) AgentProfile {
	if language == "" {
		language = "hi-IN"
	}
	if voice == "" {
		voice = "arya"
	}
	return AgentProfile{
		ID:           DefaultID,
		Name:         "Lead Nurturing Agent",
		Language:     language,
		Voice:        voice,
		SystemPrompt: defaultSystemPrompt,
		Greeting:     "नमस्ते! RAA Estate में आपका स्वागत है। मैं आपकी कैसे मदद कर सकता हूं?",
		QualificationQuestions: []string{
			"आपका बजट क्या है?",
			"आप किस एरिया में प्रॉपर्टी देख रहे हैं?",
			"कब तक खरीदना चाहते हैं?",
		},
		TransferKeywords: []string{"manager", "human", "complaint"},
		FallbackMessage:  "माफ कीजिए, मैं समझ नहीं पाया। क्या आप दोबारा बता सकते हैं?",
	}
}

// wireProfile mirrors AgentProfile with pointer fields so absent keys can be
// told apart from zero values.
type wireProfile struct {
	ID                     *string   `json:"id"`
	Name                   *string   `json:"name"`
	Language               *string   `json:"language"`
	Voice                  *string   `json:"voice"`
	SystemPrompt           *string   `json:"system_prompt"`
	Greeting               *string   `json:"greeting"`
	QualificationQuestions *[]string `json:"qualification_questions"`
	TransferKeywords       *[]string `json:"transfer_keywords"`
	FallbackMessage        *string   `json:"fallback_message"`
}

// DecodeProfile parses a profile record from an untrusted source. Every field
// must be present with the right JSON type and the id must be non-empty;
// otherwise the whole record is rejected with ErrInvalidProfile.
func DecodeProfile(data []byte) (AgentProfile, error) {
	var w wireProfile
	if err := json.Unmarshal(data, &w); err != nil {
		return AgentProfile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	check("id", w.ID != nil)
	check("name", w.Name != nil)
	check("language", w.Language != nil)
	check("voice", w.Voice != nil)
	check("system_prompt", w.SystemPrompt != nil)
	check("greeting", w.Greeting != nil)
	check("qualification_questions", w.QualificationQuestions != nil)
	check("transfer_keywords", w.TransferKeywords != nil)
	check("fallback_message", w.FallbackMessage != nil)
	if len(missing) > 0 {
		return AgentProfile{}, fmt.Errorf("%w: missing %s", ErrInvalidProfile, strings.Join(missing, ", "))
	}
	if strings.TrimSpace(*w.ID) == "" {
		return AgentProfile{}, fmt.Errorf("%w: empty id", ErrInvalidProfile)
	}

	return AgentProfile{
		ID:                     *w.ID,
		Name:                   *w.Name,
		Language:               *w.Language,
		Voice:                  *w.Voice,
		SystemPrompt:           *w.SystemPrompt,
		Greeting:               *w.Greeting,
		QualificationQuestions: *w.QualificationQuestions,
		TransferKeywords:       *w.TransferKeywords,
		FallbackMessage:        *w.FallbackMessage,
	}, nil
}
