package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProfileJSON = `{
	"id": "acme",
	"name": "Acme Sales",
	"language": "en-IN",
	"voice": "vidya",
	"system_prompt": "Sell houses.",
	"greeting": "",
	"qualification_questions": ["Budget?", "Location?"],
	"transfer_keywords": ["human"],
	"fallback_message": "Sorry?",
	"extra": 42
}`

func TestDecodeProfile(t *testing.T) {
	p, err := DecodeProfile([]byte(validProfileJSON))
	require.NoError(t, err)

	assert.Equal(t, "acme", p.ID)
	assert.Equal(t, "Acme Sales", p.Name)
	assert.Equal(t, "en-IN", p.Language)
	assert.Equal(t, "vidya", p.Voice)
	assert.Empty(t, p.Greeting)
	assert.Equal(t, []string{"Budget?", "Location?"}, p.QualificationQuestions)
	assert.Equal(t, []string{"human"}, p.TransferKeywords)
}

func TestDecodeProfileRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>`},
		{"array", `[]`},
		{"missing greeting", `{"id":"a","name":"n","language":"hi-IN","voice":"arya","system_prompt":"p","qualification_questions":[],"transfer_keywords":[],"fallback_message":""}`},
		{"null field", `{"id":"a","name":null,"language":"hi-IN","voice":"arya","system_prompt":"p","greeting":"","qualification_questions":[],"transfer_keywords":[],"fallback_message":""}`},
		{"mistyped list", `{"id":"a","name":"n","language":"hi-IN","voice":"arya","system_prompt":"p","greeting":"","qualification_questions":"budget","transfer_keywords":[],"fallback_message":""}`},
		{"mistyped string", `{"id":"a","name":"n","language":7,"voice":"arya","system_prompt":"p","greeting":"","qualification_questions":[],"transfer_keywords":[],"fallback_message":""}`},
		{"empty id", `{"id":" ","name":"n","language":"hi-IN","voice":"arya","system_prompt":"p","greeting":"","qualification_questions":[],"transfer_keywords":[],"fallback_message":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeProfile([]byte(tt.body))
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}

func TestDefaultProfileRoundTrip(t *testing.T) {
	def := DefaultProfile("", "")
	assert.Equal(t, DefaultID, def.ID)
	assert.Equal(t, "hi-IN", def.Language)
	assert.Equal(t, "arya", def.Voice)
	assert.NotEmpty(t, def.Greeting)
	assert.Len(t, def.QualificationQuestions, 3)

	b, err := json.Marshal(def)
	require.NoError(t, err)
	back, err := DecodeProfile(b)
	require.NoError(t, err)
	assert.Equal(t, def, back)
}

func TestCloneIsIndependent(t *testing.T) {
	orig := DefaultProfile("hi-IN", "arya")
	c := orig.Clone()
	c.TransferKeywords[0] = "changed"
	assert.Equal(t, "manager", orig.TransferKeywords[0])
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "default", NormalizeID(""))
	assert.Equal(t, "default", NormalizeID("  "))
	assert.Equal(t, "acme", NormalizeID("acme"))
}

func TestKnownVoice(t *testing.T) {
	assert.True(t, KnownVoice("arya"))
	assert.False(t, KnownVoice("alloy"))
}
