package agent

import (
	"encoding/json"
	"strings"
)

// RoomMetadata is the JSON document attached to a room when it is created
// for an agent. Language and Voice override the profile for that room only.
type RoomMetadata struct {
	AgentID  string `json:"agent_id,omitempty"`
	Language string `json:"language,omitempty"`
	Voice    string `json:"voice,omitempty"`
}

// ParseRoomMetadata decodes raw room metadata. Empty or malformed metadata
// yields ok == false.
func ParseRoomMetadata(raw string) (md RoomMetadata, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return RoomMetadata{}, false
	}
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		return RoomMetadata{}, false
	}
	return md, true
}

func (m RoomMetadata) String() string {
	b, _ := json.Marshal(m)
	return string(b)
}
