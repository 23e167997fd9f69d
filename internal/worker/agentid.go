package worker

import (
	"strings"

	"leadvoice/internal/agent"
)

const roomPrefix = "test-"

// ExtractAgentID picks the agent for a room. A non-empty agent_id in the room
// metadata wins; otherwise a room named test-{id}-{ts} yields {id}; otherwise
// the default agent is used. Malformed metadata is ignored.
func ExtractAgentID(metadata, roomName string) string {
	if md, ok := agent.ParseRoomMetadata(metadata); ok && md.AgentID != "" {
		return md.AgentID
	}

	if strings.HasPrefix(roomName, roomPrefix) {
		parts := strings.Split(roomName, "-")
		if len(parts) >= 2 && parts[1] != "" {
			return parts[1]
		}
	}

	return agent.DefaultID
}
