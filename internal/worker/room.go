package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"leadvoice/internal/config"

	"github.com/google/uuid"
	lksdk "github.com/livekit/server-sdk-go/v2"
)

// ChatTopic is the data channel topic the demo UI and the agent exchange
// text on.
const ChatTopic = "lk.chat"

// ChatMessage is the payload carried on ChatTopic.
type ChatMessage struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Room is the agent's handle on a joined room.
type Room interface {
	Name() string
	Metadata() string
	PublishChat(text string) error
	Disconnect()
}

// Connector joins rooms. onChat is called for every chat message another
// participant sends.
type Connector interface {
	Connect(ctx context.Context, room string, onChat func(sender, text string)) (Room, error)
}

// LiveKitConnector joins rooms as an agent participant.
type LiveKitConnector struct {
	cfg       config.LiveKitConfig
	agentName string
}

func NewLiveKitConnector(cfg config.LiveKitConfig, agentName string) *LiveKitConnector {
	return &LiveKitConnector{cfg: cfg, agentName: agentName}
}

func (c *LiveKitConnector) Connect(ctx context.Context, room string, onChat func(sender, text string)) (Room, error) {
	cb := lksdk.NewRoomCallback()
	cb.ParticipantCallback.OnDataPacket = func(data lksdk.DataPacket, params lksdk.DataReceiveParams) {
		pkt, ok := data.(*lksdk.UserDataPacket)
		if !ok || pkt.Topic != ChatTopic {
			return
		}
		var msg ChatMessage
		if err := json.Unmarshal(pkt.Payload, &msg); err != nil {
			slog.Debug("ignoring malformed chat packet", "room", room, "error", err)
			return
		}
		if msg.Message == "" {
			return
		}
		onChat(params.SenderIdentity, msg.Message)
	}

	r, err := lksdk.ConnectToRoom(c.cfg.URL, lksdk.ConnectInfo{
		APIKey:              c.cfg.APIKey,
		APISecret:           c.cfg.APISecret,
		RoomName:            room,
		ParticipantIdentity: "agent-" + uuid.NewString(),
		ParticipantName:     c.agentName,
		ParticipantKind:     lksdk.ParticipantAgent,
	}, cb, lksdk.WithAutoSubscribe(true))
	if err != nil {
		return nil, fmt.Errorf("joining room %s: %w", room, err)
	}
	return &liveKitRoom{room: r}, nil
}

type liveKitRoom struct {
	room *lksdk.Room
}

func (r *liveKitRoom) Name() string     { return r.room.Name() }
func (r *liveKitRoom) Metadata() string { return r.room.Metadata() }
func (r *liveKitRoom) Disconnect()      { r.room.Disconnect() }

func (r *liveKitRoom) PublishChat(text string) error {
	payload, err := json.Marshal(ChatMessage{Message: text, Timestamp: time.Now().UnixMilli()})
	if err != nil {
		return err
	}
	return r.room.LocalParticipant.PublishDataPacket(
		lksdk.UserData(payload),
		lksdk.WithDataPublishReliable(true),
		lksdk.WithDataPublishTopic(ChatTopic),
	)
}
