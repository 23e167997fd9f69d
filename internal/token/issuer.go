// Package token mints room access tokens for browser participants.
package token

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"leadvoice/internal/agent"
	"leadvoice/internal/config"
	"leadvoice/internal/metrics"

	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 6 * time.Hour

var ErrCredentialsMissing = errors.New("LiveKit credentials not configured")

// RoomCreator creates rooms ahead of the first join. *lksdk.RoomServiceClient
// satisfies it.
type RoomCreator interface {
	CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
}

type Request struct {
	AgentID  string `json:"agentId"`
	Language string `json:"language"`
	Voice    string `json:"voice"`
	UserName string `json:"userName"`
}

type Grant struct {
	Token      string `json:"token"`
	RoomName   string `json:"roomName"`
	LiveKitURL string `json:"livekitUrl"`
	AgentID    string `json:"agentId"`
}

type Option func(*Issuer)

// WithRoomCreator makes the issuer create each room with agent metadata
// before handing out the token.
func WithRoomCreator(rc RoomCreator) Option {
	return func(i *Issuer) { i.rooms = rc }
}

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(i *Issuer) { i.metrics = c }
}

type Issuer struct {
	apiKey    string
	apiSecret string
	url       string
	ttl       time.Duration
	rooms     RoomCreator
	now       func() time.Time
	metrics   *metrics.Collector
}

func NewIssuer(cfg config.LiveKitConfig, opts ...Option) *Issuer {
	i := &Issuer{
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		url:       cfg.URL,
		ttl:       DefaultTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// RoomName builds the unique room name for a test call:
// "test-{agentID}-{unix seconds}".
func RoomName(agentID string, at time.Time) string {
	return "test-" + agentID + "-" + strconv.FormatInt(at.Unix(), 10)
}

// Issue creates a fresh room name for req.AgentID and signs a token that lets
// req.UserName join, publish and subscribe in exactly that room.
func (i *Issuer) Issue(ctx context.Context, req Request) (Grant, error) {
	grant, err := i.issue(ctx, req)
	i.metrics.TokenIssued(err == nil)
	return grant, err
}

func (i *Issuer) issue(ctx context.Context, req Request) (Grant, error) {
	now := i.now()
	agentID := agent.NormalizeID(req.AgentID)
	userName := req.UserName
	if userName == "" {
		userName = "Tester-" + strconv.FormatInt(now.Unix(), 10)
	}
	roomName := RoomName(agentID, now)

	if i.apiKey == "" || i.apiSecret == "" {
		return Grant{}, ErrCredentialsMissing
	}

	videoGrant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     roomName,
	}
	videoGrant.SetCanPublish(true)
	videoGrant.SetCanSubscribe(true)

	at := auth.NewAccessToken(i.apiKey, i.apiSecret)
	at.SetVideoGrant(videoGrant).
		SetIdentity(userName).
		SetName(userName).
		SetValidFor(i.ttl)

	jwt, err := at.ToJWT()
	if err != nil {
		return Grant{}, fmt.Errorf("signing token: %w", err)
	}

	if i.rooms != nil {
		md := agent.RoomMetadata{AgentID: agentID, Language: req.Language, Voice: req.Voice}
		if _, err := i.rooms.CreateRoom(ctx, &livekit.CreateRoomRequest{
			Name:     roomName,
			Metadata: md.String(),
		}); err != nil {
			slog.Warn("room pre-creation failed", "room", roomName, "error", err)
		}
	}

	slog.Info("token issued", "room", roomName, "agent_id", agentID, "identity", userName)
	return Grant{
		Token:      jwt,
		RoomName:   roomName,
		LiveKitURL: i.url,
		AgentID:    agentID,
	}, nil
}
