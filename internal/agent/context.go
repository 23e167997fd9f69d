package agent

import "context"

type contextKey int

const (
	sessionIDKey contextKey = iota
	roomKey
)

func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRoom(ctx context.Context, room string) context.Context {
	return context.WithValue(ctx, roomKey, room)
}

func RoomFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(roomKey).(string); ok {
		return v
	}
	return ""
}
