package logger

import (
	"log/slog"
	"os"
	"strings"
)

var level slog.LevelVar

// Init installs a JSON slog handler on stderr as the default logger.
// LOG_LEVEL selects debug, info, warn or error; anything else means info.
func Init() {
	level.Set(ParseLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: &level,
	})))
}

// SetLevel changes the level of the logger installed by Init. An empty s
// leaves it unchanged.
func SetLevel(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	level.Set(ParseLevel(s))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
