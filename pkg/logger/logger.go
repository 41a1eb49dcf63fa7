// backend-go/pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Configure(os.Stdout, "console", zerolog.InfoLevel)
}

// Configure replaces Log and the zerolog/log global with a logger writing to
// out. format "json" emits one JSON object per line; anything else uses the
// colored console writer.
func Configure(out io.Writer, format string, level zerolog.Level) {
	if !strings.EqualFold(strings.TrimSpace(format), "json") {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	Log = zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
	log.Logger = Log
}

// Setup applies the configured level and format to both loggers.
func Setup(levelStr, format string) {
	Configure(os.Stdout, format, parseLevel(levelStr))
	zerolog.SetGlobalLevel(Log.GetLevel())
}

// SetLevel sets the log level
func SetLevel(levelStr string) {
	level := parseLevel(levelStr)
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
	log.Logger = Log
}

func parseLevel(levelStr string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelStr)))
	if err != nil || levelStr == "" {
		if levelStr != "" {
			Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		}
		return zerolog.InfoLevel
	}
	return level
}
