package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

var (
	log     = zerolog.New(os.Stdout).With().Timestamp().Logger()
	logFile *os.File
)

// InitLogging sends log output to stdout and, when filePath is set, to that file too.
// A file opened by an earlier call is closed first.
func InitLogging(filePath string) {
	_ = Close()
	writers := []io.Writer{os.Stdout}
	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open log file %s: %v\n", filePath, err)
		} else {
			logFile = f
			writers = append(writers, f)
		}
	}
	SetOutput(zerolog.MultiLevelWriter(writers...))
}

// Close closes the log file opened by InitLogging, if any, and keeps logging to stdout.
func Close() error {
	if logFile == nil {
		return nil
	}
	f := logFile
	logFile = nil
	SetOutput(os.Stdout)
	return f.Close()
}

// SetOutput replaces the destination of every log entry.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel accepts zerolog level names; unknown names fall back to info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// WithRequestID returns a context whose log entries carry the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// Logger exposes the underlying zerolog logger, enriched with the request id from ctx.
func Logger(ctx context.Context) *zerolog.Logger {
	l := log
	if ctx != nil {
		if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
			l = l.With().Str("request_id", id).Logger()
		}
	}
	return &l
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	Logger(ctx).Debug().Msgf(format, args...)
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	Logger(ctx).Info().Msgf(format, args...)
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	Logger(ctx).Warn().Msgf(format, args...)
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	Logger(ctx).Error().Msgf(format, args...)
}
