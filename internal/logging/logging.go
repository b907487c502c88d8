package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/xerrors"
)

// New builds the JSON logger shared by the binaries. The level comes from
// GO_LOG and falls back to defaultLevel; debug switches to the text handler.
func New(w io.Writer, defaultLevel slog.Level, debug bool) (*slog.Logger, error) {
	logLevel := defaultLevel
	if v, ok := os.LookupEnv("GO_LOG"); ok {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, xerrors.Errorf("failed to parse log level: %w", err)
		}
	}
	handlerOpts := &slog.HandlerOptions{
		Level: logLevel,
		// https://opentelemetry.io/docs/specs/otel/logs/data-model/
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.LevelKey:
				a.Key = "severitytext"
			case slog.MessageKey:
				a.Key = "body"
			}
			return a
		},
	}

	if debug {
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
}
