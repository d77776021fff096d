package app

import (
	"io"
	"log/slog"
)

// handlers maps a Config.LogFormat to its slog handler. An empty or unknown
// format falls back to text.
var handlers = map[string]func(io.Writer, *slog.HandlerOptions) slog.Handler{
	"json": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) },
	"text": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) },
}

// newLogger builds the compiler's root logger from cfg. It is never installed
// as the global logger; App.Context hands it to the passes, which scope it
// per application with ctxlog.With.
func newLogger(cfg *Config, outW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			level = slog.LevelInfo
		}
	}

	newHandler, ok := handlers[cfg.LogFormat]
	if !ok {
		newHandler = handlers["text"]
	}
	return slog.New(newHandler(outW, &slog.HandlerOptions{Level: level}))
}
