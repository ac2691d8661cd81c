// Package logger provides a convenience function to constructing a logger
// for use. This is required not just for applications but for testing.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/lmittmann/tint"
	"github.com/rschio/pawnshop/internal/web"
)

// New constructs a slog Logger that writes JSON records to stdout. In the
// DEV environment records are colored text instead.
func New(service string, env string) *slog.Logger {
	return NewWithWriter(os.Stdout, service, env)
}

// NewWithWriter is New with a custom destination.
func NewWithWriter(w io.Writer, service string, env string) *slog.Logger {
	var h slog.Handler
	switch env {
	case "DEV":
		h = tint.NewHandler(w, &tint.Options{
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
	default:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: true})
	}

	return slog.New(withTraceID{Handler: h}).With("service", service)
}

type withTraceID struct {
	slog.Handler
}

func (h withTraceID) Handle(ctx context.Context, r slog.Record) error {
	r.Add("trace_id", web.GetTraceID(ctx))

	return h.Handler.Handle(ctx, r)
}

func (h withTraceID) WithAttrs(attrs []slog.Attr) slog.Handler {
	return withTraceID{Handler: h.Handler.WithAttrs(attrs)}
}

func (h withTraceID) WithGroup(name string) slog.Handler {
	return withTraceID{Handler: h.Handler.WithGroup(name)}
}

// InfocCtx logs at info level reporting the source of the caller frames
// above it instead of its own.
func InfocCtx(ctx context.Context, log *slog.Logger, caller int, msg string, args ...any) {
	if !log.Enabled(ctx, slog.LevelInfo) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(caller, pcs[:]) // skip [Callers, InfocCtx]

	r := slog.NewRecord(time.Now(), slog.LevelInfo, msg, pcs[0])
	r.Add(args...)

	log.Handler().Handle(ctx, r)
}
